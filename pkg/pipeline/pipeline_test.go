package pipeline_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/extractor"
	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/translator"

	docxexporter "github.com/adrianliechti/studio/pkg/exporter/docx"
	textexporter "github.com/adrianliechti/studio/pkg/exporter/text"
	textextractor "github.com/adrianliechti/studio/pkg/extractor/text"

	"github.com/stretchr/testify/require"
)

type memSource struct {
	mu sync.Mutex

	data       []byte
	releaseErr error

	releases int
}

func (s *memSource) Open() (io.ReadCloser, error) {
	return io.NopCloser(bytes.NewReader(s.data)), nil
}

func (s *memSource) Release() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.releases++
	return s.releaseErr
}

type staticExtractor struct {
	blocks []document.Block
	err    error
}

func (e *staticExtractor) Extract(ctx context.Context, file extractor.File, options *extractor.ExtractOptions) (*extractor.Document, error) {
	if e.err != nil {
		return nil, e.err
	}

	return &extractor.Document{Blocks: e.blocks}, nil
}

type fakeTranslator struct {
	mu sync.Mutex

	inputs []string
	calls  int

	failAt int
	err    error
	panic  bool
}

func (t *fakeTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.calls++
	t.inputs = append(t.inputs, text)

	if t.panic {
		panic("translator exploded")
	}

	if t.failAt > 0 && t.calls == t.failAt {
		return "", t.err
	}

	return "[" + options.Language + "] " + text, nil
}

type failingExporter struct {
	exporter.Provider

	language string
}

func (e *failingExporter) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	if options.Language == e.language {
		io.WriteString(w, "partial")
		return errors.New("renderer crashed")
	}

	return e.Provider.Export(ctx, w, blocks, options)
}

type harness struct {
	store *job.Store
	files *storage.FileStore

	mu      sync.Mutex
	history []job.Job
}

func newHarness(t *testing.T) *harness {
	files, err := storage.NewFileStore(t.TempDir())
	require.NoError(t, err)

	return &harness{
		store: job.NewStore(),
		files: files,
	}
}

func (h *harness) observe(j job.Job) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.history = append(h.history, j)
}

func (h *harness) engine(t *testing.T, x extractor.Provider, tr translator.Provider, exporters map[string]exporter.Provider) *pipeline.Engine {
	e, err := pipeline.New(h.store, h.files, x, tr, exporters, pipeline.WithObserver(h.observe))
	require.NoError(t, err)

	return e
}

func (h *harness) submit(id string, src pipeline.Source, filename string, languages, formats []string) pipeline.Task {
	h.store.Put(job.New(id, filename, languages, formats))

	return pipeline.Task{
		JobID:    id,
		Filename: filename,
		Source:   src,

		Languages: languages,
		Formats:   formats,
	}
}

func (h *harness) statuses() []job.Status {
	h.mu.Lock()
	defer h.mu.Unlock()

	var result []job.Status

	for _, j := range h.history {
		if len(result) == 0 || result[len(result)-1] != j.Status {
			result = append(result, j.Status)
		}
	}

	return result
}

func (h *harness) requireMonotonic(t *testing.T) {
	h.mu.Lock()
	defer h.mu.Unlock()

	last := 0

	for _, j := range h.history {
		require.GreaterOrEqual(t, j.Progress, last)
		require.LessOrEqual(t, j.Progress, 100)

		last = j.Progress
	}
}

func defaultExporters() map[string]exporter.Provider {
	d, _ := docxexporter.New()
	t, _ := textexporter.New()

	return map[string]exporter.Provider{
		"docx": d,
		"txt":  t,
	}
}

func TestRunCompletes(t *testing.T) {
	h := newHarness(t)

	x, _ := textextractor.New()
	tr := &fakeTranslator{}

	src := &memSource{data: []byte("First paragraph.\nSecond paragraph.\nThird paragraph.\n")}
	task := h.submit("job-1", src, "notes.txt", []string{"spanish"}, []string{"docx"})

	result := h.engine(t, x, tr, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusCompleted, result.Status)
	require.Equal(t, 100, result.Progress)
	require.True(t, result.Complete)
	require.False(t, result.Error)
	require.Equal(t, "All translations generated successfully.", result.Message)

	require.Equal(t, []job.Status{
		job.StatusExtracting,
		job.StatusTranslating,
		job.StatusExporting,
		job.StatusCompleted,
	}, h.statuses())

	h.requireMonotonic(t)

	require.Equal(t, 3, tr.calls)
	require.True(t, h.files.Exists(storage.ArtifactKey("job-1", "spanish", "docx")))
	require.Equal(t, 1, src.releases)
}

func TestRunTranslatedContent(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{
		{Text: "Title", Style: "Heading 1"},
		{Text: "", Style: "Quote"},
		{Text: "Body", Style: "Normal"},
	}}

	tr := &fakeTranslator{}

	task := h.submit("job-content", &memSource{}, "doc.docx", []string{"german"}, []string{"txt"})

	result := h.engine(t, x, tr, defaultExporters()).Run(context.Background(), task)
	require.Equal(t, job.StatusCompleted, result.Status)

	require.Equal(t, []string{"Title", "Body"}, tr.inputs)

	rc, err := h.files.Open(storage.ArtifactKey("job-content", "german", "txt"))
	require.NoError(t, err)
	defer rc.Close()

	data, _ := io.ReadAll(rc)
	require.Equal(t, "[german] Title\n\n\n\n[german] Body\n", string(data))
}

func TestRunEmptyBlocksKeepStyle(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{
		{Text: " \u200b ", Style: "Heading 2"},
		{Text: "Body", Style: "Normal"},
	}}

	tr := &fakeTranslator{}

	var exported []document.Block

	capture := exporterFunc(func(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
		exported = blocks
		return nil
	})

	task := h.submit("job-empty-block", &memSource{}, "doc.docx", []string{"french"}, []string{"txt"})

	result := h.engine(t, x, tr, map[string]exporter.Provider{"txt": capture}).Run(context.Background(), task)
	require.Equal(t, job.StatusCompleted, result.Status)

	require.Equal(t, []string{"Body"}, tr.inputs)
	require.Equal(t, []document.Block{
		{Text: "", Style: "Heading 2"},
		{Text: "[french] Body", Style: "Normal"},
	}, exported)
}

func TestRunEmptyDocument(t *testing.T) {
	h := newHarness(t)

	tr := &fakeTranslator{}
	src := &memSource{}

	task := h.submit("job-empty", src, "blank.txt", []string{"spanish"}, []string{"docx"})

	result := h.engine(t, &staticExtractor{}, tr, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.True(t, result.Error)
	require.True(t, result.Complete)
	require.Contains(t, result.Message, "empty or unreadable")
	require.Equal(t, 5, result.Progress)

	require.NotContains(t, h.statuses(), job.StatusTranslating)
	require.Zero(t, tr.calls)
	require.Equal(t, 1, src.releases)
}

func TestRunExtractionError(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{err: errors.New("invalid docx file: zip: not a valid zip file")}
	src := &memSource{}

	task := h.submit("job-corrupt", src, "broken.docx", []string{"spanish"}, []string{"docx"})

	result := h.engine(t, x, &fakeTranslator{}, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.Contains(t, result.Message, "not a valid zip file")
	require.Equal(t, 1, src.releases)
}

func TestRunTranslationErrorAbortsJob(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{
		{Text: "One", Style: "Normal"},
		{Text: "Two", Style: "Normal"},
	}}

	// the first language succeeds, the second fails on its second paragraph
	tr := &fakeTranslator{failAt: 4, err: errors.New("connection reset by peer")}
	src := &memSource{}

	task := h.submit("job-net", src, "doc.txt", []string{"spanish", "german"}, []string{"docx", "txt"})

	result := h.engine(t, x, tr, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.True(t, result.Error)
	require.Contains(t, result.Message, "connection reset by peer")
	require.Less(t, result.Progress, 80)
	require.NotContains(t, h.statuses(), job.StatusExporting)

	for _, lang := range []string{"spanish", "german"} {
		for _, format := range []string{"docx", "txt"} {
			require.False(t, h.files.Exists(storage.ArtifactKey("job-net", lang, format)), lang+" "+format)
		}
	}

	require.Equal(t, 1, src.releases)
	h.requireMonotonic(t)
}

func TestRunExportErrorKeepsEarlierArtifacts(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{{Text: "Hello", Style: "Normal"}}}

	exporters := defaultExporters()
	exporters["txt"] = &failingExporter{Provider: exporters["txt"], language: "german"}

	task := h.submit("job-export", &memSource{}, "doc.txt", []string{"spanish", "german"}, []string{"docx", "txt"})

	result := h.engine(t, x, &fakeTranslator{}, exporters).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.Contains(t, result.Message, "renderer crashed")
	require.GreaterOrEqual(t, result.Progress, 80)
	require.Less(t, result.Progress, 100)

	require.True(t, h.files.Exists(storage.ArtifactKey("job-export", "spanish", "docx")))
	require.True(t, h.files.Exists(storage.ArtifactKey("job-export", "spanish", "txt")))
	require.True(t, h.files.Exists(storage.ArtifactKey("job-export", "german", "docx")))
	require.False(t, h.files.Exists(storage.ArtifactKey("job-export", "german", "txt")))
}

func TestRunUnknownFormat(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{{Text: "Hello", Style: "Normal"}}}

	task := h.submit("job-format", &memSource{}, "doc.txt", []string{"spanish"}, []string{"odt"})

	result := h.engine(t, x, &fakeTranslator{}, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.True(t, strings.Contains(result.Message, exporter.ErrUnsupported.Error()))
}

func TestRunReleaseErrorDoesNotChangeOutcome(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{{Text: "Hello", Style: "Normal"}}}
	src := &memSource{releaseErr: errors.New("permission denied")}

	task := h.submit("job-release", src, "doc.txt", []string{"spanish"}, []string{"txt"})

	result := h.engine(t, x, &fakeTranslator{}, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusCompleted, result.Status)
	require.False(t, result.Error)
	require.Equal(t, 1, src.releases)
}

func TestRunRecoversFromPanic(t *testing.T) {
	h := newHarness(t)

	x := &staticExtractor{blocks: []document.Block{{Text: "Hello", Style: "Normal"}}}
	src := &memSource{}

	task := h.submit("job-panic", src, "doc.txt", []string{"spanish"}, []string{"txt"})

	result := h.engine(t, x, &fakeTranslator{panic: true}, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.Contains(t, result.Message, "translator exploded")
	require.Equal(t, 1, src.releases)
}

func TestRunSkipsFailedRecord(t *testing.T) {
	h := newHarness(t)

	tr := &fakeTranslator{}
	src := &memSource{}

	task := h.submit("job-failed", src, "doc.txt", []string{"spanish"}, []string{"txt"})

	_, err := h.store.Update("job-failed", func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Message = "upload rejected"
		j.Error = true
	})
	require.NoError(t, err)

	x := &staticExtractor{blocks: []document.Block{{Text: "Hello", Style: "Normal"}}}

	result := h.engine(t, x, tr, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, job.StatusFailed, result.Status)
	require.Equal(t, "upload rejected", result.Message)
	require.Zero(t, tr.calls)
	require.Equal(t, 1, src.releases)
}

func TestFail(t *testing.T) {
	h := newHarness(t)

	src := &memSource{}
	task := h.submit("job-discarded", src, "doc.txt", []string{"spanish"}, []string{"txt"})

	e := h.engine(t, &staticExtractor{}, &fakeTranslator{}, defaultExporters())
	e.Fail(context.Background(), task, errors.New("server shutting down"))

	result, err := h.store.Get("job-discarded")
	require.NoError(t, err)

	require.Equal(t, job.StatusFailed, result.Status)
	require.True(t, result.Complete)
	require.Equal(t, "server shutting down", result.Message)
	require.Equal(t, 1, src.releases)
}

func TestTranslationProgressBand(t *testing.T) {
	h := newHarness(t)

	blocks := make([]document.Block, 4)

	for i := range blocks {
		blocks[i] = document.NewBlock("paragraph", "Normal")
	}

	task := h.submit("job-progress", &memSource{}, "doc.txt", []string{"spanish", "german"}, []string{"txt"})

	result := h.engine(t, &staticExtractor{blocks: blocks}, &fakeTranslator{}, defaultExporters()).Run(context.Background(), task)
	require.Equal(t, job.StatusCompleted, result.Status)

	h.mu.Lock()
	defer h.mu.Unlock()

	var progress []int

	for _, j := range h.history {
		if j.Status == job.StatusTranslating {
			progress = append(progress, j.Progress)
		}
	}

	require.Contains(t, progress, 10)
	require.Contains(t, progress, 45)
	require.Contains(t, progress, 80)

	for _, p := range progress {
		require.GreaterOrEqual(t, p, 10)
		require.LessOrEqual(t, p, 80)
	}
}

func TestNewRequiresCapabilities(t *testing.T) {
	files, _ := storage.NewFileStore(t.TempDir())

	_, err := pipeline.New(job.NewStore(), files, nil, &fakeTranslator{}, nil)
	require.Error(t, err)

	_, err = pipeline.New(job.NewStore(), files, &staticExtractor{}, nil, nil)
	require.Error(t, err)
}

func TestFormats(t *testing.T) {
	h := newHarness(t)

	e := h.engine(t, &staticExtractor{}, &fakeTranslator{}, defaultExporters())

	require.Equal(t, []string{"docx", "txt"}, e.Formats())
	require.True(t, e.Supports("docx"))
	require.False(t, e.Supports("pdf"))
}

type exporterFunc func(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error

func (f exporterFunc) Export(ctx context.Context, w io.Writer, blocks []document.Block, options *exporter.ExportOptions) error {
	return f(ctx, w, blocks, options)
}

type slowTranslator struct {
	delay time.Duration
}

func (t *slowTranslator) Translate(ctx context.Context, text string, options *translator.TranslateOptions) (string, error) {
	time.Sleep(t.delay)
	return strings.ToUpper(text), nil
}

func TestRunOutlivesRetention(t *testing.T) {
	h := newHarness(t)
	h.store = job.NewStore(job.WithRetention(100 * time.Millisecond))

	x, _ := textextractor.New()

	src := &memSource{data: []byte("hello world\n")}
	task := h.submit("job-slow", src, "notes.txt", []string{"spanish"}, []string{"txt"})

	result := h.engine(t, x, &slowTranslator{delay: 300 * time.Millisecond}, defaultExporters()).Run(context.Background(), task)

	require.Equal(t, "job-slow", result.ID)
	require.Equal(t, job.StatusCompleted, result.Status)
	require.True(t, result.Complete)
	require.Equal(t, 1, src.releases)

	require.True(t, h.files.Exists(storage.ArtifactKey("job-slow", "spanish", "txt")))
}
