package studio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path"
	"slices"
	"strings"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/language"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/storage"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotReady     = errors.New("job is not ready")
	ErrUnavailable  = errors.New("service unavailable")
)

var DefaultExtensions = []string{
	".docx",
	".pdf",
	".epub",
	".txt",
	".md",
}

// Scheduler accepts tasks for asynchronous execution.
type Scheduler interface {
	Submit(task pipeline.Task) error
}

// Studio accepts translation requests and exposes their status and
// artifacts.
type Studio struct {
	store     *job.Store
	files     *storage.FileStore
	scheduler Scheduler

	languages  []string
	formats    []string
	extensions []string
}

type Option func(*Studio)

// WithLanguages limits the accepted target languages.
func WithLanguages(languages []string) Option {
	return func(s *Studio) {
		if len(languages) > 0 {
			s.languages = language.Parse(strings.Join(languages, ","), nil)
		}
	}
}

func WithFormats(formats []string) Option {
	return func(s *Studio) {
		s.formats = normalize(formats)
	}
}

func WithExtensions(extensions []string) Option {
	return func(s *Studio) {
		s.extensions = normalize(extensions)
	}
}

func New(store *job.Store, files *storage.FileStore, scheduler Scheduler, options ...Option) (*Studio, error) {
	if store == nil || files == nil || scheduler == nil {
		return nil, errors.New("studio: store, files and scheduler are required")
	}

	s := &Studio{
		store:     store,
		files:     files,
		scheduler: scheduler,

		extensions: DefaultExtensions,
	}

	for _, l := range language.Supported {
		s.languages = append(s.languages, l.Name)
	}

	for _, option := range options {
		option(s)
	}

	if len(s.formats) == 0 {
		return nil, errors.New("studio: no output formats configured")
	}

	return s, nil
}

func (s *Studio) Languages() []string {
	return slices.Clone(s.languages)
}

func (s *Studio) Formats() []string {
	return slices.Clone(s.formats)
}

func (s *Studio) Extensions() []string {
	return slices.Clone(s.extensions)
}

type File struct {
	Name        string
	ContentType string

	Reader io.Reader
}

type SubmitRequest struct {
	File File

	Languages []string
	Formats   []string
}

// Submit validates the request, stores the upload and schedules the job.
// It returns the queued record without waiting for any processing.
func (s *Studio) Submit(ctx context.Context, req SubmitRequest) (*job.Job, error) {
	ext := strings.ToLower(path.Ext(req.File.Name))

	if req.File.Reader == nil || req.File.Name == "" {
		return nil, fmt.Errorf("%w: missing file", ErrInvalidInput)
	}

	if !slices.Contains(s.extensions, ext) {
		return nil, fmt.Errorf("%w: unsupported input format %q", ErrInvalidInput, ext)
	}

	languages := language.Parse(strings.Join(req.Languages, ","), s.languages)
	formats := filter(normalize(req.Formats), s.formats)

	if len(languages) == 0 {
		return nil, fmt.Errorf("%w: no supported target language", ErrInvalidInput)
	}

	if len(formats) == 0 {
		return nil, fmt.Errorf("%w: no supported output format", ErrInvalidInput)
	}

	id := uuid.NewString()

	handle, err := s.files.Upload(ctx, storage.InputKey(id, ext), path.Base(req.File.Name), req.File.ContentType, req.File.Reader)

	if err != nil {
		return nil, fmt.Errorf("failed to store upload: %w", err)
	}

	record := job.New(id, handle.Name, languages, formats)
	s.store.Put(record)

	task := pipeline.Task{
		JobID: id,

		Filename:    handle.Name,
		ContentType: handle.ContentType,

		Source: handle,

		Languages: languages,
		Formats:   formats,
	}

	if err := s.scheduler.Submit(task); err != nil {
		if _, uerr := s.store.Update(id, func(j *job.Job) {
			j.Status = job.StatusFailed
			j.Message = err.Error()
			j.Error = true
		}); uerr != nil {
			slog.WarnContext(ctx, "failed to record job failure", "job", id, "error", uerr)
		}

		if err := handle.Release(); err != nil {
			slog.WarnContext(ctx, "failed to release source", "job", id, "error", err)
		}

		return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
	}

	slog.InfoContext(ctx, "job accepted", "job", id, "file", handle.Name, "languages", languages, "formats", formats)

	return &record, nil
}

// Job returns a snapshot of the job record.
func (s *Studio) Job(id string) (*job.Job, error) {
	j, err := s.store.Get(id)

	if err != nil {
		return nil, err
	}

	return &j, nil
}

// Artifact returns the rendered output of a completed job.
func (s *Studio) Artifact(id, lang, format string) (*storage.Object, error) {
	j, err := s.store.Get(id)

	if err != nil {
		return nil, err
	}

	if !j.Ready() {
		return nil, ErrNotReady
	}

	l, ok := language.Lookup(lang)

	if !ok || !slices.Contains(j.Languages, l.Name) {
		return nil, storage.ErrNotFound
	}

	format = strings.ToLower(strings.TrimSpace(format))

	if !slices.Contains(j.Formats, format) {
		return nil, storage.ErrNotFound
	}

	return s.files.Stat(storage.ArtifactKey(j.ID, l.Name, format))
}

// Open returns the content of an artifact returned by Artifact.
func (s *Studio) Open(obj *storage.Object) (io.ReadCloser, error) {
	return s.files.Open(obj.Key)
}

// PurgeArtifacts returns an eviction handler that deletes the rendered
// outputs of a job that left the store.
func PurgeArtifacts(files *storage.FileStore) func(job.Job) {
	return func(j job.Job) {
		for _, lang := range j.Languages {
			for _, format := range j.Formats {
				key := storage.ArtifactKey(j.ID, lang, format)

				if err := files.Delete(key); err != nil {
					slog.Warn("failed to delete artifact", "job", j.ID, "key", key, "error", err)
				}
			}
		}

		slog.Info("job evicted", "job", j.ID)
	}
}

func normalize(values []string) []string {
	var result []string

	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			part = strings.ToLower(strings.TrimSpace(part))

			if part == "" || slices.Contains(result, part) {
				continue
			}

			result = append(result, part)
		}
	}

	return result
}

func filter(values, allowed []string) []string {
	var result []string

	for _, v := range values {
		if slices.Contains(allowed, v) {
			result = append(result, v)
		}
	}

	return result
}
