package pipeline

import (
	"context"
	"fmt"
	"io"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/extractor"
	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/language"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/translator"
)

const (
	progressExtracting  = 5
	progressTranslating = 10
	progressExporting   = 80
	progressCompleted   = 100

	translateBand = progressExporting - progressTranslating
	exportBand    = progressCompleted - 1 - progressExporting
)

type stage func(e *Engine, ctx context.Context, r *run) (job.Status, error)

var stages = map[job.Status]stage{
	job.StatusQueued:      (*Engine).start,
	job.StatusExtracting:  (*Engine).extract,
	job.StatusTranslating: (*Engine).translate,
	job.StatusExporting:   (*Engine).export,
}

func (e *Engine) start(ctx context.Context, r *run) (job.Status, error) {
	r.logger.InfoContext(ctx, "job started", "languages", r.task.Languages, "formats", r.task.Formats)

	err := e.update(r, func(j *job.Job) {
		j.Status = job.StatusExtracting
		j.Progress = progressExtracting
		j.Message = "Extracting content and structure..."
	})

	return job.StatusExtracting, err
}

func (e *Engine) extract(ctx context.Context, r *run) (job.Status, error) {
	data, err := readSource(r.task.Source)

	if err != nil {
		return job.StatusFailed, fmt.Errorf("failed to read document: %w", err)
	}

	file := extractor.File{
		Name:        r.task.Filename,
		Content:     data,
		ContentType: r.task.ContentType,
	}

	result, err := e.extractor.Extract(ctx, file, nil)

	if err != nil {
		return job.StatusFailed, fmt.Errorf("failed to extract document: %w", err)
	}

	if result == nil || len(result.Blocks) == 0 {
		return job.StatusFailed, ErrEmptyDocument
	}

	r.blocks = result.Blocks

	r.logger.InfoContext(ctx, "document extracted", "blocks", len(r.blocks))

	err = e.update(r, func(j *job.Job) {
		j.Status = job.StatusTranslating
		j.Progress = progressTranslating
	})

	return job.StatusTranslating, err
}

func (e *Engine) translate(ctx context.Context, r *run) (job.Status, error) {
	languages := r.task.Languages
	count := len(r.blocks)

	for li, lang := range languages {
		message := "Translating to " + language.Title(lang) + "..."

		if err := e.update(r, func(j *job.Job) {
			j.Message = message
		}); err != nil {
			return job.StatusFailed, err
		}

		blocks := make([]document.Block, 0, count)

		for bi, block := range r.blocks {
			translated := block.WithText("")

			if text := document.Clean(block.Text); text != "" {
				result, err := e.translator.Translate(ctx, text, &translator.TranslateOptions{
					Language: lang,
				})

				if err != nil {
					return job.StatusFailed, fmt.Errorf("failed to translate to %s: %w", language.Title(lang), err)
				}

				translated = block.WithText(result)
			}

			blocks = append(blocks, translated)

			progress := translationProgress(li, bi+1, count, len(languages))

			if err := e.update(r, func(j *job.Job) {
				j.Progress = progress
			}); err != nil {
				return job.StatusFailed, err
			}
		}

		r.translations = append(r.translations, translation{
			language: lang,
			blocks:   blocks,
		})

		r.logger.InfoContext(ctx, "language translated", "language", lang)
	}

	err := e.update(r, func(j *job.Job) {
		j.Status = job.StatusExporting
		j.Progress = progressExporting
		j.Message = "Generating final files..."
	})

	return job.StatusExporting, err
}

func (e *Engine) export(ctx context.Context, r *run) (job.Status, error) {
	total := len(r.translations) * len(r.task.Formats)
	done := 0

	for _, t := range r.translations {
		for _, format := range r.task.Formats {
			p, ok := e.exporters[format]

			if !ok {
				return job.StatusFailed, fmt.Errorf("failed to export %s %s: %w", language.Title(t.language), format, exporter.ErrUnsupported)
			}

			key := storage.ArtifactKey(r.task.JobID, t.language, format)

			_, err := e.artifacts.Put(ctx, key, func(w io.Writer) error {
				return p.Export(ctx, w, t.blocks, &exporter.ExportOptions{
					Language: t.language,
				})
			})

			if err != nil {
				return job.StatusFailed, fmt.Errorf("failed to export %s %s: %w", language.Title(t.language), format, err)
			}

			done++

			r.logger.InfoContext(ctx, "artifact written", "language", t.language, "format", format, "key", key)

			progress := progressExporting + done*exportBand/total

			if err := e.update(r, func(j *job.Job) {
				j.Progress = progress
			}); err != nil {
				return job.StatusFailed, err
			}
		}
	}

	err := e.update(r, func(j *job.Job) {
		j.Status = job.StatusCompleted
		j.Progress = progressCompleted
		j.Message = "All translations generated successfully."
		j.Complete = true
	})

	if err == nil {
		r.logger.InfoContext(ctx, "job completed")
	}

	return job.StatusCompleted, err
}

// translationProgress maps the position within the translation stage onto
// the reserved band: languages done plus the fraction of the current one.
func translationProgress(languageIndex, blocksDone, blockCount, languageCount int) int {
	if blockCount == 0 || languageCount == 0 {
		return progressTranslating
	}

	fraction := (float64(languageIndex) + float64(blocksDone)/float64(blockCount)) / float64(languageCount)

	return progressTranslating + int(fraction*translateBand)
}
