package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/adrianliechti/studio/pkg/document"
	"github.com/adrianliechti/studio/pkg/exporter"
	"github.com/adrianliechti/studio/pkg/extractor"
	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/otel"
	"github.com/adrianliechti/studio/pkg/storage"
	"github.com/adrianliechti/studio/pkg/translator"
)

var (
	ErrEmptyDocument = errors.New("document appears to be empty or unreadable")
)

// Source is the uploaded document a job reads from. The engine releases it
// once the job reached a terminal state.
type Source interface {
	Open() (io.ReadCloser, error)
	Release() error
}

// Artifacts persists rendered outputs. Put must not leave a partial object
// behind when fn fails.
type Artifacts interface {
	Put(ctx context.Context, key string, fn func(w io.Writer) error) (*storage.Object, error)
}

// Task describes one accepted job.
type Task struct {
	JobID string

	Filename    string
	ContentType string

	Source Source

	Languages []string
	Formats   []string
}

// Engine drives a job through extraction, translation and export.
type Engine struct {
	store     *job.Store
	artifacts Artifacts

	extractor  extractor.Provider
	translator translator.Provider
	exporters  map[string]exporter.Provider

	metrics  *otel.JobMetrics
	observer func(job.Job)
}

type Option func(*Engine)

// WithObserver registers fn to receive a copy of the record after every
// change the engine makes.
func WithObserver(fn func(job.Job)) Option {
	return func(e *Engine) {
		e.observer = fn
	}
}

func WithMetrics(m *otel.JobMetrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func New(store *job.Store, artifacts Artifacts, extractor extractor.Provider, translator translator.Provider, exporters map[string]exporter.Provider, options ...Option) (*Engine, error) {
	if store == nil {
		return nil, errors.New("missing job store")
	}

	if artifacts == nil {
		return nil, errors.New("missing artifact storage")
	}

	if extractor == nil {
		return nil, errors.New("missing extractor")
	}

	if translator == nil {
		return nil, errors.New("missing translator")
	}

	e := &Engine{
		store:     store,
		artifacts: artifacts,

		extractor:  extractor,
		translator: translator,
		exporters:  exporters,
	}

	for _, option := range options {
		option(e)
	}

	return e, nil
}

// Formats lists the output formats the engine can render.
func (e *Engine) Formats() []string {
	var result []string

	for f := range e.exporters {
		result = append(result, f)
	}

	slices.Sort(result)

	return result
}

// Supports reports whether an exporter is registered for format.
func (e *Engine) Supports(format string) bool {
	_, ok := e.exporters[format]
	return ok
}

// Run executes the task to completion and returns the terminal record. The
// source is released after the terminal state has been recorded, whatever
// the outcome.
func (e *Engine) Run(ctx context.Context, task Task) job.Job {
	logger := slog.With("job", task.JobID)
	started := time.Now()

	r := &run{
		task:   task,
		logger: logger,
	}

	status := job.StatusQueued

	for !status.Terminal() {
		next, err := e.step(ctx, r, status)

		if err != nil {
			logger.ErrorContext(ctx, "job failed", "status", status, "error", err)

			e.fail(r, err)
			break
		}

		status = next
	}

	if task.Source != nil {
		if err := task.Source.Release(); err != nil {
			logger.WarnContext(ctx, "failed to release source", "error", err)
		}
	}

	result, err := e.store.Get(task.JobID)

	if err != nil {
		logger.WarnContext(ctx, "job record vanished", "error", err)
		return result
	}

	e.metrics.Finished(ctx, string(result.Status), len(task.Languages), time.Since(started))

	return result
}

// Fail records err as the terminal outcome of a task that never ran and
// releases its source.
func (e *Engine) Fail(ctx context.Context, task Task, err error) {
	r := &run{
		task:   task,
		logger: slog.With("job", task.JobID),
	}

	e.fail(r, err)

	if task.Source != nil {
		if err := task.Source.Release(); err != nil {
			r.logger.WarnContext(ctx, "failed to release source", "error", err)
		}
	}
}

func (e *Engine) step(ctx context.Context, r *run, status job.Status) (next job.Status, err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("internal error: %v", p)
		}
	}()

	if s, ok := e.route(r); !ok {
		return s, nil
	}

	stage, ok := stages[status]

	if !ok {
		return job.StatusFailed, fmt.Errorf("invalid job status: %s", status)
	}

	return stage(e, ctx, r)
}

// route short-circuits every stage once the record carries an error.
func (e *Engine) route(r *run) (job.Status, bool) {
	current, err := e.store.Get(r.task.JobID)

	if err != nil {
		return job.StatusFailed, false
	}

	if current.Error {
		return job.StatusFailed, false
	}

	return current.Status, true
}

func (e *Engine) update(r *run, fn func(j *job.Job)) error {
	j, err := e.store.Update(r.task.JobID, fn)

	if err != nil {
		return err
	}

	if e.observer != nil {
		e.observer(j)
	}

	return nil
}

func (e *Engine) fail(r *run, cause error) {
	err := e.update(r, func(j *job.Job) {
		j.Status = job.StatusFailed
		j.Message = cause.Error()
		j.Error = true
	})

	if err != nil {
		r.logger.Warn("failed to record job failure", "error", err)
	}
}

type run struct {
	task   Task
	logger *slog.Logger

	blocks       []document.Block
	translations []translation
}

type translation struct {
	language string
	blocks   []document.Block
}

func readSource(src Source) ([]byte, error) {
	if src == nil {
		return nil, errors.New("missing source document")
	}

	rc, err := src.Open()

	if err != nil {
		return nil, err
	}

	defer rc.Close()

	return io.ReadAll(rc)
}
