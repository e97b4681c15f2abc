package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/pipeline"

	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull = errors.New("job queue is full")
	ErrClosed    = errors.New("scheduler is shut down")
)

// Runner executes tasks. Fail is used for tasks that are dropped before a
// worker picked them up.
type Runner interface {
	Run(ctx context.Context, task pipeline.Task) job.Job
	Fail(ctx context.Context, task pipeline.Task, err error)
}

// Scheduler runs submitted tasks on a fixed pool of workers. Submit never
// waits for a task to start.
type Scheduler struct {
	runner Runner

	workers int
	queue   chan pipeline.Task

	mu     sync.Mutex
	closed bool
}

type Option func(*Scheduler)

func WithWorkers(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithQueueSize(n int) Option {
	return func(s *Scheduler) {
		if n > 0 {
			s.queue = make(chan pipeline.Task, n)
		}
	}
}

func New(runner Runner, options ...Option) *Scheduler {
	s := &Scheduler{
		runner: runner,

		workers: 4,
		queue:   make(chan pipeline.Task, 100),
	}

	for _, option := range options {
		option(s)
	}

	return s
}

// Submit enqueues a task and returns immediately.
func (s *Scheduler) Submit(task pipeline.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	select {
	case s.queue <- task:
		return nil
	default:
		return ErrQueueFull
	}
}

// Pending returns the number of tasks waiting for a worker.
func (s *Scheduler) Pending() int {
	return len(s.queue)
}

// Run starts the workers and blocks until ctx is done. Tasks still queued
// at that point are failed with ErrClosed.
func (s *Scheduler) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for i := range s.workers {
		g.Go(func() error {
			s.work(gctx, i)
			return nil
		})
	}

	<-ctx.Done()

	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()

	err := g.Wait()

	s.drain(context.WithoutCancel(ctx))

	return err
}

func (s *Scheduler) work(ctx context.Context, worker int) {
	for {
		select {
		case <-ctx.Done():
			return

		case task := <-s.queue:
			if ctx.Err() != nil {
				s.runner.Fail(context.WithoutCancel(ctx), task, ErrClosed)
				continue
			}

			slog.DebugContext(ctx, "worker picked up job", "worker", worker, "job", task.JobID)

			s.runner.Run(ctx, task)
		}
	}
}

func (s *Scheduler) drain(ctx context.Context) {
	for {
		select {
		case task := <-s.queue:
			slog.WarnContext(ctx, "dropping queued job", "job", task.JobID)
			s.runner.Fail(ctx, task, ErrClosed)

		default:
			return
		}
	}
}
