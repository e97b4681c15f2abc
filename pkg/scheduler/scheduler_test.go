package scheduler_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/adrianliechti/studio/pkg/job"
	"github.com/adrianliechti/studio/pkg/pipeline"
	"github.com/adrianliechti/studio/pkg/scheduler"

	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu sync.Mutex

	ran    []string
	failed map[string]error

	running chan string
	block   chan struct{}
}

func newRunner() *recordingRunner {
	return &recordingRunner{
		failed:  map[string]error{},
		running: make(chan string, 100),
	}
}

func (r *recordingRunner) Run(ctx context.Context, task pipeline.Task) job.Job {
	r.running <- task.JobID

	if r.block != nil {
		select {
		case <-r.block:
		case <-ctx.Done():
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.ran = append(r.ran, task.JobID)

	return job.Job{ID: task.JobID, Status: job.StatusCompleted}
}

func (r *recordingRunner) Fail(ctx context.Context, task pipeline.Task, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.failed[task.JobID] = err
}

func (r *recordingRunner) ranJobs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]string(nil), r.ran...)
}

func TestRunExecutesSubmittedTasks(t *testing.T) {
	r := newRunner()
	s := scheduler.New(r, scheduler.WithWorkers(2))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx)
	}()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.Submit(pipeline.Task{JobID: id}))
	}

	require.Eventually(t, func() bool {
		return len(r.ranJobs()) == 3
	}, 2*time.Second, 5*time.Millisecond)

	require.ElementsMatch(t, []string{"a", "b", "c"}, r.ranJobs())

	cancel()
	require.NoError(t, <-done)
}

func TestSubmitDoesNotWait(t *testing.T) {
	r := newRunner()
	r.block = make(chan struct{})

	s := scheduler.New(r, scheduler.WithWorkers(1))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go s.Run(ctx)

	require.NoError(t, s.Submit(pipeline.Task{JobID: "slow"}))
	require.Equal(t, "slow", <-r.running)

	start := time.Now()
	require.NoError(t, s.Submit(pipeline.Task{JobID: "next"}))
	require.Less(t, time.Since(start), 100*time.Millisecond)

	close(r.block)
}

func TestSubmitQueueFull(t *testing.T) {
	s := scheduler.New(newRunner(), scheduler.WithQueueSize(1))

	require.NoError(t, s.Submit(pipeline.Task{JobID: "a"}))
	require.ErrorIs(t, s.Submit(pipeline.Task{JobID: "b"}), scheduler.ErrQueueFull)
	require.Equal(t, 1, s.Pending())
}

func TestShutdownFailsQueuedTasks(t *testing.T) {
	r := newRunner()
	r.block = make(chan struct{})

	s := scheduler.New(r, scheduler.WithWorkers(1), scheduler.WithQueueSize(10))

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)

	go func() {
		done <- s.Run(ctx)
	}()

	require.NoError(t, s.Submit(pipeline.Task{JobID: "running"}))
	require.Equal(t, "running", <-r.running)

	require.NoError(t, s.Submit(pipeline.Task{JobID: "queued-1"}))
	require.NoError(t, s.Submit(pipeline.Task{JobID: "queued-2"}))

	cancel()
	require.NoError(t, <-done)

	r.mu.Lock()
	defer r.mu.Unlock()

	require.Equal(t, []string{"running"}, r.ran)
	require.True(t, errors.Is(r.failed["queued-1"], scheduler.ErrClosed))
	require.True(t, errors.Is(r.failed["queued-2"], scheduler.ErrClosed))

	require.ErrorIs(t, s.Submit(pipeline.Task{JobID: "late"}), scheduler.ErrClosed)
}
