package job

import (
	"errors"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

var (
	ErrNotFound  = errors.New("job not found")
	ErrCompleted = errors.New("job already completed")
)

// Store maps job ids to job records. Every operation is atomic; the
// returned records are copies. Only completed records are subject to
// retention; running records stay until they complete.
type Store struct {
	mu sync.Mutex

	active map[string]Job
	cache  *expirable.LRU[string, Job]
}

type Option func(*storeConfig)

type storeConfig struct {
	size      int
	retention time.Duration

	onEvict func(Job)
}

// WithRetention evicts completed jobs d after they completed. Zero keeps
// records for the lifetime of the process.
func WithRetention(d time.Duration) Option {
	return func(c *storeConfig) {
		c.retention = d
	}
}

// WithSize bounds the number of retained completed jobs. Zero means
// unbounded.
func WithSize(size int) Option {
	return func(c *storeConfig) {
		c.size = size
	}
}

func WithEvictHandler(fn func(Job)) Option {
	return func(c *storeConfig) {
		c.onEvict = fn
	}
}

func NewStore(options ...Option) *Store {
	cfg := &storeConfig{}

	for _, option := range options {
		option(cfg)
	}

	var onEvict expirable.EvictCallback[string, Job]

	if cfg.onEvict != nil {
		fn := cfg.onEvict

		onEvict = func(_ string, j Job) {
			fn(j.clone())
		}
	}

	return &Store{
		active: make(map[string]Job),
		cache:  expirable.NewLRU(cfg.size, onEvict, cfg.retention),
	}
}

func (s *Store) Put(j Job) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.store(j.clone())
}

func (s *Store) store(j Job) {
	if !j.Complete {
		s.active[j.ID] = j

		return
	}

	delete(s.active, j.ID)
	s.cache.Add(j.ID, j)
}

func (s *Store) lookup(id string) (Job, bool) {
	if j, ok := s.active[id]; ok {
		return j, true
	}

	return s.cache.Peek(id)
}

func (s *Store) Get(id string) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	j, ok := s.lookup(id)

	if !ok {
		return Job{}, ErrNotFound
	}

	return j.clone(), nil
}

// Update applies fn to the stored record. Progress never moves backwards
// and a completed job rejects further changes.
func (s *Store) Update(id string, fn func(j *Job)) (Job, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.lookup(id)

	if !ok {
		return Job{}, ErrNotFound
	}

	if current.Complete {
		return current.clone(), ErrCompleted
	}

	next := current.clone()
	fn(&next)

	next.ID = current.ID
	next.Progress = max(current.Progress, min(next.Progress, 100))

	if next.Error {
		next.Complete = true
	}

	next.UpdatedAt = time.Now().UTC()

	s.store(next)

	return next.clone(), nil
}

func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.active) + s.cache.Len()
}
