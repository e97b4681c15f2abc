package router

import (
	"sync"
	"sync/atomic"
	"time"
)

// CircuitState is the state of the breaker guarding one provider.
type CircuitState int

const (
	CircuitClosed   CircuitState = iota // healthy
	CircuitOpen                         // failing, skipped
	CircuitHalfOpen                     // one probe allowed
)

const (
	DefaultFailureThreshold = 5
	DefaultRecoveryTimeout  = 30 * time.Second
)

// ProviderStats tracks the health of a single routed provider.
type ProviderStats struct {
	mu sync.RWMutex

	totalRequests int64
	totalFailures int64

	inflight atomic.Int64

	state               CircuitState
	consecutiveFailures int
	lastFailure         time.Time
}

func NewProviderStats() *ProviderStats {
	return &ProviderStats{
		state: CircuitClosed,
	}
}

// IsAvailable reports whether the provider may take a request. An open
// circuit moves to half-open once recoveryTimeout has passed.
func (s *ProviderStats) IsAvailable(recoveryTimeout time.Duration) bool {
	s.mu.RLock()
	state := s.state
	lastFailure := s.lastFailure
	s.mu.RUnlock()

	switch state {
	case CircuitOpen:
		if time.Since(lastFailure) < recoveryTimeout {
			return false
		}

		s.mu.Lock()

		if s.state == CircuitOpen {
			s.state = CircuitHalfOpen
		}

		s.mu.Unlock()

		return true

	case CircuitHalfOpen:
		return s.inflight.Load() == 0

	default:
		return true
	}
}

func (s *ProviderStats) State() CircuitState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.state
}

func (s *ProviderStats) Metrics() (totalRequests, totalFailures, inflight int64) {
	s.mu.RLock()
	totalRequests = s.totalRequests
	totalFailures = s.totalFailures
	s.mu.RUnlock()

	return totalRequests, totalFailures, s.inflight.Load()
}

func (s *ProviderStats) RecordSuccess() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.consecutiveFailures = 0

	if s.state == CircuitHalfOpen {
		s.state = CircuitClosed
	}
}

func (s *ProviderStats) RecordFailure(failureThreshold int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.totalRequests++
	s.totalFailures++
	s.consecutiveFailures++
	s.lastFailure = time.Now()

	if s.state == CircuitHalfOpen || s.consecutiveFailures >= failureThreshold {
		s.state = CircuitOpen
	}
}

func (s *ProviderStats) LastFailure() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.lastFailure
}

func (s *ProviderStats) SetHalfOpen() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = CircuitHalfOpen
}

func (s *ProviderStats) AddInflight(delta int64) int64 {
	return s.inflight.Add(delta)
}
