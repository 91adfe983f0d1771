package circuitbreaker

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

var ErrOpen = errors.New("circuit breaker is open")

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

type Config struct {
	// FailureThreshold consecutive failures trip the breaker.
	FailureThreshold int
	// ResetTimeout is how long the breaker stays open before probing.
	ResetTimeout time.Duration
	// SuccessThreshold consecutive half-open successes close it again.
	SuccessThreshold int
	Logger           *zap.Logger
}

// Breaker is a minimal consecutive-failure circuit breaker guarding one
// upstream dependency.
type Breaker struct {
	name string
	cfg  Config

	mu        sync.Mutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
}

func New(name string, cfg Config) *Breaker {
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 5
	}
	if cfg.ResetTimeout == 0 {
		cfg.ResetTimeout = 30 * time.Second
	}
	if cfg.SuccessThreshold == 0 {
		cfg.SuccessThreshold = 2
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Breaker{name: name, cfg: cfg}
}

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState()
}

// Execute runs operation unless the breaker is open, recording the outcome.
func (b *Breaker) Execute(operation func() error) error {
	if !b.allow() {
		return ErrOpen
	}

	err := operation()
	b.record(err)
	return err
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.currentState() != StateOpen
}

// currentState handles the open -> half-open transition; callers hold b.mu.
func (b *Breaker) currentState() State {
	if b.state == StateOpen && time.Since(b.openedAt) >= b.cfg.ResetTimeout {
		b.transition(StateHalfOpen)
	}
	return b.state
}

func (b *Breaker) record(err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.successes = 0
		b.failures++
		if b.state == StateHalfOpen || b.failures >= b.cfg.FailureThreshold {
			b.transition(StateOpen)
			b.openedAt = time.Now()
		}
		return
	}

	b.failures = 0
	switch b.state {
	case StateHalfOpen:
		b.successes++
		if b.successes >= b.cfg.SuccessThreshold {
			b.transition(StateClosed)
		}
	case StateOpen:
		b.transition(StateClosed)
	}
}

func (b *Breaker) transition(to State) {
	if b.state == to {
		return
	}
	b.cfg.Logger.Warn("Circuit breaker state change",
		zap.String("breaker", b.name),
		zap.String("from", b.state.String()),
		zap.String("to", to.String()),
	)
	b.state = to
	b.successes = 0
	if to == StateClosed {
		b.failures = 0
	}
}
