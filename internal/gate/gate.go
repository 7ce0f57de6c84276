package gate

import (
	"errors"
	"sync"
	"time"

	"github.com/slitherbot/slither/internal/common/clock"
)

// Define errors
var (
	ErrNilConfig = errors.New("config cannot be nil")
	ErrNilClock  = errors.New("clock cannot be nil")
)

// DefaultInFlightTimeout bounds how long a roll may stay in flight before
// the slot is considered abandoned.
const DefaultInFlightTimeout = 30 * time.Second

// AcquireResult is the outcome of an acquire attempt
type AcquireResult string

const (
	// ResultGranted means the caller owns the team's roll slot and must
	// Release it when done
	ResultGranted AcquireResult = "granted"

	// ResultInFlight means another roll for the team is being processed
	ResultInFlight AcquireResult = "in_flight"

	// ResultExpired means a previous roll abandoned the slot past the
	// timeout. The slot has been cleared, but the caller must lock the
	// team before anything is granted again; an ambiguous roll is never
	// silently re-armed.
	ResultExpired AcquireResult = "expired"
)

// Config holds configuration for the roll gate
type Config struct {
	// Clock supplies the time used for staleness checks
	Clock clock.Clock

	// InFlightTimeout is how long a slot may be held before it is
	// considered abandoned. Zero uses DefaultInFlightTimeout.
	InFlightTimeout time.Duration
}

// Gate serializes roll processing per team. At most one acquire per team
// succeeds at a time; different teams are fully independent.
type Gate struct {
	mu       sync.Mutex
	inflight map[string]time.Time
	clock    clock.Clock
	timeout  time.Duration
}

// New creates a new roll gate
func New(cfg *Config) (*Gate, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}

	if cfg.Clock == nil {
		return nil, ErrNilClock
	}

	timeout := cfg.InFlightTimeout
	if timeout <= 0 {
		timeout = DefaultInFlightTimeout
	}

	return &Gate{
		inflight: make(map[string]time.Time),
		clock:    cfg.Clock,
		timeout:  timeout,
	}, nil
}

// Acquire claims the team's roll slot. Exactly one of any set of concurrent
// callers for the same team is granted.
func (g *Gate) Acquire(teamID string) AcquireResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.clock.Now()

	if acquiredAt, ok := g.inflight[teamID]; ok {
		if now.Sub(acquiredAt) < g.timeout {
			return ResultInFlight
		}

		// Abandoned slot. Clear it and tell the caller to lock the team.
		delete(g.inflight, teamID)
		return ResultExpired
	}

	g.inflight[teamID] = now
	return ResultGranted
}

// Release frees the team's roll slot
func (g *Gate) Release(teamID string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.inflight, teamID)
}

// InFlight reports whether a roll is currently being processed for the team
func (g *Gate) InFlight(teamID string) bool {
	g.mu.Lock()
	defer g.mu.Unlock()

	acquiredAt, ok := g.inflight[teamID]
	if !ok {
		return false
	}

	return g.clock.Now().Sub(acquiredAt) < g.timeout
}
