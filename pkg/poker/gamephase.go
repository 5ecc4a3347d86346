package poker

import (
	"context"
	"sync"
	"time"

	"github.com/decred/slog"
)

// GamePhase owns the current PhaseState and drives it forward, either
// through a long-running Run goroutine or through externally triggered
// actions taken under its write lock. It is exclusively owned by its
// match and accessed through a reader/writer lock.
type GamePhase struct {
	mu             sync.RWMutex
	current        Phase
	lastTransition time.Time
	actionCh       chan struct{}
	onPublish      func()
	log            slog.Logger
}

// NewGamePhase constructs a driver starting at the given phase. onPublish
// is invoked after every Act, outside the write lock, to build and
// publish a state snapshot; it may be nil in tests.
func NewGamePhase(initial Phase, onPublish func(), log slog.Logger) *GamePhase {
	if log == nil {
		log = slog.Disabled
	}
	return &GamePhase{
		current:   initial,
		actionCh:  make(chan struct{}, 100),
		onPublish: onPublish,
		log:       log,
	}
}

// Wake nudges the driver out of an Event progression's wait. Non-blocking:
// if the channel has no room (no receiver is currently waiting and the
// buffer is full), the wake is dropped, which is a no-op during quiescent
// intervals.
func (gp *GamePhase) Wake() {
	select {
	case gp.actionCh <- struct{}{}:
	default:
		gp.log.Debug("dropped wake signal: action channel full or no receiver")
	}
}

// WithWriteLock runs fn with the phase's current Phase under the write
// lock, for handlers that mutate phase state in response to an RPC call.
func (gp *GamePhase) WithWriteLock(fn func(current Phase) error) error {
	gp.mu.Lock()
	defer gp.mu.Unlock()
	return fn(gp.current)
}

// WithReadLock runs fn with the phase's current Phase under the read
// lock, for snapshot building.
func (gp *GamePhase) WithReadLock(fn func(current Phase)) {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	fn(gp.current)
}

// Run is the long-running driver loop. At most one Act executes at a time;
// every Act is followed by exactly one state publication; transitions
// happen only at end-of-iteration under the write lock. Run returns when
// the match reaches a terminal phase or ctx is cancelled.
func (gp *GamePhase) Run(ctx context.Context) {
	first := true
	for {
		if !first {
			gp.mu.RLock()
			progression := gp.current.Progression()
			gp.mu.RUnlock()
			if progression == nil {
				return
			}
			if !gp.awaitNext(ctx, progression) {
				return
			}
		} else {
			first = false
		}

		gp.mu.Lock()
		gp.lastTransition = time.Now()
		gp.current.Act()
		gp.mu.Unlock()

		if gp.onPublish != nil {
			gp.onPublish()
		}

		gp.mu.Lock()
		if gp.current.IsCompleted() {
			next, ok := gp.current.NextPhase()
			if !ok {
				gp.mu.Unlock()
				return
			}
			gp.current = next
		}
		gp.mu.Unlock()
	}
}

// awaitNext blocks until progression resolves or ctx is cancelled.
// Returns false if ctx was cancelled (the caller must stop).
func (gp *GamePhase) awaitNext(ctx context.Context, progression ActionProgression) bool {
	switch prog := progression.(type) {
	case DelayProgression:
		timer := time.NewTimer(prog.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			return true
		}
	case EventProgression:
		timer := time.NewTimer(prog.Duration)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return false
		case <-timer.C:
			gp.mu.Lock()
			if prog.OnTimeout != nil {
				if err := prog.OnTimeout(gp); err != nil {
					gp.log.Warnf("progression timeout handler failed: %v", err)
				}
			}
			gp.mu.Unlock()
			return true
		case <-gp.actionCh:
			return true
		}
	default:
		return true
	}
}

// Current returns the phase's current Phase value. Callers needing a
// consistent read should prefer WithReadLock.
func (gp *GamePhase) Current() Phase {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	return gp.current
}

// LastTransition returns the time of the most recent Act.
func (gp *GamePhase) LastTransition() time.Time {
	gp.mu.RLock()
	defer gp.mu.RUnlock()
	return gp.lastTransition
}
