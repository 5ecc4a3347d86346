package server

import (
	"sync"

	"github.com/decred/slog"
)

// subscriberQueueSize bounds each subscriber's buffered snapshots. A
// subscriber that falls this far behind the publisher loses intermediate
// snapshots, not correctness: the latest snapshot always supersedes any
// snapshot still queued behind it.
const subscriberQueueSize = 100

// Broadcaster fans a match's published StateSnapshots out to every
// subscribed watcher. A nil snapshot signals stream end. Publish never
// blocks on a slow subscriber: it drops the oldest queued snapshot to make
// room rather than stall the driver goroutine that calls it.
type Broadcaster struct {
	mu          sync.RWMutex
	subscribers map[int]chan *StateSnapshot
	nextID      int
	log         slog.Logger
}

// NewBroadcaster constructs an empty fan-out point for one match.
func NewBroadcaster(log slog.Logger) *Broadcaster {
	if log == nil {
		log = slog.Disabled
	}
	return &Broadcaster{
		subscribers: make(map[int]chan *StateSnapshot),
		log:         log,
	}
}

// Subscribe registers a new watcher and returns its channel plus a handle
// for Unsubscribe. The caller should range over the channel until it's
// closed or yields a nil snapshot.
func (b *Broadcaster) Subscribe() (<-chan *StateSnapshot, int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.nextID
	b.nextID++
	ch := make(chan *StateSnapshot, subscriberQueueSize)
	b.subscribers[id] = ch
	return ch, id
}

// Unsubscribe removes and closes a watcher's channel.
func (b *Broadcaster) Unsubscribe(id int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subscribers[id]; ok {
		delete(b.subscribers, id)
		close(ch)
	}
}

// Publish fans snapshot out to every current subscriber. Passing nil
// signals stream end to every watcher; Publish does not unregister them,
// so callers that call Publish(nil) should follow up with Close.
func (b *Broadcaster) Publish(snapshot *StateSnapshot) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- snapshot:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- snapshot:
			default:
				b.log.Debugf("subscriber %d dropped a snapshot: queue full", id)
			}
		}
	}
}

// Close publishes a terminal nil snapshot and unregisters every
// subscriber.
func (b *Broadcaster) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subscribers {
		select {
		case ch <- nil:
		default:
		}
		delete(b.subscribers, id)
		close(ch)
	}
}
