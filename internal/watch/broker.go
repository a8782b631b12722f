// Package watch fans committed identity changes out to in-process
// subscribers.
package watch

import (
	"context"
	"log/slog"
	"sync"

	"hostnamed"
)

const (
	subscriberBufferCap  = 128
	replayBufferCapacity = 256
)

// Broker implements identity.Publisher. Publish never blocks: a
// subscriber whose buffer is full misses the change.
type Broker struct {
	mu      sync.Mutex
	subs    map[uint64]chan hostnamed.Change
	nextID  uint64
	replay  []hostnamed.Change
	dropped uint64
	closed  bool
}

func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]chan hostnamed.Change)}
}

// Publish delivers change to every subscriber and remembers it for late
// subscribers.
func (b *Broker) Publish(change hostnamed.Change) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.replay = appendReplay(b.replay, change)
	for id, sub := range b.subs {
		select {
		case sub <- change:
		default:
			b.dropped++
			slog.Warn("Watch subscriber is lagging, dropping change.", "subscriber", id, "attr", change.Attribute.String())
		}
	}
}

// Subscribe returns a channel that first receives the retained recent
// changes and then every new one. The channel is closed when ctx ends or
// the broker is closed.
func (b *Broker) Subscribe(ctx context.Context) <-chan hostnamed.Change {
	ch := make(chan hostnamed.Change, subscriberBufferCap)

	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		close(ch)
		return ch
	}
	id := b.nextID
	b.nextID++
	// Replay is queued while holding the lock so no live change can
	// overtake it.
	for _, change := range b.replay {
		select {
		case ch <- change:
		default:
		}
	}
	b.subs[id] = ch
	b.mu.Unlock()

	go func() {
		<-ctx.Done()
		b.unsubscribe(id)
	}()
	return ch
}

// Dropped reports how many deliveries were skipped for slow subscribers.
func (b *Broker) Dropped() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.dropped
}

// Close ends every subscription. Later publishes are discarded.
func (b *Broker) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
	b.replay = nil
}

func (b *Broker) unsubscribe(id uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

func appendReplay(replay []hostnamed.Change, change hostnamed.Change) []hostnamed.Change {
	if len(replay) < replayBufferCapacity {
		return append(replay, change)
	}
	copy(replay, replay[1:])
	replay[len(replay)-1] = change
	return replay
}
