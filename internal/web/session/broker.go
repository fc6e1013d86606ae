package session

import (
	"sync"
	"time"
)

// EventKind tells what happened to a session.
type EventKind string

const (
	SignedIn  EventKind = "signed_in"
	SignedOut EventKind = "signed_out"
)

// Event is published on sign-in and sign-out.
type Event struct {
	Kind      EventKind
	Principal Principal
	At        time.Time
}

// Broker fans events out to subscribers.
// Subscribers run synchronously on the publishing goroutine, outside the lock,
// so a subscriber may unsubscribe itself.
type Broker struct {
	mu   sync.Mutex
	next uint64
	subs map[uint64]func(Event)
}

// NewBroker creates an empty broker.
func NewBroker() *Broker {
	return &Broker{subs: make(map[uint64]func(Event))}
}

// Subscribe adds fn. The returned func removes it and is safe to call more than once.
func (b *Broker) Subscribe(fn func(Event)) func() {
	b.mu.Lock()
	id := b.next
	b.next++
	b.subs[id] = fn
	b.mu.Unlock()

	var once sync.Once

	return func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		})
	}
}

// Publish calls every current subscriber with e.
func (b *Broker) Publish(e Event) {
	b.mu.Lock()
	fns := make([]func(Event), 0, len(b.subs))

	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(e)
	}
}

// Len returns the number of subscribers.
func (b *Broker) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.subs)
}
