package events

import "sync"

// Bus is a typed publish/subscribe channel for engine signals. Subscribers
// receive a handle and must release it; Close drops every subscriber so no
// callback outlives the engine that registered it.
type Bus[T any] struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(T)
	closed bool
}

// Subscription identifies a single subscriber on a bus.
type Subscription struct {
	id     int
	cancel func()
}

// Unsubscribe removes the subscriber. Safe to call more than once.
func (s *Subscription) Unsubscribe() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn for every subsequent Publish. The returned
// subscription must be released via Unsubscribe or bus Close.
func (b *Bus[T]) Subscribe(fn func(T)) *Subscription {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return &Subscription{}
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = fn
	return &Subscription{
		id: id,
		cancel: func() {
			b.mu.Lock()
			delete(b.subs, id)
			b.mu.Unlock()
		},
	}
}

// Publish delivers ev to every live subscriber, in registration order not
// guaranteed. Delivery is synchronous on the caller's goroutine.
func (b *Bus[T]) Publish(ev T) {
	b.mu.Lock()
	fns := make([]func(T), 0, len(b.subs))
	for _, fn := range b.subs {
		fns = append(fns, fn)
	}
	b.mu.Unlock()

	for _, fn := range fns {
		fn(ev)
	}
}

// Len reports the number of live subscribers.
func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close drops all subscribers. Further Subscribe calls are inert and
// further Publish calls deliver to no one.
func (b *Bus[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.subs = make(map[int]func(T))
}
