// Package state provides the subscription primitive shared by the client
// stores.
package state

import "sync"

// Broadcaster notifies listeners synchronously after each committed store
// mutation. Stores must call Notify outside their own state lock so listeners
// can read back through the store's getters.
type Broadcaster struct {
	mu        sync.Mutex
	nextID    int
	listeners map[int]func()
}

// Subscribe registers a listener and returns its unsubscribe handle.
// Unsubscribing twice is a no-op.
func (b *Broadcaster) Subscribe(listener func()) (unsubscribe func()) {
	b.mu.Lock()
	if b.listeners == nil {
		b.listeners = make(map[int]func())
	}
	id := b.nextID
	b.nextID++
	b.listeners[id] = listener
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		delete(b.listeners, id)
		b.mu.Unlock()
	}
}

// Notify invokes every current listener on the calling goroutine.
func (b *Broadcaster) Notify() {
	b.mu.Lock()
	listeners := make([]func(), 0, len(b.listeners))
	for _, fn := range b.listeners {
		listeners = append(listeners, fn)
	}
	b.mu.Unlock()

	for _, fn := range listeners {
		fn()
	}
}
