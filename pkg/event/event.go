// Package event is a small in-process event dispatcher. The product
// repository fires an event after every committed mutation; the live list
// surfaces (SSE, WebSocket) subscribe to re-read and push fresh snapshots.
package event

import "sync"

// Events fired by the product store. The payload is the affected record's
// uid (uint) where one exists, nil otherwise.
const (
	ProductCreated = "product.created"
	ProductUpdated = "product.updated"
	ProductDeleted = "product.deleted"
	ProductSeeded  = "product.seeded"
)

// Handler receives an event payload.
type Handler func(payload interface{})

var (
	mu       sync.RWMutex
	handlers = map[string][]Handler{}
)

// Listen registers a handler for the given event name.
func Listen(name string, h Handler) {
	mu.Lock()
	defer mu.Unlock()
	handlers[name] = append(handlers[name], h)
}

// ListenAll registers one handler for several event names.
func ListenAll(h Handler, names ...string) {
	for _, name := range names {
		Listen(name, h)
	}
}

// Fire dispatches an event synchronously to all registered listeners, in
// registration order. Listeners run on the caller's goroutine, so a fire
// that follows a store commit observes the committed state.
func Fire(name string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		h(payload)
	}
}

// FireAsync dispatches the event to all listeners concurrently and returns
// immediately.
func FireAsync(name string, payload interface{}) {
	mu.RLock()
	hs := make([]Handler, len(handlers[name]))
	copy(hs, handlers[name])
	mu.RUnlock()

	for _, h := range hs {
		go h(payload)
	}
}

// Flush removes all listeners. Tests use this between cases.
func Flush() {
	mu.Lock()
	defer mu.Unlock()
	handlers = map[string][]Handler{}
}
