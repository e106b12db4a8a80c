package backend

import (
	"context"
	"sync"

	"github.com/gofrs/uuid"
)

// RestartCallback re-establishes caller state on a freshly started backend.
// Callbacks may run more than once over the lifetime of the session and must be idempotent.
type RestartCallback func(ctx context.Context)

// CallbackID identifies a registered RestartCallback.
type CallbackID uuid.UUID

type registeredCallback struct {
	id CallbackID
	fn RestartCallback
}

// callbackRegistry keeps callbacks in registration order.
type callbackRegistry struct {
	mu        sync.Mutex
	callbacks []registeredCallback
}

func (r *callbackRegistry) register(fn RestartCallback) CallbackID {
	id := CallbackID(uuid.Must(uuid.NewV4()))

	r.mu.Lock()
	defer r.mu.Unlock()
	r.callbacks = append(r.callbacks, registeredCallback{id: id, fn: fn})
	return id
}

func (r *callbackRegistry) unregister(id CallbackID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, cb := range r.callbacks {
		if cb.id == id {
			r.callbacks = append(r.callbacks[:i], r.callbacks[i+1:]...)
			return
		}
	}
}

func (r *callbackRegistry) snapshot() []RestartCallback {
	r.mu.Lock()
	defer r.mu.Unlock()
	fns := make([]RestartCallback, len(r.callbacks))
	for i, cb := range r.callbacks {
		fns[i] = cb.fn
	}
	return fns
}

func (r *callbackRegistry) len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.callbacks)
}
