package fileconv

import (
	"errors"
	"sync"

	"github.com/google/uuid"
)

// ErrUnknownHandle is returned for a handle that was never issued or has been
// released.
var ErrUnknownHandle = errors.New("unknown result handle")

// Handles keeps conversion results reachable by an opaque id until they are
// released. Holders of a displayed result call Replace when a new result
// supersedes it and Close on teardown, so memory stays bounded across
// repeated conversions.
type Handles struct {
	mu      sync.Mutex
	results map[string]*Result
	closed  bool
}

// NewHandles returns an empty handle registry.
func NewHandles() *Handles {
	return &Handles{results: make(map[string]*Result)}
}

// Acquire registers r and returns its handle.
func (h *Handles) Acquire(r *Result) (string, error) {
	if r == nil {
		return "", errors.New("nil result")
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return "", errors.New("handles closed")
	}
	id := uuid.NewString()
	h.results[id] = r
	return id, nil
}

// Get returns the result behind id.
func (h *Handles) Get(id string) (*Result, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	r, ok := h.results[id]
	if !ok {
		return nil, ErrUnknownHandle
	}
	return r, nil
}

// Release drops id. Releasing an unknown id is a no-op.
func (h *Handles) Release(id string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.results, id)
}

// Replace releases old (if any) and acquires r.
func (h *Handles) Replace(old string, r *Result) (string, error) {
	if old != "" {
		h.Release(old)
	}
	return h.Acquire(r)
}

// Len returns the number of live handles.
func (h *Handles) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.results)
}

// Close releases every handle. Acquire fails afterwards.
func (h *Handles) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results = make(map[string]*Result)
	h.closed = true
}
