package canopy

import "sync"

// Emitter is a named-channel publish/subscribe primitive. Handlers run on the
// goroutine that calls Emit or Drain. EmitAsync may be called from any
// goroutine; its events are queued and delivered by the next Drain.
type Emitter[T any] struct {
	mu       sync.Mutex
	handlers map[string][]emitterHandler[T]
	queue    []queuedEmit[T]
	nextID   uint64
}

type emitterHandler[T any] struct {
	id   uint64
	fn   func(T)
	once bool
}

type queuedEmit[T any] struct {
	name  string
	value T
}

// Subscription allows removing a registered handler.
type Subscription struct {
	id     uint64
	name   string
	remove func(name string, id uint64)
}

// Remove unregisters the handler. Removing twice is a no-op.
func (s Subscription) Remove() {
	if s.remove == nil {
		return
	}
	s.remove(s.name, s.id)
}

// NewEmitter creates an empty emitter.
func NewEmitter[T any]() *Emitter[T] {
	return &Emitter[T]{handlers: make(map[string][]emitterHandler[T])}
}

// On registers fn for every event emitted under name.
func (e *Emitter[T]) On(name string, fn func(T)) Subscription {
	return e.add(name, fn, false)
}

// Once registers fn for the next event emitted under name only.
func (e *Emitter[T]) Once(name string, fn func(T)) Subscription {
	return e.add(name, fn, true)
}

func (e *Emitter[T]) add(name string, fn func(T), once bool) Subscription {
	if fn == nil {
		panic("canopy: nil event handler")
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.handlers == nil {
		e.handlers = make(map[string][]emitterHandler[T])
	}
	e.nextID++
	id := e.nextID
	e.handlers[name] = append(e.handlers[name], emitterHandler[T]{id: id, fn: fn, once: once})
	return Subscription{id: id, name: name, remove: e.removeHandler}
}

func (e *Emitter[T]) removeHandler(name string, id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	hs := e.handlers[name]
	for i := range hs {
		if hs[i].id == id {
			e.handlers[name] = append(hs[:i:i], hs[i+1:]...)
			if len(e.handlers[name]) == 0 {
				delete(e.handlers, name)
			}
			return
		}
	}
}

// Off removes every handler registered under name.
func (e *Emitter[T]) Off(name string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.handlers, name)
}

// Listeners returns the number of handlers registered under name.
func (e *Emitter[T]) Listeners(name string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.handlers[name])
}

// Emit calls every handler registered under name, in registration order, and
// returns how many ran. One-shot handlers are removed before they are called,
// so a handler that re-emits the same name does not run twice.
func (e *Emitter[T]) Emit(name string, v T) int {
	e.mu.Lock()
	hs := e.handlers[name]
	if len(hs) == 0 {
		e.mu.Unlock()
		return 0
	}
	snapshot := make([]emitterHandler[T], len(hs))
	copy(snapshot, hs)
	kept := hs[:0:0]
	for _, h := range hs {
		if !h.once {
			kept = append(kept, h)
		}
	}
	if len(kept) == 0 {
		delete(e.handlers, name)
	} else {
		e.handlers[name] = kept
	}
	e.mu.Unlock()

	for _, h := range snapshot {
		h.fn(v)
	}
	return len(snapshot)
}

// EmitAsync queues an event for the next Drain and returns immediately.
func (e *Emitter[T]) EmitAsync(name string, v T) {
	e.mu.Lock()
	e.queue = append(e.queue, queuedEmit[T]{name: name, value: v})
	e.mu.Unlock()
}

// Pending returns the number of queued asynchronous events.
func (e *Emitter[T]) Pending() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.queue)
}

// Drain delivers every event queued by EmitAsync before the call, in order,
// and returns how many were delivered. Events queued by handlers during the
// drain wait for the next one.
func (e *Emitter[T]) Drain() int {
	e.mu.Lock()
	q := e.queue
	e.queue = nil
	e.mu.Unlock()

	for _, item := range q {
		e.Emit(item.name, item.value)
	}
	return len(q)
}
