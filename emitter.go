package surrealdb

import "sync"

// Observer receives engine notifications. Callbacks run synchronously on the
// goroutine that triggered them, in transition order.
type Observer interface {
	// StatusChanged is called once per status transition with the new status.
	StatusChanged(status Status)
	// RequestCompleted is called when a response envelope arrives, or when a
	// local method produces its synthetic result, keyed by correlation id.
	RequestCompleted(id int64, resp *RPCResponse)
}

// emitter fans engine notifications out to registered observers and to
// one-shot waiter channels keyed by correlation id.
type emitter struct {
	mu        sync.Mutex
	observers []Observer
	waiters   map[int64][]chan *RPCResponse
}

func newEmitter() *emitter {
	return &emitter{
		waiters: make(map[int64][]chan *RPCResponse),
	}
}

func (e *emitter) subscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.observers = append(e.observers, o)
}

func (e *emitter) unsubscribe(o Observer) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for i, cur := range e.observers {
		if cur == o {
			e.observers = append(e.observers[:i], e.observers[i+1:]...)
			return
		}
	}
}

// wait registers a one-shot channel that receives the response correlated to
// the given id. The channel is buffered so delivery never blocks the engine.
func (e *emitter) wait(id int64) <-chan *RPCResponse {
	ch := make(chan *RPCResponse, 1)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.waiters[id] = append(e.waiters[id], ch)
	return ch
}

func (e *emitter) emitStatus(status Status) {
	e.mu.Lock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	e.mu.Unlock()

	for _, o := range observers {
		o.StatusChanged(status)
	}
}

func (e *emitter) emitCompletion(id int64, resp *RPCResponse) {
	e.mu.Lock()
	observers := make([]Observer, len(e.observers))
	copy(observers, e.observers)
	waiters := e.waiters[id]
	delete(e.waiters, id)
	e.mu.Unlock()

	for _, o := range observers {
		o.RequestCompleted(id, resp)
	}
	for _, ch := range waiters {
		ch <- resp
		close(ch)
	}
}
