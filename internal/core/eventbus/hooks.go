package eventbus

import (
	"context"
	"sync"
)

// hookList is an append-only list of callbacks. Callbacks run outside the
// lock so a hook may register further hooks.
type hookList[F any] struct {
	mu  sync.RWMutex
	fns []F
}

func (h *hookList[F]) add(fn F) {
	h.mu.Lock()
	h.fns = append(h.fns, fn)
	h.mu.Unlock()
}

func (h *hookList[F]) snapshot() []F {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]F(nil), h.fns...)
}

type hooks struct {
	publish hookList[func(Event, any)]
	drop    hookList[func(Event, any)]
	panics  hookList[func(Event, any, any)]
}

// OnPublish registers fn to run after an event is enqueued.
func (bus *EventBus) OnPublish(fn func(event Event, payload any)) {
	bus.hooks.publish.add(fn)
}

// OnDrop registers fn to run when an event is dropped on a full buffer or,
// for reminder events, when the publisher gives up waiting.
func (bus *EventBus) OnDrop(fn func(event Event, payload any)) {
	bus.hooks.drop.add(fn)
}

// OnPanic registers fn to run when a subscriber panics. A panicking OnPanic
// hook is recovered and ignored.
func (bus *EventBus) OnPanic(fn func(event Event, payload any, recovered any)) {
	bus.hooks.panics.add(fn)
}

// send enqueues an event without blocking.
func (bus *EventBus) send(event Event, payload any) {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range bus.hooks.publish.snapshot() {
			fn(event, payload)
		}
	default:
		for _, fn := range bus.hooks.drop.snapshot() {
			fn(event, payload)
		}
	}
}

// deliver enqueues an event, waiting for buffer space. When ctx ends first the
// event is dropped and ctx's error returned.
func (bus *EventBus) deliver(ctx context.Context, event Event, payload any) error {
	select {
	case bus.ch <- envelope{event: event, payload: payload}:
		for _, fn := range bus.hooks.publish.snapshot() {
			fn(event, payload)
		}
		return nil
	case <-ctx.Done():
		for _, fn := range bus.hooks.drop.snapshot() {
			fn(event, payload)
		}
		return ctx.Err()
	}
}

func (bus *EventBus) reportPanic(event Event, payload any, recovered any) {
	for _, fn := range bus.hooks.panics.snapshot() {
		func() {
			defer func() { _ = recover() }()
			fn(event, payload, recovered)
		}()
	}
}
