package pulse

// Stream is the push producer contract: Receive registers a callback and
// returns the Receipt that undoes exactly that registration. The zero
// Stream never emits; receiving from it yields an already-cancelled
// receipt.
type Stream[P any] struct {
	receive func(Receiver[P]) Receipt
}

// NewStream wraps a raw receive function. Combinators and adapters build
// streams this way; they compose an existing stream's Receive instead of
// reimplementing registry bookkeeping.
func NewStream[P any](receive func(Receiver[P]) Receipt) Stream[P] {
	return Stream[P]{receive: receive}
}

func (s Stream[P]) Receive(fn Receiver[P]) Receipt {
	if s.receive == nil {
		return Terminated()
	}
	return s.receive(fn)
}

// Phase derives a same-typed stream whose Receive delegates through build.
// build is handed the upstream stream and the downstream receiver and
// returns the receipt tying them together.
func (s Stream[P]) Phase(build func(upstream Stream[P], fn Receiver[P]) Receipt) Stream[P] {
	return NewStream(func(fn Receiver[P]) Receipt {
		return build(s, fn)
	})
}

// Lift derives a stream of a different pulse type: transform turns a
// Q-receiver into the P-receiver that is actually registered upstream.
// Map and Filter are one-liners over this.
func Lift[P, Q any](s Stream[P], transform func(Receiver[Q]) Receiver[P]) Stream[Q] {
	return NewStream(func(fn Receiver[Q]) Receipt {
		return s.Receive(transform(fn))
	})
}

// Emitter is a registry-backed stream values can be pushed into. Emit
// fans the pulse out synchronously on the calling goroutine.
type Emitter[P any] struct {
	reg *Registry[P]
}

func NewEmitter[P any](opts ...RegistryOption) *Emitter[P] {
	return &Emitter[P]{reg: NewRegistry[P](opts...)}
}

func (e *Emitter[P]) Emit(p P) {
	e.reg.Dispatch(p)
}

func (e *Emitter[P]) Stream() Stream[P] {
	return NewStream(func(fn Receiver[P]) Receipt {
		token := e.reg.Add(fn)
		return NewReceipt(func() {
			e.reg.Remove(token)
		})
	})
}

// Registry exposes the emitter's broadcaster for diagnostics (receiver
// counts, dropped-pulse counter).
func (e *Emitter[P]) Registry() *Registry[P] {
	return e.reg
}
