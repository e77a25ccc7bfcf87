// Package bridge adapts imperative event sources to and from pulse
// streams. Producers push values through the engine's dispatch path from
// whatever goroutine a native event arrives on; the engine itself never
// hops threads.
package bridge

import (
	"sync"
	"sync/atomic"

	"github.com/delaneyj/pulseparty/pulse"
)

// Producer is the contract every external event source satisfies: Attach
// subscribes a receiver and returns the receipt that detaches exactly that
// subscription.
type Producer[P any] interface {
	Attach(pulse.Receiver[P]) pulse.Receipt
}

// Liveness reports whether a producer's underlying native resource still
// exists. An explicit capability check, not a weak reference.
type Liveness interface {
	Alive() bool
}

// StreamOf wraps a producer as a stream.
func StreamOf[P any](p Producer[P]) pulse.Stream[P] {
	return pulse.NewStream(p.Attach)
}

// LiveProducer is a producer whose underlying resource can die.
type LiveProducer[P any] interface {
	Producer[P]
	Liveness
}

// GuardedStream wraps a producer whose resource can die. Subscribing after
// the resource is gone yields a no-op receipt instead of crashing.
func GuardedStream[P any](p LiveProducer[P]) pulse.Stream[P] {
	return pulse.NewStream(func(fn pulse.Receiver[P]) pulse.Receipt {
		if !p.Alive() {
			return pulse.Noop()
		}
		return p.Attach(fn)
	})
}

// ChanSource pumps a Go channel into an emitter on its own goroutine. The
// pump stops when the channel closes or Close is called.
type ChanSource[P any] struct {
	emitter *pulse.Emitter[P]
	done    chan struct{}
	once    sync.Once
	closed  atomic.Bool
}

func FromChan[P any](ch <-chan P, opts ...pulse.RegistryOption) *ChanSource[P] {
	cs := &ChanSource[P]{
		emitter: pulse.NewEmitter[P](opts...),
		done:    make(chan struct{}),
	}
	go func() {
		for {
			select {
			case v, ok := <-ch:
				if !ok {
					cs.Close()
					return
				}
				cs.emitter.Emit(v)
			case <-cs.done:
				return
			}
		}
	}()
	return cs
}

func (cs *ChanSource[P]) Stream() pulse.Stream[P] {
	return cs.emitter.Stream()
}

func (cs *ChanSource[P]) Alive() bool {
	return !cs.closed.Load()
}

func (cs *ChanSource[P]) Close() {
	cs.once.Do(func() {
		cs.closed.Store(true)
		close(cs.done)
	})
}

// ToChan drains a stream into a buffered Go channel. A pulse arriving at a
// full buffer is dropped; Dropped reports how many. Cancelling the receipt
// detaches the subscription and closes the channel.
func ToChan[P any](s pulse.Stream[P], size int) (<-chan P, pulse.Receipt, func() uint64) {
	out := make(chan P, size)
	var dropped atomic.Uint64
	sub := s.Receive(func(p P) {
		select {
		case out <- p:
		default:
			dropped.Add(1)
		}
	})
	r := pulse.NewReceipt(func() {
		sub.Cancel()
		close(out)
	})
	return out, r, dropped.Load
}
