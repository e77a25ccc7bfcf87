package pulse

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
)

// EffectSource couples one upstream subscription (the effect: the
// side-effecting receiver that mutates accumulator state) with the
// downstream receipts depending on that state. Exactly one accumulator
// exists no matter how many receivers attach; that is what separates
// effect phases from the stateless combinators.
//
// The upstream is attached lazily on the first Receive and released when
// the last downstream receipt cancels. Cancelling the EffectSource itself
// cancels the effect and every downstream receipt.
type EffectSource[Q any] struct {
	mu         sync.Mutex
	reg        *Registry[Q]
	attach     func(Receiver[Q]) Receipt
	upstream   Receipt
	downstream mapset.Set[Receipt]
	done       atomic.Bool
}

// NewEffectSource builds an effect source whose attach function starts the
// upstream effect, pushing derived values through the provided emit.
func NewEffectSource[Q any](attach func(emit Receiver[Q]) Receipt, opts ...RegistryOption) *EffectSource[Q] {
	return &EffectSource[Q]{
		reg:        NewRegistry[Q](opts...),
		attach:     attach,
		downstream: mapset.NewSet[Receipt](),
	}
}

// Stream exposes the effect source's subscription surface.
func (es *EffectSource[Q]) Stream() Stream[Q] {
	return NewStream(es.receive)
}

func (es *EffectSource[Q]) receive(fn Receiver[Q]) Receipt {
	if es.done.Load() {
		return Terminated()
	}
	es.mu.Lock()
	token := es.reg.Add(fn)
	r := &receipt{}
	r.action = func() {
		es.reg.Remove(token)
		es.mu.Lock()
		es.downstream.Remove(r)
		var release Receipt
		if es.downstream.Cardinality() == 0 {
			release = es.upstream
			es.upstream = nil
		}
		es.mu.Unlock()
		if release != nil {
			release.Cancel()
		}
	}
	es.downstream.Add(r)
	if es.upstream == nil {
		es.upstream = es.attach(es.reg.Dispatch)
	}
	es.mu.Unlock()
	return r
}

// Cancel tears the whole phase down: the effect and every downstream
// receipt, each exactly once.
func (es *EffectSource[Q]) Cancel() {
	if !es.done.CompareAndSwap(false, true) {
		return
	}
	es.mu.Lock()
	release := es.upstream
	es.upstream = nil
	es.mu.Unlock()
	if release != nil {
		release.Cancel()
	}
	for _, r := range es.downstream.ToSlice() {
		r.Cancel()
	}
}

func (es *EffectSource[Q]) Cancelled() bool {
	return es.done.Load()
}

// effectPhase wires a step function with privately-held state into an
// EffectSource: one upstream subscription, one accumulator, shared by all
// downstream receivers.
func effectPhase[P, Q any](s Stream[P], step func(P, Receiver[Q])) Stream[Q] {
	es := NewEffectSource(func(emit Receiver[Q]) Receipt {
		return s.Receive(func(p P) {
			step(p, emit)
		})
	})
	return es.Stream()
}

// Reduce emits the running accumulator combine(acc, pulse) on every pulse.
func Reduce[P, A any](s Stream[P], initial A, combine func(A, P) A) Stream[A] {
	acc := initial
	return effectPhase(s, func(p P, emit Receiver[A]) {
		acc = combine(acc, p)
		emit(acc)
	})
}

// Enumerate emits (index, pulse), indexing from zero.
func Enumerate[P any](s Stream[P]) Stream[Pair[int, P]] {
	index := 0
	return effectPhase(s, func(p P, emit Receiver[Pair[int, P]]) {
		emit(PairOf(index, p))
		index++
	})
}

// Partition accumulates pulses into a buffer; when isPartition holds for
// the buffer as it stood before the pulse, the combined buffer is flushed
// downstream and the accumulator resets to initial. Otherwise the pulse is
// absorbed silently.
func Partition[P, A any](s Stream[P], initial A, isPartition func(A, P) bool, combine func(A, P) A) Stream[A] {
	acc := initial
	return effectPhase(s, func(p P, emit Receiver[A]) {
		next := combine(acc, p)
		if isPartition(acc, p) {
			emit(next)
			acc = initial
		} else {
			acc = next
		}
	})
}

// Accumulate buffers pulses in order until flushWhen holds, then flushes
// the whole sequence including the triggering pulse.
func Accumulate[P any](s Stream[P], flushWhen func(buffer []P, p P) bool) Stream[[]P] {
	return Partition(s, nil, flushWhen, func(buffer []P, p P) []P {
		return append(buffer, p)
	})
}

// Buffer flushes every n pulses.
func Buffer[P any](s Stream[P], n int) Stream[[]P] {
	return Accumulate(s, func(buffer []P, _ P) bool {
		return len(buffer) == n-1
	})
}

// Drop suppresses the first n pulses.
func Drop[P any](s Stream[P], n int) Stream[P] {
	indexed := Enumerate(s).Filter(func(ip Pair[int, P]) bool {
		return ip.First >= n
	})
	return Map(indexed, func(ip Pair[int, P]) P {
		return ip.Second
	})
}
