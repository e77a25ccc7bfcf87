package pulse

import (
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/eapache/queue"
)

// Map transforms each pulse through f before forwarding.
func Map[P, Q any](s Stream[P], f func(P) Q) Stream[Q] {
	return Lift(s, func(fn Receiver[Q]) Receiver[P] {
		return func(p P) {
			fn(f(p))
		}
	})
}

// Filter forwards only pulses where pred holds.
func (s Stream[P]) Filter(pred func(P) bool) Stream[P] {
	return s.Phase(func(upstream Stream[P], fn Receiver[P]) Receipt {
		return upstream.Receive(func(p P) {
			if pred(p) {
				fn(p)
			}
		})
	})
}

// Merge forwards pulses from both sources untransformed, in push order.
// Receivers cannot tell which source a pulse came from. Cancelling the
// receipt cancels both upstream subscriptions.
func (s Stream[P]) Merge(other Stream[P]) Stream[P] {
	return NewStream(func(fn Receiver[P]) Receipt {
		return Composite(s.Receive(fn), other.Receive(fn))
	})
}

// MergeAll folds any number of same-typed streams pairwise. No streams
// yields the never stream.
func MergeAll[P any](streams ...Stream[P]) Stream[P] {
	var out Stream[P]
	for i, s := range streams {
		if i == 0 {
			out = s
			continue
		}
		out = out.Merge(s)
	}
	return out
}

// Either forwards (Some(a), None) or (None, Some(b)) immediately on any
// upstream pulse. Stateless: it does not wait for both sides.
func Either[A, B any](a Stream[A], b Stream[B]) Stream[Pair[Maybe[A], Maybe[B]]] {
	return NewStream(func(fn Receiver[Pair[Maybe[A], Maybe[B]]]) Receipt {
		return Composite(
			a.Receive(func(v A) {
				fn(PairOf(Some(v), None[B]()))
			}),
			b.Receive(func(v B) {
				fn(PairOf(None[A](), Some(v)))
			}),
		)
	})
}

// OneOf is Either with a tagged union instead of a pair of optionals.
func OneOf[A, B any](a Stream[A], b Stream[B]) Stream[Union[A, B]] {
	return NewStream(func(fn Receiver[Union[A, B]]) Receipt {
		return Composite(
			a.Receive(func(v A) {
				fn(LeftOf[A, B](v))
			}),
			b.Receive(func(v B) {
				fn(RightOf[A, B](v))
			}),
		)
	})
}

type zipConfig struct {
	capacity int
}

type ZipOption func(*zipConfig)

// ZipCapacity bounds each side's pending buffer: oldest excess elements
// are dropped silently. Zero means unbounded.
func ZipCapacity(n int) ZipOption {
	return func(c *zipConfig) { c.capacity = n }
}

// Zip buffers pulses from each side independently and emits the oldest
// pending pair whenever both buffers are non-empty. Each Receive call owns
// its own buffers.
func Zip[A, B any](a Stream[A], b Stream[B], opts ...ZipOption) Stream[Pair[A, B]] {
	var cfg zipConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return NewStream(func(fn Receiver[Pair[A, B]]) Receipt {
		var mu sync.Mutex
		pendingA := queue.New()
		pendingB := queue.New()

		trim := func(q *queue.Queue) {
			if cfg.capacity <= 0 {
				return
			}
			for q.Length() > cfg.capacity {
				q.Remove()
			}
		}
		drain := func() {
			for pendingA.Length() > 0 && pendingB.Length() > 0 {
				fn(PairOf(pendingA.Remove().(A), pendingB.Remove().(B)))
			}
		}

		return Composite(
			a.Receive(func(v A) {
				mu.Lock()
				defer mu.Unlock()
				pendingA.Add(v)
				trim(pendingA)
				drain()
			}),
			b.Receive(func(v B) {
				mu.Lock()
				defer mu.Unlock()
				pendingB.Add(v)
				trim(pendingB)
				drain()
			}),
		)
	})
}

// Combine retains the latest value from each side and emits a pair on
// every pulse once both sides have emitted at least once. Until that
// priming point nothing is forwarded.
func Combine[A, B any](a Stream[A], b Stream[B]) Stream[Pair[A, B]] {
	return NewStream(func(fn Receiver[Pair[A, B]]) Receipt {
		var (
			mu           sync.Mutex
			latestA      A
			latestB      B
			seenA, seenB bool
		)
		return Composite(
			a.Receive(func(v A) {
				mu.Lock()
				defer mu.Unlock()
				latestA, seenA = v, true
				if seenB {
					fn(PairOf(latestA, latestB))
				}
			}),
			b.Receive(func(v B) {
				mu.Lock()
				defer mu.Unlock()
				latestB, seenB = v, true
				if seenA {
					fn(PairOf(latestA, latestB))
				}
			}),
		)
	})
}

// Concat forwards pulses from every channel in the list, pairing each
// value with the originating channel's source. Unlike Merge, origin is
// visible per pulse.
func Concat[S, P any](channels ...Channel[S, P]) Stream[Sourced[S, P]] {
	return NewStream(func(fn Receiver[Sourced[S, P]]) Receipt {
		receipts := make([]Receipt, 0, len(channels))
		for _, ch := range channels {
			source := ch.Source()
			receipts = append(receipts, ch.Receive(func(p P) {
				fn(Sourced[S, P]{Source: source, Pulse: p})
			}))
		}
		return Composite(receipts...)
	})
}

// Flatten subscribes to each inner stream as the outer stream delivers it,
// forwarding every inner pulse into one merged output. Inner sources are
// not retained once merged.
func Flatten[P any](outer Stream[Stream[P]]) Stream[P] {
	return NewStream(func(fn Receiver[P]) Receipt {
		inner := mapset.NewSet[Receipt]()
		outerReceipt := outer.Receive(func(s Stream[P]) {
			inner.Add(s.Receive(fn))
		})
		return NewReceipt(func() {
			outerReceipt.Cancel()
			inner.Each(func(r Receipt) bool {
				r.Cancel()
				return false
			})
			inner.Clear()
		})
	})
}

// FlatMap maps each pulse to a stream and flattens the result.
func FlatMap[P, Q any](s Stream[P], f func(P) Stream[Q]) Stream[Q] {
	return Flatten(Map(s, f))
}
