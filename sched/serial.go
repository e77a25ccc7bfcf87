// Package sched layers execution contexts on top of the pulse Receive
// contract. The engine itself is synchronous; a scheduler adapter defers
// downstream receiver invocation onto a named context while preserving
// at-most-once delivery and pulse order.
package sched

import (
	"sync"

	"github.com/delaneyj/pulseparty/pulse"
)

// Serial runs enqueued tasks one at a time on a single worker goroutine,
// FIFO. Tasks enqueued after Stop are discarded.
type Serial struct {
	tasks   chan func()
	done    chan struct{}
	stopped sync.Once
	drained sync.WaitGroup
}

func NewSerial(depth int) *Serial {
	q := &Serial{
		tasks: make(chan func(), depth),
		done:  make(chan struct{}),
	}
	q.drained.Add(1)
	go func() {
		defer q.drained.Done()
		for {
			select {
			case task := <-q.tasks:
				task()
			case <-q.done:
				// drain what was already queued, then exit
				for {
					select {
					case task := <-q.tasks:
						task()
					default:
						return
					}
				}
			}
		}
	}()
	return q
}

func (q *Serial) Enqueue(task func()) {
	select {
	case <-q.done:
	case q.tasks <- task:
	}
}

// Stop shuts the worker down after draining already-queued tasks and waits
// for it to exit.
func (q *Serial) Stop() {
	q.stopped.Do(func() {
		close(q.done)
	})
	q.drained.Wait()
}

// Wrap defers a stream's receiver invocations onto q. Each pulse is
// delivered at most once and pulses are not reordered relative to each
// other.
func Wrap[P any](q *Serial, s pulse.Stream[P]) pulse.Stream[P] {
	return s.Phase(func(upstream pulse.Stream[P], fn pulse.Receiver[P]) pulse.Receipt {
		return upstream.Receive(func(p P) {
			q.Enqueue(func() {
				fn(p)
			})
		})
	})
}
