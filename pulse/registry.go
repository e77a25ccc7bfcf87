package pulse

import "sync/atomic"

const DefaultMaxDepth = 1

// Receiver is a callback invoked once per pulse it is subscribed to.
type Receiver[P any] func(P)

type registration[P any] struct {
	token uint64
	fn    Receiver[P]
}

type registryConfig struct {
	lock     Lock
	maxDepth int
	onDrop   func()
}

type RegistryOption func(*registryConfig)

// WithLock swaps the registry's mutual exclusion. The default is a
// ReentrantLock so receivers may remove themselves or re-dispatch.
func WithLock(l Lock) RegistryOption {
	return func(c *registryConfig) { c.lock = l }
}

// WithMaxDepth bounds reentrant dispatch. A pulse pushed while maxDepth
// nested dispatches are already running is dropped, not delivered.
func WithMaxDepth(depth int) RegistryOption {
	return func(c *registryConfig) { c.maxDepth = depth }
}

// WithDropHook installs a diagnostic callback fired once per dropped pulse.
func WithDropHook(hook func()) RegistryOption {
	return func(c *registryConfig) { c.onDrop = hook }
}

// Registry is the ordered, lock-protected collection of receivers for one
// stream instance. Tokens grow monotonically and are never reused;
// dispatch order is registration order. Reentrancy limits and drop
// counters are per instance, never process-wide.
type Registry[P any] struct {
	lock      Lock
	maxDepth  int
	onDrop    func()
	entrancy  int
	nextToken uint64
	receivers []registration[P]
	dropped   atomic.Uint64
}

func NewRegistry[P any](opts ...RegistryOption) *Registry[P] {
	cfg := registryConfig{
		lock:     &ReentrantLock{},
		maxDepth: DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry[P]{
		lock:     cfg.lock,
		maxDepth: cfg.maxDepth,
		onDrop:   cfg.onDrop,
	}
}

// Add appends fn and returns its removal token. Mutating membership while
// the same registry is dispatching is a programmer error and panics.
func (r *Registry[P]) Add(fn Receiver[P]) uint64 {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.entrancy > 0 {
		panic("pulse: receiver added during dispatch on the same registry")
	}
	r.nextToken++
	r.receivers = append(r.receivers, registration[P]{token: r.nextToken, fn: fn})
	return r.nextToken
}

// Remove filters the receiver out. Safe at any time, including from within
// the receiver's own execution: removal builds a fresh slice, so an
// in-flight dispatch keeps iterating its own stable snapshot.
func (r *Registry[P]) Remove(token uint64) {
	r.lock.Lock()
	defer r.lock.Unlock()
	live := make([]registration[P], 0, len(r.receivers))
	for _, reg := range r.receivers {
		if reg.token != token {
			live = append(live, reg)
		}
	}
	r.receivers = live
}

// Dispatch invokes every registered receiver with p, in insertion order.
// Beyond maxDepth nested calls the pulse is dropped: no receiver sees it,
// the drop counter increments, and the optional hook fires.
func (r *Registry[P]) Dispatch(p P) {
	r.lock.Lock()
	defer r.lock.Unlock()
	if r.entrancy > r.maxDepth {
		r.dropped.Add(1)
		if r.onDrop != nil {
			r.onDrop()
		}
		return
	}
	r.entrancy++
	defer func() {
		r.entrancy--
	}()
	snapshot := r.receivers
	for _, reg := range snapshot {
		reg.fn(p)
	}
}

// Count reports the number of registered receivers.
func (r *Registry[P]) Count() int {
	r.lock.Lock()
	defer r.lock.Unlock()
	return len(r.receivers)
}

// Dropped reports how many pulses the reentrancy bound has discarded.
func (r *Registry[P]) Dropped() uint64 {
	return r.dropped.Load()
}
