package pulse

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
)

// Lock serializes a registry's mutations and dispatch passes. The zero
// registry uses a ReentrantLock; swap it with WithLock.
type Lock interface {
	Lock()
	Unlock()
}

// NoopLock does nothing. For registries confined to a single goroutine.
type NoopLock struct{}

func (NoopLock) Lock()   {}
func (NoopLock) Unlock() {}

// SpinLock busy-waits on an atomic flag. Cheap for short critical sections,
// but a receiver that re-dispatches into its own registry will spin forever
// on it; use ReentrantLock when receivers recurse.
type SpinLock struct {
	held atomic.Bool
}

func (l *SpinLock) Lock() {
	for !l.held.CompareAndSwap(false, true) {
		runtime.Gosched()
	}
}

func (l *SpinLock) Unlock() {
	l.held.Store(false)
}

// ReentrantLock is a mutex the owning goroutine may re-acquire. Recursion
// through the lock is what lets a receiver dispatch into its own registry;
// the registry's entrancy counter, not the lock, bounds that recursion.
type ReentrantLock struct {
	mu    sync.Mutex
	owner atomic.Int64
	depth int
}

func (l *ReentrantLock) Lock() {
	id := goroutineID()
	if l.owner.Load() == id {
		l.depth++
		return
	}
	l.mu.Lock()
	l.owner.Store(id)
	l.depth = 1
}

func (l *ReentrantLock) Unlock() {
	if l.owner.Load() != goroutineID() {
		panic("pulse: reentrant lock unlocked by non-owner")
	}
	l.depth--
	if l.depth == 0 {
		l.owner.Store(0)
		l.mu.Unlock()
	}
}

// goroutineID parses the header of the current goroutine's stack trace:
// "goroutine 18 [running]:". There is no public API for this.
func goroutineID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	idField, _, _ := strings.Cut(header, " ")
	id, err := strconv.ParseInt(idField, 10, 64)
	if err != nil {
		panic("pulse: cannot parse goroutine id: " + err.Error())
	}
	return id
}
