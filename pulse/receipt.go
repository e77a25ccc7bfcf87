package pulse

import "sync/atomic"

// Receipt represents one subscription. Cancel is idempotent: the underlying
// action runs exactly once no matter how many goroutines race on it.
type Receipt interface {
	Cancel()
	Cancelled() bool
}

type receipt struct {
	done   atomic.Bool
	action func()
}

// NewReceipt returns an active receipt that runs action on the first Cancel.
func NewReceipt(action func()) Receipt {
	return &receipt{action: action}
}

func (r *receipt) Cancel() {
	if !r.done.CompareAndSwap(false, true) {
		return
	}
	if r.action != nil {
		r.action()
	}
}

func (r *receipt) Cancelled() bool {
	return r.done.Load()
}

// Noop returns an active receipt whose cancellation does nothing. Adapters
// hand these out when their underlying resource is already gone.
func Noop() Receipt {
	return &receipt{}
}

// Terminated returns a receipt that is already cancelled.
func Terminated() Receipt {
	r := &receipt{}
	r.done.Store(true)
	return r
}

// Composite returns a receipt that cancels every member exactly once.
// An empty composite is already cancelled: cancelling nothing succeeds
// trivially.
func Composite(receipts ...Receipt) Receipt {
	if len(receipts) == 0 {
		return Terminated()
	}
	return NewReceipt(func() {
		for _, r := range receipts {
			r.Cancel()
		}
	})
}
