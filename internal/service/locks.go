package service

import "sync"

// paymentLocks serializes confirmation and refund work per payment id. The
// lock must be held across the whole check-then-act sequence, provider call
// included, so two racing confirms cannot both see a non-succeeded payment.
type paymentLocks struct {
	mu    sync.Mutex
	locks map[string]*paymentLock
}

type paymentLock struct {
	mu   sync.Mutex
	refs int
}

func newPaymentLocks() *paymentLocks {
	return &paymentLocks{locks: make(map[string]*paymentLock)}
}

// Lock blocks until the per-payment lock is held and returns the release
// func. Entries are reference counted and removed once idle.
func (p *paymentLocks) Lock(paymentID string) func() {
	p.mu.Lock()
	l, ok := p.locks[paymentID]
	if !ok {
		l = &paymentLock{}
		p.locks[paymentID] = l
	}
	l.refs++
	p.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		p.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(p.locks, paymentID)
		}
		p.mu.Unlock()
	}
}
