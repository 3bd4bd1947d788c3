package auth

import "sync"

// Revocations fans session-revocation events out to subscribers. A subscriber
// that has unsubscribed never sees another event; publishing with no
// subscribers is a no-op. Events carry the revoked session's token hash, never
// the plaintext token.
type Revocations struct {
	mu     sync.Mutex
	nextID int
	subs   map[int]func(tokenHash string)
}

// NewRevocations creates an empty broadcaster.
func NewRevocations() *Revocations {
	return &Revocations{subs: make(map[int]func(string))}
}

// Subscribe registers fn and returns an unsubscribe function. Unsubscribing
// more than once is harmless.
func (r *Revocations) Subscribe(fn func(tokenHash string)) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.subs[id] = fn
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		delete(r.subs, id)
		r.mu.Unlock()
	}
}

// Publish notifies all current subscribers of a revoked session. Subscribers
// are invoked synchronously under no lock ordering guarantee between them;
// callbacks must not block.
func (r *Revocations) Publish(tokenHash string) {
	r.mu.Lock()
	fns := make([]func(string), 0, len(r.subs))
	for _, fn := range r.subs {
		fns = append(fns, fn)
	}
	r.mu.Unlock()

	for _, fn := range fns {
		fn(tokenHash)
	}
}
