package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"sync"
	"time"
)

// Registry issues and verifies challenges. All store access happens under a
// single mutex; in particular the attempt-counter increment in Verify is
// read-increment-write and must not interleave across requests.
type Registry struct {
	mu    sync.Mutex
	store Store
	ttl   time.Duration

	// now is replaceable for deterministic expiry tests.
	now func() time.Time
}

// NewRegistry returns a registry over the given store with the default TTL.
func NewRegistry(store Store) *Registry {
	return &Registry{
		store: store,
		ttl:   TTL,
		now:   time.Now,
	}
}

// Issue generates a random 6-digit code and stores a fresh challenge for the
// identifier, replacing any previous one. Delivery of the code is the
// caller's job; the registry never transmits anything.
func (r *Registry) Issue(identifier string, purpose Purpose, payload map[string]string) (string, error) {
	code, err := generateCode()
	if err != nil {
		return "", fmt.Errorf("generate code: %w", err)
	}

	created := r.now()

	r.mu.Lock()
	defer r.mu.Unlock()

	r.store.Put(identifier, &Challenge{
		Identifier: identifier,
		Code:       code,
		Purpose:    purpose,
		Payload:    payload,
		CreatedAt:  created,
		ExpiresAt:  created.Add(r.ttl),
	})

	return code, nil
}

// Verify checks a submitted code against the live challenge for identifier.
//
// On success the challenge is consumed and its payload returned. Expired or
// attempt-exhausted challenges are deleted as a side effect. A purpose
// mismatch leaves the challenge intact so a cross-purpose probe cannot burn
// a valid pending challenge. An incorrect code increments the attempt
// counter in place and reports how many attempts remain.
func (r *Registry) Verify(identifier, code string, purpose Purpose) (map[string]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ch, ok := r.store.Get(identifier)
	if !ok {
		return nil, ErrNotFound
	}

	if ch.Purpose != purpose {
		return nil, ErrPurposeMismatch
	}

	if r.now().After(ch.ExpiresAt) {
		r.store.Delete(identifier)
		return nil, ErrExpired
	}

	if ch.Attempts >= MaxAttempts {
		r.store.Delete(identifier)
		return nil, ErrAttemptsExhausted
	}

	if ch.Code != code {
		ch.Attempts++
		return nil, &IncorrectCodeError{Remaining: MaxAttempts - ch.Attempts}
	}

	r.store.Delete(identifier)

	return ch.Payload, nil
}

// generateCode draws a uniformly random code in [100000, 999999].
func generateCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900_000))
	if err != nil {
		return "", fmt.Errorf("read random: %w", err)
	}

	return fmt.Sprintf("%06d", n.Int64()+100_000), nil
}
