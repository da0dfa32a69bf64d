// Package otp implements the one-time-passcode challenge registry used to
// gate sensitive operations (transfers, password resets, PIN changes).
//
// A challenge is single-use, single-purpose and carries a bounded budget of
// incorrect attempts. At most one live challenge exists per identifier;
// issuing a new one replaces the old one unconditionally.
package otp

import (
	"errors"
	"fmt"
	"time"
)

const (
	// TTL is the absolute lifetime of a challenge.
	TTL = 300 * time.Second

	// MaxAttempts is the incorrect-attempt ceiling before a challenge is
	// invalidated.
	MaxAttempts = 5
)

// Purpose tags a challenge with the operation it protects. A challenge
// issued for one purpose never verifies for another.
type Purpose string

const (
	PurposePasswordReset   Purpose = "password_reset"
	PurposeTransferConfirm Purpose = "transfer_confirm"
	PurposePINChange       Purpose = "pin_change"
)

var (
	ErrNotFound          = errors.New("challenge not found")
	ErrPurposeMismatch   = errors.New("challenge purpose mismatch")
	ErrExpired           = errors.New("challenge expired")
	ErrAttemptsExhausted = errors.New("too many incorrect attempts")
)

// IncorrectCodeError reports a failed code comparison and how many attempts
// remain before the challenge is invalidated.
type IncorrectCodeError struct {
	Remaining int
}

func (e *IncorrectCodeError) Error() string {
	return fmt.Sprintf("incorrect code: %d attempts left", e.Remaining)
}

// Challenge is one live OTP challenge keyed by its identifier (an email
// address). Payload carries the operation-specific data needed to complete
// the protected action after verification.
type Challenge struct {
	Identifier string
	Code       string
	Purpose    Purpose
	Payload    map[string]string
	CreatedAt  time.Time
	ExpiresAt  time.Time
	Attempts   int
}

// Store is the backing map for the registry. Implementations do not need to
// be safe for concurrent use; the registry serializes access.
type Store interface {
	Get(identifier string) (*Challenge, bool)
	Put(identifier string, ch *Challenge)
	Delete(identifier string)
}

type memStore struct {
	entries map[string]*Challenge
}

// NewMemStore returns an in-process Store backed by a plain map.
func NewMemStore() Store {
	return &memStore{entries: make(map[string]*Challenge)}
}

func (s *memStore) Get(identifier string) (*Challenge, bool) {
	ch, ok := s.entries[identifier]
	return ch, ok
}

func (s *memStore) Put(identifier string, ch *Challenge) {
	s.entries[identifier] = ch
}

func (s *memStore) Delete(identifier string) {
	delete(s.entries, identifier)
}
