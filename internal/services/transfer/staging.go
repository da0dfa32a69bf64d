package transfer

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/otp"
)

// StagedTransfer is a validated transfer awaiting OTP confirmation. Nothing
// persistent changes until it is taken and committed.
type StagedTransfer struct {
	SenderUsername string
	FromAccount    string
	ToAccount      string
	ToName         string
	Amount         decimal.Decimal
	CreatedAt      time.Time
}

// Staging holds at most one staged transfer per sender. Entries share the
// lifetime of their paired OTP challenge: Take treats anything older than
// the challenge TTL as absent and reaps it lazily. There is no background
// sweeper.
type Staging struct {
	mu      sync.Mutex
	entries map[string]StagedTransfer
	ttl     time.Duration
	now     func() time.Time
}

func NewStaging() *Staging {
	return &Staging{
		entries: make(map[string]StagedTransfer),
		ttl:     otp.TTL,
		now:     time.Now,
	}
}

// Put stages a transfer for its sender, overwriting any prior staged
// transfer unconditionally.
func (s *Staging) Put(st StagedTransfer) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[st.SenderUsername] = st
}

// Take atomically removes and returns the staged transfer for sender. Under
// concurrent confirmation exactly one caller gets the entry.
func (s *Staging) Take(sender string) (StagedTransfer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.entries[sender]
	if !ok {
		return StagedTransfer{}, false
	}

	delete(s.entries, sender)

	if s.now().Sub(st.CreatedAt) > s.ttl {
		return StagedTransfer{}, false
	}

	return st, true
}
