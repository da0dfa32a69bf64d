package ledger

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind classifies a ledger entry. The string values are the storage
// contract shared with the admin console and statement rendering.
type Kind string

const (
	KindDeposit      Kind = "Deposit"
	KindWithdraw     Kind = "Withdraw"
	KindTransfer     Kind = "Transfer"
	KindReceived     Kind = "Received"
	KindAdminDeposit Kind = "Admin Deposit"
)

// AdminCounterparty is the sentinel counterparty recorded for manual
// deposits made from the admin console.
const AdminCounterparty = "BANK-ADMIN"

// Entry is one append-only ledger record. Entries are never mutated or
// deleted. The two entries of a transfer share a Reference and CreatedAt
// and cross-reference each other's account number as Counterparty.
type Entry struct {
	ID            int64
	Reference     uuid.UUID
	AccountNumber string
	Kind          Kind
	Amount        decimal.Decimal
	Counterparty  string
	CreatedAt     time.Time
}

// Filter narrows a ledger query. Nil/zero fields are ignored. Date and
// amount bounds are inclusive; Counterparty is a substring match.
type Filter struct {
	Kind         Kind
	From         *time.Time
	To           *time.Time
	MinAmount    *decimal.Decimal
	MaxAmount    *decimal.Decimal
	Counterparty string
}

type Ledger interface {
	// Append inserts an entry inside the caller's transaction so the
	// entry and its balance update commit or roll back together.
	Append(tx *sql.Tx, e Entry) error

	// Query returns entries for one account, newest first. An empty
	// accountNumber matches all accounts (admin audit).
	Query(ctx context.Context, accountNumber string, f Filter) ([]Entry, error)

	// Recent returns the newest entries for an account, up to limit.
	Recent(ctx context.Context, accountNumber string, limit int) ([]Entry, error)
}
