package accounts

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrNotFound          = errors.New("account not found")
	ErrAlreadyExists     = errors.New("username, email or phone already exists")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

// Account is one row of the account store. AccountNumber is immutable and
// globally unique; username, email and phone are each unique across all
// accounts. Balance only changes through committed operations.
type Account struct {
	AccountNumber string
	Username      string
	Password      string
	Name          string
	Email         string
	Phone         string
	DOB           string
	Address       string
	UPIPin        string
	Balance       decimal.Decimal
	CreatedAt     time.Time
}

type Accounts interface {
	// Create inserts a new account. A uniqueness violation on username,
	// email or phone maps to ErrAlreadyExists.
	Create(ctx context.Context, a Account) error

	// GetByIdentifier matches username, email or phone; first match wins.
	GetByIdentifier(ctx context.Context, identifier string) (Account, error)

	GetByAccountNumber(ctx context.Context, accountNumber string) (Account, error)

	// LockBalance locks the account row (FOR UPDATE) and returns its
	// current balance. Callers must hold the lock for the duration of any
	// dependent balance mutation.
	LockBalance(tx *sql.Tx, accountNumber string) (decimal.Decimal, error)

	IncreaseBalance(tx *sql.Tx, accountNumber string, amount decimal.Decimal) error

	// DecreaseBalance debits conditionally: it only applies when the
	// current balance covers the amount, otherwise ErrInsufficientFunds.
	DecreaseBalance(tx *sql.Tx, accountNumber string, amount decimal.Decimal) error

	UpdatePassword(ctx context.Context, email, newPassword string) error
	UpdatePIN(ctx context.Context, email, newPIN string) error

	// ListAll returns the account roster, newest first.
	ListAll(ctx context.Context) ([]Account, error)
}
