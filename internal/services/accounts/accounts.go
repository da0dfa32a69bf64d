// Package accounts implements the user-facing account operations:
// registration, authentication, deposits and withdrawals, OTP-gated
// password resets and PIN changes, ledger queries and the mini-statement
// data contract.
package accounts

import (
	"database/sql"
	"errors"
	"regexp"
	"time"

	"github.com/fastprodman/novabank/internal/notify"
	"github.com/fastprodman/novabank/internal/otp"
	"github.com/fastprodman/novabank/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/novabank/internal/repos/accounts/postgres"
	"github.com/fastprodman/novabank/internal/repos/ledger"
	pgledger "github.com/fastprodman/novabank/internal/repos/ledger/postgres"
)

var (
	ErrInvalidCredentials = errors.New("invalid identifier or password")
	ErrInvalidPIN         = errors.New("incorrect UPI PIN")
	ErrInvalidPINFormat   = errors.New("UPI PIN must be exactly 6 digits")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInvalidDOB         = errors.New("date of birth must be YYYY-MM-DD")
	ErrUnderage           = errors.New("must be at least 18 years old")
	ErrInvalidPassword    = errors.New("password must not be empty")
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	ledger   ledger.Ledger
	otps     *otp.Registry
	notifier notify.Notifier
	now      func() time.Time
}

func New(dbx *sql.DB, otps *otp.Registry, notifier notify.Notifier) *Service {
	return &Service{
		db:       dbx,
		accounts: pgaccounts.New(dbx),
		ledger:   pgledger.New(dbx),
		otps:     otps,
		notifier: notifier,
		now:      time.Now,
	}
}
