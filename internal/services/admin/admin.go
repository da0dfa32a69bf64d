// Package admin implements the administrative console operations: manual
// deposits and cross-account transaction auditing.
package admin

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/infra/pgutils"
	"github.com/fastprodman/novabank/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/novabank/internal/repos/accounts/postgres"
	"github.com/fastprodman/novabank/internal/repos/ledger"
	pgledger "github.com/fastprodman/novabank/internal/repos/ledger/postgres"
)

var ErrInvalidAmount = errors.New("amount must be greater than zero")

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	ledger   ledger.Ledger
	now      func() time.Time
}

func New(dbx *sql.DB) *Service {
	return &Service{
		db:       dbx,
		accounts: pgaccounts.New(dbx),
		ledger:   pgledger.New(dbx),
		now:      time.Now,
	}
}

// Deposit manually credits an account and records an admin-deposit ledger
// entry with the BANK-ADMIN counterparty sentinel, in one transaction.
// Returns the account holder's name for the confirmation message.
func (s *Service) Deposit(ctx context.Context, accountNumber string, amount decimal.Decimal) (string, error) {
	if amount.Sign() <= 0 {
		return "", ErrInvalidAmount
	}

	acct, err := s.accounts.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return "", fmt.Errorf("get account: %w", err)
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		_, err := s.accounts.LockBalance(tx, accountNumber)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		err = s.accounts.IncreaseBalance(tx, accountNumber, amount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.ledger.Append(tx, ledger.Entry{
			Reference:     uuid.New(),
			AccountNumber: accountNumber,
			Kind:          ledger.KindAdminDeposit,
			Amount:        amount,
			Counterparty:  ledger.AdminCounterparty,
			CreatedAt:     s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return "", fmt.Errorf("admin deposit: %w", err)
	}

	slog.Info("admin deposit", "account", accountNumber, "amount", amount.StringFixed(2))

	return acct.Name, nil
}

// ListAccounts returns the roster for the admin dashboard.
func (s *Service) ListAccounts(ctx context.Context) ([]accounts.Account, error) {
	all, err := s.accounts.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}

	return all, nil
}

// Transactions audits the ledger across all accounts, narrowed by the
// filter.
func (s *Service) Transactions(ctx context.Context, f ledger.Filter) ([]ledger.Entry, error) {
	entries, err := s.ledger.Query(ctx, "", f)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}

	return entries, nil
}
