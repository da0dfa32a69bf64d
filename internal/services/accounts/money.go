package accounts

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/infra/pgutils"
	"github.com/fastprodman/novabank/internal/repos/accounts"
	"github.com/fastprodman/novabank/internal/repos/ledger"
)

// Deposit credits the user's account and appends the matching ledger entry
// in one transaction.
func (s *Service) Deposit(ctx context.Context, username string, amount decimal.Decimal) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get account: %w", err)
	}

	var newBalance decimal.Decimal

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockBalance(tx, acct.AccountNumber)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		err = s.accounts.IncreaseBalance(tx, acct.AccountNumber, amount)
		if err != nil {
			return fmt.Errorf("increase balance: %w", err)
		}

		err = s.ledger.Append(tx, ledger.Entry{
			Reference:     uuid.New(),
			AccountNumber: acct.AccountNumber,
			Kind:          ledger.KindDeposit,
			Amount:        amount,
			CreatedAt:     s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		newBalance = balance.Add(amount)

		return nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("deposit: %w", err)
	}

	return newBalance, nil
}

// Withdraw checks the UPI PIN, then debits conditionally: the balance
// pre-check and the debit run against the same locked row.
func (s *Service) Withdraw(ctx context.Context, username string, amount decimal.Decimal, pin string) (decimal.Decimal, error) {
	if amount.Sign() <= 0 {
		return decimal.Zero, ErrInvalidAmount
	}

	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get account: %w", err)
	}

	if pin != acct.UPIPin {
		return decimal.Zero, ErrInvalidPIN
	}

	var newBalance decimal.Decimal

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		balance, err := s.accounts.LockBalance(tx, acct.AccountNumber)
		if err != nil {
			return fmt.Errorf("lock balance: %w", err)
		}

		if balance.LessThan(amount) {
			return fmt.Errorf("pre-check decrease: %w", accounts.ErrInsufficientFunds)
		}

		err = s.accounts.DecreaseBalance(tx, acct.AccountNumber, amount)
		if err != nil {
			return fmt.Errorf("decrease balance: %w", err)
		}

		err = s.ledger.Append(tx, ledger.Entry{
			Reference:     uuid.New(),
			AccountNumber: acct.AccountNumber,
			Kind:          ledger.KindWithdraw,
			Amount:        amount,
			CreatedAt:     s.now().UTC(),
		})
		if err != nil {
			return fmt.Errorf("append ledger entry: %w", err)
		}

		newBalance = balance.Sub(amount)

		return nil
	})
	if err != nil {
		return decimal.Zero, fmt.Errorf("withdraw: %w", err)
	}

	return newBalance, nil
}

// Balance returns the current balance without locking.
func (s *Service) Balance(ctx context.Context, username string) (decimal.Decimal, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return decimal.Zero, fmt.Errorf("get account: %w", err)
	}

	return acct.Balance, nil
}
