package accounts

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

func (r *accountsRepo) LockBalance(tx *sql.Tx, accountNumber string) (decimal.Decimal, error) {
	var balance decimal.Decimal

	err := tx.QueryRow(`
		SELECT balance
		FROM accounts
		WHERE account_number = $1
		FOR UPDATE
	`, accountNumber).Scan(&balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, accounts.ErrNotFound
		}

		return decimal.Zero, fmt.Errorf("lock/get balance: %w", err)
	}

	return balance, nil
}

func (r *accountsRepo) IncreaseBalance(tx *sql.Tx, accountNumber string, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance + $2
		WHERE account_number = $1
	`, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("increase balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrNotFound
	}

	return nil
}

func (r *accountsRepo) DecreaseBalance(tx *sql.Tx, accountNumber string, amount decimal.Decimal) error {
	res, err := tx.Exec(`
		UPDATE accounts
		SET balance = balance - $2
		WHERE account_number = $1
		  AND balance >= $2
	`, accountNumber, amount)
	if err != nil {
		return fmt.Errorf("decrease balance: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}

	if affected == 0 {
		return accounts.ErrInsufficientFunds
	}

	return nil
}
