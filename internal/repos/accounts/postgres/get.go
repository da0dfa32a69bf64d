package accounts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

func (r *accountsRepo) GetByIdentifier(ctx context.Context, identifier string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE username = $1 OR email = $1 OR phone = $1
		LIMIT 1
	`, identifier)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Account{}, accounts.ErrNotFound
		}

		return accounts.Account{}, fmt.Errorf("get account by identifier: %w", err)
	}

	return a, nil
}

func (r *accountsRepo) GetByAccountNumber(ctx context.Context, accountNumber string) (accounts.Account, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE account_number = $1
	`, accountNumber)

	a, err := scanAccount(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return accounts.Account{}, accounts.ErrNotFound
		}

		return accounts.Account{}, fmt.Errorf("get account by number: %w", err)
	}

	return a, nil
}

func (r *accountsRepo) ListAll(ctx context.Context) ([]accounts.Account, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+accountColumns+`
		FROM accounts
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var out []accounts.Account

	for rows.Next() {
		var a accounts.Account

		err := rows.Scan(
			&a.AccountNumber, &a.Username, &a.Password, &a.Name, &a.Email,
			&a.Phone, &a.DOB, &a.Address, &a.UPIPin, &a.Balance, &a.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}

		out = append(out, a)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate accounts: %w", err)
	}

	return out, nil
}
