package accounts

import (
	"context"
	"fmt"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

func (r *accountsRepo) UpdatePassword(ctx context.Context, email, newPassword string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET password = $2
		WHERE email = $1
	`, email, newPassword)
	if err != nil {
		return fmt.Errorf("update password: %w", err)
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

func (r *accountsRepo) UpdatePIN(ctx context.Context, email, newPIN string) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE accounts
		SET upi_pin = $2
		WHERE email = $1
	`, email, newPIN)
	if err != nil {
		return fmt.Errorf("update pin: %w", err)
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
