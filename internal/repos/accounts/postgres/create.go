package accounts

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

func (r *accountsRepo) Create(ctx context.Context, a accounts.Account) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO accounts
			(account_number, username, password, name, email, phone,
			 dob, address, upi_pin, balance)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`,
		a.AccountNumber, a.Username, a.Password, a.Name, a.Email, a.Phone,
		a.DOB, a.Address, a.UPIPin, a.Balance,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
			return accounts.ErrAlreadyExists
		}

		return fmt.Errorf("insert account: %w", err)
	}

	return nil
}
