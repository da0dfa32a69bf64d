package accounts

import (
	"database/sql"

	"github.com/fastprodman/novabank/internal/repos/accounts"
)

var _ accounts.Accounts = (*accountsRepo)(nil)

type accountsRepo struct{ db *sql.DB }

func New(db *sql.DB) *accountsRepo {
	return &accountsRepo{db: db}
}

const accountColumns = `
	account_number, username, password, name, email, phone,
	dob, address, upi_pin, balance, created_at
`

func scanAccount(row *sql.Row) (accounts.Account, error) {
	var a accounts.Account

	err := row.Scan(
		&a.AccountNumber, &a.Username, &a.Password, &a.Name, &a.Email,
		&a.Phone, &a.DOB, &a.Address, &a.UPIPin, &a.Balance, &a.CreatedAt,
	)

	return a, err
}
