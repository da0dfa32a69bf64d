package ledger

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/fastprodman/novabank/internal/repos/ledger"
)

var _ ledger.Ledger = (*ledgerRepo)(nil)

type ledgerRepo struct{ db *sql.DB }

func New(db *sql.DB) *ledgerRepo {
	return &ledgerRepo{db: db}
}

func (r *ledgerRepo) Append(tx *sql.Tx, e ledger.Entry) error {
	var counterparty sql.NullString
	if e.Counterparty != "" {
		counterparty = sql.NullString{String: e.Counterparty, Valid: true}
	}

	_, err := tx.Exec(`
		INSERT INTO ledger (reference, account_number, kind, amount, counterparty, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, e.Reference, e.AccountNumber, string(e.Kind), e.Amount, counterparty, e.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert ledger entry: %w", err)
	}

	return nil
}

func (r *ledgerRepo) Query(ctx context.Context, accountNumber string, f ledger.Filter) ([]ledger.Entry, error) {
	var (
		conds []string
		args  []any
	)

	arg := func(v any) string {
		args = append(args, v)
		return "$" + strconv.Itoa(len(args))
	}

	if accountNumber != "" {
		conds = append(conds, "account_number = "+arg(accountNumber))
	}
	if f.Kind != "" {
		conds = append(conds, "kind = "+arg(string(f.Kind)))
	}
	if f.From != nil {
		conds = append(conds, "created_at >= "+arg(*f.From))
	}
	if f.To != nil {
		conds = append(conds, "created_at <= "+arg(*f.To))
	}
	if f.MinAmount != nil {
		conds = append(conds, "amount >= "+arg(*f.MinAmount))
	}
	if f.MaxAmount != nil {
		conds = append(conds, "amount <= "+arg(*f.MaxAmount))
	}
	if f.Counterparty != "" {
		conds = append(conds, "counterparty LIKE "+arg("%"+f.Counterparty+"%"))
	}

	query := `
		SELECT id, reference, account_number, kind, amount, counterparty, created_at
		FROM ledger
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY id DESC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func (r *ledgerRepo) Recent(ctx context.Context, accountNumber string, limit int) ([]ledger.Entry, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, reference, account_number, kind, amount, counterparty, created_at
		FROM ledger
		WHERE account_number = $1
		ORDER BY id DESC
		LIMIT $2
	`, accountNumber, limit)
	if err != nil {
		return nil, fmt.Errorf("recent ledger entries: %w", err)
	}
	defer rows.Close()

	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]ledger.Entry, error) {
	var out []ledger.Entry

	for rows.Next() {
		var (
			e            ledger.Entry
			kind         string
			counterparty sql.NullString
		)

		err := rows.Scan(&e.ID, &e.Reference, &e.AccountNumber, &kind, &e.Amount, &counterparty, &e.CreatedAt)
		if err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}

		e.Kind = ledger.Kind(kind)
		e.Counterparty = counterparty.String

		out = append(out, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ledger entries: %w", err)
	}

	return out, nil
}
