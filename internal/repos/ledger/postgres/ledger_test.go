package ledger

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/infra/pgtestutil"
	"github.com/fastprodman/novabank/internal/repos/ledger"
)

func seedAccounts(t *testing.T, db *sql.DB, accountNumbers ...string) {
	t.Helper()

	for i, accNo := range accountNumbers {
		_, err := db.Exec(`
			INSERT INTO accounts (account_number, username, password, name, email, phone, dob)
			VALUES ($1, $2, 'p', $2, $2 || '@example.com', $3, '1990-01-01')
		`, accNo, accNo+"-user", accNo+"-ph"+string(rune('0'+i)))
		if err != nil {
			t.Fatalf("seed account %s: %v", accNo, err)
		}
	}
}

func appendEntry(t *testing.T, db *sql.DB, repo *ledgerRepo, e ledger.Entry) {
	t.Helper()

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	if err := repo.Append(tx, e); err != nil {
		_ = tx.Rollback()
		t.Fatalf("append: %v", err)
	}

	if err := tx.Commit(); err != nil {
		t.Fatalf("commit: %v", err)
	}
}

func TestLedger_AppendAndRecent(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	seedAccounts(t, db, "ACC1")

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)

	for i := 0; i < 25; i++ {
		appendEntry(t, db, repo, ledger.Entry{
			Reference:     uuid.New(),
			AccountNumber: "ACC1",
			Kind:          ledger.KindDeposit,
			Amount:        decimal.NewFromInt(int64(i + 1)),
			CreatedAt:     base.Add(time.Duration(i) * time.Minute),
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := repo.Recent(ctx, "ACC1", 20)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}

	if len(entries) != 20 {
		t.Fatalf("want 20 entries, got %d", len(entries))
	}

	// Newest first.
	if !entries[0].Amount.Equal(decimal.NewFromInt(25)) {
		t.Fatalf("want newest entry first, got amount %s", entries[0].Amount)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].ID > entries[i-1].ID {
			t.Fatalf("entries not in descending order at %d", i)
		}
	}
}

func TestLedger_QueryFilters(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	seedAccounts(t, db, "ACC1", "ACC2")

	day1 := time.Date(2025, 5, 1, 9, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 5, 2, 9, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 5, 3, 9, 0, 0, 0, time.UTC)

	ref := uuid.New()

	seed := []ledger.Entry{
		{Reference: uuid.New(), AccountNumber: "ACC1", Kind: ledger.KindDeposit, Amount: decimal.RequireFromString("100.00"), CreatedAt: day1},
		{Reference: ref, AccountNumber: "ACC1", Kind: ledger.KindTransfer, Amount: decimal.RequireFromString("40.00"), Counterparty: "ACC2", CreatedAt: day2},
		{Reference: ref, AccountNumber: "ACC2", Kind: ledger.KindReceived, Amount: decimal.RequireFromString("40.00"), Counterparty: "ACC1", CreatedAt: day2},
		{Reference: uuid.New(), AccountNumber: "ACC1", Kind: ledger.KindWithdraw, Amount: decimal.RequireFromString("15.00"), CreatedAt: day3},
		{Reference: uuid.New(), AccountNumber: "ACC2", Kind: ledger.KindAdminDeposit, Amount: decimal.RequireFromString("500.00"), Counterparty: ledger.AdminCounterparty, CreatedAt: day3},
	}

	for _, e := range seed {
		appendEntry(t, db, repo, e)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	type tc struct {
		name    string
		account string
		filter  ledger.Filter
		want    int
	}

	min20 := decimal.RequireFromString("20.00")
	max100 := decimal.RequireFromString("100.00")

	tests := []tc{
		{name: "account_only", account: "ACC1", filter: ledger.Filter{}, want: 3},
		{name: "all_accounts", account: "", filter: ledger.Filter{}, want: 5},
		{name: "by_kind", account: "ACC1", filter: ledger.Filter{Kind: ledger.KindTransfer}, want: 1},
		{name: "date_range_inclusive", account: "ACC1", filter: ledger.Filter{From: &day2, To: &day3}, want: 2},
		{name: "amount_range_inclusive", account: "ACC1", filter: ledger.Filter{MinAmount: &min20, MaxAmount: &max100}, want: 2},
		{name: "counterparty_substring", account: "", filter: ledger.Filter{Counterparty: "ADMIN"}, want: 1},
		{name: "combined", account: "ACC1", filter: ledger.Filter{Kind: ledger.KindTransfer, Counterparty: "ACC2"}, want: 1},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.Query(ctx, tt.account, tt.filter)
			if err != nil {
				t.Fatalf("query: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("want %d entries, got %d", tt.want, len(got))
			}
		})
	}
}

func TestLedger_AppendRollsBackWithTransaction(t *testing.T) {
	t.Parallel()

	db, cleanup := pgtestutil.NewTestDB(t)
	defer cleanup()

	repo := New(db)
	seedAccounts(t, db, "ACC1")

	tx, err := db.Begin()
	if err != nil {
		t.Fatalf("begin: %v", err)
	}

	err = repo.Append(tx, ledger.Entry{
		Reference:     uuid.New(),
		AccountNumber: "ACC1",
		Kind:          ledger.KindDeposit,
		Amount:        decimal.NewFromInt(10),
		CreatedAt:     time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("append: %v", err)
	}

	if err := tx.Rollback(); err != nil {
		t.Fatalf("rollback: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	entries, err := repo.Query(ctx, "ACC1", ledger.Filter{})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("rolled-back entry visible: %d entries", len(entries))
	}
}
