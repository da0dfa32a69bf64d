package accounts

import (
	"context"
	"fmt"
	"time"

	"github.com/fastprodman/novabank/internal/repos/ledger"
)

// statementEntries is the fixed mini-statement depth.
const statementEntries = 20

// Statement is the mini-statement data contract: the newest ledger entries
// first, with the holder's name and generation timestamp. Rendering (PDF or
// otherwise) belongs to the caller.
type Statement struct {
	AccountNumber string
	HolderName    string
	GeneratedAt   time.Time
	Entries       []ledger.Entry
}

func (s *Service) Statement(ctx context.Context, accountNumber string) (Statement, error) {
	acct, err := s.accounts.GetByAccountNumber(ctx, accountNumber)
	if err != nil {
		return Statement{}, fmt.Errorf("get account: %w", err)
	}

	entries, err := s.ledger.Recent(ctx, accountNumber, statementEntries)
	if err != nil {
		return Statement{}, fmt.Errorf("recent entries: %w", err)
	}

	return Statement{
		AccountNumber: acct.AccountNumber,
		HolderName:    acct.Name,
		GeneratedAt:   s.now().UTC(),
		Entries:       entries,
	}, nil
}

// StatementForUser resolves the user's account and returns its statement.
func (s *Service) StatementForUser(ctx context.Context, username string) (Statement, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return Statement{}, fmt.Errorf("get account: %w", err)
	}

	return s.Statement(ctx, acct.AccountNumber)
}

// Transactions returns the user's ledger entries, newest first, narrowed by
// the filter.
func (s *Service) Transactions(ctx context.Context, username string, f ledger.Filter) ([]ledger.Entry, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("get account: %w", err)
	}

	entries, err := s.ledger.Query(ctx, acct.AccountNumber, f)
	if err != nil {
		return nil, fmt.Errorf("query ledger: %w", err)
	}

	return entries, nil
}
