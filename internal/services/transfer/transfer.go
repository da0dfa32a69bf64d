// Package transfer implements the OTP-gated transfer orchestrator: a
// transfer request is validated and staged in memory, gated behind a
// time-boxed email challenge, and only materialized into balances and the
// ledger after successful verification.
package transfer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/infra/pgutils"
	"github.com/fastprodman/novabank/internal/notify"
	"github.com/fastprodman/novabank/internal/otp"
	"github.com/fastprodman/novabank/internal/repos/accounts"
	pgaccounts "github.com/fastprodman/novabank/internal/repos/accounts/postgres"
	"github.com/fastprodman/novabank/internal/repos/ledger"
	pgledger "github.com/fastprodman/novabank/internal/repos/ledger/postgres"
)

var (
	ErrInvalidPIN        = errors.New("incorrect UPI PIN")
	ErrInvalidAmount     = errors.New("invalid or insufficient amount")
	ErrReceiverMismatch  = errors.New("receiver not found or name mismatch")
	ErrNoPendingTransfer = errors.New("no pending transfer")
)

type Service struct {
	db       *sql.DB
	accounts accounts.Accounts
	ledger   ledger.Ledger
	otps     *otp.Registry
	staged   *Staging
	notifier notify.Notifier
	now      func() time.Time
}

func New(dbx *sql.DB, otps *otp.Registry, staged *Staging, notifier notify.Notifier) *Service {
	return &Service{
		db:       dbx,
		accounts: pgaccounts.New(dbx),
		ledger:   pgledger.New(dbx),
		otps:     otps,
		staged:   staged,
		notifier: notifier,
		now:      time.Now,
	}
}

// Result describes a committed transfer.
type Result struct {
	FromAccount string
	ToAccount   string
	ToName      string
	Amount      decimal.Decimal
}

// Request validates a transfer, stages it and issues a confirmation
// challenge delivered to the sender's email. No balance or ledger mutation
// happens here. It returns the delivery address so the caller can tell the
// user where the code went.
//
// The balance check here is only a pre-check; Confirm re-validates against
// a locked balance because time passes during the challenge window.
func (s *Service) Request(ctx context.Context, sender, destAccount, destName string, amount decimal.Decimal, pin string) (string, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, sender)
	if err != nil {
		return "", fmt.Errorf("get sender: %w", err)
	}

	if pin != acct.UPIPin {
		return "", ErrInvalidPIN
	}

	if amount.Sign() <= 0 || amount.GreaterThan(acct.Balance) {
		return "", ErrInvalidAmount
	}

	recv, err := s.accounts.GetByAccountNumber(ctx, destAccount)
	if err != nil {
		if errors.Is(err, accounts.ErrNotFound) {
			return "", ErrReceiverMismatch
		}

		return "", fmt.Errorf("get receiver: %w", err)
	}

	if !strings.EqualFold(recv.Name, destName) {
		return "", ErrReceiverMismatch
	}

	s.staged.Put(StagedTransfer{
		SenderUsername: acct.Username,
		FromAccount:    acct.AccountNumber,
		ToAccount:      recv.AccountNumber,
		ToName:         recv.Name,
		Amount:         amount,
		CreatedAt:      s.now(),
	})

	code, err := s.otps.Issue(acct.Email, otp.PurposeTransferConfirm, map[string]string{
		"sender": acct.Username,
	})
	if err != nil {
		return "", fmt.Errorf("issue challenge: %w", err)
	}

	// Delivery failure must not fail staging; the user can request a
	// resend, which reissues and invalidates this code.
	body := fmt.Sprintf("Your transfer confirmation code is: %s\n\nThis code expires in 5 minutes.", code)

	err = s.notifier.Send(ctx, acct.Email, "NovaBank - Transfer Confirmation Code", body)
	if err != nil {
		slog.Warn("transfer code delivery failed", "to", acct.Email, "error", err)
	}

	return acct.Email, nil
}

// Confirm verifies the submitted code, pops the staged transfer and commits
// it atomically: both balance updates and both mirrored ledger entries
// succeed or none do.
//
// A verification failure leaves the staged transfer untouched, so a
// mistyped code only consumes challenge attempts.
func (s *Service) Confirm(ctx context.Context, sender, code string) (Result, error) {
	acct, err := s.accounts.GetByIdentifier(ctx, sender)
	if err != nil {
		return Result{}, fmt.Errorf("get sender: %w", err)
	}

	_, err = s.otps.Verify(acct.Email, code, otp.PurposeTransferConfirm)
	if err != nil {
		return Result{}, fmt.Errorf("verify challenge: %w", err)
	}

	st, ok := s.staged.Take(acct.Username)
	if !ok {
		return Result{}, ErrNoPendingTransfer
	}

	err = pgutils.WithTx(ctx, s.db, func(tx *sql.Tx) error {
		// Lock both rows in account-number order to avoid deadlocking
		// against a transfer running in the opposite direction.
		first, second := st.FromAccount, st.ToAccount
		if second < first {
			first, second = second, first
		}

		balances := make(map[string]decimal.Decimal, 2)

		for _, accNo := range []string{first, second} {
			bal, lerr := s.accounts.LockBalance(tx, accNo)
			if lerr != nil {
				return fmt.Errorf("lock account %s: %w", accNo, lerr)
			}

			balances[accNo] = bal
		}

		// Re-validate against the locked balance: it may have dropped
		// since staging.
		if balances[st.FromAccount].LessThan(st.Amount) {
			return fmt.Errorf("re-check balance: %w", accounts.ErrInsufficientFunds)
		}

		err := s.accounts.DecreaseBalance(tx, st.FromAccount, st.Amount)
		if err != nil {
			return fmt.Errorf("debit sender: %w", err)
		}

		err = s.accounts.IncreaseBalance(tx, st.ToAccount, st.Amount)
		if err != nil {
			return fmt.Errorf("credit receiver: %w", err)
		}

		ref := uuid.New()
		ts := s.now().UTC()

		err = s.ledger.Append(tx, ledger.Entry{
			Reference:     ref,
			AccountNumber: st.FromAccount,
			Kind:          ledger.KindTransfer,
			Amount:        st.Amount,
			Counterparty:  st.ToAccount,
			CreatedAt:     ts,
		})
		if err != nil {
			return fmt.Errorf("append debit entry: %w", err)
		}

		err = s.ledger.Append(tx, ledger.Entry{
			Reference:     ref,
			AccountNumber: st.ToAccount,
			Kind:          ledger.KindReceived,
			Amount:        st.Amount,
			Counterparty:  st.FromAccount,
			CreatedAt:     ts,
		})
		if err != nil {
			return fmt.Errorf("append credit entry: %w", err)
		}

		return nil
	})
	if err != nil {
		return Result{}, fmt.Errorf("commit transfer: %w", err)
	}

	slog.Info("transfer committed",
		"from", st.FromAccount, "to", st.ToAccount, "amount", st.Amount.StringFixed(2))

	return Result{
		FromAccount: st.FromAccount,
		ToAccount:   st.ToAccount,
		ToName:      st.ToName,
		Amount:      st.Amount,
	}, nil
}
