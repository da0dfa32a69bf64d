package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fastprodman/novabank/internal/otp"
	"github.com/fastprodman/novabank/internal/repos/accounts"
	"github.com/fastprodman/novabank/internal/repos/ledger"
	accountssvc "github.com/fastprodman/novabank/internal/services/accounts"
	adminsvc "github.com/fastprodman/novabank/internal/services/admin"
	transfersvc "github.com/fastprodman/novabank/internal/services/transfer"
)

// HandlerProvider wraps the services and exposes their HTTP handlers.
type HandlerProvider struct {
	accounts  *accountssvc.Service
	transfers *transfersvc.Service
	admin     *adminsvc.Service
}

func NewHandler(accounts *accountssvc.Service, transfers *transfersvc.Service, admin *adminsvc.Service) *HandlerProvider {
	return &HandlerProvider{accounts: accounts, transfers: transfers, admin: admin}
}

// --- Helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	err := json.NewEncoder(w).Encode(v)
	if err != nil {
		slog.Error("failed to encode JSON response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1MB cap
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}

	return true
}

// parseAmount parses a decimal currency string with up to 2 fractional
// digits.
func parseAmount(s string) (decimal.Decimal, error) {
	if s == "" {
		return decimal.Zero, fmt.Errorf("amount required")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid amount")
	}

	if d.Exponent() < -2 {
		return decimal.Zero, fmt.Errorf("amount supports up to 2 decimals")
	}

	return d, nil
}

// writeServiceError translates domain errors into user-facing responses.
// Internal identifiers and storage errors never leak; anything unmapped is
// a 500 with a generic message.
func writeServiceError(w http.ResponseWriter, err error) {
	var ice *otp.IncorrectCodeError
	if errors.As(err, &ice) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":             "incorrect code",
			"attempts_remaining": ice.Remaining,
		})

		return
	}

	switch {
	case errors.Is(err, accountssvc.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "invalid identifier or password")
	case errors.Is(err, accountssvc.ErrInvalidPIN), errors.Is(err, transfersvc.ErrInvalidPIN):
		writeError(w, http.StatusUnauthorized, "incorrect UPI PIN")
	case errors.Is(err, accountssvc.ErrInvalidAmount),
		errors.Is(err, transfersvc.ErrInvalidAmount),
		errors.Is(err, adminsvc.ErrInvalidAmount),
		errors.Is(err, accountssvc.ErrInvalidDOB),
		errors.Is(err, accountssvc.ErrUnderage),
		errors.Is(err, accountssvc.ErrInvalidPINFormat),
		errors.Is(err, accountssvc.ErrInvalidPassword):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, accounts.ErrAlreadyExists):
		writeError(w, http.StatusConflict, "username, email or phone already exists")
	case errors.Is(err, accounts.ErrInsufficientFunds):
		writeError(w, http.StatusConflict, "insufficient funds")
	case errors.Is(err, accounts.ErrNotFound):
		writeError(w, http.StatusNotFound, "account not found")
	case errors.Is(err, transfersvc.ErrReceiverMismatch):
		writeError(w, http.StatusNotFound, "receiver not found or name mismatch")
	case errors.Is(err, transfersvc.ErrNoPendingTransfer):
		writeError(w, http.StatusConflict, "no pending transfer found or already processed")
	case errors.Is(err, otp.ErrNotFound):
		writeError(w, http.StatusNotFound, "code not requested or already used")
	case errors.Is(err, otp.ErrPurposeMismatch):
		writeError(w, http.StatusConflict, "code purpose mismatch")
	case errors.Is(err, otp.ErrExpired):
		writeError(w, http.StatusGone, "code expired")
	case errors.Is(err, otp.ErrAttemptsExhausted):
		writeError(w, http.StatusTooManyRequests, "too many incorrect attempts, code invalidated")
	default:
		slog.Error("internal error", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// parseFilter reads the ledger query filters from URL query parameters.
// Date bounds are whole days, inclusive on both ends.
func parseFilter(r *http.Request) (ledger.Filter, error) {
	var f ledger.Filter

	q := r.URL.Query()

	if v := q.Get("type"); v != "" && v != "All" {
		f.Kind = ledger.Kind(v)
	}

	if v := q.Get("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid from date")
		}

		f.From = &t
	}

	if v := q.Get("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return f, fmt.Errorf("invalid to date")
		}

		end := t.Add(24*time.Hour - time.Nanosecond)
		f.To = &end
	}

	if v := q.Get("min_amount"); v != "" {
		d, err := parseAmount(v)
		if err != nil {
			return f, fmt.Errorf("invalid min_amount")
		}

		f.MinAmount = &d
	}

	if v := q.Get("max_amount"); v != "" {
		d, err := parseAmount(v)
		if err != nil {
			return f, fmt.Errorf("invalid max_amount")
		}

		f.MaxAmount = &d
	}

	f.Counterparty = q.Get("counterparty")

	return f, nil
}

// entryJSON is the wire shape of a ledger entry.
type entryJSON struct {
	ID           int64  `json:"id"`
	Reference    string `json:"reference"`
	Account      string `json:"accountNumber"`
	Kind         string `json:"type"`
	Amount       string `json:"amount"`
	Counterparty string `json:"counterparty,omitempty"`
	Date         string `json:"date"`
}

func toEntryJSON(entries []ledger.Entry) []entryJSON {
	out := make([]entryJSON, 0, len(entries))

	for _, e := range entries {
		out = append(out, entryJSON{
			ID:           e.ID,
			Reference:    e.Reference.String(),
			Account:      e.AccountNumber,
			Kind:         string(e.Kind),
			Amount:       e.Amount.StringFixed(2),
			Counterparty: e.Counterparty,
			Date:         e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}

	return out
}
