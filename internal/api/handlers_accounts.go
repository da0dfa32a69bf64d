package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

type amountRequest struct {
	Amount string `json:"amount"`
}

// BalanceHandler handles GET /accounts/{username}/balance.
func (h *HandlerProvider) BalanceHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	balance, err := h.accounts.Balance(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}

// DepositHandler handles POST /accounts/{username}/deposit.
func (h *HandlerProvider) DepositHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req amountRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := h.accounts.Deposit(r.Context(), username, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}

type withdrawRequest struct {
	Amount string `json:"amount"`
	UPIPin string `json:"upiPin"`
}

// WithdrawHandler handles POST /accounts/{username}/withdraw.
func (h *HandlerProvider) WithdrawHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req withdrawRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	balance, err := h.accounts.Withdraw(r.Context(), username, amount, req.UPIPin)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}

type pinChangeRequest struct {
	OldPIN string `json:"oldPin"`
	NewPIN string `json:"newPin"`
}

// PINChangeRequestHandler handles POST /accounts/{username}/pin/request.
func (h *HandlerProvider) PINChangeRequestHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req pinChangeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	email, err := h.accounts.RequestPINChange(r.Context(), username, req.OldPIN, req.NewPIN)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "code sent",
		"sentTo": email,
	})
}

type codeRequest struct {
	Code string `json:"code"`
}

// PINChangeConfirmHandler handles POST /accounts/{username}/pin/confirm.
func (h *HandlerProvider) PINChangeConfirmHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req codeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.accounts.ConfirmPINChange(r.Context(), username, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "UPI PIN updated"})
}

// TransactionsHandler handles GET /accounts/{username}/transactions.
func (h *HandlerProvider) TransactionsHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.accounts.Transactions(r.Context(), username, filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": toEntryJSON(entries)})
}

// StatementHandler handles GET /accounts/{username}/statement: the last 20
// ledger entries, newest first, with holder name and generation time.
func (h *HandlerProvider) StatementHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	st, err := h.accounts.StatementForUser(r.Context(), username)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"accountNumber": st.AccountNumber,
		"holderName":    st.HolderName,
		"generatedAt":   st.GeneratedAt.Format(time.RFC3339),
		"entries":       toEntryJSON(st.Entries),
	})
}
