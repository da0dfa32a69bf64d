package api

import (
	"net/http"
)

type adminDepositRequest struct {
	AccountNumber string `json:"accountNumber"`
	Amount        string `json:"amount"`
}

// AdminDepositHandler handles POST /admin/deposit.
func (h *HandlerProvider) AdminDepositHandler(w http.ResponseWriter, r *http.Request) {
	var req adminDepositRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	holder, err := h.admin.Deposit(r.Context(), req.AccountNumber, amount)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":     "deposit complete",
		"holderName": holder,
		"amount":     amount.StringFixed(2),
	})
}

// AdminAccountsHandler handles GET /admin/accounts.
func (h *HandlerProvider) AdminAccountsHandler(w http.ResponseWriter, r *http.Request) {
	all, err := h.admin.ListAccounts(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}

	type accountJSON struct {
		AccountNumber string `json:"accountNumber"`
		Name          string `json:"name"`
		Email         string `json:"email"`
		Phone         string `json:"phone"`
		Balance       string `json:"balance"`
	}

	out := make([]accountJSON, 0, len(all))
	for _, a := range all {
		out = append(out, accountJSON{
			AccountNumber: a.AccountNumber,
			Name:          a.Name,
			Email:         a.Email,
			Phone:         a.Phone,
			Balance:       a.Balance.StringFixed(2),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"accounts": out})
}

// AdminTransactionsHandler handles GET /admin/transactions: the full ledger
// across all accounts, narrowed by the same filters users get.
func (h *HandlerProvider) AdminTransactionsHandler(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := h.admin.Transactions(r.Context(), filter)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"transactions": toEntryJSON(entries)})
}
