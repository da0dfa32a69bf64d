package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

type transferRequest struct {
	ReceiverAccount string `json:"receiverAccount"`
	ReceiverName    string `json:"receiverName"`
	Amount          string `json:"amount"`
	UPIPin          string `json:"upiPin"`
}

// TransferRequestHandler handles POST /accounts/{username}/transfers.
// On success the transfer is staged and a confirmation code is on its way
// to the sender's registered email; nothing has moved yet.
func (h *HandlerProvider) TransferRequestHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req transferRequest
	if !decodeBody(w, r, &req) {
		return
	}

	amount, err := parseAmount(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	email, err := h.transfers.Request(r.Context(), username, req.ReceiverAccount, req.ReceiverName, amount, req.UPIPin)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{
		"status": "confirmation code sent",
		"sentTo": email,
	})
}

// TransferConfirmHandler handles POST /accounts/{username}/transfers/confirm.
func (h *HandlerProvider) TransferConfirmHandler(w http.ResponseWriter, r *http.Request) {
	username := chi.URLParam(r, "username")

	var req codeRequest
	if !decodeBody(w, r, &req) {
		return
	}

	res, err := h.transfers.Confirm(r.Context(), username, req.Code)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":       "transfer complete",
		"amount":       res.Amount.StringFixed(2),
		"toAccount":    res.ToAccount,
		"receiverName": res.ToName,
	})
}
