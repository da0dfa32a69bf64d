package api

import (
	"errors"
	"net/http"

	"github.com/fastprodman/novabank/internal/repos/accounts"
	accountssvc "github.com/fastprodman/novabank/internal/services/accounts"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	DOB      string `json:"dob"`
	Address  string `json:"address"`
	Username string `json:"username"`
	Password string `json:"password"`
	UPIPin   string `json:"upiPin"`
}

// RegisterHandler handles POST /register.
func (h *HandlerProvider) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	if req.Name == "" || req.Email == "" || req.Phone == "" || req.Username == "" {
		writeError(w, http.StatusBadRequest, "name, email, phone and username are required")
		return
	}

	accountNumber, err := h.accounts.Register(r.Context(), accountssvc.RegisterParams{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		DOB:      req.DOB,
		Address:  req.Address,
		Username: req.Username,
		Password: req.Password,
		UPIPin:   req.UPIPin,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"accountNumber": accountNumber})
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

// LoginHandler handles POST /login.
func (h *HandlerProvider) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	acct, err := h.accounts.Authenticate(r.Context(), req.Identifier, req.Password)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"username":      acct.Username,
		"accountNumber": acct.AccountNumber,
		"name":          acct.Name,
	})
}

type passwordResetRequest struct {
	Identifier string `json:"identifier"`
}

// PasswordResetRequestHandler handles POST /password-reset/request.
//
// The response is identical whether or not the identifier matches an
// account, to avoid user enumeration.
func (h *HandlerProvider) PasswordResetRequestHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordResetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	_, err := h.accounts.RequestPasswordReset(r.Context(), req.Identifier)
	if err != nil && !errors.Is(err, accounts.ErrNotFound) {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "if this account exists, a code has been sent to the registered email",
	})
}

type passwordResetConfirm struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	NewPassword string `json:"newPassword"`
}

// PasswordResetConfirmHandler handles POST /password-reset/confirm.
func (h *HandlerProvider) PasswordResetConfirmHandler(w http.ResponseWriter, r *http.Request) {
	var req passwordResetConfirm
	if !decodeBody(w, r, &req) {
		return
	}

	err := h.accounts.ConfirmPasswordReset(r.Context(), req.Email, req.Code, req.NewPassword)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "password updated"})
}
