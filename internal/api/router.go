package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/fastprodman/novabank/internal/config"
)

// NewRouter constructs the router with all API endpoints registered.
func NewRouter(h *HandlerProvider, adminCfg config.AdminConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	r.Post("/register", h.RegisterHandler)
	r.Post("/login", h.LoginHandler)
	r.Post("/password-reset/request", h.PasswordResetRequestHandler)
	r.Post("/password-reset/confirm", h.PasswordResetConfirmHandler)

	r.Route("/accounts/{username}", func(r chi.Router) {
		r.Get("/balance", h.BalanceHandler)
		r.Post("/deposit", h.DepositHandler)
		r.Post("/withdraw", h.WithdrawHandler)
		r.Post("/transfers", h.TransferRequestHandler)
		r.Post("/transfers/confirm", h.TransferConfirmHandler)
		r.Post("/pin/request", h.PINChangeRequestHandler)
		r.Post("/pin/confirm", h.PINChangeConfirmHandler)
		r.Get("/transactions", h.TransactionsHandler)
		r.Get("/statement", h.StatementHandler)
	})

	r.Route("/admin", func(r chi.Router) {
		r.Use(adminOnly(adminCfg))
		r.Post("/deposit", h.AdminDepositHandler)
		r.Get("/accounts", h.AdminAccountsHandler)
		r.Get("/transactions", h.AdminTransactionsHandler)
	})

	return r
}
