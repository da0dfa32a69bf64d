package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/fastprodman/novabank/internal/config"
)

// NewServer creates a configured *http.Server for the banking API.
func NewServer(port uint16, h *HandlerProvider, adminCfg config.AdminConfig) *http.Server {
	return &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           NewRouter(h, adminCfg),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}
}
