package handler

import (
	"net/http"

	"github.com/Dan9191/cashflow-service/internal/config"
	"github.com/Dan9191/cashflow-service/internal/middleware"
	"github.com/gorilla/mux"
)

// Router builds the HTTP routes of the service
func (h *Handler) Router(cfg *config.Config) *mux.Router {
	r := mux.NewRouter()
	r.Use(middleware.LoggingMiddleware(h.log))
	r.Use(middleware.CORSMiddleware(cfg.CORSOrigins))

	// Public routes
	r.HandleFunc("/", h.Root).Methods(http.MethodGet)
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/login", h.Login).Methods(http.MethodPost, http.MethodOptions)

	// Protected routes
	api := r.PathPrefix("/api/cashflow").Subrouter()
	api.Use(middleware.AuthMiddleware(cfg))
	api.HandleFunc("/generate", h.GenerateCashFlow).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/classify", h.ClassifyAccounts).Methods(http.MethodPost, http.MethodOptions)
	api.HandleFunc("/periods", h.ListPeriods).Methods(http.MethodGet, http.MethodOptions)

	return r
}
