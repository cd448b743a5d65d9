package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/bancoimob/gamebank/internal/api/handler"
	"github.com/bancoimob/gamebank/internal/api/middleware"
	"github.com/bancoimob/gamebank/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger   *slog.Logger
	Sessions *session.Service
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.Sessions)

	identityMiddleware := middleware.Identity()
	loggingMiddleware := middleware.Logging(cfg.Logger)
	recoveryMiddleware := middleware.Recovery(cfg.Logger)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(recoveryMiddleware)
	api.Use(loggingMiddleware)
	api.Use(identityMiddleware)

	// Session routes
	api.HandleFunc("/sessions", sessionHandler.Create).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}", sessionHandler.Get).Methods(http.MethodGet)
	api.HandleFunc("/sessions/{id}/players", sessionHandler.Join).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/start", sessionHandler.Start).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/transfers", sessionHandler.Transfer).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/disbursements", sessionHandler.Disburse).Methods(http.MethodPost)
	api.HandleFunc("/sessions/{id}/events", sessionHandler.Watch).Methods(http.MethodGet)

	// Room code resolution for clients typing the short code by hand
	api.HandleFunc("/rooms/{code}", sessionHandler.Resolve).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
