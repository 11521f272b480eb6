package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/scorekeeper/internal/api/handler"
	"github.com/mcoot/scorekeeper/internal/api/middleware"
	"github.com/mcoot/scorekeeper/internal/services/session"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger            *slog.Logger
	SessionController *session.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	sessionHandler := handler.NewSessionHandler(cfg.SessionController)

	// API subrouter with common middleware
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	sessions := api.PathPrefix("/session").Subrouter()
	sessions.HandleFunc("", sessionHandler.Get).Methods(http.MethodGet)
	sessions.HandleFunc("/restore", sessionHandler.Restore).Methods(http.MethodPost)
	sessions.HandleFunc("/roster-size", sessionHandler.Resize).Methods(http.MethodPut)
	sessions.HandleFunc("/phase", sessionHandler.SetPhase).Methods(http.MethodPut)
	sessions.HandleFunc("/start", sessionHandler.Start).Methods(http.MethodPost)
	sessions.HandleFunc("/setup", sessionHandler.BackToSetup).Methods(http.MethodPost)
	sessions.HandleFunc("/players/{id:[0-9]+}", sessionHandler.Rename).Methods(http.MethodPatch)
	sessions.HandleFunc("/players/{id:[0-9]+}/score", sessionHandler.AdjustScore).Methods(http.MethodPost)
	sessions.HandleFunc("/reset", sessionHandler.RequestReset).Methods(http.MethodPost)
	sessions.HandleFunc("/reset", sessionHandler.CancelReset).Methods(http.MethodDelete)
	sessions.HandleFunc("/reset/confirm", sessionHandler.ConfirmReset).Methods(http.MethodPost)
	sessions.HandleFunc("/ranking", sessionHandler.Ranking).Methods(http.MethodGet)

	// Health check endpoint
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
