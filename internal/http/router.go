package http

import (
	nethttp "net/http"

	"match-ledger-service/internal/http/handlers"
)

// NewRouter registers HTTP routes on a ServeMux.
func NewRouter(handler *handlers.Handler) nethttp.Handler {
	mux := nethttp.NewServeMux()
	mux.HandleFunc("GET /health", handler.Health)
	mux.HandleFunc("GET /ready", handler.Ready)
	mux.HandleFunc("POST /games", handler.CreateGame)
	mux.HandleFunc("GET /games", handler.ListGames)
	mux.HandleFunc("GET /games/{id}", handler.GameByID)
	mux.HandleFunc("PATCH /games/{id}", handler.PatchGame)
	mux.HandleFunc("POST /games/{id}/start", handler.StartGame)
	mux.HandleFunc("POST /games/{id}/events", handler.AppendEvent)
	mux.HandleFunc("DELETE /games/{id}/events/last", handler.RetractLast)
	mux.HandleFunc("GET /games/{id}/stats", handler.GameStats)
	mux.HandleFunc("GET /games/{id}/stats/line", handler.LineStats)
	mux.HandleFunc("GET /stats/aggregate", handler.AggregateStats)
	return mux
}
