// Package api wires HTTP routes to their handlers.
package api

import (
	"net/http"

	"vidgate/handlers"

	"github.com/gorilla/mux"
)

// Version is the server version reported by /api/version.
const Version = "1.0.0"

// handleOptions handles OPTIONS requests for CORS preflight
func handleOptions(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// Register mounts all API routes on the given router.
func Register(
	r *mux.Router,
	resolveHandler *handlers.ResolveHandler,
	instancesHandler *handlers.InstancesHandler,
	historyHandler *handlers.HistoryHandler,
	pageHandler *handlers.PageHandler,
) {
	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/resolve", resolveHandler.Resolve).Methods(http.MethodGet)
	api.HandleFunc("/resolve", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/instances", instancesHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/instances", handleOptions).Methods(http.MethodOptions)
	api.HandleFunc("/instances/probe", instancesHandler.Probe).Methods(http.MethodPost)
	api.HandleFunc("/instances/probe", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/history", historyHandler.List).Methods(http.MethodGet)
	api.HandleFunc("/history", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/page", pageHandler.Serve).Methods(http.MethodGet)
	api.HandleFunc("/page", handleOptions).Methods(http.MethodOptions)

	api.HandleFunc("/version", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"version":"` + Version + `"}`))
	}).Methods(http.MethodGet)
}
