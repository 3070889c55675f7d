// Package api provides the HTTP facade around the accrual engine: upload
// a ledger export, get back the daily calculation log, totals and
// statistics, or a downloadable report. It also exposes the reference
// data and its refresh lifecycle.
package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cgb78910/Interest-Calculator/internal/refdata"
)

// Version is reported by /api/version.
const Version = "1.0.0"

// Server is the calculator's HTTP API server.
type Server struct {
	store          *refdata.Store
	defaultProfile string
	maxUploadBytes int64
	metricsEnabled bool
}

// NewServer creates an API server around a reference data store.
func NewServer(store *refdata.Store) *Server {
	return &Server{
		store:          store,
		defaultProfile: "clean",
		maxUploadBytes: 16 << 20,
	}
}

// EnableMetrics enables the /metrics Prometheus endpoint.
func (s *Server) EnableMetrics() { s.metricsEnabled = true }

// SetDefaultProfile sets the ingest profile used when a request names none.
func (s *Server) SetDefaultProfile(name string) { s.defaultProfile = name }

// SetMaxUpload caps the accepted ledger upload size in bytes.
func (s *Server) SetMaxUpload(n int64) { s.maxUploadBytes = n }

// Handler returns the chi router with all routes mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(2 * time.Minute))
	r.Use(corsMiddleware)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/api/version", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"version": Version})
	})

	r.Route("/api/reference", func(r chi.Router) {
		r.Get("/rates", s.handleRates)
		r.Get("/bands", s.handleBands)
		r.Post("/refresh", s.handleRefresh)
	})

	r.Get("/api/profiles", s.handleProfiles)
	r.Post("/api/calculate", s.handleCalculate)
	r.Post("/api/calculate/export", s.handleExport)

	if s.metricsEnabled {
		r.Handle("/metrics", promhttp.Handler())
	}

	return r
}

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]interface{}{
			"message": msg,
			"type":    "error",
		},
	})
}

// corsMiddleware adds CORS headers for browser clients.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
