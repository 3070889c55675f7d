package api

import (
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/cgb78910/Interest-Calculator/internal/ingest"
	"github.com/cgb78910/Interest-Calculator/internal/observability"
)

// handleRates returns the full rate schedule plus the rate currently in
// force per band.
// GET /api/reference/rates
func (s *Server) handleRates(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "reference data not loaded")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded_at": tables.LoadedAt,
		"rates":     tables.Rates,
		"latest":    tables.LatestRates(),
	})
}

// handleBands returns the band table with coverage diagnostics.
// GET /api/reference/bands
func (s *Server) handleBands(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "reference data not loaded")
		return
	}
	issues := tables.CheckCoverage()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"loaded_at": tables.LoadedAt,
		"bands":     tables.Bands,
		"issues":    issues,
	})
}

// handleRefresh reloads both reference files. In-flight computations keep
// the snapshot they started with.
// POST /api/reference/refresh
func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Refresh(); err != nil {
		observability.ReferenceReloads.WithLabelValues("error").Inc()
		logrus.WithError(err).Error("reference data refresh failed")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	observability.ReferenceReloads.WithLabelValues("ok").Inc()
	writeJSON(w, http.StatusOK, map[string]string{"status": "reloaded"})
}

// handleProfiles lists the available ingest profiles.
// GET /api/profiles
func (s *Server) handleProfiles(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"default":  s.defaultProfile,
		"profiles": ingest.ProfileNames(),
	})
}
