package api

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
	"github.com/cgb78910/Interest-Calculator/internal/ingest"
	"github.com/cgb78910/Interest-Calculator/internal/observability"
	"github.com/cgb78910/Interest-Calculator/internal/report"
)

// calculation carries everything produced by one upload-and-compute round
// trip, shared by the JSON and export handlers.
type calculation struct {
	ID      string
	Ledger  *ingest.ParseResult
	Result  *domain.Result
	EndDate time.Time
}

// handleCalculate runs a computation and responds with the full JSON
// result.
// POST /api/calculate (multipart: file, end_date, profile)
func (s *Server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	calc, ok := s.runCalculation(w, r)
	if !ok {
		return
	}

	first, last := calc.Ledger.Period()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"request_id": calc.ID,
		"transactions": map[string]interface{}{
			"count":        len(calc.Ledger.Transactions),
			"rows_dropped": calc.Ledger.RowsDropped,
			"net_change":   domain.RoundTo(calc.Ledger.NetChange(), 2),
			"first_date":   first.Format(time.DateOnly),
			"last_date":    last.Format(time.DateOnly),
		},
		"end_date":       calc.EndDate.Format(time.DateOnly),
		"total_interest": domain.RoundTo(calc.Result.TotalInterest, 2),
		"final_balance":  calc.Result.FinalBalance(),
		"statistics":     calc.Result.Stats,
		"log":            calc.Result.Log,
	})
}

// handleExport runs the same computation and streams a report download.
// POST /api/calculate/export?format=csv|txt|xlsx
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	switch format {
	case "csv", "txt", "xlsx":
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("unsupported export format %q", format))
		return
	}

	calc, ok := s.runCalculation(w, r)
	if !ok {
		return
	}

	summary := &report.Summary{
		Result:      calc.Result,
		Ledger:      calc.Ledger,
		EndDate:     calc.EndDate,
		GeneratedAt: time.Now().UTC(),
	}
	stamp := summary.GeneratedAt.Format("20060102_1504")

	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=interest_calculation_%s.csv", stamp))
		err = report.WriteLogCSV(w, calc.Result)
	case "txt":
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=interest_summary_%s.txt", stamp))
		err = report.WriteSummaryText(w, summary)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=interest_report_%s.xlsx", stamp))
		err = report.WriteWorkbook(w, summary)
	}
	if err != nil {
		logrus.WithError(err).WithField("request_id", calc.ID).Error("report export failed")
	}
}

// runCalculation does the shared upload, ingest and accrual work. On
// failure it writes the error response itself and returns ok=false.
func (s *Server) runCalculation(w http.ResponseWriter, r *http.Request) (*calculation, bool) {
	started := time.Now()
	id := uuid.NewString()

	tables, err := s.store.Snapshot()
	if err != nil {
		writeError(w, http.StatusServiceUnavailable, "reference data not loaded")
		return nil, false
	}

	if err := r.ParseMultipartForm(s.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "expected a multipart upload with a ledger file")
		return nil, false
	}

	endDate := domain.Day(time.Now().UTC())
	if raw := r.FormValue("end_date"); raw != "" {
		endDate, err = ingest.ParseDate(raw, false)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid end_date %q, want YYYY-MM-DD", raw))
			return nil, false
		}
	}

	profile, err := s.requestProfile(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return nil, false
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "missing ledger file upload (field \"file\")")
		return nil, false
	}
	defer file.Close()

	ledger, err := ingest.Parse(file, profile)
	if err != nil {
		observability.ObserveCalculation("invalid_input", 0, 0)
		if errors.Is(err, ingest.ErrNoValidRows) {
			writeError(w, http.StatusBadRequest, err.Error())
		} else {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("ledger parsing failed: %v", err))
		}
		return nil, false
	}
	observability.RowsDropped.Add(float64(ledger.RowsDropped))

	result, err := domain.Accrue(ledger.Transactions, endDate, tables.Rates, tables.Bands)
	if err != nil {
		var cerr *domain.ComputationError
		switch {
		case errors.Is(err, domain.ErrNoTransactions):
			observability.ObserveCalculation("invalid_input", 0, 0)
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.As(err, &cerr):
			observability.ObserveCalculation("error", 0, 0)
			writeError(w, http.StatusInternalServerError, cerr.Error())
		default:
			observability.ObserveCalculation("error", 0, 0)
			writeError(w, http.StatusInternalServerError, "computation failed")
		}
		return nil, false
	}

	elapsed := time.Since(started)
	observability.ObserveCalculation("ok", result.Stats.TotalDays, elapsed)
	logrus.WithFields(logrus.Fields{
		"request_id":   id,
		"profile":      profile.Name,
		"transactions": len(ledger.Transactions),
		"days":         result.Stats.TotalDays,
		"elapsed":      elapsed.Round(time.Millisecond),
	}).Info("calculation complete")

	return &calculation{ID: id, Ledger: ledger, Result: result, EndDate: endDate}, true
}

func (s *Server) requestProfile(r *http.Request) (ingest.Profile, error) {
	name := r.FormValue("profile")
	if name == "" {
		name = s.defaultProfile
	}
	return ingest.ProfileByName(name)
}
