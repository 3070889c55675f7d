// Package refdata owns the two reference tables the accrual engine reads:
// the rate schedule and the band table. A Store loads them from CSV once,
// validates them, and hands out immutable snapshots; callers inject the
// store wherever reference data is needed instead of relying on process
// globals.
package refdata

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
	"github.com/cgb78910/Interest-Calculator/internal/ingest"
)

var (
	// ErrNotLoaded is returned by Snapshot before the first Load.
	ErrNotLoaded = errors.New("reference data not loaded")

	// ErrEmptyTable is returned when a reference file parses to no rows.
	ErrEmptyTable = errors.New("reference data file is empty")
)

// Tables is one immutable snapshot of the reference data. Rates are held
// in a stable ascending sort by effective date (ties keep file order, the
// documented tie-break input); bands ascending by minimum. Readers must
// not mutate a snapshot: concurrent computations share it without locks.
type Tables struct {
	Rates    []domain.RateEntry `json:"rates"`
	Bands    []domain.BandRange `json:"bands"`
	LoadedAt time.Time          `json:"loaded_at"`
}

// Store loads and republishes reference tables. Snapshot is safe for
// concurrent use; Load/Refresh atomically swap the published snapshot, so
// in-flight computations keep the view they started with.
type Store struct {
	ratesPath string
	bandsPath string
	current   atomic.Pointer[Tables]
}

// NewStore creates a store reading from the given CSV paths. Nothing is
// loaded until Load is called.
func NewStore(ratesPath, bandsPath string) *Store {
	return &Store{ratesPath: ratesPath, bandsPath: bandsPath}
}

// Load reads and validates both reference files, then publishes the new
// snapshot. On error the previously published snapshot, if any, stays
// in place.
func (s *Store) Load() error {
	rates, err := loadRatesFile(s.ratesPath)
	if err != nil {
		return fmt.Errorf("load rates: %w", err)
	}
	bands, err := loadBandsFile(s.bandsPath)
	if err != nil {
		return fmt.Errorf("load bands: %w", err)
	}

	tables := &Tables{Rates: rates, Bands: bands, LoadedAt: time.Now().UTC()}
	s.current.Store(tables)

	logrus.WithFields(logrus.Fields{
		"rates": len(rates),
		"bands": len(bands),
	}).Info("reference data loaded")
	return nil
}

// Refresh is an explicit reload of both files.
func (s *Store) Refresh() error { return s.Load() }

// Snapshot returns the currently published tables.
func (s *Store) Snapshot() (*Tables, error) {
	t := s.current.Load()
	if t == nil {
		return nil, ErrNotLoaded
	}
	return t, nil
}

// ─── Rates File ─────────────────────────────────────────────────────────────
// Expected columns: band, rate (annual percent), Start Date (day-first).

func loadRatesFile(path string) ([]domain.RateEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseRates(f)
}

// ParseRates reads the rate schedule CSV.
func ParseRates(r io.Reader) ([]domain.RateEntry, error) {
	records, header, err := readTable(r)
	if err != nil {
		return nil, err
	}

	bandIdx, err := columnIndex(header, "band")
	if err != nil {
		return nil, err
	}
	rateIdx, err := columnIndex(header, "rate")
	if err != nil {
		return nil, err
	}
	dateIdx, err := columnIndex(header, "Start Date")
	if err != nil {
		return nil, err
	}

	rates := make([]domain.RateEntry, 0, len(records))
	for i, rec := range records {
		if len(rec) <= bandIdx || len(rec) <= rateIdx || len(rec) <= dateIdx {
			return nil, fmt.Errorf("rates row %d: too few columns", i+1)
		}
		date, err := ingest.ParseDate(rec[dateIdx], true)
		if err != nil {
			return nil, fmt.Errorf("rates row %d: invalid date %q", i+1, rec[dateIdx])
		}
		rate, err := ingest.ParseAmount(rec[rateIdx])
		if err != nil {
			return nil, fmt.Errorf("rates row %d: invalid rate %q", i+1, rec[rateIdx])
		}
		rates = append(rates, domain.RateEntry{
			EffectiveDate: date,
			Band:          strings.TrimSpace(rec[bandIdx]),
			AnnualRatePct: rate,
		})
	}
	if len(rates) == 0 {
		return nil, ErrEmptyTable
	}

	// Stable sort so same-date duplicates keep file order; the lookup's
	// last-listed-wins tie-break depends on it.
	sort.SliceStable(rates, func(i, j int) bool {
		return rates[i].EffectiveDate.Before(rates[j].EffectiveDate)
	})
	return rates, nil
}

// ─── Bands File ─────────────────────────────────────────────────────────────
// Expected columns: band, lower (a "min-max" range).

func loadBandsFile(path string) ([]domain.BandRange, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ParseBands(f)
}

// ParseBands reads the band table CSV.
func ParseBands(r io.Reader) ([]domain.BandRange, error) {
	records, header, err := readTable(r)
	if err != nil {
		return nil, err
	}

	bandIdx, err := columnIndex(header, "band")
	if err != nil {
		return nil, err
	}
	rangeIdx, err := columnIndex(header, "lower")
	if err != nil {
		return nil, err
	}

	bands := make([]domain.BandRange, 0, len(records))
	for i, rec := range records {
		if len(rec) <= bandIdx || len(rec) <= rangeIdx {
			return nil, fmt.Errorf("bands row %d: too few columns", i+1)
		}
		min, max, err := parseRange(rec[rangeIdx])
		if err != nil {
			return nil, fmt.Errorf("bands row %d: %w", i+1, err)
		}
		bands = append(bands, domain.BandRange{
			Band:    strings.TrimSpace(rec[bandIdx]),
			Minimum: min,
			Maximum: max,
		})
	}
	if len(bands) == 0 {
		return nil, ErrEmptyTable
	}

	sort.SliceStable(bands, func(i, j int) bool {
		return bands[i].Minimum < bands[j].Minimum
	})
	return bands, nil
}

// parseRange splits a "min-max" cell into its numeric bounds.
func parseRange(raw string) (min, max float64, err error) {
	parts := strings.SplitN(strings.TrimSpace(raw), "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("invalid band range %q, want \"min-max\"", raw)
	}
	min, err = ingest.ParseAmount(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid band range %q: %w", raw, err)
	}
	max, err = ingest.ParseAmount(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid band range %q: %w", raw, err)
	}
	if min > max {
		return 0, 0, fmt.Errorf("invalid band range %q: minimum above maximum", raw)
	}
	return min, max, nil
}

// ─── Shared CSV Helpers ─────────────────────────────────────────────────────

func readTable(r io.Reader) (records [][]string, header []string, err error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	all, err := reader.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(all) == 0 {
		return nil, nil, ErrEmptyTable
	}

	header = all[0]
	for _, rec := range all[1:] {
		blank := true
		for _, f := range rec {
			if strings.TrimSpace(f) != "" {
				blank = false
				break
			}
		}
		if !blank {
			records = append(records, rec)
		}
	}
	return records, header, nil
}

func columnIndex(header []string, name string) (int, error) {
	for i, h := range header {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i, nil
		}
	}
	return 0, fmt.Errorf("missing column %q, file has: %s", name, strings.Join(header, ", "))
}
