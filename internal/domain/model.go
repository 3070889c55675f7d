// Package domain contains the pure accrual core: reference table types, the
// band and rate lookups, and the day-by-day interest engine. It has ZERO
// infrastructure imports and performs no I/O, so every computation is a
// deterministic function of its inputs.
package domain

import (
	"math"
	"time"
)

// NoBand is the log value recorded on days where no balance band applies.
const NoBand = "None"

// DaysPerYear is the fixed day-count convention for converting an annual
// rate to a daily rate. No leap-year adjustment.
const DaysPerYear = 365

// ─── Reference Table Types ──────────────────────────────────────────────────

// RateEntry is one row of the rate schedule: the annual rate (in percent)
// that a band pays from EffectiveDate until superseded by a later entry
// for the same band.
type RateEntry struct {
	EffectiveDate time.Time `json:"effective_date"`
	Band          string    `json:"band"`
	AnnualRatePct float64   `json:"annual_rate_percent"`
}

// BandRange maps an inclusive balance range to a named band. The order of
// a []BandRange is contractual: overlapping ranges resolve to the first
// listed match.
type BandRange struct {
	Band    string  `json:"band"`
	Minimum float64 `json:"minimum"`
	Maximum float64 `json:"maximum"`
}

// Contains reports whether balance falls inside the range, inclusive of
// both ends.
func (b BandRange) Contains(balance float64) bool {
	return b.Minimum <= balance && balance <= b.Maximum
}

// ─── Ledger Types ───────────────────────────────────────────────────────────

// Transaction is a single balance change on the client account. Positive
// amounts are deposits, negative amounts are withdrawals. The ingestion
// layer guarantees Date and Amount are valid before the core sees them.
type Transaction struct {
	Date   time.Time `json:"date"`
	Amount float64   `json:"amount"`
}

// ─── Accrual Output Types ───────────────────────────────────────────────────

// LogEntry is one day of the accrual log. The numeric fields hold display
// values: balance rounded to 2 decimals, rate to 4, interest figures to 6.
// The engine's internal accumulators stay at full precision; only the
// snapshot written here is rounded.
type LogEntry struct {
	Date               time.Time `json:"date"`
	Balance            float64   `json:"balance"`
	Band               string    `json:"band"`
	AnnualRatePct      float64   `json:"annual_rate_percent"`
	DailyInterest      float64   `json:"daily_interest"`
	CumulativeInterest float64   `json:"cumulative_interest"`
}

// Statistics are pure reductions over the daily balance history.
type Statistics struct {
	MaxBalance          float64 `json:"max_balance"`
	MinBalance          float64 `json:"min_balance"`
	MeanBalance         float64 `json:"mean_balance"`
	DaysEarningInterest int     `json:"days_earning_interest"`
	TotalDays           int     `json:"total_days"`
}

// EarningEfficiency returns the percentage of days in the period that
// earned interest, or 0 for an empty period.
func (s Statistics) EarningEfficiency() float64 {
	if s.TotalDays == 0 {
		return 0
	}
	return float64(s.DaysEarningInterest) / float64(s.TotalDays) * 100
}

// Result is the full output of one accrual computation. TotalInterest is
// the full-precision running sum; callers round it for display.
type Result struct {
	Log           []LogEntry `json:"log"`
	TotalInterest float64    `json:"total_interest"`
	Stats         Statistics `json:"statistics"`
}

// FinalBalance returns the balance on the last day of the log, or 0 for
// an empty log.
func (r *Result) FinalBalance() float64 {
	if len(r.Log) == 0 {
		return 0
	}
	return r.Log[len(r.Log)-1].Balance
}

// ─── Utilities ──────────────────────────────────────────────────────────────

// Day normalizes t to midnight UTC. All engine arithmetic works on Day
// values so that two timestamps on the same calendar date compare equal.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RoundTo rounds x to the given number of decimal places, half away from
// zero.
func RoundTo(x float64, places int) float64 {
	pow := math.Pow(10, float64(places))
	return math.Round(x*pow) / pow
}
