package domain

import (
	"errors"
	"fmt"
	"time"
)

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure, no infrastructure dependency.

var (
	// ErrNoTransactions is returned by Accrue when the ledger is empty:
	// with no transactions there is no first date to anchor the daily
	// sequence. The policy here is an error, not an empty log.
	ErrNoTransactions = errors.New("no transactions: cannot establish a start date")
)

// ComputationError reports an unexpected failure inside the daily loop,
// such as a non-finite accumulator. The whole computation is aborted; no
// partial log is returned.
type ComputationError struct {
	Date    time.Time
	Balance float64
	Reason  string
}

func (e *ComputationError) Error() string {
	return fmt.Sprintf("accrual failed on %s (balance %v): %s",
		e.Date.Format("2006-01-02"), e.Balance, e.Reason)
}
