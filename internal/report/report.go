// Package report renders a finished accrual computation for people and
// spreadsheets: the daily calculation log as CSV, a plain-text summary,
// and a multi-sheet XLSX workbook. The engine itself never serializes
// anything; this package owns all display rounding and date formatting.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
	"github.com/cgb78910/Interest-Calculator/internal/ingest"
)

// DateFormat is the dd/mm/yyyy layout used across all reports.
const DateFormat = "02/01/2006"

// logHeader is the fixed column layout of the calculation log.
var logHeader = []string{
	"Date", "Balance", "Interest Band", "Annual Rate (%)", "Daily Interest", "Cumulative Interest",
}

// WriteLogCSV writes the daily calculation log.
func WriteLogCSV(w io.Writer, result *domain.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(logHeader); err != nil {
		return err
	}
	for _, entry := range result.Log {
		rec := []string{
			entry.Date.Format(DateFormat),
			strconv.FormatFloat(entry.Balance, 'f', 2, 64),
			entry.Band,
			strconv.FormatFloat(entry.AnnualRatePct, 'f', 4, 64),
			strconv.FormatFloat(entry.DailyInterest, 'f', 6, 64),
			strconv.FormatFloat(entry.CumulativeInterest, 'f', 6, 64),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary bundles everything the text and workbook reports need beyond
// the computation result itself.
type Summary struct {
	Result      *domain.Result
	Ledger      *ingest.ParseResult
	EndDate     time.Time
	GeneratedAt time.Time
}

// TotalInterest is the display-rounded final total.
func (s *Summary) TotalInterest() float64 {
	return domain.RoundTo(s.Result.TotalInterest, 2)
}

// WriteSummaryText writes the plain-text summary report.
func WriteSummaryText(w io.Writer, s *Summary) error {
	stats := s.Result.Stats
	first, _ := s.Ledger.Period()

	_, err := fmt.Fprintf(w, `INTEREST CALCULATION SUMMARY
================================
Generated: %s
Period: %s - %s

FINANCIAL SUMMARY
-----------------
Total Interest Earned: £%.2f
Final Balance: £%.2f
Average Balance: £%.2f
Maximum Balance: £%.2f
Minimum Balance: £%.2f

CALCULATION DETAILS
-------------------
Total Days Calculated: %d
Days Earning Interest: %d
Interest Efficiency: %.1f%%
Total Transactions: %d
Net Transaction Value: £%.2f
`,
		s.GeneratedAt.Format("02/01/2006 15:04"),
		first.Format(DateFormat),
		s.EndDate.Format(DateFormat),
		s.TotalInterest(),
		s.Result.FinalBalance(),
		stats.MeanBalance,
		stats.MaxBalance,
		stats.MinBalance,
		stats.TotalDays,
		stats.DaysEarningInterest,
		stats.EarningEfficiency(),
		len(s.Ledger.Transactions),
		s.Ledger.NetChange(),
	)
	return err
}
