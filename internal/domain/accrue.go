package domain

import (
	"math"
	"time"
)

// Accrue runs the daily interest simulation from the first transaction
// date through endDate inclusive and returns the per-day log, the
// full-precision interest total, and summary statistics.
//
// Per day, in order:
//  1. The day's transactions post first, netted into a single delta, so
//     interest reflects the balance after that day's activity.
//  2. The balance is matched to a band (first match in table order).
//  3. A zero or negative balance earns nothing even when a range covers
//     it; otherwise the band's rate in force on that day applies at
//     rate/100/365.
//
// An endDate before the first transaction yields an empty log and a zero
// total, not an error. An empty ledger returns ErrNoTransactions. A
// non-finite balance or total aborts the whole run with *ComputationError;
// no partial log is emitted.
//
// Accrue reads its inputs and nothing else: it holds no state between
// calls, so identical inputs produce identical results and concurrent
// callers need no coordination.
func Accrue(transactions []Transaction, endDate time.Time, rates []RateEntry, bands []BandRange) (*Result, error) {
	if len(transactions) == 0 {
		return nil, ErrNoTransactions
	}

	// Same-day transactions net out before the balance updates: one
	// delta per date, applied once.
	byDay := make(map[time.Time]float64, len(transactions))
	start := Day(transactions[0].Date)
	for _, tx := range transactions {
		d := Day(tx.Date)
		byDay[d] += tx.Amount
		if d.Before(start) {
			start = d
		}
	}
	end := Day(endDate)

	var (
		balance  float64
		total    float64
		log      []LogEntry
		balances []float64
		earning  int
	)

	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		if delta, ok := byDay[day]; ok {
			balance += delta
		}
		balances = append(balances, balance)

		band, matched := BandForBalance(balance, bands)

		var annualRate, dailyInterest float64
		if matched && balance > 0 {
			annualRate = RateFor(day, band, rates)
			dailyInterest = balance * annualRate / 100 / DaysPerYear
		}
		total += dailyInterest
		if dailyInterest > 0 {
			earning++
		}

		if !isFinite(balance) || !isFinite(total) {
			return nil, &ComputationError{Date: day, Balance: balance, Reason: "non-finite accumulator"}
		}

		// The matched band name is logged even on zero-balance days;
		// only the rate and interest are suppressed.
		name := NoBand
		if matched {
			name = band
		}
		log = append(log, LogEntry{
			Date:               day,
			Balance:            RoundTo(balance, 2),
			Band:               name,
			AnnualRatePct:      RoundTo(annualRate, 4),
			DailyInterest:      RoundTo(dailyInterest, 6),
			CumulativeInterest: RoundTo(total, 6),
		})
	}

	return &Result{
		Log:           log,
		TotalInterest: total,
		Stats:         summarize(balances, earning),
	}, nil
}

func summarize(balances []float64, earning int) Statistics {
	s := Statistics{DaysEarningInterest: earning, TotalDays: len(balances)}
	if len(balances) == 0 {
		return s
	}
	s.MaxBalance = balances[0]
	s.MinBalance = balances[0]
	var sum float64
	for _, b := range balances {
		if b > s.MaxBalance {
			s.MaxBalance = b
		}
		if b < s.MinBalance {
			s.MinBalance = b
		}
		sum += b
	}
	s.MeanBalance = sum / float64(len(balances))
	return s
}

func isFinite(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0)
}
