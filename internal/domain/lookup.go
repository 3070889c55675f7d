package domain

import "time"

// BandForBalance returns the band that applies to a balance, scanning the
// table in its given order and returning the first inclusive match. A
// negative balance never has a band, whatever the table says. The second
// return is false when no band applies; lookups never fail.
func BandForBalance(balance float64, bands []BandRange) (string, bool) {
	if balance < 0 {
		return "", false
	}
	for _, b := range bands {
		if b.Contains(balance) {
			return b.Band, true
		}
	}
	return "", false
}

// RateFor returns the annual rate (in percent) in force for a band on a
// given date: the entry for that band with the latest effective date on or
// before the date. With no band, or no entry effective yet, the rate is
// 0.0; lookups never fail.
//
// Tie-break: when two entries for the same band share an effective date,
// the one appearing later in the slice wins. Combined with the stable
// ascending sort applied at load time this is "last row after sorting",
// the documented policy.
func RateFor(date time.Time, band string, rates []RateEntry) float64 {
	if band == "" {
		return 0
	}
	day := Day(date)
	var (
		rate  float64
		best  time.Time
		found bool
	)
	for _, r := range rates {
		if r.Band != band || Day(r.EffectiveDate).After(day) {
			continue
		}
		// >= not >, so a later-listed entry with an equal date wins.
		if !found || !Day(r.EffectiveDate).Before(best) {
			best = Day(r.EffectiveDate)
			rate = r.AnnualRatePct
			found = true
		}
	}
	return rate
}
