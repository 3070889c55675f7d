package refdata

import (
	"fmt"
	"sort"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
)

// Issue is one advisory finding from a coverage check. Issues never stop a
// load: the lookup contract already resolves overlaps (first listed wins)
// and gaps (no band, zero rate), but operators want to see them.
type Issue struct {
	Kind   string `json:"kind"` // "overlap" or "gap"
	Detail string `json:"detail"`
}

// CheckCoverage inspects the band table for overlapping ranges and for
// gaps between consecutive ranges wider than a penny.
func (t *Tables) CheckCoverage() []Issue {
	bands := make([]domain.BandRange, len(t.Bands))
	copy(bands, t.Bands)
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Minimum < bands[j].Minimum })

	var issues []Issue
	for i := 1; i < len(bands); i++ {
		prev, cur := bands[i-1], bands[i]
		switch {
		case cur.Minimum <= prev.Maximum:
			issues = append(issues, Issue{
				Kind: "overlap",
				Detail: fmt.Sprintf("bands %q and %q overlap between %.2f and %.2f",
					prev.Band, cur.Band, cur.Minimum, prev.Maximum),
			})
		case cur.Minimum-prev.Maximum > 0.01:
			issues = append(issues, Issue{
				Kind: "gap",
				Detail: fmt.Sprintf("no band covers balances between %.2f and %.2f (%q to %q)",
					prev.Maximum, cur.Minimum, prev.Band, cur.Band),
			})
		}
	}
	return issues
}

// LatestRates returns the most recently effective rate per band, in band
// name order. Used by the reference data summary views.
func (t *Tables) LatestRates() []domain.RateEntry {
	latest := make(map[string]domain.RateEntry, len(t.Rates))
	for _, r := range t.Rates {
		// Rates are sorted ascending with stable ties, so a plain
		// overwrite leaves the winning entry per band.
		latest[r.Band] = r
	}

	names := make([]string, 0, len(latest))
	for name := range latest {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]domain.RateEntry, 0, len(names))
	for _, name := range names {
		out = append(out, latest[name])
	}
	return out
}
