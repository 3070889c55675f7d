// Package ingest is the ledger adapter: it turns raw, inconsistently
// formatted CSV exports into a clean, ordered transaction sequence for the
// accrual core. Every ingestion variant the calculator has to cope with is
// expressed as a Profile rather than hand-copied parsing code.
package ingest

import (
	"fmt"
	"sort"
	"strings"
)

// Profile enumerates the configuration of one ingestion variant: how many
// metadata rows to skip, how to locate the date and amount columns, and
// which date convention the file uses.
type Profile struct {
	Name string `json:"name"`

	// SkipRows is the number of leading metadata rows discarded before
	// parsing starts.
	SkipRows int `json:"skip_rows"`

	// HasHeader selects header mode: the first row after SkipRows names
	// the columns, located via the alias lists below. Otherwise the
	// positional indexes are used.
	HasHeader     bool     `json:"has_header"`
	DateAliases   []string `json:"date_aliases,omitempty"`
	AmountAliases []string `json:"amount_aliases,omitempty"`
	DateIndex     int      `json:"date_index"`
	AmountIndex   int      `json:"amount_index"`

	// DayFirst selects the dd/mm date convention used by the ledger
	// exports. ISO dates are always accepted.
	DayFirst bool `json:"day_first"`
}

// Built-in profiles covering the known export layouts.
var builtin = []Profile{
	{
		// Bare two-column file: date, signed amount. No header.
		Name:        "clean",
		DateIndex:   0,
		AmountIndex: 1,
		DayFirst:    true,
	},
	{
		// Ledger report with two metadata rows then a header row. The
		// amount column has gone by several names across exports.
		Name:          "ledger",
		SkipRows:      2,
		HasHeader:     true,
		DateAliases:   []string{"Date"},
		AmountAliases: []string{"Client", "Client Amount", "Change", "Amount"},
		DayFirst:      true,
	},
	{
		// Legacy full ledger report: five metadata rows, no header,
		// client amount in the fourth column.
		Name:        "legacy",
		SkipRows:    5,
		DateIndex:   0,
		AmountIndex: 3,
		DayFirst:    true,
	},
}

// ProfileByName returns a built-in profile.
func ProfileByName(name string) (Profile, error) {
	for _, p := range builtin {
		if strings.EqualFold(p.Name, name) {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("unknown ingest profile %q (available: %s)",
		name, strings.Join(ProfileNames(), ", "))
}

// DefaultProfile is the profile used when the caller names none.
func DefaultProfile() Profile {
	return builtin[0]
}

// ProfileNames lists the built-in profile names, sorted.
func ProfileNames() []string {
	names := make([]string, 0, len(builtin))
	for _, p := range builtin {
		names = append(names, p.Name)
	}
	sort.Strings(names)
	return names
}
