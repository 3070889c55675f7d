package refdata

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
)

const ratesCSV = `band,rate,Start Date
Low,1.5,01/01/2022
Low,2.0,01/06/2023
Mid,3.25,01/01/2022
High,4.0,15/03/2023
`

const bandsCSV = `band,lower
Mid,5000-24999.99
Low,0-4999.99
High,25000-1000000
`

func writeFiles(t *testing.T, rates, bands string) (ratesPath, bandsPath string) {
	t.Helper()
	dir := t.TempDir()
	ratesPath = filepath.Join(dir, "rates.csv")
	bandsPath = filepath.Join(dir, "bands.csv")
	require.NoError(t, os.WriteFile(ratesPath, []byte(rates), 0o644))
	require.NoError(t, os.WriteFile(bandsPath, []byte(bands), 0o644))
	return
}

func TestStore_LoadAndSnapshot(t *testing.T) {
	store := NewStore(writeFiles(t, ratesCSV, bandsCSV))

	_, err := store.Snapshot()
	assert.ErrorIs(t, err, ErrNotLoaded)

	require.NoError(t, store.Load())

	tables, err := store.Snapshot()
	require.NoError(t, err)
	assert.Len(t, tables.Rates, 4)
	assert.Len(t, tables.Bands, 3)
	assert.False(t, tables.LoadedAt.IsZero())

	// Bands come back sorted by minimum regardless of file order.
	assert.Equal(t, []string{"Low", "Mid", "High"}, []string{
		tables.Bands[0].Band, tables.Bands[1].Band, tables.Bands[2].Band,
	})
	assert.Equal(t, 0.0, tables.Bands[0].Minimum)
	assert.Equal(t, 4999.99, tables.Bands[0].Maximum)

	// Rates sorted ascending by effective date.
	for i := 1; i < len(tables.Rates); i++ {
		assert.False(t, tables.Rates[i].EffectiveDate.Before(tables.Rates[i-1].EffectiveDate))
	}
}

func TestStore_LoadFailureKeepsPreviousSnapshot(t *testing.T) {
	ratesPath, bandsPath := writeFiles(t, ratesCSV, bandsCSV)
	store := NewStore(ratesPath, bandsPath)
	require.NoError(t, store.Load())

	require.NoError(t, os.WriteFile(ratesPath, []byte("band,rate,Start Date\nLow,bad,01/01/2022\n"), 0o644))
	err := store.Refresh()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid rate")

	tables, err := store.Snapshot()
	require.NoError(t, err)
	assert.Len(t, tables.Rates, 4, "previous snapshot should survive a failed refresh")
}

func TestParseRates_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"empty file", "", "empty"},
		{"header only", "band,rate,Start Date\n", "empty"},
		{"missing column", "band,rate\nLow,1.5\n", `missing column "Start Date"`},
		{"bad date", "band,rate,Start Date\nLow,1.5,junk\n", "invalid date"},
		{"bad rate", "band,rate,Start Date\nLow,junk,01/01/2022\n", "invalid rate"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRates(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseBands_Errors(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{"missing range column", "band,upper\nLow,100\n", `missing column "lower"`},
		{"no separator", "band,lower\nLow,5000\n", "invalid band range"},
		{"non-numeric bound", "band,lower\nLow,abc-100\n", "invalid band range"},
		{"inverted bounds", "band,lower\nLow,100-50\n", "minimum above maximum"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseBands(strings.NewReader(tt.csv))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParseRates_StableTieOrder(t *testing.T) {
	// Two Low entries share an effective date; the later file row must
	// stay later after sorting so the lookup's tie-break sees it last.
	csv := "band,rate,Start Date\nLow,1.0,01/01/2022\nLow,9.0,01/01/2022\n"

	rates, err := ParseRates(strings.NewReader(csv))
	require.NoError(t, err)
	require.Len(t, rates, 2)
	assert.Equal(t, 9.0, rates[1].AnnualRatePct)

	got := domain.RateFor(time.Date(2022, 2, 1, 0, 0, 0, 0, time.UTC), "Low", rates)
	assert.Equal(t, 9.0, got)
}

func TestCheckCoverage(t *testing.T) {
	tables := &Tables{Bands: []domain.BandRange{
		{Band: "A", Minimum: 0, Maximum: 1000},
		{Band: "B", Minimum: 500, Maximum: 1500},   // overlaps A
		{Band: "C", Minimum: 3000, Maximum: 5000},  // gap after B
		{Band: "D", Minimum: 5000.01, Maximum: 9999.99}, // contiguous, no issue
	}}

	issues := tables.CheckCoverage()
	require.Len(t, issues, 2)
	assert.Equal(t, "overlap", issues[0].Kind)
	assert.Contains(t, issues[0].Detail, `"A"`)
	assert.Equal(t, "gap", issues[1].Kind)
	assert.Contains(t, issues[1].Detail, `"C"`)
}

func TestCheckCoverage_CleanTable(t *testing.T) {
	tables := &Tables{Bands: []domain.BandRange{
		{Band: "Low", Minimum: 0, Maximum: 4999.99},
		{Band: "Mid", Minimum: 5000, Maximum: 24999.99},
	}}
	assert.Empty(t, tables.CheckCoverage())
}

func TestLatestRates(t *testing.T) {
	rates, err := ParseRates(strings.NewReader(ratesCSV))
	require.NoError(t, err)

	latest := (&Tables{Rates: rates}).LatestRates()
	require.Len(t, latest, 3)
	assert.Equal(t, "High", latest[0].Band)
	assert.Equal(t, 2.0, latest[1].AnnualRatePct) // Low's June 2023 entry
	assert.Equal(t, "Mid", latest[2].Band)
}
