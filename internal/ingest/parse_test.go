package ingest

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParse_CleanProfile(t *testing.T) {
	csv := "01/02/2023,1000\n15/02/2023,-250.50\n"

	res, err := Parse(strings.NewReader(csv), DefaultProfile())
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, domain.Transaction{Date: day(2023, 2, 1), Amount: 1000}, res.Transactions[0])
	assert.Equal(t, domain.Transaction{Date: day(2023, 2, 15), Amount: -250.50}, res.Transactions[1])
	assert.Equal(t, 0, res.RowsDropped)
}

func TestParse_LedgerProfile(t *testing.T) {
	csv := strings.Join([]string{
		"Client Ledger Report",
		"Exported 01/03/2023",
		"Date,Reference,Client",
		`01/02/2023,TX1,"£68,000.00"`,
		`05/02/2023,TX2,"(1,500.00)"`,
		"not-a-date,TX3,100",
		"06/02/2023,TX4,garbage",
		"",
	}, "\n")

	p, err := ProfileByName("ledger")
	require.NoError(t, err)

	res, err := Parse(strings.NewReader(csv), p)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 68000.00, res.Transactions[0].Amount)
	assert.Equal(t, -1500.00, res.Transactions[1].Amount)
	assert.Equal(t, 4, res.RowsRead)
	assert.Equal(t, 2, res.RowsDropped)
}

func TestParse_LedgerProfileAmountAliases(t *testing.T) {
	// Different exports name the amount column differently.
	for _, col := range []string{"Client", "Client Amount", "Change", "Amount"} {
		csv := "meta\nmeta\nDate," + col + "\n01/02/2023,£500\n"

		p, _ := ProfileByName("ledger")
		res, err := Parse(strings.NewReader(csv), p)
		require.NoError(t, err, "column %q", col)
		require.Len(t, res.Transactions, 1)
		assert.Equal(t, 500.0, res.Transactions[0].Amount)
	}
}

func TestParse_LedgerProfileMissingColumns(t *testing.T) {
	csv := "meta\nmeta\nFoo,Bar\n01/02/2023,500\n"

	p, _ := ProfileByName("ledger")
	_, err := Parse(strings.NewReader(csv), p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing required columns")
}

func TestParse_LegacyProfile(t *testing.T) {
	rows := []string{
		"meta", "meta", "meta", "meta", "meta",
		"01/02/2023,REF-1,Smith & Co,\"£1,000.00\",bal",
		"02/02/2023,REF-2,Jones Ltd,(200.00),bal",
	}

	p, err := ProfileByName("legacy")
	require.NoError(t, err)

	res, err := Parse(strings.NewReader(strings.Join(rows, "\n")), p)
	require.NoError(t, err)

	require.Len(t, res.Transactions, 2)
	assert.Equal(t, 1000.0, res.Transactions[0].Amount)
	assert.Equal(t, -200.0, res.Transactions[1].Amount)
}

func TestParse_SortsByDate(t *testing.T) {
	csv := "15/02/2023,100\n01/01/2023,200\n10/02/2023,300\n"

	res, err := Parse(strings.NewReader(csv), DefaultProfile())
	require.NoError(t, err)

	first, last := res.Period()
	assert.Equal(t, day(2023, 1, 1), first)
	assert.Equal(t, day(2023, 2, 15), last)
	assert.InDelta(t, 600.0, res.NetChange(), 1e-9)
}

func TestParse_NoValidRows(t *testing.T) {
	csv := "junk,junk\nmore,junk\n"

	_, err := Parse(strings.NewReader(csv), DefaultProfile())
	assert.ErrorIs(t, err, ErrNoValidRows)
}

func TestParse_UTF8BOM(t *testing.T) {
	csv := "\xEF\xBB\xBF01/02/2023,100\n"

	res, err := Parse(strings.NewReader(csv), DefaultProfile())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, day(2023, 2, 1), res.Transactions[0].Date)
}

func TestParse_Windows1252Fallback(t *testing.T) {
	// 0xA3 is the pound sign in Windows-1252 and invalid as UTF-8.
	csv := "01/02/2023,\xA3500\n"

	res, err := Parse(strings.NewReader(csv), DefaultProfile())
	require.NoError(t, err)
	require.Len(t, res.Transactions, 1)
	assert.Equal(t, 500.0, res.Transactions[0].Amount)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		raw      string
		dayFirst bool
		want     time.Time
		wantErr  bool
	}{
		{raw: "01/02/2023", dayFirst: true, want: day(2023, 2, 1)},
		{raw: "1/2/2023", dayFirst: true, want: day(2023, 2, 1)},
		{raw: "01-02-2023", dayFirst: true, want: day(2023, 2, 1)},
		{raw: "01/02/23", dayFirst: true, want: day(2023, 2, 1)},
		{raw: "01/02/2023", dayFirst: false, want: day(2023, 1, 2)},
		{raw: "2023-02-01", dayFirst: true, want: day(2023, 2, 1)},
		{raw: "2023-02-01", dayFirst: false, want: day(2023, 2, 1)},
		{raw: "", dayFirst: true, wantErr: true},
		{raw: "yesterday", dayFirst: true, wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseDate(tt.raw, tt.dayFirst)
		if tt.wantErr {
			assert.Error(t, err, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    float64
		wantErr bool
	}{
		{raw: "1234.56", want: 1234.56},
		{raw: "£1,234.56", want: 1234.56},
		{raw: "$1234.56", want: 1234.56},
		{raw: "€ 99", want: 99},
		{raw: "(1234.56)", want: -1234.56},
		{raw: "(£1,000.00)", want: -1000},
		{raw: "-42.5", want: -42.5},
		{raw: "", wantErr: true},
		{raw: "n/a", wantErr: true},
		{raw: "12..3", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if tt.wantErr {
			assert.Error(t, err, "raw %q", tt.raw)
			continue
		}
		require.NoError(t, err, "raw %q", tt.raw)
		assert.Equal(t, tt.want, got, "raw %q", tt.raw)
	}
}

func TestProfileByName_Unknown(t *testing.T) {
	_, err := ProfileByName("mystery")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown ingest profile")
}
