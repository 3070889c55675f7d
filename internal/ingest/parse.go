package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding/charmap"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
)

// ErrNoValidRows is returned when cleaning leaves nothing to compute on.
// This is an ingestion condition, not a core failure.
var ErrNoValidRows = errors.New("no valid transactions found after data cleaning")

// ParseResult is the outcome of one ingestion run. Transactions are sorted
// ascending by date; rows that failed date or amount parsing were dropped
// and counted, so the core only ever sees valid records.
type ParseResult struct {
	Transactions []domain.Transaction `json:"transactions"`
	RowsRead     int                  `json:"rows_read"`
	RowsDropped  int                  `json:"rows_dropped"`
}

// NetChange is the sum of all transaction amounts.
func (r *ParseResult) NetChange() float64 {
	var sum float64
	for _, tx := range r.Transactions {
		sum += tx.Amount
	}
	return sum
}

// Period returns the first and last transaction dates.
func (r *ParseResult) Period() (first, last time.Time) {
	if len(r.Transactions) == 0 {
		return
	}
	return r.Transactions[0].Date, r.Transactions[len(r.Transactions)-1].Date
}

// Parse reads a raw ledger export and produces the cleaned transaction
// sequence described by the profile. The byte stream is decoded with a
// UTF-8 first, Windows-1252 fallback chain, mirroring the encodings seen
// in real exports.
func Parse(r io.Reader, p Profile) (*ParseResult, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read ledger file: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(decode(raw)))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) > p.SkipRows {
		records = records[p.SkipRows:]
	} else {
		records = nil
	}

	dateIdx, amountIdx := p.DateIndex, p.AmountIndex
	if p.HasHeader {
		if len(records) == 0 {
			return nil, ErrNoValidRows
		}
		dateIdx, amountIdx, err = locateColumns(records[0], p)
		if err != nil {
			return nil, err
		}
		records = records[1:]
	}

	result := &ParseResult{}
	for _, rec := range records {
		if isBlank(rec) {
			continue
		}
		result.RowsRead++
		if len(rec) <= dateIdx || len(rec) <= amountIdx {
			result.RowsDropped++
			continue
		}
		date, err := ParseDate(rec[dateIdx], p.DayFirst)
		if err != nil {
			result.RowsDropped++
			continue
		}
		amount, err := ParseAmount(rec[amountIdx])
		if err != nil {
			result.RowsDropped++
			continue
		}
		result.Transactions = append(result.Transactions, domain.Transaction{Date: date, Amount: amount})
	}

	if len(result.Transactions) == 0 {
		return nil, ErrNoValidRows
	}

	sort.SliceStable(result.Transactions, func(i, j int) bool {
		return result.Transactions[i].Date.Before(result.Transactions[j].Date)
	})

	if result.RowsDropped > 0 {
		logrus.WithFields(logrus.Fields{
			"profile": p.Name,
			"kept":    len(result.Transactions),
			"dropped": result.RowsDropped,
		}).Debug("dropped unparseable ledger rows")
	}

	return result, nil
}

func locateColumns(header []string, p Profile) (dateIdx, amountIdx int, err error) {
	find := func(aliases []string) int {
		for _, alias := range aliases {
			for i, name := range header {
				if strings.EqualFold(strings.TrimSpace(name), alias) {
					return i
				}
			}
		}
		return -1
	}

	dateIdx = find(p.DateAliases)
	amountIdx = find(p.AmountAliases)
	if dateIdx < 0 || amountIdx < 0 {
		return 0, 0, fmt.Errorf("missing required columns %v/%v, file has: %s",
			p.DateAliases, p.AmountAliases, strings.Join(header, ", "))
	}
	return dateIdx, amountIdx, nil
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

// decode strips a UTF-8 BOM and falls back to Windows-1252 for byte
// streams that are not valid UTF-8.
func decode(raw []byte) []byte {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	if utf8.Valid(raw) {
		return raw
	}
	decoded, err := charmap.Windows1252.NewDecoder().Bytes(raw)
	if err != nil {
		// Windows-1252 decoding of arbitrary bytes does not fail in
		// practice; keep the raw bytes if it somehow does.
		return raw
	}
	return decoded
}

// dayFirstLayouts are tried in order for dd/mm convention files.
var dayFirstLayouts = []string{
	"02/01/2006",
	"2/1/2006",
	"02-01-2006",
	"2-1-2006",
	"02/01/06",
	"02 January 2006",
}

// monthFirstLayouts are the mm/dd equivalents.
var monthFirstLayouts = []string{
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"1-2-2006",
}

// ParseDate parses a ledger date, normalized to midnight UTC. ISO
// (yyyy-mm-dd) is always accepted; otherwise the profile's day-first or
// month-first convention decides how ambiguous dates read.
func ParseDate(raw string, dayFirst bool) (time.Time, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, errors.New("empty date")
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return domain.Day(t), nil
	}
	layouts := monthFirstLayouts
	if dayFirst {
		layouts = dayFirstLayouts
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return domain.Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

// currencyRunes are stripped from monetary values before numeric parsing.
const currencyRunes = "£$€"

// ParseAmount cleans one monetary cell: currency symbols, thousands
// separators and whitespace are stripped, and accountant-style
// parenthesized values read as negative.
func ParseAmount(raw string) (float64, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, errors.New("empty amount")
	}

	negative := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		negative = true
		s = s[1 : len(s)-1]
	}

	s = strings.Map(func(r rune) rune {
		if strings.ContainsRune(currencyRunes, r) || r == ',' || r == ' ' {
			return -1
		}
		return r
	}, s)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable amount %q", raw)
	}
	if negative {
		v = -v
	}
	return v, nil
}
