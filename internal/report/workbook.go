package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names in the exported workbook.
const (
	sheetDaily        = "Daily Calculations"
	sheetTransactions = "Transactions"
	sheetSummary      = "Summary"
)

// WriteWorkbook writes an XLSX report with the daily log, the cleaned
// transactions, and a key-figure summary sheet.
func WriteWorkbook(w io.Writer, s *Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeDailySheet(f, s); err != nil {
		return fmt.Errorf("daily sheet: %w", err)
	}
	if err := writeTransactionsSheet(f, s); err != nil {
		return fmt.Errorf("transactions sheet: %w", err)
	}
	if err := writeSummarySheet(f, s); err != nil {
		return fmt.Errorf("summary sheet: %w", err)
	}

	// Drop the default sheet so the workbook opens on the daily log.
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	return f.Write(w)
}

func writeDailySheet(f *excelize.File, s *Summary) error {
	if _, err := f.NewSheet(sheetDaily); err != nil {
		return err
	}
	header := make([]interface{}, len(logHeader))
	for i, h := range logHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetDaily, "A1", &header); err != nil {
		return err
	}
	for i, entry := range s.Result.Log {
		row := []interface{}{
			entry.Date.Format(DateFormat),
			entry.Balance,
			entry.Band,
			entry.AnnualRatePct,
			entry.DailyInterest,
			entry.CumulativeInterest,
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetDaily, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactionsSheet(f *excelize.File, s *Summary) error {
	if _, err := f.NewSheet(sheetTransactions); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheetTransactions, "A1", &[]interface{}{"Date", "Change"}); err != nil {
		return err
	}
	for i, tx := range s.Ledger.Transactions {
		row := []interface{}{tx.Date.Format(DateFormat), tx.Amount}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(sheetTransactions, cell, &row); err != nil {
			return err
		}
	}
	return nil
}

func writeSummarySheet(f *excelize.File, s *Summary) error {
	if _, err := f.NewSheet(sheetSummary); err != nil {
		return err
	}
	stats := s.Result.Stats
	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Interest", s.TotalInterest()},
		{"Final Balance", s.Result.FinalBalance()},
		{"Average Balance", stats.MeanBalance},
		{"Max Balance", stats.MaxBalance},
		{"Min Balance", stats.MinBalance},
		{"Total Days", stats.TotalDays},
		{"Interest Days", stats.DaysEarningInterest},
	}
	for i := range rows {
		cell := fmt.Sprintf("A%d", i+1)
		if err := f.SetSheetRow(sheetSummary, cell, &rows[i]); err != nil {
			return err
		}
	}
	return nil
}
