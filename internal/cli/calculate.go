package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cgb78910/Interest-Calculator/internal/domain"
	"github.com/cgb78910/Interest-Calculator/internal/ingest"
	"github.com/cgb78910/Interest-Calculator/internal/report"
)

func init() {
	rootCmd.AddCommand(calculateCmd)

	calculateCmd.Flags().StringP("transactions", "f", "", "Transactions CSV file (required)")
	calculateCmd.Flags().String("end", "", "Calculation end date, YYYY-MM-DD (default today)")
	calculateCmd.Flags().String("profile", "", "Ingest profile (default from config)")
	calculateCmd.Flags().StringP("output", "o", "", "Report output path (default <name>_calculation.<ext>)")
	calculateCmd.Flags().String("format", "csv", "Report format: csv, txt or xlsx")
	calculateCmd.MarkFlagRequired("transactions")
}

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Compute accrued interest for a transactions file",
	Long: `Compute daily accrued interest from the first transaction date through
the end date and write the daily calculation log to a report file.`,
	RunE: runCalculate,
}

func runCalculate(cmd *cobra.Command, args []string) error {
	txPath, _ := cmd.Flags().GetString("transactions")
	endRaw, _ := cmd.Flags().GetString("end")
	profileName, _ := cmd.Flags().GetString("profile")
	output, _ := cmd.Flags().GetString("output")
	format, _ := cmd.Flags().GetString("format")

	switch format {
	case "csv", "txt", "xlsx":
	default:
		return fmt.Errorf("unsupported format %q, want csv, txt or xlsx", format)
	}

	endDate := domain.Day(time.Now().UTC())
	if endRaw != "" {
		var err error
		endDate, err = ingest.ParseDate(endRaw, false)
		if err != nil {
			return fmt.Errorf("invalid --end date %q, want YYYY-MM-DD", endRaw)
		}
	}

	if profileName == "" {
		profileName = cfg.Ingest.DefaultProfile
	}
	profile, err := ingest.ProfileByName(profileName)
	if err != nil {
		return err
	}

	store, err := loadReference()
	if err != nil {
		return err
	}
	tables, err := store.Snapshot()
	if err != nil {
		return err
	}

	f, err := os.Open(txPath)
	if err != nil {
		return fmt.Errorf("open transactions file: %w", err)
	}
	defer f.Close()

	ledger, err := ingest.Parse(f, profile)
	if err != nil {
		return err
	}

	result, err := domain.Accrue(ledger.Transactions, endDate, tables.Rates, tables.Bands)
	if err != nil {
		return err
	}

	if output == "" {
		base := strings.TrimSuffix(txPath, filepath.Ext(txPath))
		ext := format
		if format == "txt" {
			base += "_summary"
		} else {
			base += "_calculation"
		}
		output = base + "." + ext
	}

	summary := &report.Summary{
		Result:      result,
		Ledger:      ledger,
		EndDate:     endDate,
		GeneratedAt: time.Now().UTC(),
	}
	if err := writeReport(output, format, summary); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Total interest calculated: £%.2f\n", summary.TotalInterest())
	fmt.Fprintf(out, "Period: %d days (%d earning interest)\n",
		result.Stats.TotalDays, result.Stats.DaysEarningInterest)
	fmt.Fprintf(out, "Final balance: £%.2f (max £%.2f, min £%.2f)\n",
		result.FinalBalance(), result.Stats.MaxBalance, result.Stats.MinBalance)
	if ledger.RowsDropped > 0 {
		fmt.Fprintf(out, "Note: %d invalid rows removed during ingestion\n", ledger.RowsDropped)
	}
	fmt.Fprintf(out, "Detailed daily calculation saved to %q\n", output)
	return nil
}

func writeReport(path, format string, summary *report.Summary) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer f.Close()

	switch format {
	case "csv":
		return report.WriteLogCSV(f, summary.Result)
	case "txt":
		return report.WriteSummaryText(f, summary)
	case "xlsx":
		return report.WriteWorkbook(f, summary)
	}
	return nil
}
