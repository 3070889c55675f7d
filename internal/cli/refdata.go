package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cgb78910/Interest-Calculator/internal/report"
)

func init() {
	rootCmd.AddCommand(refdataCmd)
}

var refdataCmd = &cobra.Command{
	Use:   "refdata",
	Short: "Validate and display the reference data",
	Long: `Load rates.csv and bands.csv, print both tables, and report band
coverage problems (overlapping ranges or gaps between ranges).`,
	RunE: runRefdata,
}

func runRefdata(cmd *cobra.Command, args []string) error {
	store, err := loadReference()
	if err != nil {
		return err
	}
	tables, err := store.Snapshot()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Interest bands:")
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tMINIMUM\tMAXIMUM")
	for _, b := range tables.Bands {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\n", b.Band, b.Minimum, b.Maximum)
	}
	tw.Flush()

	fmt.Fprintln(out, "\nRate schedule:")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tRATE (%)\tEFFECTIVE FROM")
	for _, r := range tables.Rates {
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n", r.Band, r.AnnualRatePct, r.EffectiveDate.Format(report.DateFormat))
	}
	tw.Flush()

	fmt.Fprintln(out, "\nCurrent rates (latest effective per band):")
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "BAND\tRATE (%)\tSINCE")
	for _, r := range tables.LatestRates() {
		fmt.Fprintf(tw, "%s\t%.4f\t%s\n", r.Band, r.AnnualRatePct, r.EffectiveDate.Format(report.DateFormat))
	}
	tw.Flush()

	issues := tables.CheckCoverage()
	if len(issues) == 0 {
		fmt.Fprintln(out, "\nBand coverage: no overlaps or gaps found")
		return nil
	}
	fmt.Fprintf(out, "\nBand coverage: %d issue(s)\n", len(issues))
	for _, issue := range issues {
		fmt.Fprintf(out, "  [%s] %s\n", issue.Kind, issue.Detail)
	}
	return nil
}
