// Package cli implements the intcalc command line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cgb78910/Interest-Calculator/internal/config"
	"github.com/cgb78910/Interest-Calculator/internal/refdata"
)

var (
	cfgFile   string
	ratesFile string
	bandsFile string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "intcalc",
	Short: "Banded interest calculator for client account ledgers",
	Long: `intcalc computes daily accrued interest on a client account whose
balance changes over time, using a tiered annual rate schedule.

Reference data comes from two CSV files: rates.csv (band, rate, Start
Date) and bands.csv (band, lower as a "min-max" range). Transactions are
ingested from ledger exports via configurable profiles.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if ratesFile != "" {
			cfg.Reference.RatesPath = ratesFile
		}
		if bandsFile != "" {
			cfg.Reference.BandsPath = bandsFile
		}
		cfg.Logging.Apply()
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Path to TOML config file")
	rootCmd.PersistentFlags().StringVar(&ratesFile, "rates", "", "Override rates CSV path")
	rootCmd.PersistentFlags().StringVar(&bandsFile, "bands", "", "Override bands CSV path")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadReference builds and loads the reference data store from the
// effective configuration.
func loadReference() (*refdata.Store, error) {
	store := refdata.NewStore(cfg.Reference.RatesPath, cfg.Reference.BandsPath)
	if err := store.Load(); err != nil {
		return nil, err
	}
	return store, nil
}
