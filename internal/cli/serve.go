package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cgb78910/Interest-Calculator/internal/api"
)

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "", "Listen host (default from config)")
	serveCmd.Flags().Int("port", 0, "Listen port (default from config)")
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the interest calculator HTTP server",
	Long: `Serve the calculation API: upload a ledger export, get back the daily
accrual log, totals and statistics, or download CSV/TXT/XLSX reports.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	if host, _ := cmd.Flags().GetString("host"); host != "" {
		cfg.Server.Host = host
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		cfg.Server.Port = port
	}

	store, err := loadReference()
	if err != nil {
		return err
	}

	srv := api.NewServer(store)
	srv.SetDefaultProfile(cfg.Ingest.DefaultProfile)
	srv.SetMaxUpload(cfg.Server.MaxUploadMB << 20)
	if cfg.Server.Metrics {
		srv.EnableMetrics()
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.WithField("addr", httpSrv.Addr).Info("interest calculator listening")
		errCh <- httpSrv.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case sig := <-sigCh:
		logrus.WithField("signal", sig.String()).Info("shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(ctx)
	}
}
