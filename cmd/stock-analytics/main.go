package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/logger"
	"github.com/matevzStinjek/distributed-trading-system/stock-analytics/internal/selftest"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

var debugAddr string

func main() {
	// A missing .env is fine; the environment may already be set
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "stock-analytics",
		Short: "Dividend yield, P/E, volume weighted price and All Share Index calculator",
		Long: `stock-analytics computes per-stock analytics and the All Share Index
over an in-memory trade book. Without a subcommand it runs the self-test.`,
		SilenceUsage: true,
		RunE:         runSelftest,
	}

	rootCmd.PersistentFlags().StringVar(&debugAddr, "debug-addr", "", "serve pprof and /metrics on this address (e.g. :6060)")

	rootCmd.AddCommand(selftestCmd())
	rootCmd.AddCommand(simulateCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func selftestCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "selftest",
		Short: "Run the reference scenarios and print ALL PASSED",
		RunE:  runSelftest,
	}
}

func runSelftest(cmd *cobra.Command, args []string) error {
	log := logger.New()
	defer log.Sync()

	if err := selftest.Run(log); err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), "ALL PASSED")
	return nil
}

// startDebugServer serves pprof and prometheus metrics until the returned
// function is called. An empty addr disables it.
func startDebugServer(addr string, log *logger.Logger) func() {
	if addr == "" {
		return func() {}
	}

	http.Handle("/metrics", promhttp.Handler())
	server := &http.Server{Addr: addr}
	go func() {
		log.Info("starting debug server", logger.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("debug server error", logger.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("debug server shutdown error", logger.Error(err))
		}
	}
}
