package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"github.com/use-agent/pdpscrape/config"
	"github.com/use-agent/pdpscrape/fetcher"
	"github.com/use-agent/pdpscrape/models"
	"github.com/use-agent/pdpscrape/product"
)

var rootCmd = &cobra.Command{
	Use:           "pdpscrape-cli",
	Short:         "Extract Myntra product data from the command line",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var lookupCmd = &cobra.Command{
	Use:   "lookup [url]",
	Short: "Fetch one product page and print its record as JSON",
	Long: `Runs the same validate, fetch, locate and map pipeline as the API server,
in-process, and prints the product record. Failures print "[CODE] message"
to stderr and exit non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

var (
	lookupTimeout time.Duration
	lookupProxy   string
	lookupPretty  bool
	lookupVerbose bool
)

func init() {
	lookupCmd.Flags().DurationVarP(&lookupTimeout, "timeout", "t", 0, "Fetch timeout (default from PDP_FETCH_TIMEOUT or 10s)")
	lookupCmd.Flags().StringVar(&lookupProxy, "proxy", "", "http(s) proxy URL for the fetch")
	lookupCmd.Flags().BoolVarP(&lookupPretty, "pretty", "p", false, "Indent the JSON output")
	lookupCmd.Flags().BoolVarP(&lookupVerbose, "verbose", "v", false, "Log fetch details to stderr")

	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	level := slog.LevelWarn
	if lookupVerbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	fetchCfg := config.Load().Fetch
	if lookupTimeout > 0 {
		fetchCfg.Timeout = lookupTimeout
	}
	if lookupProxy != "" {
		fetchCfg.Proxy = lookupProxy
	}

	svc := product.NewService(fetcher.New(fetchCfg))
	rec, err := svc.Lookup(cmd.Context(), args[0])
	if err != nil {
		var ee *models.ExtractError
		if errors.As(err, &ee) {
			d := ee.ToDetail()
			fmt.Fprintf(cmd.ErrOrStderr(), "[%s] %s\n", d.Code, d.Message)
		} else {
			fmt.Fprintln(cmd.ErrOrStderr(), err)
		}
		return err
	}

	return writeRecord(cmd.OutOrStdout(), rec, lookupPretty)
}

func writeRecord(w io.Writer, rec *models.ProductRecord, pretty bool) error {
	var (
		out []byte
		err error
	)
	if pretty {
		out, err = json.MarshalIndent(rec, "", "  ")
	} else {
		out, err = json.Marshal(rec)
	}
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
