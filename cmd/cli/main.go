package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"boardroom/app"
	"boardroom/internal"
	"boardroom/internal/config"
	"boardroom/internal/container"
	apperrors "boardroom/internal/errors"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:           "boardroom-cli",
		Short:         "Build executive reports from tabular files",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override LOG_LEVEL (error, warn, info, debug, trace)")

	rootCmd.AddCommand(
		newReportCmd(&logLevel),
		newAskCmd(&logLevel),
		newQuestionsCmd(&logLevel),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// build loads .env and the environment and wires the container
func build(logLevel string) (*container.Container, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if logLevel != "" {
		cfg.Log.Level = logLevel
	}
	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	return container.New(cfg, logger)
}

// runFile loads and reports on one file from disk
func runFile(ctx context.Context, c *container.Container, path string) (*app.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, apperrors.LoadFailed(filepath.Base(path), err)
	}
	defer f.Close()
	return c.Service.Run(ctx, filepath.Base(path), f)
}

func newReportCmd(logLevel *string) *cobra.Command {
	var chartDir string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Clean, classify and summarize a dataset",
		Long: `Run the report pipeline on a local file and print the executive summary.

Example: boardroom-cli report sales.csv --charts ./charts`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(*logLevel)
			if err != nil {
				return err
			}
			defer c.Logger.Sync()
			c.WithChartDir(chartDir)

			res, err := runFile(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			}
			fmt.Fprintf(out, "%s: %d rows, %d columns, domain %s\n\n", res.Name, res.Rows, len(res.Columns), res.Domain)
			fmt.Fprintln(out, res.Summary)
			for _, f := range res.ChartFiles {
				fmt.Fprintf(out, "chart: %s\n", f)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&chartDir, "charts", "", "directory to write chart PNGs into")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full result as JSON")
	return cmd
}

func newAskCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "ask <file> <question>",
		Short: "Answer a question about a dataset with the configured LLM",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(*logLevel)
			if err != nil {
				return err
			}
			defer c.Logger.Sync()

			res, err := runFile(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			answer, err := c.Service.Ask(cmd.Context(), res.Dataset, strings.Join(args[1:], " "))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), answer)
			return nil
		},
	}
}

func newQuestionsCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "questions <file>",
		Short: "Suggest questions with numeric answers for a dataset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := build(*logLevel)
			if err != nil {
				return err
			}
			defer c.Logger.Sync()

			res, err := runFile(cmd.Context(), c, args[0])
			if err != nil {
				return err
			}
			questions, err := c.Service.SuggestQuestions(cmd.Context(), res.Dataset)
			if err != nil {
				return err
			}
			for i, q := range questions {
				fmt.Fprintf(cmd.OutOrStdout(), "%d. %s\n", i+1, q)
			}
			return nil
		},
	}
}
