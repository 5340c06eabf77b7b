package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/couchcryptid/weather-qc/internal/adapter/chart"
	"github.com/couchcryptid/weather-qc/internal/adapter/console"
	kafkaadapter "github.com/couchcryptid/weather-qc/internal/adapter/kafka"
	"github.com/couchcryptid/weather-qc/internal/adapter/textfile"
	"github.com/couchcryptid/weather-qc/internal/config"
	"github.com/couchcryptid/weather-qc/internal/observability"
	"github.com/couchcryptid/weather-qc/internal/pipeline"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	var (
		input     string
		output    string
		ledger    string
		chartDir  string
		noSummary bool
	)

	cmd := &cobra.Command{
		Use:   "weather-qc",
		Short: "Quality-check a daily weather observation file",
		Long: `weather-qc loads a whitespace-delimited file of daily precipitation,
max/min temperature and wind speed, then applies four checks in order:
no-data removal, gross error removal, max/min swap, and temperature range.
It writes the cleaned series and a tab-delimited count of affected values.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			flags := cmd.Flags()
			if flags.Changed("input") {
				cfg.InputPath = input
			}
			if flags.Changed("output") {
				cfg.OutputPath = output
			}
			if flags.Changed("ledger") {
				cfg.LedgerPath = ledger
			}
			if flags.Changed("chart-dir") {
				cfg.ChartDir = chartDir
			}
			if noSummary {
				cfg.SummaryEnabled = false
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd.Context(), cfg)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input observation file (env INPUT_PATH)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "cleaned data output file (env OUTPUT_PATH)")
	cmd.Flags().StringVarP(&ledger, "ledger", "l", "", "check ledger output file (env LEDGER_PATH)")
	cmd.Flags().StringVar(&chartDir, "chart-dir", "", "directory for before/after charts (env CHART_DIR)")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "skip the summary tables on stdout")

	return cmd
}

func run(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := observability.NewLogger(cfg)
	metrics := observability.NewMetrics()

	loaders, closeLoaders := buildLoaders(cfg, logger, os.Stdout)
	defer closeLoaders()

	p := pipeline.New(textfile.NewReader(cfg.InputPath), loaders, logger, metrics)

	_, runErr := p.Run(ctx)

	if cfg.PushgatewayURL != "" {
		pushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := metrics.Push(pushCtx, cfg.PushgatewayURL, cfg.MetricsJob); err != nil {
			logger.Error("metrics push failed", "error", err)
		}
	}

	if runErr != nil {
		return runErr
	}
	logger.Info("outputs written", "data", cfg.OutputPath, "ledger", cfg.LedgerPath, "charts", cfg.ChartDir)
	return nil
}

// buildLoaders assembles the emit stage. Local outputs come first; network
// sinks run after every local loader. The returned func releases the sinks.
func buildLoaders(cfg *config.Config, logger *slog.Logger, stdout io.Writer) ([]pipeline.Loader, func()) {
	loaders := []pipeline.Loader{textfile.NewWriter(cfg.OutputPath, cfg.LedgerPath)}
	closers := []func() error{}

	if cfg.SummaryEnabled {
		loaders = append(loaders, console.NewReport(stdout))
	}
	if cfg.ChartDir != "" {
		loaders = append(loaders, chart.NewWriter(cfg.ChartDir))
	}

	if cfg.KafkaEnabled() {
		writer := kafkaadapter.NewWriter(cfg, logger)
		closers = append(closers, writer.Close)
		loaders = append(loaders, timeoutLoader{Loader: writer, timeout: cfg.ShutdownTimeout})
		logger.Info("kafka sink enabled", "brokers", cfg.KafkaBrokers, "topic", cfg.KafkaTopic)
	}

	return loaders, func() {
		for _, c := range closers {
			if err := c(); err != nil {
				logger.Error("loader close error", "error", err)
			}
		}
	}
}

// timeoutLoader bounds a network loader by SHUTDOWN_TIMEOUT.
type timeoutLoader struct {
	pipeline.Loader
	timeout time.Duration
}

func (l timeoutLoader) Load(ctx context.Context, result pipeline.Result) error {
	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()
	return l.Loader.Load(ctx, result)
}
