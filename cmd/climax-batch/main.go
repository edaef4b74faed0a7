// Command climax-batch converts a file of trial parameters into a
// tab-separated climate stress report.
//
// Usage:
//
//	climax-batch INPUT_FILE [OUTPUT_FILE]
//
// Without OUTPUT_FILE the report is written to standard output. Logs always
// go to standard error.
package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	httpadapter "github.com/couchcryptid/climax-batch/internal/adapter/http"
	kafkaadapter "github.com/couchcryptid/climax-batch/internal/adapter/kafka"
	"github.com/couchcryptid/climax-batch/internal/adapter/tsv"
	"github.com/couchcryptid/climax-batch/internal/config"
	"github.com/couchcryptid/climax-batch/internal/observability"
	"github.com/couchcryptid/climax-batch/internal/pipeline"
	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(stdout io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:           "climax-batch INPUT_FILE [OUTPUT_FILE]",
		Short:         "Build a climate stress report from trial parameters",
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				slog.Error("failed to load config", "error", err)
				return err
			}

			runID := uuid.NewString()
			logger := observability.NewLogger(cfg).With("run_id", runID)
			metrics := observability.NewMetrics()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			err = run(ctx, cfg, runID, logger, metrics, args, stdout)
			if err != nil {
				logger.Error("batch failed", "error", err)
			}

			if cfg.PushgatewayURL != "" {
				pushCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
				defer cancel()
				if perr := observability.PushMetrics(pushCtx, cfg.PushgatewayURL, prometheus.DefaultGatherer, runID); perr != nil {
					logger.Error("metrics push failed", "error", perr)
				}
			}
			return err
		},
	}
}

// run wires the adapters from cfg and executes one batch over args[0],
// writing the report to args[1] or stdout.
func run(ctx context.Context, cfg *config.Config, runID string, logger *slog.Logger, metrics *observability.Metrics, args []string, stdout io.Writer) (err error) {
	in, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("open input: %w", err)
	}
	defer in.Close()

	service, err := newClimateService(ctx, cfg, logger, metrics)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := service.Close(); cerr != nil {
			logger.Error("climate service close error", "error", cerr)
		}
	}()

	out := stdout
	if len(args) == 2 {
		f, cerr := os.Create(args[1])
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		out = f
	}

	var loader pipeline.BatchLoader
	if cfg.PublishEnabled() {
		writer := kafkaadapter.NewWriter(cfg, runID, logger)
		defer func() {
			if cerr := writer.Close(); cerr != nil {
				logger.Error("kafka writer close error", "error", cerr)
			}
		}()
		loader = writer
		logger.Info("publishing report rows", "topic", cfg.KafkaSinkTopic, "brokers", cfg.KafkaBrokers)
	}

	transformer := pipeline.NewTransformer(service, cfg.ClimateTimeout, metrics, logger)
	p := pipeline.New(transformer, tsv.NewReportWriter(out), loader, logger, metrics, cfg.BatchSize)

	if cfg.HTTPAddr != "" {
		deps := []httpadapter.Dependency{{Name: "pipeline", Checker: p}}
		if rc, ok := service.ClimateService.(sharedobs.ReadinessChecker); ok {
			deps = append(deps, httpadapter.Dependency{Name: "climate-service", Checker: rc})
		}
		srv := httpadapter.NewServer(cfg.HTTPAddr, p, logger, deps...)

		srvCtx, stopServer := context.WithCancel(context.Background())
		srvDone := make(chan struct{})
		go func() {
			defer close(srvDone)
			if err := srv.Serve(srvCtx, cfg.ShutdownTimeout); err != nil {
				logger.Error("status server error", "error", err)
			}
		}()
		defer func() {
			stopServer()
			<-srvDone
		}()
	}

	_, err = p.Run(ctx, in, args[0])
	return err
}
