package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/cmd"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/otelhelper"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/playback"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/services"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/urfave/cli/v3"
)

const defaultPort = 9091

func RunAPICommand() *cli.Command {
	return &cli.Command{
		Name:    "run",
		Aliases: []string{"r"},
		Usage:   "Start api",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "Port to run the API server on",
				Value:   defaultPort,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Narrative store URL (file://path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "checkpoint-url",
				Usage:   "Checkpoint store URL (memory:// or redis://...)",
				Value:   "memory://",
				Sources: cli.EnvVars("CHECKPOINT_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Playback event bus (none, gochannel, kafka)",
				Value:   "none",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma separated Kafka brokers for the kafka event bus",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.DurationFlag{
				Name:    "checkpoint-retention",
				Usage:   "Remove checkpoints untouched for this long (0 keeps them)",
				Sources: cli.EnvVars("CHECKPOINT_RETENTION"),
			},
			&cli.StringFlag{
				Name:    "sweep-schedule",
				Usage:   "Cron schedule of the checkpoint sweeper",
				Value:   checkpoint.DefaultSweepSchedule,
				Sources: cli.EnvVars("CHECKPOINT_SWEEP_SCHEDULE"),
			},
			&cli.BoolFlag{
				Name:    "otel",
				Usage:   "Export traces over OTLP/HTTP",
				Sources: cli.EnvVars("OTEL_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("api")
			logger.InfoContext(ctx, "Initializing story map API")

			executorOpts := []playback.Option{}

			if command.Bool("otel") {
				tracerProvider, err := otelhelper.NewTracerProvider(ctx, "storymap-api")
				if err != nil {
					return fmt.Errorf("failed to initialize tracer: %w", err)
				}

				defer func() {
					if err := tracerProvider.Shutdown(context.WithoutCancel(ctx)); err != nil {
						logger.ErrorContext(ctx, "Failed to shutdown tracer provider", "error", err)
					}
				}()

				executorOpts = append(executorOpts, playback.WithTracer(tracerProvider.Tracer("storymap/playback")))
			}

			registry := prometheus.NewRegistry()
			registry.MustRegister(
				collectors.NewGoCollector(),
				collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			)
			executorOpts = append(executorOpts, playback.WithMetrics(playback.NewMetrics(registry)))

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			retention := command.Duration("checkpoint-retention")

			checkpoints, err := cmd.NewCheckpointStore(ctx, logger, command.String("checkpoint-url"), retention)
			if err != nil {
				return err
			}

			defer func() {
				if err := checkpoints.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close checkpoint store", "error", err)
				}
			}()

			if retention > 0 {
				sweeper, err := checkpoint.NewSweeper(checkpoints, retention, command.String("sweep-schedule"), logger)
				if err != nil {
					return err
				}

				if err := sweeper.Start(ctx); err != nil {
					return err
				}
				defer sweeper.Stop(context.WithoutCancel(ctx))
			}

			eventBus, err := cmd.NewEventBus(command.String("event-bus"), command.String("kafka-brokers"), logger)
			if err != nil {
				return err
			}

			if eventBus != nil {
				defer func() {
					if err := eventBus.Close(); err != nil {
						logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
					}
				}()

				executorOpts = append(executorOpts, playback.WithPublisher(eventBus))
			}

			playbackService := services.NewPlayback(persistence.NarrativeRepository(), checkpoints, slog.Default(), executorOpts...)

			api := NewAPI(logger, persistence, playbackService, registry)

			err = api.Start(ctx, command.Int("port"))
			if err != nil {
				logger.ErrorContext(ctx, "Failed to start API server", "error", err)

				return err
			}

			return nil
		},
	}
}
