package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/cmd"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/services"
	"github.com/urfave/cli/v3"
)

func PlayCommand() *cli.Command {
	defaults := models.DefaultExecutionOptions()

	return &cli.Command{
		Name:      "play",
		Usage:     "Play a narrative, or one of its segments",
		UsageText: "storymap-player play --narrative ID [--segment ID]\n\nType pause, resume, stop or status while playing.",
		Flags: []cli.Flag{
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
				Name:     "narrative",
				Aliases:  []string{"n"},
				Usage:    "Narrative to play",
				Required: true,
			},
			&cli.StringFlag{
				Name:  "segment",
				Usage: "Play only this segment",
			},
			&cli.BoolFlag{Name: "auto-advance", Usage: "Keep playing after a failed segment", Value: defaults.AutoAdvance},
			&cli.BoolFlag{Name: "pois", Usage: "Show points of interest", Value: defaults.ShowPOIs},
			&cli.BoolFlag{Name: "zones", Usage: "Highlight zones", Value: defaults.ShowZones},
			&cli.BoolFlag{Name: "layers", Usage: "Animate layers", Value: defaults.AnimateLayers},
			&cli.BoolFlag{Name: "timeline", Usage: "Run timeline transitions", Value: defaults.ExecuteTimeline},
			&cli.DurationFlag{
				Name:  "delay",
				Usage: "Pause between components and between segments",
				Value: defaults.DefaultDelay(),
			},
			&cli.DurationFlag{
				Name:  "animation-duration",
				Usage: "Layer animation duration",
				Value: defaults.AnimationDuration(),
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Print results as JSON",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "warn",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"))

			logger := log.WithModule("player")

			persistence, err := cmd.NewPersistence(ctx, logger, command.String("database-url"))
			if err != nil {
				return err
			}

			defer func() {
				if err := persistence.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
				}
			}()

			checkpoints, err := cmd.NewCheckpointStore(ctx, logger, command.String("checkpoint-url"), 0)
			if err != nil {
				return err
			}

			defer func() {
				if err := checkpoints.Close(context.WithoutCancel(ctx)); err != nil {
					logger.ErrorContext(ctx, "Failed to close checkpoint store", "error", err)
				}
			}()

			playbackService := services.NewPlayback(persistence.NarrativeRepository(), checkpoints, slog.Default())
			narrativeID := command.String("narrative")

			console := &console{controller: playbackService, narrativeID: narrativeID, out: os.Stderr}
			go console.Run(ctx, os.Stdin)

			results, err := play(ctx, playbackService, narrativeID, command.String("segment"), optionsFromFlags(command))
			if err != nil {
				return err
			}

			return printResults(os.Stdout, results, playbackService.Status(narrativeID), command.Bool("json"))
		},
	}
}

func optionsFromFlags(command *cli.Command) models.ExecutionOptions {
	return models.ExecutionOptions{
		AutoAdvance:                command.Bool("auto-advance"),
		ShowPOIs:                   command.Bool("pois"),
		ShowZones:                  command.Bool("zones"),
		AnimateLayers:              command.Bool("layers"),
		ExecuteTimeline:            command.Bool("timeline"),
		DefaultDelayMs:             int(command.Duration("delay") / time.Millisecond),
		DefaultAnimationDurationMs: int(command.Duration("animation-duration") / time.Millisecond),
	}
}

func play(
	ctx context.Context,
	playbackService *services.Playback,
	narrativeID, segmentID string,
	opts models.ExecutionOptions,
) ([]models.SegmentExecutionResult, error) {
	if segmentID == "" {
		return playbackService.ExecuteAll(ctx, narrativeID, opts)
	}

	result, err := playbackService.ExecuteSegment(ctx, narrativeID, segmentID, opts)
	if err != nil {
		return nil, err
	}

	return []models.SegmentExecutionResult{*result}, nil
}

func printResults(w io.Writer, results []models.SegmentExecutionResult, status models.ExecutionStatus, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return encoder.Encode(map[string]any{"status": status, "results": results})
	}

	for _, result := range results {
		mark := "ok"
		if !result.IsSuccess {
			mark = "FAILED"
		}

		fmt.Fprintf(w, "[%d] %s  %s  %s\n",
			result.Segment.DisplayOrder, result.Segment.Name, mark, result.Duration.Round(time.Millisecond))

		for _, component := range result.ExecutedComponents {
			line := fmt.Sprintf("    %-8s %-16s %s", component.Type, component.Name, component.Duration.Round(time.Millisecond))
			if component.ErrorMessage != "" {
				line += "  " + component.ErrorMessage
			}

			fmt.Fprintln(w, line)
		}

		if result.ErrorMessage != "" {
			fmt.Fprintf(w, "    error: %s\n", result.ErrorMessage)
		}
	}

	fmt.Fprintf(w, "status: %s\n", status)

	return nil
}
