package checkpoint

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// DefaultSweepSchedule runs the sweeper every fifteen minutes.
const DefaultSweepSchedule = "@every 15m"

// Sweeper periodically removes checkpoints that have not been touched within the
// retention window. Stopped or crashed playbacks leave their checkpoint behind for
// inspection; the sweeper keeps those from piling up.
type Sweeper struct {
	store     Store
	retention time.Duration
	schedule  string
	logger    *slog.Logger
	now       func() time.Time

	cron *cron.Cron
}

func NewSweeper(store Store, retention time.Duration, schedule string, logger *slog.Logger) (*Sweeper, error) {
	if retention <= 0 {
		return nil, errors.New("checkpoint retention must be positive")
	}

	if schedule == "" {
		schedule = DefaultSweepSchedule
	}

	if _, err := cron.ParseStandard(schedule); err != nil {
		return nil, fmt.Errorf("invalid sweep schedule '%s': %w", schedule, err)
	}

	return &Sweeper{
		store:     store,
		retention: retention,
		schedule:  schedule,
		logger:    logger.With("module", "checkpoint_sweeper"),
		now:       time.Now,
	}, nil
}

func (s *Sweeper) Start(ctx context.Context) error {
	s.cron = cron.New(cron.WithChain(
		cron.SkipIfStillRunning(cron.DefaultLogger),
		cron.Recover(cron.DefaultLogger),
	))

	entryID, err := s.cron.AddFunc(s.schedule, func() {
		removed, err := s.Sweep(ctx)
		if err != nil {
			s.logger.ErrorContext(ctx, "Checkpoint sweep failed", "error", err)

			return
		}

		if removed > 0 {
			s.logger.InfoContext(ctx, "Removed stale checkpoints", "count", removed)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule checkpoint sweep: %w", err)
	}

	s.cron.Start()
	s.logger.InfoContext(ctx, "Checkpoint sweeper started",
		"schedule", s.schedule, "retention", s.retention, "entry_id", entryID)

	return nil
}

// Sweep removes every checkpoint older than the retention window and returns how many
// were removed.
func (s *Sweeper) Sweep(ctx context.Context) (int, error) {
	checkpoints, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	cutoff := s.now().Add(-s.retention)
	removed := 0

	for _, cp := range checkpoints {
		if !cp.UpdatedAt.Before(cutoff) {
			continue
		}

		if err := s.store.Clear(ctx, cp.NarrativeID); err != nil {
			return removed, fmt.Errorf("failed to clear checkpoint for narrative %s: %w", cp.NarrativeID, err)
		}

		removed++
	}

	return removed, nil
}

func (s *Sweeper) Stop(ctx context.Context) {
	if s.cron == nil {
		return
	}

	<-s.cron.Stop().Done()
	s.logger.InfoContext(ctx, "Checkpoint sweeper stopped")
}
