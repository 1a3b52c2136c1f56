package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
)

// NewCheckpointStore opens the checkpoint store named by checkpointURL: memory:// (the
// default when empty) or redis://. ttl expires Redis entries; zero keeps them.
func NewCheckpointStore(
	ctx context.Context,
	logger *slog.Logger,
	checkpointURL string,
	ttl time.Duration,
) (checkpoint.Store, error) {
	switch {
	case checkpointURL == "", strings.HasPrefix(checkpointURL, "memory://"):
		return checkpoint.NewMemoryStore(), nil
	case strings.HasPrefix(checkpointURL, "redis://"), strings.HasPrefix(checkpointURL, "rediss://"):
		store, err := checkpoint.NewRedisStoreFromURL(ctx, checkpointURL, logger, checkpoint.WithTTL(ttl))
		if err != nil {
			return nil, fmt.Errorf("failed to open redis checkpoint store: %w", err)
		}

		return store, nil
	default:
		return nil, fmt.Errorf("unsupported checkpoint store: %s", checkpointURL)
	}
}
