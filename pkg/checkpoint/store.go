// Package checkpoint keeps the last known playback position of each narrative.
//
// Entries are written on every component step and removed when a playback returns
// to idle, so whatever is left behind after a stop or a crash points at the component
// that was running. Writes are last-write-wins per narrative.
package checkpoint

import (
	"context"
	"errors"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

// ErrNotFound is returned by Get when a narrative has no checkpoint.
var ErrNotFound = errors.New("checkpoint not found")

// ErrInvalidNarrativeID is returned for an empty narrative id.
var ErrInvalidNarrativeID = errors.New("narrative id cannot be empty")

// Store is the keyed checkpoint sink used by the playback executor.
type Store interface {
	Set(ctx context.Context, narrativeID string, cp models.ExecutionCheckpoint) error
	Get(ctx context.Context, narrativeID string) (*models.ExecutionCheckpoint, error)
	Clear(ctx context.Context, narrativeID string) error
	List(ctx context.Context) ([]models.ExecutionCheckpoint, error)
	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// IsNotFound checks if an error indicates a missing checkpoint.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func validateNarrativeID(narrativeID string) error {
	if narrativeID == "" {
		return ErrInvalidNarrativeID
	}

	return nil
}
