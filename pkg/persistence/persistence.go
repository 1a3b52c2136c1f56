// Package persistence provides the storage abstraction for narratives, their segments and
// their timeline transitions.
package persistence

import (
	"context"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

type Persistence interface {
	NarrativeRepository() NarrativeRepository
	HealthCheck(ctx context.Context) error

	Close(ctx context.Context) error
}

// NarrativeRepository reads and writes narratives. Segments are always returned in
// ascending display order and transitions in creation order.
type NarrativeRepository interface {
	Narratives(ctx context.Context) ([]*models.Narrative, error)
	NarrativeByID(ctx context.Context, narrativeID string) (*models.Narrative, error)
	SaveNarrative(ctx context.Context, narrative *models.Narrative) error
	DeleteNarrative(ctx context.Context, narrativeID string) error

	Segments(ctx context.Context, narrativeID string) ([]models.Segment, error)
	SegmentByID(ctx context.Context, narrativeID, segmentID string) (*models.Segment, error)
	TimelineTransitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error)
}
