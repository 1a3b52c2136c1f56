package persistence

import (
	"sort"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

// SortSegments orders segments by display order, keeping the stored order for ties.
func SortSegments(segments []models.Segment) {
	sort.SliceStable(segments, func(i, j int) bool {
		return segments[i].DisplayOrder < segments[j].DisplayOrder
	})
}

// SortTransitions orders transitions by creation time, oldest first.
func SortTransitions(transitions []models.TimelineTransition) {
	sort.SliceStable(transitions, func(i, j int) bool {
		return transitions[i].CreatedAt.Before(transitions[j].CreatedAt)
	})
}
