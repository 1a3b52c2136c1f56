// Package testutil provides test data builders and utilities for testing.
package testutil

import (
	"fmt"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/google/uuid"
)

// CreateTestSegment creates a segment with two POIs and one zone that can be overridden.
func CreateTestSegment(overrides ...func(*models.Segment)) models.Segment {
	id := uuid.New().String()

	segment := models.Segment{
		ID:            id,
		Name:          "Old harbour",
		Summary:       "Where the city began",
		DisplayOrder:  0,
		AutoFitBounds: true,
		PlaybackMode:  models.PlaybackModeAuto,
		Camera:        models.CameraState{Latitude: 10.7769, Longitude: 106.7009, Zoom: 13},
		POIs: []models.POI{
			{ID: id + "-poi-1", Title: "Customs house", Latitude: 10.7733, Longitude: 106.7061},
			{ID: id + "-poi-2", Title: "Ferry pier", Latitude: 10.7710, Longitude: 106.7070, DisplayOrder: 1},
		},
		Zones: []models.Zone{
			{ID: id + "-zone-1", Name: "Harbour district", ZoneType: "area", IsPrimary: true},
		},
		CreatedAt: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(&segment)
	}

	return segment
}

// WithDisplayOrder sets the segment display order.
func WithDisplayOrder(order int) func(*models.Segment) {
	return func(s *models.Segment) {
		s.DisplayOrder = order
	}
}

// WithSegmentID sets the segment ID.
func WithSegmentID(id string) func(*models.Segment) {
	return func(s *models.Segment) {
		s.ID = id
	}
}

// WithPOICount replaces the segment POIs with n generated ones.
func WithPOICount(n int) func(*models.Segment) {
	return func(s *models.Segment) {
		s.POIs = make([]models.POI, 0, n)
		for i := range n {
			s.POIs = append(s.POIs, models.POI{ID: fmt.Sprintf("%s-poi-%d", s.ID, i), Title: fmt.Sprintf("POI %d", i), DisplayOrder: i})
		}
	}
}

// WithLayers adds n layers to the segment.
func WithLayers(n int) func(*models.Segment) {
	return func(s *models.Segment) {
		for i := range n {
			s.Layers = append(s.Layers, models.SegmentLayer{
				ID:         fmt.Sprintf("%s-layer-%d", s.ID, i),
				LayerID:    fmt.Sprintf("layer-%d", i),
				FadeInMs:   300,
				EndOpacity: 1,
			})
		}
	}
}

// CreateTestTransition creates a camera transition between two segments.
func CreateTestTransition(from, to string, overrides ...func(*models.TimelineTransition)) models.TimelineTransition {
	transition := models.TimelineTransition{
		ID:                        uuid.New().String(),
		FromSegmentID:             from,
		ToSegmentID:               to,
		Name:                      "Fly over",
		TransitionType:            "fly",
		AnimateCamera:             true,
		CameraAnimationType:       "flyTo",
		CameraAnimationDurationMs: 1500,
		AutoTrigger:               true,
		CreatedAt:                 time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	for _, override := range overrides {
		override(&transition)
	}

	return transition
}

// CreateTestNarrative creates a narrative with the given number of segments chained by
// transitions. Segments get display orders 0..n-1.
func CreateTestNarrative(segments int, overrides ...func(*models.Narrative)) *models.Narrative {
	narrative := &models.Narrative{
		ID:          uuid.New().String(),
		Name:        "Saigon river walk",
		Description: "A short walk along the river",
	}

	for i := range segments {
		segment := CreateTestSegment(WithDisplayOrder(i))
		segment.NarrativeID = narrative.ID
		narrative.Segments = append(narrative.Segments, segment)

		if i > 0 {
			transition := CreateTestTransition(narrative.Segments[i-1].ID, segment.ID)
			transition.NarrativeID = narrative.ID
			transition.CreatedAt = transition.CreatedAt.Add(time.Duration(i) * time.Minute)
			narrative.Transitions = append(narrative.Transitions, transition)
		}
	}

	for _, override := range overrides {
		override(narrative)
	}

	return narrative
}
