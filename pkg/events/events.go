// Package events defines the playback lifecycle events published while a narrative plays.
package events

import (
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/google/uuid"
)

type EventType string

const Topic = "storymap.playback"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	// Segment lifecycle events.
	SegmentStartedEvent   EventType = "playback.segment.started"
	SegmentCompletedEvent EventType = "playback.segment.completed"
	SegmentFailedEvent    EventType = "playback.segment.failed"
	SegmentCancelledEvent EventType = "playback.segment.cancelled"

	ComponentExecutedEvent EventType = "playback.component.executed"

	// Control events.
	PlaybackPausedEvent  EventType = "playback.paused"
	PlaybackResumedEvent EventType = "playback.resumed"
	PlaybackStoppedEvent EventType = "playback.stopped"
)

type BaseEvent struct {
	ID          string         `json:"id"`
	Type        EventType      `json:"type"`
	Timestamp   time.Time      `json:"timestamp"`
	NarrativeID string         `json:"narrative_id"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

func (b BaseEvent) GetType() EventType {
	return b.Type
}

func newBaseEvent(eventType EventType, narrativeID string) BaseEvent {
	return BaseEvent{
		ID:          uuid.New().String(),
		Type:        eventType,
		Timestamp:   time.Now().UTC(),
		NarrativeID: narrativeID,
	}
}

type SegmentStarted struct {
	BaseEvent

	SegmentID    string `json:"segment_id"`
	SegmentIndex int    `json:"segment_index"`
}

func NewSegmentStarted(segment models.Segment) SegmentStarted {
	return SegmentStarted{
		BaseEvent:    newBaseEvent(SegmentStartedEvent, segment.NarrativeID),
		SegmentID:    segment.ID,
		SegmentIndex: segment.DisplayOrder,
	}
}

// SegmentFinished is published once per segment with one of the completed, failed or
// cancelled event types.
type SegmentFinished struct {
	BaseEvent

	SegmentID      string                 `json:"segment_id"`
	Status         models.ExecutionStatus `json:"status"`
	IsSuccess      bool                   `json:"is_success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	DurationMs     int64                  `json:"duration_ms"`
	ComponentCount int                    `json:"component_count"`
}

func NewSegmentFinished(result models.SegmentExecutionResult, status models.ExecutionStatus) SegmentFinished {
	eventType := SegmentCompletedEvent

	switch {
	case status == models.ExecutionStatusStopped:
		eventType = SegmentCancelledEvent
	case !result.IsSuccess:
		eventType = SegmentFailedEvent
	}

	return SegmentFinished{
		BaseEvent:      newBaseEvent(eventType, result.Segment.NarrativeID),
		SegmentID:      result.Segment.ID,
		Status:         status,
		IsSuccess:      result.IsSuccess,
		ErrorMessage:   result.ErrorMessage,
		DurationMs:     result.Duration.Milliseconds(),
		ComponentCount: len(result.ExecutedComponents),
	}
}

type ComponentExecuted struct {
	BaseEvent

	SegmentID      string                   `json:"segment_id"`
	ComponentIndex int                      `json:"component_index"`
	Component      models.ExecutedComponent `json:"component"`
}

func NewComponentExecuted(segment models.Segment, index int, component models.ExecutedComponent) ComponentExecuted {
	return ComponentExecuted{
		BaseEvent:      newBaseEvent(ComponentExecutedEvent, segment.NarrativeID),
		SegmentID:      segment.ID,
		ComponentIndex: index,
		Component:      component,
	}
}

// PlaybackControl records a pause, resume or stop request.
type PlaybackControl struct {
	BaseEvent

	Status models.ExecutionStatus `json:"status"`
}

func NewPlaybackControl(eventType EventType, narrativeID string, status models.ExecutionStatus) PlaybackControl {
	return PlaybackControl{
		BaseEvent: newBaseEvent(eventType, narrativeID),
		Status:    status,
	}
}
