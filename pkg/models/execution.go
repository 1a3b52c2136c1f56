package models

import (
	"fmt"
	"time"
)

// ExecutionStatus is the state of a playback session.
type ExecutionStatus string

const (
	ExecutionStatusIdle    ExecutionStatus = "idle"
	ExecutionStatusRunning ExecutionStatus = "running"
	ExecutionStatusPaused  ExecutionStatus = "paused"
	ExecutionStatusStopped ExecutionStatus = "stopped"
	ExecutionStatusError   ExecutionStatus = "error"
)

// IsTerminal reports whether no execution loop is driving the session.
func (s ExecutionStatus) IsTerminal() bool {
	return s == ExecutionStatusIdle || s == ExecutionStatusStopped || s == ExecutionStatusError
}

// ComponentType is one of the presentable facets of a segment.
type ComponentType int

const (
	ComponentTypePOI ComponentType = iota + 1
	ComponentTypeZone
	ComponentTypeLayer
	ComponentTypeTimeline
)

var componentTypeNames = map[ComponentType]string{
	ComponentTypePOI:      "POI",
	ComponentTypeZone:     "Zone",
	ComponentTypeLayer:    "Layer",
	ComponentTypeTimeline: "Timeline",
}

// ComponentTypes lists the component types in declaration order.
func ComponentTypes() []ComponentType {
	return []ComponentType{ComponentTypePOI, ComponentTypeZone, ComponentTypeLayer, ComponentTypeTimeline}
}

func (c ComponentType) String() string {
	if name, ok := componentTypeNames[c]; ok {
		return name
	}

	return fmt.Sprintf("ComponentType(%d)", int(c))
}

// MarshalText encodes the component type by name.
func (c ComponentType) MarshalText() ([]byte, error) {
	if _, ok := componentTypeNames[c]; !ok {
		return nil, fmt.Errorf("unknown component type %d", int(c))
	}

	return []byte(c.String()), nil
}

// UnmarshalText decodes a component type name.
func (c *ComponentType) UnmarshalText(text []byte) error {
	for typ, name := range componentTypeNames {
		if name == string(text) {
			*c = typ

			return nil
		}
	}

	return fmt.Errorf("unknown component type %q", string(text))
}

// ExecutionOrder assigns a priority to each component type. Lower runs first.
type ExecutionOrder struct {
	POI      int `json:"poi_order"      validate:"min=0"`
	Zone     int `json:"zone_order"     validate:"min=0"`
	Layer    int `json:"layer_order"    validate:"min=0"`
	Timeline int `json:"timeline_order" validate:"min=0"`
}

// DefaultExecutionOrder runs POIs, zones, layers and the timeline in that order.
func DefaultExecutionOrder() ExecutionOrder {
	return ExecutionOrder{POI: 1, Zone: 2, Layer: 3, Timeline: 4}
}

// ExecutionOptions configures one execution call. Options are copied by value and
// never mutated by the executor.
type ExecutionOptions struct {
	AutoAdvance                bool            `json:"auto_advance"`
	ShowPOIs                   bool            `json:"show_pois"`
	ShowZones                  bool            `json:"show_zones"`
	AnimateLayers              bool            `json:"animate_layers"`
	ExecuteTimeline            bool            `json:"execute_timeline"`
	DefaultDelayMs             int             `json:"default_delay_ms"              validate:"min=0,max=600000"`
	DefaultAnimationDurationMs int             `json:"default_animation_duration_ms" validate:"min=0,max=600000"`
	CustomOrder                *ExecutionOrder `json:"custom_order,omitempty"`
}

// DefaultExecutionOptions enables every component with a one second pause between them.
func DefaultExecutionOptions() ExecutionOptions {
	return ExecutionOptions{
		AutoAdvance:                true,
		ShowPOIs:                   true,
		ShowZones:                  true,
		AnimateLayers:              true,
		ExecuteTimeline:            true,
		DefaultDelayMs:             1000,
		DefaultAnimationDurationMs: 2000,
	}
}

// DefaultDelay is the pause between components and between segments.
func (o ExecutionOptions) DefaultDelay() time.Duration {
	return time.Duration(o.DefaultDelayMs) * time.Millisecond
}

// AnimationDuration is how long a layer animation runs.
func (o ExecutionOptions) AnimationDuration() time.Duration {
	return time.Duration(o.DefaultAnimationDurationMs) * time.Millisecond
}

// Order returns the custom order if present, the default otherwise.
func (o ExecutionOptions) Order() ExecutionOrder {
	if o.CustomOrder != nil {
		return *o.CustomOrder
	}

	return DefaultExecutionOrder()
}

// Enabled reports whether the options ask for the given component type.
func (o ExecutionOptions) Enabled(typ ComponentType) bool {
	switch typ {
	case ComponentTypePOI:
		return o.ShowPOIs
	case ComponentTypeZone:
		return o.ShowZones
	case ComponentTypeLayer:
		return o.AnimateLayers
	case ComponentTypeTimeline:
		return o.ExecuteTimeline
	default:
		return false
	}
}

// ExecutedComponent records one attempted component.
type ExecutedComponent struct {
	Type         ComponentType `json:"type"`
	ComponentID  string        `json:"component_id"`
	Name         string        `json:"name"`
	Order        int           `json:"order"`
	Duration     time.Duration `json:"duration"`
	IsSuccess    bool          `json:"is_success"`
	ErrorMessage string        `json:"error_message,omitempty"`
}

// SegmentExecutionResult is the outcome of playing one segment.
type SegmentExecutionResult struct {
	Segment            Segment             `json:"segment"`
	IsSuccess          bool                `json:"is_success"`
	Duration           time.Duration       `json:"duration"`
	ErrorMessage       string              `json:"error_message,omitempty"`
	ExecutedComponents []ExecutedComponent `json:"executed_components"`
}

// ExecutionCheckpoint is the last component started for a narrative.
type ExecutionCheckpoint struct {
	NarrativeID     string           `json:"narrative_id"`
	SegmentID       string           `json:"segment_id"`
	SegmentIndex    int              `json:"segment_index"`
	ComponentType   string           `json:"component_type"`
	ComponentIndex  int              `json:"component_index"`
	ElapsedMs       *int64           `json:"elapsed_ms,omitempty"`
	OptionsSnapshot ExecutionOptions `json:"options_snapshot"`
	UpdatedAt       time.Time        `json:"updated_at"`
}

// WithComponent returns a copy positioned at another component.
func (c ExecutionCheckpoint) WithComponent(typ ComponentType, index int, at time.Time) ExecutionCheckpoint {
	c.ComponentType = typ.String()
	c.ComponentIndex = index
	c.UpdatedAt = at

	return c
}
