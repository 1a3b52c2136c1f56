// Package models defines the domain models for story map playback.
package models

import "time"

// PlaybackMode controls how a segment advances once its components have been presented.
type PlaybackMode string

const (
	PlaybackModeAuto   PlaybackMode = "auto"
	PlaybackModeManual PlaybackMode = "manual"
)

// CameraState is the map viewport a segment flies to.
type CameraState struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Zoom      float64 `json:"zoom"`
	Bearing   float64 `json:"bearing,omitempty"`
	Pitch     float64 `json:"pitch,omitempty"`
}

// POI is a point of interest shown while a segment plays.
type POI struct {
	ID           string  `json:"id"`
	Title        string  `json:"title"`
	Subtitle     string  `json:"subtitle,omitempty"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	DisplayOrder int     `json:"display_order"`
}

// Zone is an outlined area highlighted while a segment plays.
type Zone struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	ZoneType     string `json:"zone_type,omitempty"`
	Geometry     string `json:"geometry,omitempty"`
	DisplayOrder int    `json:"display_order"`
	IsPrimary    bool   `json:"is_primary"`
}

// SegmentLayer binds a map layer to a segment with its fade settings.
type SegmentLayer struct {
	ID           string  `json:"id"`
	LayerID      string  `json:"layer_id"`
	ZoneID       string  `json:"zone_id,omitempty"`
	DisplayOrder int     `json:"display_order"`
	DelayMs      int     `json:"delay_ms"`
	FadeInMs     int     `json:"fade_in_ms"`
	FadeOutMs    int     `json:"fade_out_ms"`
	StartOpacity float64 `json:"start_opacity"`
	EndOpacity   float64 `json:"end_opacity"`
}

// Segment is one ordered step of a narrative. The playback engine treats it as
// an immutable value for the duration of an execution call.
type Segment struct {
	ID            string         `json:"id"`
	NarrativeID   string         `json:"narrative_id"`
	Name          string         `json:"name"`
	Summary       string         `json:"summary,omitempty"`
	StoryContent  string         `json:"story_content,omitempty"`
	DisplayOrder  int            `json:"display_order"`
	AutoFitBounds bool           `json:"auto_fit_bounds"`
	PlaybackMode  PlaybackMode   `json:"playback_mode,omitempty"`
	Camera        CameraState    `json:"camera"`
	POIs          []POI          `json:"pois"`
	Zones         []Zone         `json:"zones"`
	Layers        []SegmentLayer `json:"layers"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     *time.Time     `json:"updated_at,omitempty"`
}

// TimelineTransition is an animated, overlay or user-gated handoff between two segments.
type TimelineTransition struct {
	ID                        string     `json:"id"`
	NarrativeID               string     `json:"narrative_id"`
	FromSegmentID             string     `json:"from_segment_id"`
	ToSegmentID               string     `json:"to_segment_id"`
	Name                      string     `json:"name,omitempty"`
	DurationMs                int        `json:"duration_ms"`
	TransitionType            string     `json:"transition_type,omitempty"`
	AnimateCamera             bool       `json:"animate_camera"`
	CameraAnimationType       string     `json:"camera_animation_type,omitempty"`
	CameraAnimationDurationMs int        `json:"camera_animation_duration_ms"`
	ShowOverlay               bool       `json:"show_overlay"`
	OverlayContent            string     `json:"overlay_content,omitempty"`
	AutoTrigger               bool       `json:"auto_trigger"`
	RequireUserAction         bool       `json:"require_user_action"`
	TriggerButtonText         string     `json:"trigger_button_text,omitempty"`
	CreatedAt                 time.Time  `json:"created_at"`
	UpdatedAt                 *time.Time `json:"updated_at,omitempty"`
}

// Touches reports whether the transition starts or ends at the given segment.
func (t TimelineTransition) Touches(segmentID string) bool {
	return t.FromSegmentID == segmentID || t.ToSegmentID == segmentID
}

// Narrative is a story map with its segments and transitions.
type Narrative struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Description string               `json:"description,omitempty"`
	Segments    []Segment            `json:"segments"`
	Transitions []TimelineTransition `json:"timeline_transitions"`
}
