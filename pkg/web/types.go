package web

import (
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/google/uuid"
)

// SaveNarrativeRequest is the body for creating or replacing a narrative.
type SaveNarrativeRequest struct {
	Name        string                      `json:"name"                 validate:"required,min=1,max=200"`
	Description string                      `json:"description"`
	Segments    []SegmentRequest            `json:"segments"             validate:"dive"`
	Transitions []models.TimelineTransition `json:"timeline_transitions" validate:"dive"`
}

// SegmentRequest is a segment inside a SaveNarrativeRequest. Components are taken as-is.
type SegmentRequest struct {
	ID            string                `json:"id"`
	Name          string                `json:"name"            validate:"required"`
	Summary       string                `json:"summary"`
	StoryContent  string                `json:"story_content"`
	DisplayOrder  int                   `json:"display_order"   validate:"min=0"`
	AutoFitBounds bool                  `json:"auto_fit_bounds"`
	PlaybackMode  models.PlaybackMode   `json:"playback_mode"   validate:"omitempty,oneof=auto manual"`
	Camera        models.CameraState    `json:"camera"`
	POIs          []models.POI          `json:"pois"`
	Zones         []models.Zone         `json:"zones"`
	Layers        []models.SegmentLayer `json:"layers"`
}

// ToNarrative builds the domain narrative stored under id. An empty id lets the
// repository assign one; segments and transitions without an id get a new one.
func (r SaveNarrativeRequest) ToNarrative(id string) *models.Narrative {
	narrative := &models.Narrative{
		ID:          id,
		Name:        r.Name,
		Description: r.Description,
		Segments:    make([]models.Segment, 0, len(r.Segments)),
		Transitions: r.Transitions,
	}

	for i := range narrative.Transitions {
		if narrative.Transitions[i].ID == "" {
			narrative.Transitions[i].ID = uuid.NewString()
		}
	}

	for _, s := range r.Segments {
		if s.ID == "" {
			s.ID = uuid.NewString()
		}

		narrative.Segments = append(narrative.Segments, models.Segment{
			ID:            s.ID,
			NarrativeID:   id,
			Name:          s.Name,
			Summary:       s.Summary,
			StoryContent:  s.StoryContent,
			DisplayOrder:  s.DisplayOrder,
			AutoFitBounds: s.AutoFitBounds,
			PlaybackMode:  s.PlaybackMode,
			Camera:        s.Camera,
			POIs:          s.POIs,
			Zones:         s.Zones,
			Layers:        s.Layers,
		})
	}

	return narrative
}

// NarrativeSummary is a narrative listed without its components.
type NarrativeSummary struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Description  string `json:"description,omitempty"`
	SegmentCount int    `json:"segment_count"`
}

func summarize(narrative *models.Narrative) NarrativeSummary {
	return NarrativeSummary{
		ID:           narrative.ID,
		Name:         narrative.Name,
		Description:  narrative.Description,
		SegmentCount: len(narrative.Segments),
	}
}

// ExecutionStatusResponse reports a narrative's executor state.
type ExecutionStatusResponse struct {
	NarrativeID string                 `json:"narrative_id"`
	Status      models.ExecutionStatus `json:"status"`
	IsActive    bool                   `json:"is_active"`
}

// ExecuteAllResponse is the outcome of playing a whole narrative.
type ExecuteAllResponse struct {
	NarrativeID string                          `json:"narrative_id"`
	Status      models.ExecutionStatus          `json:"status"`
	IsSuccess   bool                            `json:"is_success"`
	Duration    time.Duration                   `json:"duration"`
	Results     []models.SegmentExecutionResult `json:"results"`
}

func newExecuteAllResponse(
	narrativeID string,
	status models.ExecutionStatus,
	results []models.SegmentExecutionResult,
) ExecuteAllResponse {
	response := ExecuteAllResponse{
		NarrativeID: narrativeID,
		Status:      status,
		IsSuccess:   true,
		Results:     results,
	}

	for _, result := range results {
		response.Duration += result.Duration
		if !result.IsSuccess {
			response.IsSuccess = false
		}
	}

	return response
}
