// Package web provides HTTP handlers for narrative management and playback control.
package web

import (
	"net/http"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/services"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
)

type APIHandlers struct {
	playback    *services.Playback
	persistence persistence.Persistence
	narratives  persistence.NarrativeRepository
	validator   *validator.Validate
}

func NewAPIHandlers(
	playbackService *services.Playback,
	store persistence.Persistence,
	validator *validator.Validate,
) *APIHandlers {
	return &APIHandlers{
		playback:    playbackService,
		persistence: store,
		narratives:  store.NarrativeRepository(),
		validator:   validator,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	check, ok := h.playback.HealthCheck(c.Context(), h.persistence)

	status := "unhealthy"
	message := "Story map API is unhealthy"
	httpStatus := http.StatusInternalServerError

	if ok {
		status = "healthy"
		message = "Story map API is healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"checkers": fiber.Map{
			"playback": check,
		},
		"timestamp": time.Now().UTC(),
	})
}

func (h *APIHandlers) GetNarratives(c fiber.Ctx) error {
	narratives, err := h.narratives.Narratives(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	summaries := make([]NarrativeSummary, 0, len(narratives))
	for _, narrative := range narratives {
		summaries = append(summaries, summarize(narrative))
	}

	return c.JSON(fiber.Map{
		"narratives":  summaries,
		"total_count": len(summaries),
	})
}

func (h *APIHandlers) GetNarrative(c fiber.Ctx) error {
	id := c.Params("narrativeId")
	if id == "" {
		return badRequest(c, "Narrative ID is required")
	}

	narrative, err := h.narratives.NarrativeByID(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(narrative)
}

func (h *APIHandlers) GetSegments(c fiber.Ctx) error {
	id := c.Params("narrativeId")
	if id == "" {
		return badRequest(c, "Narrative ID is required")
	}

	segments, err := h.narratives.Segments(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(segments)
}

func (h *APIHandlers) CreateNarrative(c fiber.Ctx) error {
	req, err := h.bindNarrative(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	narrative := req.ToNarrative("")

	err = h.narratives.SaveNarrative(c.Context(), narrative)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(narrative)
}

func (h *APIHandlers) UpdateNarrative(c fiber.Ctx) error {
	id := c.Params("narrativeId")
	if id == "" {
		return badRequest(c, "Narrative ID is required")
	}

	req, err := h.bindNarrative(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	if _, err := h.narratives.NarrativeByID(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	if h.playback.IsActive(id) {
		return handleServiceError(c, services.ErrPlaybackInProgress)
	}

	narrative := req.ToNarrative(id)

	err = h.narratives.SaveNarrative(c.Context(), narrative)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(narrative)
}

func (h *APIHandlers) DeleteNarrative(c fiber.Ctx) error {
	id := c.Params("narrativeId")
	if id == "" {
		return badRequest(c, "Narrative ID is required")
	}

	if h.playback.IsActive(id) {
		return handleServiceError(c, services.ErrPlaybackInProgress)
	}

	err := h.narratives.DeleteNarrative(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) bindNarrative(c fiber.Ctx) (*SaveNarrativeRequest, error) {
	var req SaveNarrativeRequest
	if err := c.Bind().JSON(&req); err != nil {
		return nil, errInvalidJSON
	}

	if err := h.validator.Struct(req); err != nil {
		return nil, err
	}

	return &req, nil
}
