package web

import (
	"encoding/json"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/gofiber/fiber/v3"
)

// ExecuteSegment plays one segment and responds once it ends. A request without a body
// plays with the default options.
func (h *APIHandlers) ExecuteSegment(c fiber.Ctx) error {
	narrativeID := c.Params("narrativeId")
	segmentID := c.Params("segmentId")

	opts, err := parseOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	result, err := h.playback.ExecuteSegment(c.Context(), narrativeID, segmentID, opts)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(result)
}

func (h *APIHandlers) ExecuteAll(c fiber.Ctx) error {
	narrativeID := c.Params("narrativeId")

	opts, err := parseOptions(c)
	if err != nil {
		return badRequest(c, err.Error())
	}

	results, err := h.playback.ExecuteAll(c.Context(), narrativeID, opts)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(newExecuteAllResponse(narrativeID, h.playback.Status(narrativeID), results))
}

func (h *APIHandlers) GetExecutionStatus(c fiber.Ctx) error {
	narrativeID := c.Params("narrativeId")

	return c.JSON(ExecutionStatusResponse{
		NarrativeID: narrativeID,
		Status:      h.playback.Status(narrativeID),
		IsActive:    h.playback.IsActive(narrativeID),
	})
}

func (h *APIHandlers) PauseExecution(c fiber.Ctx) error {
	return h.control(c, h.playback.Pause)
}

func (h *APIHandlers) ResumeExecution(c fiber.Ctx) error {
	return h.control(c, h.playback.Resume)
}

func (h *APIHandlers) StopExecution(c fiber.Ctx) error {
	return h.control(c, h.playback.Stop)
}

func (h *APIHandlers) control(c fiber.Ctx, action func(narrativeID string) error) error {
	narrativeID := c.Params("narrativeId")

	if err := action(narrativeID); err != nil {
		return handleServiceError(c, err)
	}

	return h.GetExecutionStatus(c)
}

func (h *APIHandlers) GetCheckpoint(c fiber.Ctx) error {
	cp, err := h.playback.Checkpoint(c.Context(), c.Params("narrativeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(cp)
}

func (h *APIHandlers) ResetCheckpoint(c fiber.Ctx) error {
	err := h.playback.ResetCheckpoint(c.Context(), c.Params("narrativeId"))
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.SendStatus(fiber.StatusNoContent)
}

func (h *APIHandlers) GetCheckpoints(c fiber.Ctx) error {
	checkpoints, err := h.playback.Checkpoints(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(fiber.Map{
		"checkpoints": checkpoints,
		"total_count": len(checkpoints),
	})
}

// parseOptions decodes the body over the default options so fields the client leaves
// out keep their defaults.
func parseOptions(c fiber.Ctx) (models.ExecutionOptions, error) {
	opts := models.DefaultExecutionOptions()

	body := c.Body()
	if len(body) == 0 {
		return opts, nil
	}

	if err := json.Unmarshal(body, &opts); err != nil {
		return opts, errInvalidJSON
	}

	return opts, nil
}
