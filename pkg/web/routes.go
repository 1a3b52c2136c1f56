package web

import "github.com/gofiber/fiber/v3"

// RegisterRoutes mounts the narrative, playback and health endpoints.
func RegisterRoutes(app *fiber.App, handlers *APIHandlers) {
	n := app.Group("/narratives")
	n.Get("/", handlers.GetNarratives)
	n.Post("/", handlers.CreateNarrative)
	n.Get("/:narrativeId", handlers.GetNarrative)
	n.Put("/:narrativeId", handlers.UpdateNarrative)
	n.Delete("/:narrativeId", handlers.DeleteNarrative)
	n.Get("/:narrativeId/segments", handlers.GetSegments)

	// Playback endpoints:
	n.Post("/:narrativeId/segments/execute-all", handlers.ExecuteAll)
	n.Post("/:narrativeId/segments/:segmentId/execute", handlers.ExecuteSegment)
	n.Get("/:narrativeId/execution/status", handlers.GetExecutionStatus)
	n.Post("/:narrativeId/execution/pause", handlers.PauseExecution)
	n.Post("/:narrativeId/execution/resume", handlers.ResumeExecution)
	n.Post("/:narrativeId/execution/stop", handlers.StopExecution)
	n.Get("/:narrativeId/execution/checkpoint", handlers.GetCheckpoint)
	n.Post("/:narrativeId/execution/checkpoint/reset", handlers.ResetCheckpoint)

	app.Get("/checkpoints", handlers.GetCheckpoints)
	app.Get("/health", handlers.HealthCheck)
}
