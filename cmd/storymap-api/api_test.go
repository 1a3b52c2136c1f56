package main

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence/file"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/playback"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/services"
	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestApp(t *testing.T, root string) *fiber.App {
	t.Helper()

	store := file.NewPersistence(root)
	registry := prometheus.NewRegistry()

	playbackService := services.NewPlayback(store.NarrativeRepository(), checkpoint.NewMemoryStore(), log.Discard(),
		playback.WithMetrics(playback.NewMetrics(registry)))

	return NewAPI(log.Discard(), store, playbackService, registry).App()
}

func get(t *testing.T, app *fiber.App, path string) (int, string) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, string(body)
}

func TestAPI_RootEndpoint(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	status, body := get(t, app, "/")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Story map API", body)
}

func TestAPI_Probes(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	status, body := get(t, app, "/livez")
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "OK", body)

	status, _ = get(t, app, "/readyz")
	assert.Equal(t, http.StatusOK, status)
}

func TestAPI_NotReadyWithoutStorage(t *testing.T) {
	app := setupTestApp(t, t.TempDir()+"/missing")

	status, _ := get(t, app, "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, status)

	status, _ = get(t, app, "/health")
	assert.Equal(t, http.StatusInternalServerError, status)
}

func TestAPI_Metrics(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	status, body := get(t, app, "/metrics")
	assert.Equal(t, http.StatusOK, status)
	assert.Contains(t, body, "storymap_playback_segments_in_flight")
}

func TestAPI_GetNarratives_Empty(t *testing.T) {
	app := setupTestApp(t, t.TempDir())

	status, body := get(t, app, "/narratives")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"narratives": [], "total_count": 0}`, body)
}
