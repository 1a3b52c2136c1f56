package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence/file"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/playback"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/services"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/testutil"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/web"
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const quietOptions = `{"default_delay_ms":0,"default_animation_duration_ms":0}`

type testEnv struct {
	app         *fiber.App
	store       *file.Persistence
	checkpoints *checkpoint.MemoryStore
}

func setupTestApp(t *testing.T) *testEnv {
	t.Helper()

	store := file.NewPersistence(t.TempDir())
	checkpoints := checkpoint.NewMemoryStore()

	playbackService := services.NewPlayback(store.NarrativeRepository(), checkpoints, log.Discard(),
		playback.WithSlice(5*time.Millisecond),
		playback.WithTimings(playback.Timings{
			POI:             10 * time.Millisecond,
			Zone:            10 * time.Millisecond,
			CameraAnimation: 10 * time.Millisecond,
			Overlay:         10 * time.Millisecond,
			UserAction:      10 * time.Millisecond,
		}),
	)

	handlers := web.NewAPIHandlers(playbackService, store, validator.New(validator.WithRequiredStructEnabled()))

	app := fiber.New()
	web.RegisterRoutes(app, handlers)

	return &testEnv{app: app, store: store, checkpoints: checkpoints}
}

func (env *testEnv) seed(t *testing.T, segments int) *models.Narrative {
	t.Helper()

	narrative := testutil.CreateTestNarrative(segments, func(n *models.Narrative) {
		// keep the timeline fast
		for i := range n.Transitions {
			n.Transitions[i].CameraAnimationDurationMs = 10
		}
	})
	require.NoError(t, env.store.NarrativeRepository().SaveNarrative(t.Context(), narrative))

	return narrative
}

func (env *testEnv) do(t *testing.T, method, path, body string) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = bytes.NewBufferString(body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := env.app.Test(req)
	require.NoError(t, err)

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			t.Logf("Failed to close response body: %v", err)
		}
	}()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	return resp.StatusCode, data
}

func problemType(t *testing.T, body []byte) string {
	t.Helper()

	var problem map[string]any
	require.NoError(t, json.Unmarshal(body, &problem))

	kind, _ := problem["type"].(string)

	return kind
}

func TestAPIHandlers_HealthCheck(t *testing.T) {
	env := setupTestApp(t)

	status, body := env.do(t, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, status)

	var response map[string]any
	require.NoError(t, json.Unmarshal(body, &response))
	assert.Equal(t, "healthy", response["status"])
}

func TestAPIHandlers_NarrativeLifecycle(t *testing.T) {
	env := setupTestApp(t)

	create := `{
		"name": "Harbour walk",
		"segments": [
			{"name": "Second", "display_order": 1, "pois": [{"id": "p1", "title": "Pier"}]},
			{"name": "First", "display_order": 0}
		]
	}`

	status, body := env.do(t, http.MethodPost, "/narratives", create)
	require.Equal(t, http.StatusCreated, status, string(body))

	var created models.Narrative
	require.NoError(t, json.Unmarshal(body, &created))
	require.NotEmpty(t, created.ID)

	status, body = env.do(t, http.MethodGet, "/narratives/"+created.ID, "")
	require.Equal(t, http.StatusOK, status)

	var fetched models.Narrative
	require.NoError(t, json.Unmarshal(body, &fetched))
	require.Len(t, fetched.Segments, 2)
	assert.Equal(t, "First", fetched.Segments[0].Name)

	status, body = env.do(t, http.MethodGet, "/narratives", "")
	require.Equal(t, http.StatusOK, status)

	var list struct {
		Narratives []web.NarrativeSummary `json:"narratives"`
		TotalCount int                    `json:"total_count"`
	}
	require.NoError(t, json.Unmarshal(body, &list))
	assert.Equal(t, 1, list.TotalCount)
	assert.Equal(t, 2, list.Narratives[0].SegmentCount)

	status, _ = env.do(t, http.MethodPut, "/narratives/"+created.ID, `{"name": "Renamed"}`)
	require.Equal(t, http.StatusOK, status)

	status, body = env.do(t, http.MethodGet, "/narratives/"+created.ID+"/segments", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, "[]", string(body))

	status, _ = env.do(t, http.MethodDelete, "/narratives/"+created.ID, "")
	assert.Equal(t, http.StatusNoContent, status)

	status, body = env.do(t, http.MethodGet, "/narratives/"+created.ID, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "narrative_not_found", problemType(t, body))
}

func TestAPIHandlers_CreateNarrativeValidation(t *testing.T) {
	env := setupTestApp(t)

	tests := []struct {
		name          string
		body          string
		expectedError string
	}{
		{name: "invalid json", body: `{"name":`, expectedError: "invalid JSON format"},
		{name: "missing name", body: `{"description": "no name"}`, expectedError: "Name"},
		{name: "segment without name", body: `{"name": "n", "segments": [{"display_order": 0}]}`, expectedError: "Name"},
		{name: "bad playback mode", body: `{"name": "n", "segments": [{"name": "s", "playback_mode": "loop"}]}`, expectedError: "PlaybackMode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/narratives", tt.body)

			assert.Equal(t, http.StatusBadRequest, status)
			assert.Equal(t, "validation_error", problemType(t, body))
			assert.Contains(t, string(body), tt.expectedError)
		})
	}
}

func TestAPIHandlers_ExecuteSegment(t *testing.T) {
	env := setupTestApp(t)
	narrative := env.seed(t, 2)

	path := "/narratives/" + narrative.ID + "/segments/" + narrative.Segments[1].ID + "/execute"

	status, body := env.do(t, http.MethodPost, path, quietOptions)
	require.Equal(t, http.StatusOK, status, string(body))

	var result models.SegmentExecutionResult
	require.NoError(t, json.Unmarshal(body, &result))
	assert.True(t, result.IsSuccess)
	assert.Equal(t, narrative.Segments[1].ID, result.Segment.ID)
	require.Len(t, result.ExecutedComponents, 4)
	assert.Equal(t, "POIs (2)", result.ExecutedComponents[0].Name)
	assert.Equal(t, models.ComponentTypeTimeline, result.ExecutedComponents[3].Type)

	status, body = env.do(t, http.MethodGet, "/narratives/"+narrative.ID+"/execution/status", "")
	require.Equal(t, http.StatusOK, status)

	var state web.ExecutionStatusResponse
	require.NoError(t, json.Unmarshal(body, &state))
	assert.Equal(t, models.ExecutionStatusIdle, state.Status)
	assert.False(t, state.IsActive)
}

func TestAPIHandlers_ExecuteSegmentErrors(t *testing.T) {
	env := setupTestApp(t)
	narrative := env.seed(t, 1)

	base := "/narratives/" + narrative.ID + "/segments/"

	status, body := env.do(t, http.MethodPost, base+"missing/execute", quietOptions)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "segment_not_found", problemType(t, body))

	status, body = env.do(t, http.MethodPost, base+narrative.Segments[0].ID+"/execute", `{"default_delay_ms": -5}`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Contains(t, string(body), "DefaultDelayMs")

	status, body = env.do(t, http.MethodPost, base+narrative.Segments[0].ID+"/execute", `not json`)
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "validation_error", problemType(t, body))

	status, body = env.do(t, http.MethodPost, "/narratives/unknown/segments/execute-all", quietOptions)
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "narrative_not_found", problemType(t, body))
}

func TestAPIHandlers_ExecuteAll(t *testing.T) {
	env := setupTestApp(t)
	narrative := env.seed(t, 3)

	status, body := env.do(t, http.MethodPost, "/narratives/"+narrative.ID+"/segments/execute-all",
		`{"show_zones": false, "animate_layers": false, "execute_timeline": false, "default_delay_ms": 0}`)
	require.Equal(t, http.StatusOK, status, string(body))

	var response web.ExecuteAllResponse
	require.NoError(t, json.Unmarshal(body, &response))
	assert.True(t, response.IsSuccess)
	assert.Equal(t, models.ExecutionStatusIdle, response.Status)
	require.Len(t, response.Results, 3)

	for i, result := range response.Results {
		assert.Equal(t, narrative.Segments[i].ID, result.Segment.ID)
		require.Len(t, result.ExecutedComponents, 1)
		assert.Equal(t, models.ComponentTypePOI, result.ExecutedComponents[0].Type)
	}
}

func TestAPIHandlers_ControlWithoutSession(t *testing.T) {
	env := setupTestApp(t)
	narrative := env.seed(t, 1)

	for _, action := range []string{"pause", "resume", "stop"} {
		t.Run(action, func(t *testing.T) {
			status, body := env.do(t, http.MethodPost, "/narratives/"+narrative.ID+"/execution/"+action, "")

			assert.Equal(t, http.StatusNotFound, status)
			assert.Equal(t, "session_not_found", problemType(t, body))
		})
	}
}

func TestAPIHandlers_Checkpoint(t *testing.T) {
	env := setupTestApp(t)
	narrative := env.seed(t, 1)
	path := "/narratives/" + narrative.ID + "/execution/checkpoint"

	status, body := env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "checkpoint_not_found", problemType(t, body))

	cp := models.ExecutionCheckpoint{
		NarrativeID:    narrative.ID,
		SegmentID:      narrative.Segments[0].ID,
		ComponentType:  "Zone",
		ComponentIndex: 1,
		UpdatedAt:      time.Now().UTC(),
	}
	require.NoError(t, env.checkpoints.Set(t.Context(), narrative.ID, cp))

	status, body = env.do(t, http.MethodGet, path, "")
	require.Equal(t, http.StatusOK, status)

	var fetched models.ExecutionCheckpoint
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, "Zone", fetched.ComponentType)
	assert.Equal(t, 1, fetched.ComponentIndex)

	status, body = env.do(t, http.MethodGet, "/checkpoints", "")
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(body), `"total_count":1`)

	status, _ = env.do(t, http.MethodPost, path+"/reset", "")
	assert.Equal(t, http.StatusNoContent, status)

	status, _ = env.do(t, http.MethodGet, path, "")
	assert.Equal(t, http.StatusNotFound, status)
}
