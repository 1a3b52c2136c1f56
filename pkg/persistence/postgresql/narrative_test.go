package postgresql

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var segmentRowColumns = []string{
	"id", "narrative_id", "name", "summary", "story_content", "display_order", "auto_fit_bounds",
	"playback_mode", "camera", "pois", "zones", "layers", "created_at", "updated_at",
}

var transitionRowColumns = []string{
	"id", "narrative_id", "from_segment_id", "to_segment_id", "name", "duration_ms", "transition_type",
	"animate_camera", "camera_animation_type", "camera_animation_duration_ms", "show_overlay",
	"overlay_content", "auto_trigger", "require_user_action", "trigger_button_text", "created_at", "updated_at",
}

func newMockRepository(t *testing.T) (*NarrativeRepository, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = db.Close()
	})

	return NewNarrativeRepository(db, log.Discard()), mock
}

func expectExists(mock sqlmock.Sqlmock, narrativeID string, exists bool) {
	mock.ExpectQuery("SELECT EXISTS").
		WithArgs(narrativeID).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(exists))
}

func TestNarrativeRepository_Segments(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	expectExists(mock, "narrative-1", true)
	mock.ExpectQuery("FROM segments").
		WithArgs("narrative-1").
		WillReturnRows(sqlmock.NewRows(segmentRowColumns).
			AddRow("segment-1", "narrative-1", "Harbour", "", "", 0, true, "auto",
				[]byte(`{"latitude":10.7,"longitude":106.7,"zoom":12}`),
				[]byte(`[{"id":"poi-1","title":"Pier"},{"id":"poi-2","title":"Market"}]`),
				[]byte(`[]`), []byte(`[{"id":"l1","layer_id":"roads"}]`), created, nil).
			AddRow("segment-2", "narrative-1", "Market", "", "", 1, false, "",
				[]byte(`{}`), []byte(`[]`), []byte(`[{"id":"zone-1","name":"Old town"}]`), []byte(`[]`), created, created))

	segments, err := repo.Segments(context.Background(), "narrative-1")
	require.NoError(t, err)
	require.Len(t, segments, 2)

	assert.Equal(t, models.PlaybackModeAuto, segments[0].PlaybackMode)
	assert.InDelta(t, 12, segments[0].Camera.Zoom, 0)
	assert.Len(t, segments[0].POIs, 2)
	assert.Equal(t, "roads", segments[0].Layers[0].LayerID)
	assert.Nil(t, segments[0].UpdatedAt)

	assert.Len(t, segments[1].Zones, 1)
	require.NotNil(t, segments[1].UpdatedAt)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_SegmentsOfUnknownNarrative(t *testing.T) {
	repo, mock := newMockRepository(t)

	expectExists(mock, "missing", false)

	_, err := repo.Segments(context.Background(), "missing")
	assert.True(t, persistence.IsNarrativeNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_SegmentByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM segments").
		WithArgs("narrative-1", "segment-9").
		WillReturnRows(sqlmock.NewRows(segmentRowColumns))
	expectExists(mock, "narrative-1", true)

	_, err := repo.SegmentByID(context.Background(), "narrative-1", "segment-9")
	assert.True(t, persistence.IsSegmentNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_TimelineTransitions(t *testing.T) {
	repo, mock := newMockRepository(t)
	created := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

	expectExists(mock, "narrative-1", true)
	mock.ExpectQuery("FROM timeline_transitions").
		WithArgs("narrative-1").
		WillReturnRows(sqlmock.NewRows(transitionRowColumns).
			AddRow("t1", "narrative-1", "segment-1", "segment-2", "Fly", 0, "fly", true, "flyTo", 1200,
				true, "Next stop", true, false, "", created, nil))

	transitions, err := repo.TimelineTransitions(context.Background(), "narrative-1")
	require.NoError(t, err)
	require.Len(t, transitions, 1)
	assert.Equal(t, 1200, transitions[0].CameraAnimationDurationMs)
	assert.Equal(t, "Next stop", transitions[0].OverlayContent)
	assert.True(t, transitions[0].Touches("segment-2"))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_SaveRollsBackOnFailure(t *testing.T) {
	repo, mock := newMockRepository(t)

	narrative := &models.Narrative{
		ID:       "narrative-1",
		Name:     "Walk",
		Segments: []models.Segment{{ID: "segment-1"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO narratives").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM segments").WithArgs("narrative-1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO segments").WillReturnError(errors.New("duplicate key"))
	mock.ExpectRollback()

	err := repo.SaveNarrative(context.Background(), narrative)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to insert segment segment-1")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_Save(t *testing.T) {
	repo, mock := newMockRepository(t)

	narrative := &models.Narrative{
		Name:        "Walk",
		Segments:    []models.Segment{{ID: "segment-1"}, {ID: "segment-2", DisplayOrder: 1}},
		Transitions: []models.TimelineTransition{{ID: "t1", FromSegmentID: "segment-1", ToSegmentID: "segment-2"}},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO narratives").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM segments").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO segments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO segments").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM timeline_transitions").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO timeline_transitions").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, repo.SaveNarrative(context.Background(), narrative))

	assert.NotEmpty(t, narrative.ID)
	assert.Equal(t, narrative.ID, narrative.Segments[1].NarrativeID)
	assert.Equal(t, narrative.ID, narrative.Transitions[0].NarrativeID)
	assert.False(t, narrative.Transitions[0].CreatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_DeleteMissing(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectExec("DELETE FROM narratives").WithArgs("missing").WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.DeleteNarrative(context.Background(), "missing")
	assert.True(t, persistence.IsNarrativeNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestNarrativeRepository_NarrativeByIDNotFound(t *testing.T) {
	repo, mock := newMockRepository(t)

	mock.ExpectQuery("FROM narratives").WithArgs("missing").WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}))

	_, err := repo.NarrativeByID(context.Background(), "missing")
	assert.True(t, persistence.IsNarrativeNotFound(err))
	require.NoError(t, mock.ExpectationsWereMet())
}
