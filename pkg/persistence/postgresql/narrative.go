package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/google/uuid"
)

const segmentColumns = `
			id
		  , narrative_id
		  , name
		  , summary
		  , story_content
		  , display_order
		  , auto_fit_bounds
		  , playback_mode
		  , camera
		  , pois
		  , zones
		  , layers
		  , created_at
		  , updated_at`

const transitionColumns = `
			id
		  , narrative_id
		  , from_segment_id
		  , to_segment_id
		  , name
		  , duration_ms
		  , transition_type
		  , animate_camera
		  , camera_animation_type
		  , camera_animation_duration_ms
		  , show_overlay
		  , overlay_content
		  , auto_trigger
		  , require_user_action
		  , trigger_button_text
		  , created_at
		  , updated_at`

type scanner interface {
	Scan(dest ...any) error
}

// NarrativeRepository handles narrative-related database operations.
type NarrativeRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewNarrativeRepository(db *sql.DB, logger *slog.Logger) *NarrativeRepository {
	return &NarrativeRepository{db: db, logger: logger}
}

// Narratives returns every narrative with its segments and transitions, sorted by name.
func (r *NarrativeRepository) Narratives(ctx context.Context) ([]*models.Narrative, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, description
		FROM narratives
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query narratives: %w", err)
	}

	narratives := make([]*models.Narrative, 0)

	for rows.Next() {
		narrative := &models.Narrative{}

		err := rows.Scan(&narrative.ID, &narrative.Name, &narrative.Description)
		if err != nil {
			r.closeRows(ctx, rows)

			return nil, fmt.Errorf("failed to scan narrative: %w", err)
		}

		narratives = append(narratives, narrative)
	}

	err = rows.Err()
	r.closeRows(ctx, rows)

	if err != nil {
		return nil, fmt.Errorf("error iterating narratives: %w", err)
	}

	for _, narrative := range narratives {
		if err := r.loadChildren(ctx, narrative); err != nil {
			return nil, err
		}
	}

	return narratives, nil
}

func (r *NarrativeRepository) NarrativeByID(ctx context.Context, narrativeID string) (*models.Narrative, error) {
	narrative := &models.Narrative{}

	err := r.db.QueryRowContext(ctx, `
		SELECT id, name, description
		FROM narratives
		WHERE id = $1
	`, narrativeID).Scan(&narrative.ID, &narrative.Name, &narrative.Description)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewNarrativeError("NarrativeByID", narrativeID, persistence.ErrNarrativeNotFound)
		}

		return nil, fmt.Errorf("failed to scan narrative: %w", err)
	}

	if err := r.loadChildren(ctx, narrative); err != nil {
		return nil, err
	}

	return narrative, nil
}

// SaveNarrative upserts the narrative and replaces its segments and transitions in one
// transaction.
func (r *NarrativeRepository) SaveNarrative(ctx context.Context, narrative *models.Narrative) (err error) {
	if narrative.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate narrative ID: %w", err)
		}

		narrative.ID = id.String()
	}

	now := time.Now().UTC()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO narratives (id, name, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name
		  , description = EXCLUDED.description
		  , updated_at = EXCLUDED.updated_at
	`, narrative.ID, narrative.Name, narrative.Description, now)
	if err != nil {
		return fmt.Errorf("failed to save narrative: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM segments WHERE narrative_id = $1", narrative.ID)
	if err != nil {
		return fmt.Errorf("failed to delete old segments: %w", err)
	}

	for i := range narrative.Segments {
		segment := &narrative.Segments[i]
		segment.NarrativeID = narrative.ID

		if segment.CreatedAt.IsZero() {
			segment.CreatedAt = now
		}

		err = r.insertSegment(ctx, tx, segment)
		if err != nil {
			return err
		}
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM timeline_transitions WHERE narrative_id = $1", narrative.ID)
	if err != nil {
		return fmt.Errorf("failed to delete old timeline transitions: %w", err)
	}

	for i := range narrative.Transitions {
		transition := &narrative.Transitions[i]
		transition.NarrativeID = narrative.ID

		if transition.CreatedAt.IsZero() {
			transition.CreatedAt = now
		}

		err = r.insertTransition(ctx, tx, transition)
		if err != nil {
			return err
		}
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

func (r *NarrativeRepository) DeleteNarrative(ctx context.Context, narrativeID string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM narratives WHERE id = $1", narrativeID)
	if err != nil {
		return fmt.Errorf("failed to delete narrative: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}

	if affected == 0 {
		return persistence.NewNarrativeError("DeleteNarrative", narrativeID, persistence.ErrNarrativeNotFound)
	}

	return nil
}

func (r *NarrativeRepository) Segments(ctx context.Context, narrativeID string) ([]models.Segment, error) {
	if err := r.ensureNarrative(ctx, "Segments", narrativeID); err != nil {
		return nil, err
	}

	return r.segments(ctx, narrativeID)
}

func (r *NarrativeRepository) SegmentByID(ctx context.Context, narrativeID, segmentID string) (*models.Segment, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT`+segmentColumns+`
		FROM segments
		WHERE narrative_id = $1 AND id = $2
	`, narrativeID, segmentID)

	segment, err := scanSegment(row)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		if err := r.ensureNarrative(ctx, "SegmentByID", narrativeID); err != nil {
			return nil, err
		}

		return nil, persistence.NewSegmentError("SegmentByID", narrativeID, segmentID, persistence.ErrSegmentNotFound)
	}

	return segment, nil
}

func (r *NarrativeRepository) TimelineTransitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error) {
	if err := r.ensureNarrative(ctx, "TimelineTransitions", narrativeID); err != nil {
		return nil, err
	}

	return r.transitions(ctx, narrativeID)
}

func (r *NarrativeRepository) loadChildren(ctx context.Context, narrative *models.Narrative) error {
	segments, err := r.segments(ctx, narrative.ID)
	if err != nil {
		return err
	}

	transitions, err := r.transitions(ctx, narrative.ID)
	if err != nil {
		return err
	}

	narrative.Segments = segments
	narrative.Transitions = transitions

	return nil
}

func (r *NarrativeRepository) ensureNarrative(ctx context.Context, op, narrativeID string) error {
	var exists bool

	err := r.db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM narratives WHERE id = $1)", narrativeID).Scan(&exists)
	if err != nil {
		return fmt.Errorf("failed to check narrative existence: %w", err)
	}

	if !exists {
		return persistence.NewNarrativeError(op, narrativeID, persistence.ErrNarrativeNotFound)
	}

	return nil
}

func (r *NarrativeRepository) segments(ctx context.Context, narrativeID string) ([]models.Segment, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+segmentColumns+`
		FROM segments
		WHERE narrative_id = $1
		ORDER BY display_order, created_at, id
	`, narrativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query segments: %w", err)
	}

	defer r.closeRows(ctx, rows)

	segments := make([]models.Segment, 0)

	for rows.Next() {
		segment, err := scanSegment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan segment: %w", err)
		}

		segments = append(segments, *segment)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating segments: %w", err)
	}

	return segments, nil
}

func (r *NarrativeRepository) transitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT`+transitionColumns+`
		FROM timeline_transitions
		WHERE narrative_id = $1
		ORDER BY created_at, id
	`, narrativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to query timeline transitions: %w", err)
	}

	defer r.closeRows(ctx, rows)

	transitions := make([]models.TimelineTransition, 0)

	for rows.Next() {
		transition, err := scanTransition(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan timeline transition: %w", err)
		}

		transitions = append(transitions, *transition)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating timeline transitions: %w", err)
	}

	return transitions, nil
}

func (r *NarrativeRepository) insertSegment(ctx context.Context, tx *sql.Tx, segment *models.Segment) error {
	camera, err := json.Marshal(segment.Camera)
	if err != nil {
		return fmt.Errorf("failed to marshal camera of segment %s: %w", segment.ID, err)
	}

	pois, err := marshalList(segment.POIs)
	if err != nil {
		return fmt.Errorf("failed to marshal POIs of segment %s: %w", segment.ID, err)
	}

	zones, err := marshalList(segment.Zones)
	if err != nil {
		return fmt.Errorf("failed to marshal zones of segment %s: %w", segment.ID, err)
	}

	layers, err := marshalList(segment.Layers)
	if err != nil {
		return fmt.Errorf("failed to marshal layers of segment %s: %w", segment.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO segments (`+segmentColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`,
		segment.ID,
		segment.NarrativeID,
		segment.Name,
		segment.Summary,
		segment.StoryContent,
		segment.DisplayOrder,
		segment.AutoFitBounds,
		string(segment.PlaybackMode),
		camera,
		pois,
		zones,
		layers,
		segment.CreatedAt,
		segment.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert segment %s: %w", segment.ID, err)
	}

	return nil
}

func (r *NarrativeRepository) insertTransition(ctx context.Context, tx *sql.Tx, transition *models.TimelineTransition) error {
	_, err := tx.ExecContext(ctx, `
		INSERT INTO timeline_transitions (`+transitionColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
	`,
		transition.ID,
		transition.NarrativeID,
		transition.FromSegmentID,
		transition.ToSegmentID,
		transition.Name,
		transition.DurationMs,
		transition.TransitionType,
		transition.AnimateCamera,
		transition.CameraAnimationType,
		transition.CameraAnimationDurationMs,
		transition.ShowOverlay,
		transition.OverlayContent,
		transition.AutoTrigger,
		transition.RequireUserAction,
		transition.TriggerButtonText,
		transition.CreatedAt,
		transition.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert timeline transition %s: %w", transition.ID, err)
	}

	return nil
}

func (r *NarrativeRepository) closeRows(ctx context.Context, rows *sql.Rows) {
	err := rows.Close()
	if err != nil {
		r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
	}
}

func scanSegment(row scanner) (*models.Segment, error) {
	var (
		segment      models.Segment
		playbackMode string
		camera       []byte
		pois         []byte
		zones        []byte
		layers       []byte
		updatedAt    sql.NullTime
	)

	err := row.Scan(
		&segment.ID,
		&segment.NarrativeID,
		&segment.Name,
		&segment.Summary,
		&segment.StoryContent,
		&segment.DisplayOrder,
		&segment.AutoFitBounds,
		&playbackMode,
		&camera,
		&pois,
		&zones,
		&layers,
		&segment.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	segment.PlaybackMode = models.PlaybackMode(playbackMode)

	if updatedAt.Valid {
		segment.UpdatedAt = &updatedAt.Time
	}

	for _, field := range []struct {
		name string
		data []byte
		dest any
	}{
		{"camera", camera, &segment.Camera},
		{"pois", pois, &segment.POIs},
		{"zones", zones, &segment.Zones},
		{"layers", layers, &segment.Layers},
	} {
		if len(field.data) == 0 {
			continue
		}

		if err := json.Unmarshal(field.data, field.dest); err != nil {
			return nil, fmt.Errorf("failed to unmarshal %s: %w", field.name, err)
		}
	}

	return &segment, nil
}

func scanTransition(row scanner) (*models.TimelineTransition, error) {
	var (
		transition models.TimelineTransition
		updatedAt  sql.NullTime
	)

	err := row.Scan(
		&transition.ID,
		&transition.NarrativeID,
		&transition.FromSegmentID,
		&transition.ToSegmentID,
		&transition.Name,
		&transition.DurationMs,
		&transition.TransitionType,
		&transition.AnimateCamera,
		&transition.CameraAnimationType,
		&transition.CameraAnimationDurationMs,
		&transition.ShowOverlay,
		&transition.OverlayContent,
		&transition.AutoTrigger,
		&transition.RequireUserAction,
		&transition.TriggerButtonText,
		&transition.CreatedAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if updatedAt.Valid {
		transition.UpdatedAt = &updatedAt.Time
	}

	return &transition, nil
}

// marshalList stores nil slices as an empty JSON array.
func marshalList[T any](items []T) ([]byte, error) {
	if items == nil {
		items = []T{}
	}

	return json.Marshal(items)
}
