package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/playback"
	"github.com/go-playground/validator/v10"
)

// Playback runs narratives, one SegmentExecutor per narrative. A narrative plays at most
// once at a time; different narratives play concurrently and share the checkpoint store.
type Playback struct {
	repository   persistence.NarrativeRepository
	checkpoints  checkpoint.Store
	executorOpts []playback.Option
	validate     *validator.Validate
	baseLogger   *slog.Logger
	logger       *slog.Logger

	mu       sync.Mutex
	sessions map[string]*session
}

type session struct {
	executor *playback.SegmentExecutor
	active   bool
}

// NewPlayback creates a playback service. executorOpts are applied to every executor it
// creates, after the service's own logger.
func NewPlayback(
	repository persistence.NarrativeRepository,
	checkpoints checkpoint.Store,
	logger *slog.Logger,
	executorOpts ...playback.Option,
) *Playback {
	if checkpoints == nil {
		checkpoints = checkpoint.NewMemoryStore()
	}

	return &Playback{
		repository:   repository,
		checkpoints:  checkpoints,
		executorOpts: executorOpts,
		validate:     validator.New(validator.WithRequiredStructEnabled()),
		baseLogger:   logger,
		logger:       logger.With("module", "playback_service"),
		sessions:     make(map[string]*session),
	}
}

// ExecuteSegment plays one segment of a narrative and blocks until it finishes. Cancelling
// ctx stops the playback.
func (p *Playback) ExecuteSegment(
	ctx context.Context,
	narrativeID, segmentID string,
	opts models.ExecutionOptions,
) (*models.SegmentExecutionResult, error) {
	if err := p.validateRequest(narrativeID, opts); err != nil {
		return nil, err
	}

	if strings.TrimSpace(segmentID) == "" {
		return nil, ErrEmptySegmentID
	}

	segment, err := p.repository.SegmentByID(ctx, narrativeID, segmentID)
	if err != nil {
		return nil, fmt.Errorf("failed to load segment: %w", err)
	}

	executor, err := p.acquire(narrativeID)
	if err != nil {
		return nil, err
	}
	defer p.release(narrativeID)

	p.logger.InfoContext(ctx, "Executing segment", "narrative_id", narrativeID, "segment_id", segmentID)

	result := executor.ExecuteSegment(ctx, *segment, opts)

	return &result, nil
}

// ExecuteAll plays every segment of a narrative in display order and blocks until the
// batch ends.
func (p *Playback) ExecuteAll(
	ctx context.Context,
	narrativeID string,
	opts models.ExecutionOptions,
) ([]models.SegmentExecutionResult, error) {
	if err := p.validateRequest(narrativeID, opts); err != nil {
		return nil, err
	}

	segments, err := p.repository.Segments(ctx, narrativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to load segments: %w", err)
	}

	executor, err := p.acquire(narrativeID)
	if err != nil {
		return nil, err
	}
	defer p.release(narrativeID)

	p.logger.InfoContext(ctx, "Executing narrative", "narrative_id", narrativeID, "segments", len(segments))

	return executor.ExecuteSegments(ctx, segments, opts), nil
}

func (p *Playback) Pause(narrativeID string) error {
	executor, err := p.active(narrativeID)
	if err != nil {
		return err
	}

	executor.PauseExecution()

	return nil
}

func (p *Playback) Resume(narrativeID string) error {
	executor, err := p.active(narrativeID)
	if err != nil {
		return err
	}

	executor.ResumeExecution()

	return nil
}

func (p *Playback) Stop(narrativeID string) error {
	executor, err := p.active(narrativeID)
	if err != nil {
		return err
	}

	executor.StopExecution()

	return nil
}

// Status returns the state of the narrative's executor, Idle for a narrative that never
// played.
func (p *Playback) Status(narrativeID string) models.ExecutionStatus {
	p.mu.Lock()
	s, ok := p.sessions[narrativeID]
	p.mu.Unlock()

	if !ok {
		return models.ExecutionStatusIdle
	}

	return s.executor.GetExecutionStatus()
}

// IsActive reports whether an execute call is in progress for the narrative.
func (p *Playback) IsActive(narrativeID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[narrativeID]

	return ok && s.active
}

func (p *Playback) Checkpoint(ctx context.Context, narrativeID string) (*models.ExecutionCheckpoint, error) {
	if strings.TrimSpace(narrativeID) == "" {
		return nil, ErrEmptyNarrativeID
	}

	cp, err := p.checkpoints.Get(ctx, narrativeID)
	if err != nil {
		return nil, fmt.Errorf("failed to get checkpoint: %w", err)
	}

	return cp, nil
}

func (p *Playback) Checkpoints(ctx context.Context) ([]models.ExecutionCheckpoint, error) {
	checkpoints, err := p.checkpoints.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list checkpoints: %w", err)
	}

	return checkpoints, nil
}

// ResetCheckpoint drops the narrative's checkpoint. It refuses while the narrative plays
// because the executor would write it again on the next component.
func (p *Playback) ResetCheckpoint(ctx context.Context, narrativeID string) error {
	if strings.TrimSpace(narrativeID) == "" {
		return ErrEmptyNarrativeID
	}

	if p.IsActive(narrativeID) {
		return ErrPlaybackInProgress
	}

	err := p.checkpoints.Clear(ctx, narrativeID)
	if err != nil {
		return fmt.Errorf("failed to clear checkpoint: %w", err)
	}

	return nil
}

// HealthCheck checks the persistence layer and the checkpoint store.
func (p *Playback) HealthCheck(ctx context.Context, store persistence.Persistence) (string, bool) {
	if store == nil {
		return "Persistence layer not initialized", false
	}

	err := store.HealthCheck(ctx)
	if err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	err = p.checkpoints.HealthCheck(ctx)
	if err != nil {
		return "Checkpoint store is unhealthy: " + err.Error(), false
	}

	return "Playback is healthy", true
}

func (p *Playback) validateRequest(narrativeID string, opts models.ExecutionOptions) error {
	if strings.TrimSpace(narrativeID) == "" {
		return ErrEmptyNarrativeID
	}

	err := p.validate.Struct(opts)
	if err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return NewValidationError("ValidateOptions", "invalid_options", validationErrors.Error(), ErrInvalidOptions)
		}

		return fmt.Errorf("%w: %w", ErrInvalidOptions, err)
	}

	return nil
}

func (p *Playback) acquire(narrativeID string) (*playback.SegmentExecutor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[narrativeID]
	if ok && s.active {
		return nil, ErrPlaybackInProgress
	}

	if !ok {
		opts := append([]playback.Option{playback.WithLogger(p.baseLogger)}, p.executorOpts...)
		s = &session{executor: playback.NewSegmentExecutor(p.repository, p.checkpoints, opts...)}
		p.sessions[narrativeID] = s
	}

	s.active = true

	return s.executor, nil
}

func (p *Playback) release(narrativeID string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if s, ok := p.sessions[narrativeID]; ok {
		s.active = false
	}
}

func (p *Playback) active(narrativeID string) (*playback.SegmentExecutor, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	s, ok := p.sessions[narrativeID]
	if !ok || !s.active {
		return nil, ErrSessionNotFound
	}

	return s.executor, nil
}
