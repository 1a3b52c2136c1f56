// Package playback plays the segments of a story map narrative component by component.
//
// A SegmentExecutor owns one playback session. It presents the POIs, zones, layers and
// timeline transitions of each segment in priority order, records a checkpoint after every
// component, and can be paused, resumed and stopped from other goroutines while a call to
// ExecuteSegment or ExecuteSegments is in progress.
package playback

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/eventbus"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/events"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/otelhelper"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// CancelledMessage is the error message of a segment result interrupted by a stop
// request or by the caller's context.
const CancelledMessage = "Execution was cancelled"

const (
	DefaultSlice        = 100 * time.Millisecond
	DefaultPollInterval = 50 * time.Millisecond
)

const tracerName = "github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/playback"

type Option func(*SegmentExecutor)

func WithLogger(logger *slog.Logger) Option {
	return func(e *SegmentExecutor) {
		e.logger = logger
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(e *SegmentExecutor) {
		e.tracer = tracer
	}
}

func WithMetrics(metrics *Metrics) Option {
	return func(e *SegmentExecutor) {
		e.metrics = metrics
	}
}

// WithPublisher makes the executor publish lifecycle events. Publish failures are logged
// and never affect playback.
func WithPublisher(publisher eventbus.EventPublisher) Option {
	return func(e *SegmentExecutor) {
		e.publisher = publisher
	}
}

// WithSlice sets the granularity of pausable delays, which bounds pause and stop latency.
func WithSlice(slice time.Duration) Option {
	return func(e *SegmentExecutor) {
		if slice > 0 {
			e.slice = slice
		}
	}
}

func WithTimings(timings Timings) Option {
	return func(e *SegmentExecutor) {
		e.timings = timings
	}
}

// WithRunner replaces the built-in runner for runner.Type().
func WithRunner(runner ComponentRunner) Option {
	return func(e *SegmentExecutor) {
		e.overrides = append(e.overrides, runner)
	}
}

type SegmentExecutor struct {
	checkpoints checkpoint.Store
	runners     map[models.ComponentType]ComponentRunner
	overrides   []ComponentRunner
	timings     Timings
	publisher   eventbus.EventPublisher
	metrics     *Metrics
	logger      *slog.Logger
	tracer      trace.Tracer

	slice        time.Duration
	pollInterval time.Duration
	now          func() time.Time

	mu          sync.Mutex
	status      models.ExecutionStatus
	resume      chan struct{} // closed while not paused
	gateOpen    bool
	stop        context.CancelFunc
	narrativeID string
}

// NewSegmentExecutor builds an idle executor. transitions may be nil, in which case the
// timeline component has nothing to play. A nil checkpoint store falls back to an
// in-memory one.
func NewSegmentExecutor(transitions TransitionLookup, checkpoints checkpoint.Store, opts ...Option) *SegmentExecutor {
	if checkpoints == nil {
		checkpoints = checkpoint.NewMemoryStore()
	}

	resume := make(chan struct{})
	close(resume)

	e := &SegmentExecutor{
		checkpoints:  checkpoints,
		timings:      DefaultTimings(),
		logger:       slog.Default(),
		tracer:       otel.Tracer(tracerName),
		slice:        DefaultSlice,
		pollInterval: DefaultPollInterval,
		now:          time.Now,
		status:       models.ExecutionStatusIdle,
		resume:       resume,
		gateOpen:     true,
	}

	for _, opt := range opts {
		opt(e)
	}

	e.logger = e.logger.With("module", "segment_executor")

	e.runners = make(map[models.ComponentType]ComponentRunner, len(models.ComponentTypes()))
	for _, runner := range defaultRunners(transitions, e.timings) {
		e.runners[runner.Type()] = runner
	}

	for _, runner := range e.overrides {
		e.runners[runner.Type()] = runner
	}

	return e
}

// ExecuteSegment plays one segment and always returns a result. Afterwards the executor
// is Idle, Stopped or Error and accepts a new call.
func (e *SegmentExecutor) ExecuteSegment(ctx context.Context, segment models.Segment, opts models.ExecutionOptions) models.SegmentExecutionResult {
	runCtx, release := e.begin(ctx, segment.NarrativeID)
	defer release()

	return e.executeSegment(runCtx, segment, opts)
}

// ExecuteSegments plays segments in ascending display order. Every attempted segment
// yields a result; a stopped session makes the remaining attempts fail as cancelled. A
// failed segment ends the batch unless opts.AutoAdvance is set. The delay between
// segments honours cancellation but not pause.
func (e *SegmentExecutor) ExecuteSegments(ctx context.Context, segments []models.Segment, opts models.ExecutionOptions) []models.SegmentExecutionResult {
	ordered := slices.Clone(segments)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].DisplayOrder < ordered[j].DisplayOrder
	})

	narrativeID := ""
	if len(ordered) > 0 {
		narrativeID = ordered[0].NarrativeID
	}

	runCtx, release := e.begin(ctx, narrativeID)
	defer release()

	results := make([]models.SegmentExecutionResult, 0, len(ordered))

	for i, segment := range ordered {
		if i > 0 {
			// A cancelled wait leaves runCtx done, so the segment reports itself cancelled.
			_ = e.waitForResume(runCtx)
		}

		result := e.executeSegment(runCtx, segment, opts)
		results = append(results, result)

		if !result.IsSuccess && !opts.AutoAdvance {
			break
		}

		if i < len(ordered)-1 && opts.DefaultDelayMs > 0 {
			_ = sleep(runCtx, opts.DefaultDelay())
		}
	}

	return results
}

// PauseExecution holds the session at its next suspension point. It only applies while a
// call is in progress, including the gap between two segments of a batch.
func (e *SegmentExecutor) PauseExecution() {
	e.mu.Lock()
	active := e.status == models.ExecutionStatusRunning ||
		(e.status == models.ExecutionStatusIdle && e.stop != nil)
	if !active {
		e.mu.Unlock()

		return
	}

	e.status = models.ExecutionStatusPaused
	if e.gateOpen {
		e.resume = make(chan struct{})
		e.gateOpen = false
	}

	narrativeID := e.narrativeID
	e.mu.Unlock()

	e.metrics.controlAction("pause")
	e.logger.Info("Playback paused", "narrative_id", narrativeID)
	e.publish(context.Background(), narrativeID,
		events.NewPlaybackControl(events.PlaybackPausedEvent, narrativeID, models.ExecutionStatusPaused))
}

// ResumeExecution continues a paused session and is a no-op otherwise.
func (e *SegmentExecutor) ResumeExecution() {
	e.mu.Lock()
	if e.status != models.ExecutionStatusPaused {
		e.mu.Unlock()

		return
	}

	e.status = models.ExecutionStatusRunning
	e.openGateLocked()

	narrativeID := e.narrativeID
	e.mu.Unlock()

	e.metrics.controlAction("resume")
	e.logger.Info("Playback resumed", "narrative_id", narrativeID)
	e.publish(context.Background(), narrativeID,
		events.NewPlaybackControl(events.PlaybackResumedEvent, narrativeID, models.ExecutionStatusRunning))
}

// StopExecution cancels the session and marks it Stopped without waiting for the
// execution loop to notice.
func (e *SegmentExecutor) StopExecution() {
	e.mu.Lock()
	e.status = models.ExecutionStatusStopped
	e.openGateLocked()

	stop := e.stop
	narrativeID := e.narrativeID
	e.mu.Unlock()

	if stop != nil {
		stop()
	}

	e.metrics.controlAction("stop")
	e.logger.Info("Playback stopped", "narrative_id", narrativeID)
	e.publish(context.Background(), narrativeID,
		events.NewPlaybackControl(events.PlaybackStoppedEvent, narrativeID, models.ExecutionStatusStopped))
}

func (e *SegmentExecutor) GetExecutionStatus() models.ExecutionStatus {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.status
}

// Delay waits for d in slices, holding while paused. It returns the context error when
// the session is stopped or the caller gives up.
func (e *SegmentExecutor) Delay(ctx context.Context, d time.Duration) error {
	for remaining := d; remaining > 0; {
		if err := e.waitForResume(ctx); err != nil {
			return err
		}

		step := min(e.slice, remaining)
		if err := sleep(ctx, step); err != nil {
			return err
		}

		remaining -= step
	}

	return ctx.Err()
}

// begin arms a fresh stop signal for a top-level call and returns the function that
// disarms it.
func (e *SegmentExecutor) begin(ctx context.Context, narrativeID string) (context.Context, func()) {
	runCtx, cancel := context.WithCancel(ctx)

	e.mu.Lock()
	e.stop = cancel
	e.narrativeID = narrativeID
	e.status = models.ExecutionStatusRunning
	e.openGateLocked()
	e.mu.Unlock()

	return runCtx, func() {
		cancel()

		e.mu.Lock()
		defer e.mu.Unlock()

		e.stop = nil
		if e.status == models.ExecutionStatusRunning || e.status == models.ExecutionStatusPaused {
			e.status = models.ExecutionStatusIdle
			e.openGateLocked()
		}
	}
}

func (e *SegmentExecutor) executeSegment(ctx context.Context, segment models.Segment, opts models.ExecutionOptions) models.SegmentExecutionResult {
	logger := e.logger.With(
		"narrative_id", segment.NarrativeID,
		"segment_id", segment.ID,
		"segment_index", segment.DisplayOrder,
	)

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "playback.segment",
		attribute.String(otelhelper.NarrativeIDKey, segment.NarrativeID),
		attribute.String(otelhelper.SegmentIDKey, segment.ID),
		attribute.Int(otelhelper.SegmentIndexKey, segment.DisplayOrder),
	)
	defer span.End()

	e.mu.Lock()
	if e.status != models.ExecutionStatusPaused {
		e.status = models.ExecutionStatusRunning
	}
	e.mu.Unlock()

	e.metrics.segmentStarted()
	logger.InfoContext(ctx, "Starting segment playback")
	e.publish(ctx, segment.NarrativeID, events.NewSegmentStarted(segment))

	start := time.Now()
	components, err := e.runComponents(ctx, logger, segment, opts)

	result := models.SegmentExecutionResult{
		Segment:            segment,
		Duration:           time.Since(start),
		ExecutedComponents: components,
	}

	switch {
	case err == nil:
		result.IsSuccess = allSucceeded(components)
	case isCancellation(err):
		e.setStatus(models.ExecutionStatusStopped)
		result.ErrorMessage = CancelledMessage

		logger.InfoContext(ctx, "Segment playback cancelled", "components", len(components))
	default:
		e.setStatus(models.ExecutionStatusError)
		result.ErrorMessage = err.Error()

		otelhelper.SetError(span, err)
		logger.ErrorContext(ctx, "Segment playback failed", "error", err)
	}

	status := e.finish(ctx, logger, segment.NarrativeID)

	span.SetAttributes(attribute.String(otelhelper.ExecutionStatus, string(status)))
	if err == nil && !result.IsSuccess {
		otelhelper.SetFailure(span, "one or more components failed")
	}

	e.metrics.segmentFinished(status, result.IsSuccess)
	e.publish(ctx, segment.NarrativeID, events.NewSegmentFinished(result, status))

	logger.InfoContext(ctx, "Finished segment playback",
		"status", status,
		"success", result.IsSuccess,
		"duration", result.Duration,
	)

	return result
}

// runComponents returns a cancellation error when playback was stopped and any other
// error for orchestration faults. Component faults only mark their own entry.
func (e *SegmentExecutor) runComponents(
	ctx context.Context,
	logger *slog.Logger,
	segment models.Segment,
	opts models.ExecutionOptions,
) (components []models.ExecutedComponent, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("playback of segment %s panicked: %v", segment.ID, r)
		}
	}()

	order := ComponentOrder(opts.Order())
	last := lastEnabled(order, opts)

	for i, entry := range order {
		if !opts.Enabled(entry.Type) {
			continue
		}

		if err := e.waitForResume(ctx); err != nil {
			return components, err
		}

		if err := ctx.Err(); err != nil {
			return components, err
		}

		component, runErr := e.runComponent(ctx, segment, opts, entry.Type)
		components = append(components, component)

		if runErr != nil {
			logger.WarnContext(ctx, "Component failed",
				"component_type", entry.Type.String(),
				"error", runErr,
			)
		}

		e.publish(ctx, segment.NarrativeID, events.NewComponentExecuted(segment, i, component))

		if err := e.saveCheckpoint(ctx, segment, opts, entry.Type, i); err != nil {
			return components, err
		}

		if runErr != nil && ctx.Err() != nil {
			return components, ctx.Err()
		}

		if i < last && opts.DefaultDelayMs > 0 {
			if err := e.Delay(ctx, opts.DefaultDelay()); err != nil {
				return components, err
			}
		}
	}

	return components, nil
}

func (e *SegmentExecutor) runComponent(
	ctx context.Context,
	segment models.Segment,
	opts models.ExecutionOptions,
	typ models.ComponentType,
) (component models.ExecutedComponent, err error) {
	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "playback.component",
		attribute.String(otelhelper.SegmentIDKey, segment.ID),
		attribute.String(otelhelper.ComponentTypeKey, typ.String()),
	)
	defer span.End()

	start := time.Now()
	component = models.ExecutedComponent{
		Type:        typ,
		ComponentID: segment.ID,
		Name:        typ.String(),
		Order:       int(typ),
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s runner panicked: %v", typ, r)
		}

		component.Duration = time.Since(start)
		component.IsSuccess = err == nil

		if err != nil {
			component.ErrorMessage = err.Error()
			otelhelper.SetError(span, err)
		}

		e.metrics.observeComponent(typ, component.Duration, component.IsSuccess)
	}()

	runner, ok := e.runners[typ]
	if !ok {
		return component, fmt.Errorf("no runner registered for %s", typ)
	}

	name, err := runner.Run(ctx, e, segment, opts)
	if name != "" {
		component.Name = name
	}

	return component, err
}

func (e *SegmentExecutor) saveCheckpoint(
	ctx context.Context,
	segment models.Segment,
	opts models.ExecutionOptions,
	typ models.ComponentType,
	index int,
) error {
	snapshot := opts
	if opts.CustomOrder != nil {
		order := *opts.CustomOrder
		snapshot.CustomOrder = &order
	}

	cp := models.ExecutionCheckpoint{
		NarrativeID:     segment.NarrativeID,
		SegmentID:       segment.ID,
		SegmentIndex:    segment.DisplayOrder,
		OptionsSnapshot: snapshot,
	}.WithComponent(typ, index, e.now())

	// The checkpoint of an interrupted component must land even though ctx is done.
	err := e.checkpoints.Set(context.WithoutCancel(ctx), segment.NarrativeID, cp)
	if err != nil {
		return fmt.Errorf("failed to save checkpoint: %w", err)
	}

	return nil
}

// finish moves a session that was not stopped and did not fail back to Idle and drops
// its checkpoint.
func (e *SegmentExecutor) finish(ctx context.Context, logger *slog.Logger, narrativeID string) models.ExecutionStatus {
	e.mu.Lock()
	if e.status == models.ExecutionStatusRunning || e.status == models.ExecutionStatusPaused {
		e.status = models.ExecutionStatusIdle
		e.openGateLocked()
	}

	status := e.status
	e.mu.Unlock()

	if status == models.ExecutionStatusIdle {
		err := e.checkpoints.Clear(context.WithoutCancel(ctx), narrativeID)
		if err != nil {
			logger.WarnContext(ctx, "Failed to clear checkpoint", "error", err)
		}
	}

	return status
}

// waitForResume blocks while the session is paused, re-checking the status every poll
// interval. It returns the context error if the session is cancelled while waiting.
func (e *SegmentExecutor) waitForResume(ctx context.Context) error {
	for {
		e.mu.Lock()
		paused := e.status == models.ExecutionStatusPaused
		gate := e.resume
		e.mu.Unlock()

		if !paused {
			return nil
		}

		timer := time.NewTimer(e.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()

			return ctx.Err()
		case <-gate:
		case <-timer.C:
		}

		timer.Stop()
	}
}

func (e *SegmentExecutor) setStatus(status models.ExecutionStatus) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.status = status
}

func (e *SegmentExecutor) openGateLocked() {
	if !e.gateOpen {
		close(e.resume)
		e.gateOpen = true
	}
}

func (e *SegmentExecutor) publish(ctx context.Context, narrativeID string, event eventbus.Event) {
	if e.publisher == nil {
		return
	}

	err := e.publisher.Publish(context.WithoutCancel(ctx), narrativeID, event)
	if err != nil {
		e.logger.WarnContext(ctx, "Failed to publish playback event",
			"event_type", event.GetType(),
			"error", err,
		)
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func lastEnabled(order []ComponentPriority, opts models.ExecutionOptions) int {
	last := -1

	for i, entry := range order {
		if opts.Enabled(entry.Type) {
			last = i
		}
	}

	return last
}

func allSucceeded(components []models.ExecutedComponent) bool {
	for _, component := range components {
		if !component.IsSuccess {
			return false
		}
	}

	return true
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
