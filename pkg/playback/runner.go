package playback

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

// Timings are the simulated presentation times. A real renderer replaces the
// runners instead of tuning these.
type Timings struct {
	POI             time.Duration
	Zone            time.Duration
	CameraAnimation time.Duration // used when a transition has no camera duration
	Overlay         time.Duration // used when a transition has no duration
	UserAction      time.Duration // placeholder for waiting on a "continue" click
}

func DefaultTimings() Timings {
	return Timings{
		POI:             500 * time.Millisecond,
		Zone:            800 * time.Millisecond,
		CameraAnimation: 1500 * time.Millisecond,
		Overlay:         1000 * time.Millisecond,
		UserAction:      2000 * time.Millisecond,
	}
}

// Pacer waits for a duration while honouring pause and cancellation.
type Pacer interface {
	Delay(ctx context.Context, d time.Duration) error
}

// TransitionLookup is the read side of the timeline transition repository.
type TransitionLookup interface {
	TimelineTransitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error)
}

// ComponentRunner presents one component type of a segment. Runners must do all
// their waiting through the pacer so pause and stop stay responsive.
type ComponentRunner interface {
	Type() models.ComponentType
	Run(ctx context.Context, pacer Pacer, segment models.Segment, opts models.ExecutionOptions) (name string, err error)
}

type poiRunner struct {
	duration time.Duration
}

func (r poiRunner) Type() models.ComponentType { return models.ComponentTypePOI }

func (r poiRunner) Run(ctx context.Context, pacer Pacer, segment models.Segment, _ models.ExecutionOptions) (string, error) {
	return fmt.Sprintf("POIs (%d)", len(segment.POIs)), pacer.Delay(ctx, r.duration)
}

type zoneRunner struct {
	duration time.Duration
}

func (r zoneRunner) Type() models.ComponentType { return models.ComponentTypeZone }

func (r zoneRunner) Run(ctx context.Context, pacer Pacer, segment models.Segment, _ models.ExecutionOptions) (string, error) {
	return fmt.Sprintf("Zones (%d)", len(segment.Zones)), pacer.Delay(ctx, r.duration)
}

type layerRunner struct{}

func (layerRunner) Type() models.ComponentType { return models.ComponentTypeLayer }

func (layerRunner) Run(ctx context.Context, pacer Pacer, segment models.Segment, opts models.ExecutionOptions) (string, error) {
	return fmt.Sprintf("Layers (%d)", len(segment.Layers)), pacer.Delay(ctx, opts.AnimationDuration())
}

const timelineRunnerName = "Timeline Steps"

type timelineRunner struct {
	transitions TransitionLookup
	timings     Timings
}

func (r timelineRunner) Type() models.ComponentType { return models.ComponentTypeTimeline }

func (r timelineRunner) Run(ctx context.Context, pacer Pacer, segment models.Segment, _ models.ExecutionOptions) (string, error) {
	if r.transitions == nil {
		return timelineRunnerName, nil
	}

	transitions, err := r.transitions.TimelineTransitions(ctx, segment.NarrativeID)
	if err != nil {
		return timelineRunnerName, fmt.Errorf("failed to load timeline transitions: %w", err)
	}

	for _, transition := range relevantTransitions(transitions, segment.ID) {
		if err := r.runTransition(ctx, pacer, transition); err != nil {
			return timelineRunnerName, err
		}
	}

	return timelineRunnerName, nil
}

func (r timelineRunner) runTransition(ctx context.Context, pacer Pacer, transition models.TimelineTransition) error {
	if transition.AnimateCamera {
		err := pacer.Delay(ctx, orDefault(transition.CameraAnimationDurationMs, r.timings.CameraAnimation))
		if err != nil {
			return err
		}
	}

	if transition.ShowOverlay && transition.OverlayContent != "" {
		err := pacer.Delay(ctx, orDefault(transition.DurationMs, r.timings.Overlay))
		if err != nil {
			return err
		}
	}

	if transition.RequireUserAction {
		return pacer.Delay(ctx, r.timings.UserAction)
	}

	return nil
}

// relevantTransitions keeps the transitions that start or end at segmentID, oldest first.
func relevantTransitions(transitions []models.TimelineTransition, segmentID string) []models.TimelineTransition {
	relevant := make([]models.TimelineTransition, 0, len(transitions))

	for _, transition := range transitions {
		if transition.Touches(segmentID) {
			relevant = append(relevant, transition)
		}
	}

	sort.SliceStable(relevant, func(i, j int) bool {
		return relevant[i].CreatedAt.Before(relevant[j].CreatedAt)
	})

	return relevant
}

func orDefault(ms int, fallback time.Duration) time.Duration {
	if ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}

	return fallback
}

func defaultRunners(transitions TransitionLookup, timings Timings) []ComponentRunner {
	return []ComponentRunner{
		poiRunner{duration: timings.POI},
		zoneRunner{duration: timings.Zone},
		layerRunner{},
		timelineRunner{transitions: transitions, timings: timings},
	}
}
