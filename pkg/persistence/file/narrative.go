package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/google/uuid"
)

const narrativesDir = "narratives"

var validID = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// NarrativeRepository handles narrative file operations.
type NarrativeRepository struct {
	root string
	mu   sync.RWMutex
}

func NewNarrativeRepository(root string) *NarrativeRepository {
	return &NarrativeRepository{root: root}
}

// Narratives loads every narrative document, sorted by name.
func (nr *NarrativeRepository) Narratives(ctx context.Context) ([]*models.Narrative, error) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	files, err := fs.Glob(os.DirFS(filepath.Join(nr.root, narrativesDir)), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list narrative files: %w", err)
	}

	narratives := make([]*models.Narrative, 0, len(files))

	for _, file := range files {
		narrative, err := nr.load(ctx, strings.TrimSuffix(file, ".json"))
		if err != nil {
			return nil, err
		}

		narratives = append(narratives, narrative)
	}

	sort.Slice(narratives, func(i, j int) bool {
		if narratives[i].Name == narratives[j].Name {
			return narratives[i].ID < narratives[j].ID
		}

		return narratives[i].Name < narratives[j].Name
	})

	return narratives, nil
}

func (nr *NarrativeRepository) NarrativeByID(ctx context.Context, narrativeID string) (*models.Narrative, error) {
	nr.mu.RLock()
	defer nr.mu.RUnlock()

	return nr.load(ctx, narrativeID)
}

// SaveNarrative validates and writes the narrative, assigning missing ids and timestamps.
func (nr *NarrativeRepository) SaveNarrative(_ context.Context, narrative *models.Narrative) error {
	if narrative.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate narrative ID: %w", err)
		}

		narrative.ID = id.String()
	}

	if !validID.MatchString(narrative.ID) {
		return persistence.NewNarrativeError("SaveNarrative", narrative.ID, persistence.ErrInvalidID)
	}

	stampNarrative(narrative, time.Now().UTC())

	data, err := json.MarshalIndent(narrative, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal narrative %s: %w", narrative.ID, err)
	}

	if err := validateDocument(data); err != nil {
		return persistence.NewNarrativeError("SaveNarrative", narrative.ID, err)
	}

	nr.mu.Lock()
	defer nr.mu.Unlock()

	dir := filepath.Join(nr.root, narrativesDir)

	err = os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create narratives directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, narrative.ID+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file for narrative %s: %w", narrative.ID, err)
	}

	_, err = tmp.Write(data)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to write narrative %s: %w", narrative.ID, err)
	}

	err = os.Rename(tmp.Name(), nr.path(narrative.ID))
	if err != nil {
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("failed to store narrative %s: %w", narrative.ID, err)
	}

	return nil
}

func (nr *NarrativeRepository) DeleteNarrative(_ context.Context, narrativeID string) error {
	if !validID.MatchString(narrativeID) {
		return persistence.NewNarrativeError("DeleteNarrative", narrativeID, persistence.ErrInvalidID)
	}

	nr.mu.Lock()
	defer nr.mu.Unlock()

	err := os.Remove(nr.path(narrativeID))
	if err != nil {
		if os.IsNotExist(err) {
			return persistence.NewNarrativeError("DeleteNarrative", narrativeID, persistence.ErrNarrativeNotFound)
		}

		return fmt.Errorf("failed to delete narrative %s: %w", narrativeID, err)
	}

	return nil
}

func (nr *NarrativeRepository) Segments(ctx context.Context, narrativeID string) ([]models.Segment, error) {
	narrative, err := nr.NarrativeByID(ctx, narrativeID)
	if err != nil {
		return nil, err
	}

	return narrative.Segments, nil
}

func (nr *NarrativeRepository) SegmentByID(ctx context.Context, narrativeID, segmentID string) (*models.Segment, error) {
	narrative, err := nr.NarrativeByID(ctx, narrativeID)
	if err != nil {
		return nil, err
	}

	for i := range narrative.Segments {
		if narrative.Segments[i].ID == segmentID {
			return &narrative.Segments[i], nil
		}
	}

	return nil, persistence.NewSegmentError("SegmentByID", narrativeID, segmentID, persistence.ErrSegmentNotFound)
}

func (nr *NarrativeRepository) TimelineTransitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error) {
	narrative, err := nr.NarrativeByID(ctx, narrativeID)
	if err != nil {
		return nil, err
	}

	return narrative.Transitions, nil
}

func (nr *NarrativeRepository) path(narrativeID string) string {
	return filepath.Join(nr.root, narrativesDir, narrativeID+".json")
}

// load expects the caller to hold the read lock.
func (nr *NarrativeRepository) load(_ context.Context, narrativeID string) (*models.Narrative, error) {
	if !validID.MatchString(narrativeID) {
		return nil, persistence.NewNarrativeError("NarrativeByID", narrativeID, persistence.ErrInvalidID)
	}

	body, err := os.ReadFile(nr.path(narrativeID))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewNarrativeError("NarrativeByID", narrativeID, persistence.ErrNarrativeNotFound)
		}

		return nil, fmt.Errorf("failed to fetch narrative %s: %w", narrativeID, err)
	}

	if err := validateDocument(body); err != nil {
		return nil, persistence.NewNarrativeError("NarrativeByID", narrativeID, err)
	}

	var narrative models.Narrative

	err = json.Unmarshal(body, &narrative)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal narrative %s: %w", narrativeID, err)
	}

	if narrative.ID != narrativeID {
		return nil, fmt.Errorf("narrative file %s holds narrative %s", narrativeID, narrative.ID)
	}

	for i := range narrative.Segments {
		narrative.Segments[i].NarrativeID = narrative.ID
	}

	for i := range narrative.Transitions {
		narrative.Transitions[i].NarrativeID = narrative.ID
	}

	persistence.SortSegments(narrative.Segments)
	persistence.SortTransitions(narrative.Transitions)

	return &narrative, nil
}

func stampNarrative(narrative *models.Narrative, now time.Time) {
	for i := range narrative.Segments {
		narrative.Segments[i].NarrativeID = narrative.ID
		if narrative.Segments[i].CreatedAt.IsZero() {
			narrative.Segments[i].CreatedAt = now
		}
	}

	for i := range narrative.Transitions {
		narrative.Transitions[i].NarrativeID = narrative.ID
		if narrative.Transitions[i].CreatedAt.IsZero() {
			narrative.Transitions[i].CreatedAt = now
		}
	}
}
