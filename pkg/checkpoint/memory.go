package checkpoint

import (
	"context"
	"sort"
	"sync"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
)

// MemoryStore is a process-wide in-memory Store. It is safe for concurrent use.
type MemoryStore struct {
	mu          sync.RWMutex
	checkpoints map[string]models.ExecutionCheckpoint
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		checkpoints: make(map[string]models.ExecutionCheckpoint),
	}
}

func (m *MemoryStore) Set(_ context.Context, narrativeID string, cp models.ExecutionCheckpoint) error {
	if err := validateNarrativeID(narrativeID); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cp.NarrativeID = narrativeID
	m.checkpoints[narrativeID] = cp

	return nil
}

func (m *MemoryStore) Get(_ context.Context, narrativeID string) (*models.ExecutionCheckpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	cp, ok := m.checkpoints[narrativeID]
	if !ok {
		return nil, ErrNotFound
	}

	return &cp, nil
}

func (m *MemoryStore) Clear(_ context.Context, narrativeID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.checkpoints, narrativeID)

	return nil
}

// List returns all checkpoints ordered by narrative id.
func (m *MemoryStore) List(_ context.Context) ([]models.ExecutionCheckpoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]models.ExecutionCheckpoint, 0, len(m.checkpoints))
	for _, cp := range m.checkpoints {
		result = append(result, cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].NarrativeID < result[j].NarrativeID
	})

	return result, nil
}

func (m *MemoryStore) HealthCheck(_ context.Context) error {
	return nil
}

func (m *MemoryStore) Close(_ context.Context) error {
	return nil
}
