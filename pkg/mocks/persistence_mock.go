package mocks

import (
	"context"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence"
	"github.com/stretchr/testify/mock"
)

// MockNarrativeRepository is a mock implementation of persistence.NarrativeRepository interface.
type MockNarrativeRepository struct {
	mock.Mock
}

func (m *MockNarrativeRepository) Narratives(ctx context.Context) ([]*models.Narrative, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]*models.Narrative), args.Error(1)
}

func (m *MockNarrativeRepository) NarrativeByID(ctx context.Context, narrativeID string) (*models.Narrative, error) {
	args := m.Called(ctx, narrativeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Narrative), args.Error(1)
}

func (m *MockNarrativeRepository) SaveNarrative(ctx context.Context, narrative *models.Narrative) error {
	args := m.Called(ctx, narrative)

	return args.Error(0)
}

func (m *MockNarrativeRepository) DeleteNarrative(ctx context.Context, narrativeID string) error {
	args := m.Called(ctx, narrativeID)

	return args.Error(0)
}

func (m *MockNarrativeRepository) Segments(ctx context.Context, narrativeID string) ([]models.Segment, error) {
	args := m.Called(ctx, narrativeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.Segment), args.Error(1)
}

func (m *MockNarrativeRepository) SegmentByID(ctx context.Context, narrativeID, segmentID string) (*models.Segment, error) {
	args := m.Called(ctx, narrativeID, segmentID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.Segment), args.Error(1)
}

func (m *MockNarrativeRepository) TimelineTransitions(ctx context.Context, narrativeID string) ([]models.TimelineTransition, error) {
	args := m.Called(ctx, narrativeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.TimelineTransition), args.Error(1)
}

// MockPersistence is a mock implementation of persistence.Persistence interface.
type MockPersistence struct {
	mock.Mock

	Narratives *MockNarrativeRepository
}

func NewMockPersistence() *MockPersistence {
	return &MockPersistence{Narratives: &MockNarrativeRepository{}}
}

func (m *MockPersistence) NarrativeRepository() persistence.NarrativeRepository {
	return m.Narratives
}

func (m *MockPersistence) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockPersistence) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
