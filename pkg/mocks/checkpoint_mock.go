package mocks

import (
	"context"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/stretchr/testify/mock"
)

// MockCheckpointStore is a mock implementation of checkpoint.Store interface.
type MockCheckpointStore struct {
	mock.Mock
}

func (m *MockCheckpointStore) Set(ctx context.Context, narrativeID string, cp models.ExecutionCheckpoint) error {
	args := m.Called(ctx, narrativeID, cp)

	return args.Error(0)
}

func (m *MockCheckpointStore) Get(ctx context.Context, narrativeID string) (*models.ExecutionCheckpoint, error) {
	args := m.Called(ctx, narrativeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.ExecutionCheckpoint), args.Error(1)
}

func (m *MockCheckpointStore) Clear(ctx context.Context, narrativeID string) error {
	args := m.Called(ctx, narrativeID)

	return args.Error(0)
}

func (m *MockCheckpointStore) List(ctx context.Context) ([]models.ExecutionCheckpoint, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).([]models.ExecutionCheckpoint), args.Error(1)
}

func (m *MockCheckpointStore) HealthCheck(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}

func (m *MockCheckpointStore) Close(ctx context.Context) error {
	args := m.Called(ctx)

	return args.Error(0)
}
