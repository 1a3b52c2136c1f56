package cmd

import (
	"testing"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/persistence/file"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePersistenceProvider(t *testing.T) {
	tests := map[string]string{
		"file://./data":                       "file",
		"./data":                              "file",
		"postgres://user@localhost/storymap":  "postgres",
		"postgresql://user@localhost/storymap": "postgresql",
		"mongodb://localhost":                 "file",
	}

	for url, want := range tests {
		assert.Equal(t, want, parsePersistenceProvider(url), url)
	}
}

func TestNewPersistence_File(t *testing.T) {
	store, err := NewPersistence(t.Context(), log.Discard(), "file://"+t.TempDir())
	require.NoError(t, err)

	assert.IsType(t, &file.Persistence{}, store)
	assert.NoError(t, store.HealthCheck(t.Context()))
}

func TestNewCheckpointStore(t *testing.T) {
	store, err := NewCheckpointStore(t.Context(), log.Discard(), "", 0)
	require.NoError(t, err)
	assert.IsType(t, &checkpoint.MemoryStore{}, store)

	store, err = NewCheckpointStore(t.Context(), log.Discard(), "memory://", 0)
	require.NoError(t, err)
	assert.IsType(t, &checkpoint.MemoryStore{}, store)

	_, err = NewCheckpointStore(t.Context(), log.Discard(), "etcd://localhost:2379", 0)
	assert.ErrorContains(t, err, "unsupported checkpoint store")

	_, err = NewCheckpointStore(t.Context(), log.Discard(), "redis://%zz", 0)
	assert.Error(t, err)
}

func TestNewEventBus(t *testing.T) {
	bus, err := NewEventBus("none", "", log.Discard())
	require.NoError(t, err)
	assert.Nil(t, bus)

	bus, err = NewEventBus("gochannel", "", log.Discard())
	require.NoError(t, err)
	require.NotNil(t, bus)
	assert.NoError(t, bus.Close())

	_, err = NewEventBus("rabbitmq", "", log.Discard())
	assert.ErrorContains(t, err, "unsupported event bus provider")
}
