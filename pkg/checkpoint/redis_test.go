package checkpoint_test

import (
	"context"
	"testing"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/checkpoint"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/log"
	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcredis "github.com/testcontainers/testcontainers-go/modules/redis"
)

func setupRedisStore(t *testing.T, opts ...checkpoint.RedisOption) (*checkpoint.RedisStore, context.Context) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping redis integration test in short mode")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)

	container, err := tcredis.Run(ctx, "redis:7-alpine")
	require.NoError(t, err)

	url, err := container.ConnectionString(ctx)
	require.NoError(t, err)

	store, err := checkpoint.NewRedisStoreFromURL(ctx, url, log.Discard(), opts...)
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, store.Close(ctx))
		assert.NoError(t, container.Terminate(context.Background()))
		cancel()
	})

	return store, ctx
}

func TestRedisStore_RoundTrip(t *testing.T) {
	store, ctx := setupRedisStore(t)

	require.NoError(t, store.HealthCheck(ctx))

	_, err := store.Get(ctx, "narrative-1")
	assert.True(t, checkpoint.IsNotFound(err))

	opts := models.DefaultExecutionOptions()
	cp := models.ExecutionCheckpoint{
		SegmentID:       "segment-1",
		SegmentIndex:    4,
		ComponentType:   "Layer",
		ComponentIndex:  2,
		OptionsSnapshot: opts,
		UpdatedAt:       time.Now().UTC().Truncate(time.Millisecond),
	}

	require.NoError(t, store.Set(ctx, "narrative-1", cp))
	require.NoError(t, store.Set(ctx, "narrative-2", cp))

	got, err := store.Get(ctx, "narrative-1")
	require.NoError(t, err)
	assert.Equal(t, "narrative-1", got.NarrativeID)
	assert.Equal(t, 2, got.ComponentIndex)
	assert.Equal(t, opts, got.OptionsSnapshot)
	assert.True(t, cp.UpdatedAt.Equal(got.UpdatedAt))

	all, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "narrative-1", all[0].NarrativeID)
	assert.Equal(t, "narrative-2", all[1].NarrativeID)

	require.NoError(t, store.Clear(ctx, "narrative-1"))

	_, err = store.Get(ctx, "narrative-1")
	assert.ErrorIs(t, err, checkpoint.ErrNotFound)
}

func TestRedisStore_TTL(t *testing.T) {
	store, ctx := setupRedisStore(t, checkpoint.WithTTL(time.Second), checkpoint.WithKeyPrefix("test:cp:"))

	require.NoError(t, store.Set(ctx, "narrative-ttl", models.ExecutionCheckpoint{}))

	assert.Eventually(t, func() bool {
		_, err := store.Get(ctx, "narrative-ttl")

		return checkpoint.IsNotFound(err)
	}, 5*time.Second, 100*time.Millisecond)
}

func TestNewRedisStoreFromURL_InvalidURL(t *testing.T) {
	_, err := checkpoint.NewRedisStoreFromURL(context.Background(), "http://nope", log.Discard())
	assert.Error(t, err)
}
