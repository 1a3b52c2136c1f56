package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/PhuongGhost1/FA25-CapstoneProject-BE-sub002/pkg/models"
	redis "github.com/redis/go-redis/v9"
)

const (
	defaultKeyPrefix = "storymap:checkpoint:"
	scanBatchSize    = 100
)

// RedisStore keeps checkpoints in Redis so they survive a process restart.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
	logger *slog.Logger
}

// RedisOption customises a RedisStore.
type RedisOption func(*RedisStore)

// WithKeyPrefix changes the key namespace. Defaults to "storymap:checkpoint:".
func WithKeyPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = prefix
	}
}

// WithTTL expires checkpoints that are not rewritten within ttl. Zero keeps them.
func WithTTL(ttl time.Duration) RedisOption {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedisStore(client redis.UniversalClient, logger *slog.Logger, opts ...RedisOption) *RedisStore {
	store := &RedisStore{
		client: client,
		prefix: defaultKeyPrefix,
		logger: logger.With("module", "redis_checkpoint_store"),
	}

	for _, opt := range opts {
		opt(store)
	}

	return store
}

// NewRedisStoreFromURL connects to redis://[:password@]host:port/db and verifies the connection.
func NewRedisStoreFromURL(ctx context.Context, url string, logger *slog.Logger, opts ...RedisOption) (*RedisStore, error) {
	options, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}

	client := redis.NewClient(options)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err = client.Ping(pingCtx).Err()
	if err != nil {
		_ = client.Close()

		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	logger.InfoContext(ctx, "Connected to Redis", "addr", options.Addr, "db", options.DB)

	return NewRedisStore(client, logger, opts...), nil
}

func (s *RedisStore) key(narrativeID string) string {
	return s.prefix + narrativeID
}

func (s *RedisStore) Set(ctx context.Context, narrativeID string, cp models.ExecutionCheckpoint) error {
	if err := validateNarrativeID(narrativeID); err != nil {
		return err
	}

	cp.NarrativeID = narrativeID

	data, err := json.Marshal(cp)
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint for narrative %s: %w", narrativeID, err)
	}

	err = s.client.Set(ctx, s.key(narrativeID), data, s.ttl).Err()
	if err != nil {
		return fmt.Errorf("failed to write checkpoint for narrative %s: %w", narrativeID, err)
	}

	return nil
}

func (s *RedisStore) Get(ctx context.Context, narrativeID string) (*models.ExecutionCheckpoint, error) {
	data, err := s.client.Get(ctx, s.key(narrativeID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("failed to read checkpoint for narrative %s: %w", narrativeID, err)
	}

	var cp models.ExecutionCheckpoint

	err = json.Unmarshal(data, &cp)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal checkpoint for narrative %s: %w", narrativeID, err)
	}

	return &cp, nil
}

func (s *RedisStore) Clear(ctx context.Context, narrativeID string) error {
	err := s.client.Del(ctx, s.key(narrativeID)).Err()
	if err != nil {
		return fmt.Errorf("failed to clear checkpoint for narrative %s: %w", narrativeID, err)
	}

	return nil
}

// List scans the key namespace. Entries that fail to decode are logged and skipped.
func (s *RedisStore) List(ctx context.Context) ([]models.ExecutionCheckpoint, error) {
	var keys []string

	iter := s.client.Scan(ctx, 0, s.prefix+"*", scanBatchSize).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}

	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan checkpoints: %w", err)
	}

	result := make([]models.ExecutionCheckpoint, 0, len(keys))

	for _, key := range keys {
		data, err := s.client.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}

			return nil, fmt.Errorf("failed to read checkpoint %s: %w", key, err)
		}

		var cp models.ExecutionCheckpoint
		if err := json.Unmarshal(data, &cp); err != nil {
			s.logger.WarnContext(ctx, "Skipping unreadable checkpoint",
				"narrative_id", strings.TrimPrefix(key, s.prefix), "error", err)

			continue
		}

		result = append(result, cp)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].NarrativeID < result[j].NarrativeID
	})

	return result, nil
}

func (s *RedisStore) HealthCheck(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close(_ context.Context) error {
	return s.client.Close()
}
