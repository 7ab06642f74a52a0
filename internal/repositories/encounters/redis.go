package encounters

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/KirkDiggler/dungeon-combat/internal/entities"
	dnderr "github.com/KirkDiggler/dungeon-combat/internal/errors"
)

// DefaultTTL is used when the config leaves TTL unset
const DefaultTTL = time.Hour

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client redis.UniversalClient
	TTL    time.Duration // Optional: 0 uses DefaultTTL
}

// redisRepository implements Repository using Redis
type redisRepository struct {
	client redis.UniversalClient
	ttl    time.Duration
}

// NewRedisRepository creates a new Redis-backed repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil || cfg.Client == nil {
		panic("RedisRepoConfig and Client are required")
	}

	ttl := cfg.TTL
	if ttl == 0 {
		ttl = DefaultTTL
	}

	return &redisRepository{
		client: cfg.Client,
		ttl:    ttl,
	}
}

func encounterKey(id string) string {
	return fmt.Sprintf("encounter:%s", id)
}

// Create stores a new encounter, failing if the key already exists
func (r *redisRepository) Create(ctx context.Context, state *entities.CombatState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	created, err := r.client.SetNX(ctx, encounterKey(state.ID), string(data), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to create encounter in Redis: %w", err)
	}
	if !created {
		return dnderr.InvalidArgumentf("encounter with ID %s already exists", state.ID)
	}

	log.Printf("[ENCOUNTER] Stored snapshot %s (ttl %s)", state.ID, r.ttl)
	return nil
}

// Get retrieves an encounter by ID
func (r *redisRepository) Get(ctx context.Context, id string) (*entities.CombatState, error) {
	data, err := r.client.Get(ctx, encounterKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, notFound(id)
		}
		return nil, fmt.Errorf("failed to get encounter from Redis: %w", err)
	}

	return decode(data)
}

// Update replaces an existing encounter and refreshes its TTL
func (r *redisRepository) Update(ctx context.Context, state *entities.CombatState) error {
	data, err := encode(state)
	if err != nil {
		return err
	}

	updated, err := r.client.SetXX(ctx, encounterKey(state.ID), string(data), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to update encounter in Redis: %w", err)
	}
	if !updated {
		return notFound(state.ID)
	}

	return nil
}

// Delete removes an encounter
func (r *redisRepository) Delete(ctx context.Context, id string) error {
	removed, err := r.client.Del(ctx, encounterKey(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete encounter from Redis: %w", err)
	}
	if removed == 0 {
		return notFound(id)
	}

	return nil
}
