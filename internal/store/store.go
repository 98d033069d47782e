// Package store hands finished websites to their consumers (exporter, live editor) by id.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"sitegen_ai_server/internal/types"
)

// ErrNotFound is returned when no website is stored under an id, or it has expired.
var ErrNotFound = errors.New("website not found")

// ErrEmptyAddress is returned when the Redis address is not configured.
var ErrEmptyAddress = errors.New("redis address is required")

const (
	keyPrefix         = "sitegen:website:"
	connectionTimeout = 5 * time.Second
)

// SiteStore keeps generated websites for a limited time.
type SiteStore interface {
	Save(ctx context.Context, site *types.GeneratedWebsite) error
	Get(ctx context.Context, id string) (*types.GeneratedWebsite, error)
}

// RedisConfig holds Redis connection configuration.
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(cfg RedisConfig) (*redis.Client, error) {
	if cfg.Address == "" {
		return nil, ErrEmptyAddress
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectionTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return client, nil
}

// RedisStore stores websites as JSON values with a TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

func (s *RedisStore) Save(ctx context.Context, site *types.GeneratedWebsite) error {
	data, err := json.Marshal(site)
	if err != nil {
		return fmt.Errorf("encode website %s: %w", site.ID, err)
	}
	if err := s.client.Set(ctx, keyPrefix+site.ID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store website %s: %w", site.ID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*types.GeneratedWebsite, error) {
	data, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load website %s: %w", id, err)
	}
	var site types.GeneratedWebsite
	if err := json.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("decode website %s: %w", id, err)
	}
	return &site, nil
}

// MemoryStore is the single-process store used when Redis is not configured.
type MemoryStore struct {
	mu    sync.RWMutex
	ttl   time.Duration
	now   func() time.Time
	sites map[string]memoryEntry
}

type memoryEntry struct {
	site    *types.GeneratedWebsite
	expires time.Time
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{ttl: ttl, now: time.Now, sites: make(map[string]memoryEntry)}
}

func (s *MemoryStore) Save(_ context.Context, site *types.GeneratedWebsite) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := s.now()
	for id, e := range s.sites {
		if now.After(e.expires) {
			delete(s.sites, id)
		}
	}
	s.sites[site.ID] = memoryEntry{site: site, expires: now.Add(s.ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*types.GeneratedWebsite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.sites[id]
	if !ok || s.now().After(e.expires) {
		return nil, ErrNotFound
	}
	return e.site, nil
}
