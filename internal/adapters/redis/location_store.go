package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/tourprism/tp-ui-api/internal/domain/model"
)

// DefaultLocationTTL bounds how long a chosen location is replayed before
// the gateway re-acquires one.
const DefaultLocationTTL = 30 * 24 * time.Hour

// LocationStore persists the resolved location per session key. The whole
// record lives under a single key as one JSON document, so writes and
// deletes are atomic: city, coordinates, and accuracy can never be observed
// half-updated.
type LocationStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewLocationStore creates a new Redis-based location store.
func NewLocationStore(client redis.UniversalClient) *LocationStore {
	return &LocationStore{
		client: client,
		prefix: "location:",
		ttl:    DefaultLocationTTL,
	}
}

// NewLocationStoreWithTTL creates a location store with a custom record TTL.
// A non-positive TTL keeps records until explicitly reset.
func NewLocationStoreWithTTL(client redis.UniversalClient, ttl time.Duration) *LocationStore {
	return &LocationStore{
		client: client,
		prefix: "location:",
		ttl:    ttl,
	}
}

func (s *LocationStore) Save(ctx context.Context, key string, loc model.ResolvedLocation) error {
	if key == "" {
		return errors.New("location key cannot be empty")
	}
	if !loc.WellFormed() {
		return fmt.Errorf("refusing to persist malformed location %+v", loc)
	}

	data, err := json.Marshal(loc)
	if err != nil {
		return fmt.Errorf("marshal location: %w", err)
	}

	ttl := s.ttl
	if ttl < 0 {
		ttl = 0
	}
	return s.client.Set(ctx, s.prefix+key, data, ttl).Err()
}

func (s *LocationStore) Get(ctx context.Context, key string) (model.ResolvedLocation, error) {
	if key == "" {
		return model.ResolvedLocation{}, ErrNotFound
	}

	data, err := s.client.Get(ctx, s.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.ResolvedLocation{}, ErrNotFound
		}
		return model.ResolvedLocation{}, fmt.Errorf("redis get: %w", err)
	}

	var loc model.ResolvedLocation
	if unmarshalErr := json.Unmarshal([]byte(data), &loc); unmarshalErr != nil {
		return model.ResolvedLocation{}, fmt.Errorf("unmarshal location: %w", unmarshalErr)
	}

	return loc, nil
}

func (s *LocationStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil // Nothing to delete
	}

	return s.client.Del(ctx, s.prefix+key).Err()
}
