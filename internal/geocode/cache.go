package geocode

import (
	"context"
	"encoding/json"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mira/skylink/internal/model"
)

const geocodeKeyPrefix = "geocode:"

// CachedResolver is a Redis read-through wrapper around a Resolver.
// Cache errors degrade to the underlying resolver: a sick Redis makes
// geocoding slower, never broken. Negative results are not cached — a
// transient geocoder outage must not pin a destination as unresolvable.
type CachedResolver struct {
	redis *redis.Client
	ttl   time.Duration
	next  Resolver
}

// NewCachedResolver wraps next with a Redis cache.
func NewCachedResolver(redis *redis.Client, ttl time.Duration, next Resolver) *CachedResolver {
	return &CachedResolver{redis: redis, ttl: ttl, next: next}
}

func geocodeKey(text string) string {
	return geocodeKeyPrefix + strings.ToLower(strings.TrimSpace(text))
}

// Resolve implements Resolver.
func (r *CachedResolver) Resolve(ctx context.Context, text string) (model.Location, error) {
	key := geocodeKey(text)

	if raw, err := r.redis.Get(ctx, key).Bytes(); err == nil {
		var loc model.Location
		if err := json.Unmarshal(raw, &loc); err == nil && loc.Valid() {
			return loc, nil
		}
	}

	loc, err := r.next.Resolve(ctx, text)
	if err != nil {
		return model.Location{}, err
	}

	if raw, err := json.Marshal(loc); err == nil {
		if err := r.redis.Set(ctx, key, raw, r.ttl).Err(); err != nil {
			log.Printf("[geocode] cache write failed for %q: %v", text, err)
		}
	}
	return loc, nil
}
