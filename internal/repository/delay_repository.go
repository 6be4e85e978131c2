package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/mira/skylink/internal/model"
)

// DelayRepository provides historical delay statistics keyed by
// (route, airline, day-of-week), with a Redis read-through cache in front
// of PostgreSQL. Delay rows change rarely (batch reloads), so a short TTL
// keeps the cache honest without invalidation plumbing.
type DelayRepository struct {
	pool  *pgxpool.Pool
	redis *redis.Client
}

// NewDelayRepository creates a new delay statistics repository.
func NewDelayRepository(pool *pgxpool.Pool, redis *redis.Client) *DelayRepository {
	return &DelayRepository{pool: pool, redis: redis}
}

const (
	delayCacheKeyPrefix = "delay:"
	delayCacheTTL       = 10 * time.Minute
)

func delayCacheKey(route, airline string, dayOfWeek int) string {
	return fmt.Sprintf("%s%s:%s:%d", delayCacheKeyPrefix, route, airline, dayOfWeek)
}

// Get returns the delay statistics for a route/airline/day triple, or nil
// when no historical record exists. Callers apply the documented default
// (15% / 30 min / sample size 0) on nil.
//
// Strategy:
//  1. Try Redis (fast path, <1ms). Cache misses and cache errors both
//     fall through to PostgreSQL — a sick cache never fails the lookup.
//  2. Query PostgreSQL, then cache the row. A confirmed "no row" is
//     cached too, as an empty value, to avoid re-querying hot routes.
func (r *DelayRepository) Get(ctx context.Context, route, airline string, dayOfWeek int) (*model.DelayPrediction, error) {
	cacheKey := delayCacheKey(route, airline, dayOfWeek)

	// ── Fast path: Redis cache ──────────────────────────
	if r.redis != nil {
		if raw, err := r.redis.Get(ctx, cacheKey).Bytes(); err == nil {
			if len(raw) == 0 {
				return nil, nil // cached "no row"
			}
			var p model.DelayPrediction
			if err := json.Unmarshal(raw, &p); err == nil {
				return &p, nil
			}
		}
	}

	// ── Slow path: PostgreSQL ───────────────────────────
	p, err := r.queryDelay(ctx, route, airline, dayOfWeek)
	if err != nil {
		return nil, err
	}

	if r.redis != nil {
		raw := []byte{}
		if p != nil {
			if encoded, err := json.Marshal(p); err == nil {
				raw = encoded
			}
		}
		// Fire-and-forget; a failed cache write is not an error.
		if err := r.redis.Set(ctx, cacheKey, raw, delayCacheTTL).Err(); err != nil {
			log.Printf("[delay] cache write failed for %s: %v", cacheKey, err)
		}
	}

	return p, nil
}

func (r *DelayRepository) queryDelay(ctx context.Context, route, airline string, dayOfWeek int) (*model.DelayPrediction, error) {
	query := `
		SELECT route, airline, day_of_week,
		       delay_probability, avg_delay_minutes, sample_size
		FROM delay_predictions
		WHERE route = $1 AND airline = $2 AND day_of_week = $3
		LIMIT 1`

	var p model.DelayPrediction
	err := r.pool.QueryRow(ctx, query, route, airline, dayOfWeek).Scan(
		&p.Route, &p.Airline, &p.DayOfWeek,
		&p.Probability, &p.AvgDelayMinutes, &p.SampleSize,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get delay prediction %s/%s/%d: %w", route, airline, dayOfWeek, err)
	}
	return &p, nil
}
