package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/zacharydestefano89/travel-route-planner/internal/domain"
	"github.com/zacharydestefano89/travel-route-planner/internal/platform/obs"
)

const redisKeyPrefix = "cost:"

// RedisCostCache keeps one hash per origin: field = destination ID,
// value = "<duration_seconds>,<distance_meters>". Each hash expires TTL after
// its last write.
type RedisCostCache struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewRedisCostCache(client *redis.Client, ttl time.Duration) *RedisCostCache {
	return &RedisCostCache{Client: client, TTL: ttl}
}

func redisKey(origin string) string { return redisKeyPrefix + origin }

// Fetch cached costs for one origin and multiple destinations.
func (r *RedisCostCache) GetMany(
	ctx context.Context,
	origin string,
	destinations []string,
) (_ map[string]domain.Cost, err error) {
	defer obs.Time(ctx, "cost.cache.redis.GetMany")(&err)

	if r.Client == nil {
		return nil, errors.New("redis cost cache: client is nil")
	}
	if origin == "" {
		return nil, errors.New("get redis cost cache: origin must not be empty")
	}

	uniq := uniqueKeys(origin, destinations)
	if len(uniq) == 0 {
		return map[string]domain.Cost{}, nil
	}

	vals, err := r.Client.HMGet(ctx, redisKey(origin), uniq...).Result()
	if err != nil {
		return nil, fmt.Errorf("get redis cost cache: hmget %q: %w", origin, err)
	}

	out := make(map[string]domain.Cost, len(uniq))
	for i, v := range vals {
		s, ok := v.(string)
		if !ok {
			continue
		}
		c, err := decodeCost(s)
		if err != nil {
			return nil, fmt.Errorf("get redis cost cache: %q -> %q: %w", origin, uniq[i], err)
		}
		out[uniq[i]] = c
	}

	obs.RecordCacheLookup("redis", len(out), len(uniq)-len(out))
	return out, nil
}

// Store many leg costs for a single origin and refresh the row's TTL.
func (r *RedisCostCache) PutMany(ctx context.Context, origin string, results map[string]domain.Cost) error {
	if r.Client == nil {
		return errors.New("redis cost cache: client is nil")
	}
	if origin == "" {
		return errors.New("insert redis cost cache: origin must not be empty")
	}
	if len(results) == 0 {
		return nil
	}

	fields := make(map[string]any, len(results))
	for dest, c := range results {
		if strings.TrimSpace(dest) == "" {
			return errors.New("insert redis cost cache: empty destination key")
		}
		if dest == origin {
			return fmt.Errorf("insert redis cost cache: self-pair %q", dest)
		}
		fields[dest] = encodeCost(c)
	}

	key := redisKey(origin)
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.HSet(ctx, key, fields)
		if r.TTL > 0 {
			p.Expire(ctx, key, r.TTL)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("insert redis cost cache %q: %w", origin, err)
	}

	return nil
}

func encodeCost(c domain.Cost) string {
	return strconv.Itoa(c.DurationSeconds) + "," + strconv.Itoa(c.DistanceMeters)
}

func decodeCost(s string) (domain.Cost, error) {
	dur, dist, ok := strings.Cut(s, ",")
	if !ok {
		return domain.Cost{}, fmt.Errorf("malformed cost value %q", s)
	}
	d, err := strconv.Atoi(dur)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("malformed duration in %q: %w", s, err)
	}
	m, err := strconv.Atoi(dist)
	if err != nil {
		return domain.Cost{}, fmt.Errorf("malformed distance in %q: %w", s, err)
	}
	return domain.Cost{DurationSeconds: d, DistanceMeters: m}, nil
}
