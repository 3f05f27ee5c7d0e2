package offense

import (
	"context"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var redisOffensePrefix = "adwarden/offense/"

// RedisStore keeps one sorted set per (guild, user) scored by unix millis, so
// several instances share the same window
type RedisStore struct {
	Client *redis.Client
	// TTL expires idle keys; set it to at least the window
	TTL time.Duration
}

// NewRedisStore wraps an open client
func NewRedisStore(c *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{Client: c, TTL: ttl}
}

// offenseKey length-prefixes the guild so ids containing the separator
// cannot collide
func offenseKey(userID, guildID string) string {
	return redisOffensePrefix + strconv.Itoa(len(guildID)) + ":" + guildID + "/" + userID
}

func score(t time.Time) string { return strconv.FormatInt(t.UnixMilli(), 10) }

func (s *RedisStore) Add(ctx context.Context, r Record) error {
	key := offenseKey(r.UserID, r.GuildID)

	multi := s.Client.Pipeline()
	multi.ZAdd(ctx, key, redis.Z{Score: float64(r.At.UnixMilli()), Member: uuid.NewString()})
	if s.TTL > 0 {
		multi.Expire(ctx, key, s.TTL)
	}
	_, err := multi.Exec(ctx)
	return err
}

func (s *RedisStore) Count(ctx context.Context, userID, guildID string, since time.Time) (int, error) {
	n, err := s.Client.ZCount(ctx, offenseKey(userID, guildID), score(since), "+inf").Result()
	if err == redis.Nil {
		return 0, nil
	} else if err != nil {
		return 0, err
	}
	return int(n), nil
}

func (s *RedisStore) Prune(ctx context.Context, before time.Time) (int, error) {
	removed := 0
	err := s.scan(ctx, func(key string) error {
		n, err := s.Client.ZRemRangeByScore(ctx, key, "-inf", "("+score(before)).Result()
		removed += int(n)
		return err
	})
	return removed, err
}

func (s *RedisStore) Totals(ctx context.Context, since time.Time) (int, int, error) {
	total, active := 0, 0
	err := s.scan(ctx, func(key string) error {
		multi := s.Client.Pipeline()
		card := multi.ZCard(ctx, key)
		recent := multi.ZCount(ctx, key, score(since), "+inf")
		if _, err := multi.Exec(ctx); err != nil {
			return err
		}
		total += int(card.Val())
		active += int(recent.Val())
		return nil
	})
	return total, active, err
}

func (s *RedisStore) Reset(ctx context.Context) error {
	return s.scan(ctx, func(key string) error { return s.Client.Del(ctx, key).Err() })
}

func (s *RedisStore) scan(ctx context.Context, fn func(key string) error) error {
	iter := s.Client.Scan(ctx, 0, redisOffensePrefix+"*", 256).Iterator()
	for iter.Next(ctx) {
		if err := fn(iter.Val()); err != nil {
			return err
		}
	}
	return iter.Err()
}
