package services

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// JobLock serializes batch runs across processes. The reminder scheduler
// assumes no concurrent instances; the lock makes overlapping cron triggers
// a no-op instead of a double-send.
type JobLock interface {
	// Acquire takes the named lease for ttl. Returns false when another
	// holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error)
	Release(ctx context.Context, name string) error
}

// RedisJobLock implements JobLock with a SET NX lease.
type RedisJobLock struct {
	client *redis.Client
}

func NewRedisJobLock(redisURL string) (*RedisJobLock, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}

	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return &RedisJobLock{client: client}, nil
}

func (l *RedisJobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, "joblock:"+name, time.Now().UTC().Format(time.RFC3339), ttl).Result()
	if err != nil {
		return false, fmt.Errorf("failed to acquire lock: %w", err)
	}
	return ok, nil
}

func (l *RedisJobLock) Release(ctx context.Context, name string) error {
	if err := l.client.Del(ctx, "joblock:"+name).Err(); err != nil {
		return fmt.Errorf("failed to release lock: %w", err)
	}
	return nil
}

// NoopJobLock is used when Redis is not configured; single-instance
// deployments need no cross-process lease.
type NoopJobLock struct{}

func (NoopJobLock) Acquire(ctx context.Context, name string, ttl time.Duration) (bool, error) {
	return true, nil
}

func (NoopJobLock) Release(ctx context.Context, name string) error { return nil }
