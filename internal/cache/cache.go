// Package cache stores classification results keyed by a hash of the
// uploaded bytes. Inference is deterministic, so a hit is as good as a run.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"
	gocache "github.com/patrickmn/go-cache"

	"github.com/Brownie44l1/corn-advisor-api/internal/model"
)

type Cache interface {
	Get(ctx context.Context, key string) (*model.InferenceResult, bool, error)
	Set(ctx context.Context, key string, res *model.InferenceResult) error
	Close() error
}

// Key derives the cache key for a service and upload.
func Key(service string, data []byte) string {
	sum := sha256.Sum256(data)
	return service + ":" + hex.EncodeToString(sum[:])
}

func clone(res *model.InferenceResult) *model.InferenceResult {
	out := *res
	out.Probabilities = make([]float32, len(res.Probabilities))
	copy(out.Probabilities, res.Probabilities)
	return &out
}

// Memory is a process-local TTL cache. Expired entries are swept every
// 2*ttl until Close.
type Memory struct {
	c    *gocache.Cache
	stop chan struct{}
	done chan struct{}
	once sync.Once
}

func NewMemory(ttl time.Duration) *Memory {
	m := &Memory{
		c:    gocache.New(ttl, 0),
		stop: make(chan struct{}),
		done: make(chan struct{}),
	}
	if ttl > 0 {
		go m.sweep(2 * ttl)
	} else {
		close(m.done)
	}
	return m
}

func (m *Memory) sweep(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.c.DeleteExpired()
		}
	}
}

func (m *Memory) Get(_ context.Context, key string) (*model.InferenceResult, bool, error) {
	v, ok := m.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	return clone(v.(*model.InferenceResult)), true, nil
}

func (m *Memory) Set(_ context.Context, key string, res *model.InferenceResult) error {
	m.c.SetDefault(key, clone(res))
	return nil
}

func (m *Memory) Close() error {
	m.once.Do(func() { close(m.stop) })
	<-m.done
	m.c.Flush()
	return nil
}

// Redis shares results between replicas.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
}

// Open returns a Redis cache when url is set and an in-memory one otherwise.
func Open(ctx context.Context, url, password string, ttl time.Duration) (Cache, error) {
	if url == "" {
		return NewMemory(ttl), nil
	}
	r, err := NewRedis(ctx, url, password, ttl)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// NewRedis connects to addr, either host:port or a redis:// URL, and pings
// it once. A non-empty password overrides one in the URL.
func NewRedis(ctx context.Context, addr, password string, ttl time.Duration) (*Redis, error) {
	opts := &redis.Options{Addr: addr}
	if strings.Contains(addr, "://") {
		parsed, err := redis.ParseURL(addr)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		opts = parsed
	}
	if password != "" {
		opts.Password = password
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &Redis{client: client, ttl: ttl}, nil
}

func (r *Redis) Get(ctx context.Context, key string) (*model.InferenceResult, bool, error) {
	raw, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var res model.InferenceResult
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, false, fmt.Errorf("decode cached result: %w", err)
	}
	return &res, true, nil
}

func (r *Redis) Set(ctx context.Context, key string, res *model.InferenceResult) error {
	raw, err := json.Marshal(res)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	if err := r.client.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
