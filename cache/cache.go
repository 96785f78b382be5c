package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

// store is the shared Redis read-through logic behind the cached sources
type store struct {
	redis *redis.Client
	ttl   time.Duration

	mutex  sync.Mutex
	hits   int
	misses int
}

func newStore(client *redis.Client, ttl time.Duration) *store {
	return &store{redis: client, ttl: ttl}
}

// keyPart normalizes a location or provider name for use in a cache key
func keyPart(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// load decodes the cached value at key into v and reports whether it was found
func (s *store) load(ctx context.Context, key string, v any) bool {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Printf("Redis GET %s failed: %v", key, err)
		}
		s.count(false)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Printf("Discarding unreadable cache entry %s: %v", key, err)
		s.count(false)
		return false
	}
	s.count(true)
	return true
}

// save stores v at key. Failures are logged and otherwise ignored.
func (s *store) save(ctx context.Context, key string, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Printf("Marshal error for %s: %v", key, err)
		return
	}
	if err := s.redis.Set(ctx, key, data, s.ttl).Err(); err != nil {
		log.Printf("Redis SET %s failed: %v", key, err)
	}
}

func (s *store) count(hit bool) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	if hit {
		s.hits++
	} else {
		s.misses++
	}
}

func (s *store) stats() (hits, misses int) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	return s.hits, s.misses
}

// Connect parses a redis:// URL and pings the server
func Connect(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return client, nil
}
