// Package dedup filters exact repeats of a source URL before reports reach
// the filename builder, which has no notion of "same report" beyond its
// date+title key. The store is capped and scoped to one run; an optional
// Redis backing lets a deployment supply prior-run history.
package dedup

import (
	"container/list"
	"context"
	"sync"
	"time"

	"ecbpress/types"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "ecbpress:seen:"

// Store is a capped LRU of seen source URLs.
type Store struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List               // most-recent at front
	items map[string]*list.Element // key -> element

	rdb *redis.Client
	ttl time.Duration
}

// New creates an in-memory store holding at most maxKeys URLs.
func New(maxKeys int) *Store {
	if maxKeys <= 0 {
		maxKeys = 10000
	}
	return &Store{
		cap:   maxKeys,
		ll:    list.New(),
		items: make(map[string]*list.Element, maxKeys),
	}
}

// WithRedis attaches a Redis backing so URLs seen in earlier runs are also
// treated as repeats. Entries expire after ttl. Redis errors degrade to the
// in-memory view.
func (s *Store) WithRedis(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	s.rdb = client
	s.ttl = ttl
	return s
}

// Seen reports whether the URL was already marked, in this run or (when
// Redis history is attached) a previous one.
func (s *Store) Seen(ctx context.Context, url string) bool {
	key := types.GenerateID(url)

	s.mu.Lock()
	if el, ok := s.items[key]; ok {
		s.ll.MoveToFront(el)
		s.mu.Unlock()
		return true
	}
	s.mu.Unlock()

	if s.rdb == nil {
		return false
	}
	_, err := s.rdb.Get(ctx, redisKeyPrefix+key).Result()
	return err == nil
}

// Mark records the URL as seen, evicting the oldest entries over capacity.
func (s *Store) Mark(ctx context.Context, url string) {
	key := types.GenerateID(url)

	s.mu.Lock()
	if el, ok := s.items[key]; ok {
		s.ll.MoveToFront(el)
	} else {
		s.items[key] = s.ll.PushFront(key)
		for s.ll.Len() > s.cap {
			tail := s.ll.Back()
			if tail == nil {
				break
			}
			s.ll.Remove(tail)
			delete(s.items, tail.Value.(string))
		}
	}
	s.mu.Unlock()

	if s.rdb != nil {
		// History write is best-effort.
		_ = s.rdb.Set(ctx, redisKeyPrefix+key, "1", s.ttl).Err()
	}
}

// Len reports the number of URLs held in memory.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}
