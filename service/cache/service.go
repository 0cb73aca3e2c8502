package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

func NewService() *service {
	return &service{
		store: gocache.New(gocache.NoExpiration, 10*time.Minute),
	}
}

func (s *service) Get(kind, scope string) (any, bool) {
	return s.store.Get(key(kind, scope))
}

func (s *service) Set(kind, scope string, value any, ttl time.Duration) {
	s.store.Set(key(kind, scope), value, ttl)
}

func (s *service) Flush() {
	s.store.Flush()
}

func key(kind, scope string) string {
	return kind + "/" + scope
}

// GetOrFetch returns the cached value for (kind, scope) while it is younger
// than ttl, otherwise calls fetch and stores the result. Entries are
// disposable: a lost entry or a duplicate fetch on a race only costs an
// extra remote call, never a wrong answer. A ttl of zero bypasses the cache.
func GetOrFetch[T any](c CacheService, kind, scope string, ttl time.Duration, fetch func() (T, error)) (T, error) {
	if ttl > 0 {
		if cached, found := c.Get(kind, scope); found {
			if value, ok := cached.(T); ok {
				return value, nil
			}
		}
	}

	value, err := fetch()
	if err != nil {
		var zero T
		return zero, err
	}

	if ttl > 0 {
		c.Set(kind, scope, value, ttl)
	}

	return value, nil
}
