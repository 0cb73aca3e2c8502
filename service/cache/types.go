package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Default TTLs per resource kind. Price history and capability lookups are
// time sensitive and must always be fetched fresh, so they never go through
// the cache at all.
const (
	RegionListTTL     = time.Hour
	PlacementScoreTTL = 30 * time.Minute
)

type service struct {
	store *gocache.Cache
}

type CacheService interface {
	Get(kind, scope string) (any, bool)
	Set(kind, scope string, value any, ttl time.Duration)
	Flush()
}
