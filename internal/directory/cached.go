package directory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"
)

// Cached decorates a Directory with an in-process TTL cache. Concurrent
// lookups for the same phone number are collapsed with singleflight so a
// slow backing lookup is made at most once per number at a time.
//
// Negative results are not cached: a number registered between two attempts
// should resolve on the second one.
type Cached struct {
	inner Directory
	ttl   time.Duration
	cache *gocache.Cache
	sf    singleflight.Group
}

// NewCached wraps inner with a cache. A zero ttl defaults to 5 minutes.
func NewCached(inner Directory, ttl time.Duration) *Cached {
	if ttl == 0 {
		ttl = 5 * time.Minute
	}
	return &Cached{
		inner: inner,
		ttl:   ttl,
		cache: gocache.New(ttl, time.Minute),
	}
}

func (c *Cached) ResolveByPhone(ctx context.Context, phoneNumber string) (string, error) {
	if v, ok := c.cache.Get(phoneNumber); ok {
		if id, ok := v.(string); ok {
			return id, nil
		}
	}

	v, err, _ := c.sf.Do(phoneNumber, func() (any, error) {
		id, err := c.inner.ResolveByPhone(ctx, phoneNumber)
		if err != nil {
			return "", err
		}
		c.cache.Set(phoneNumber, id, c.ttl)
		return id, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}
