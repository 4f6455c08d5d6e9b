package authz

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

// Cached remembers decisions per (credential, action, resource) for a short
// TTL. Oracle errors are never cached.
type Cached struct {
	next Authorizer
	c    *gocache.Cache
}

// NewCached wraps next. A ttl of zero or less disables caching and returns
// next itself.
func NewCached(next Authorizer, ttl time.Duration) Authorizer {
	if ttl <= 0 {
		return next
	}
	return &Cached{next: next, c: gocache.New(ttl, 2*ttl)}
}

func (c *Cached) Check(ctx context.Context, req Request) (Decision, error) {
	key := cacheKey(req)
	if v, ok := c.c.Get(key); ok {
		if d, ok := v.(Decision); ok {
			return d, nil
		}
	}
	d, err := c.next.Check(ctx, req)
	if err != nil {
		return Decision{}, err
	}
	c.c.SetDefault(key, d)
	return d, nil
}

// the raw credential is not kept as a map key
func cacheKey(req Request) string {
	sum := sha256.Sum256([]byte(req.Credential))
	return hex.EncodeToString(sum[:]) + "|" + req.Action + "|" + req.Resource
}
