package credcache

import (
	"context"
	"time"

	"github.com/memoirapp/mediakit/internal/logging"
)

// Cache validates cached credentials on read and stamps them on write.
// Store failures are logged and treated as cache misses; a broken local
// store must never break an upload.
type Cache struct {
	store Store
	now   func() time.Time
	log   logging.Logger
}

func NewCache(store Store, log logging.Logger) *Cache {
	return &Cache{store: store, now: time.Now, log: log}
}

// WithClock replaces the cache's clock. Test hook.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// Get returns the cached credential for the scope if it passes both
// freshness checks, otherwise (nil, false).
func (c *Cache) Get(ctx context.Context, scope Scope) (*Credential, bool) {
	cred, err := c.store.Load(ctx, scope)
	if err != nil {
		c.log.Warn(ctx, "credential cache read failed, treating as miss", "scope", scope, "error", err)
		return nil, false
	}
	if !cred.Usable(c.now()) {
		return nil, false
	}
	return cred, true
}

// Put overwrites the scope's entry, stamping the write time.
func (c *Cache) Put(ctx context.Context, scope Scope, cred *Credential) {
	cp := *cred
	cp.CachedAt = c.now()
	if err := c.store.Save(ctx, scope, &cp); err != nil {
		c.log.Warn(ctx, "credential cache write failed", "scope", scope, "error", err)
	}
}

// Clear removes the given scopes' entries, or every entry when called with
// no arguments. Used at logout.
func (c *Cache) Clear(ctx context.Context, scopes ...Scope) {
	if len(scopes) == 0 {
		if err := c.store.DeleteAll(ctx); err != nil {
			c.log.Warn(ctx, "credential cache clear failed", "error", err)
		}
		return
	}
	for _, scope := range scopes {
		if err := c.store.Delete(ctx, scope); err != nil {
			c.log.Warn(ctx, "credential cache clear failed", "scope", scope, "error", err)
		}
	}
}
