package credcache

import (
	"context"
	"fmt"

	"golang.org/x/sync/singleflight"

	"github.com/memoirapp/mediakit/internal/logging"
)

// TokenAPI is the slice of the backend client the provider needs: the
// token-issuance endpoint.
type TokenAPI interface {
	FetchStorageCredentials(ctx context.Context, scope Scope) (*Credential, error)
}

// Provider resolves credentials cache-first and falls back to the backend.
// Concurrent misses for the same scope are coalesced into one backend call;
// races that slip past coalescing are benign because credentials are
// fungible within their validity window (last write wins).
type Provider struct {
	api   TokenAPI
	cache *Cache
	group singleflight.Group
	log   logging.Logger
}

func NewProvider(api TokenAPI, cache *Cache, log logging.Logger) *Provider {
	return &Provider{api: api, cache: cache, log: log}
}

// Fetch always asks the backend for a fresh credential and writes it into
// the cache before returning. No retry is performed here.
func (p *Provider) Fetch(ctx context.Context, scope Scope) (*Credential, error) {
	v, err, _ := p.group.Do(string(scope), func() (any, error) {
		cred, err := p.api.FetchStorageCredentials(ctx, scope)
		if err != nil {
			return nil, fmt.Errorf("fetching storage credentials: %w", err)
		}
		p.cache.Put(ctx, scope, cred)
		return cred, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Credential), nil
}

// Credential returns a usable credential for the scope, from cache when
// possible, otherwise via Fetch.
func (p *Provider) Credential(ctx context.Context, scope Scope) (*Credential, error) {
	if cred, ok := p.cache.Get(ctx, scope); ok {
		return cred, nil
	}
	p.log.Debug(ctx, "credential cache miss", "scope", scope)
	return p.Fetch(ctx, scope)
}

// Cache exposes the underlying cache for logout-time clearing.
func (p *Provider) Cache() *Cache {
	return p.cache
}
