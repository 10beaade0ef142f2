// Package credcache stores the short-lived storage credentials the backend
// issues for direct client-to-bucket operations. Credentials are cached per
// scope in a durable local store so they survive client restarts within
// their validity window.
package credcache

import "time"

// Scope selects the storage namespace a credential is valid for.
type Scope string

const (
	ScopePersonal Scope = "personal"
	ScopeCouple   Scope = "couple"
)

// MaxCacheAge caps how long a cached credential may be reused regardless of
// the expiration the backend reported. Both checks must pass for a cache hit.
const MaxCacheAge = time.Hour

// Credential is an STS-style temporary credential plus the storage
// coordinates it is bound to. CachedAt is stamped by the cache on write.
type Credential struct {
	AccessKeyID     string    `json:"access_key_id"`
	AccessKeySecret string    `json:"access_key_secret"`
	SecurityToken   string    `json:"security_token"`
	Expiration      time.Time `json:"expiration"`
	Region          string    `json:"region"`
	Bucket          string    `json:"bucket"`
	CachedAt        time.Time `json:"cached_at"`
}

// Usable reports whether the credential may still be used at the given
// moment: it must be younger than MaxCacheAge and not past its expiration.
func (c *Credential) Usable(now time.Time) bool {
	if c == nil {
		return false
	}
	if !now.Before(c.CachedAt.Add(MaxCacheAge)) {
		return false
	}
	return now.Before(c.Expiration)
}
