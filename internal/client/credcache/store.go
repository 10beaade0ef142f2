package credcache

import "context"

// Store is the durable key-value binding behind the cache. Implementations
// must treat scope as the primary key and overwrite on save.
//
// Load returns (nil, nil) when no entry exists for the scope.
type Store interface {
	Load(ctx context.Context, scope Scope) (*Credential, error)
	Save(ctx context.Context, scope Scope, cred *Credential) error
	Delete(ctx context.Context, scope Scope) error
	DeleteAll(ctx context.Context) error
}
