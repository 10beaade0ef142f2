// Package feed drives incremental loading of paginated media listings and
// resolves each item's media URL for display. Already-loaded items stay
// stable when later pages are appended.
package feed

import (
	"context"
	"fmt"

	"github.com/memoirapp/mediakit/internal/client/api"
	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/logging"
)

// API is the slice of the backend client the loader needs.
type API interface {
	ListMedia(ctx context.Context, page, pageSize int, filter map[string]string) (*api.MediaPage, error)
}

// URLResolver turns stored object references into viewable URLs in batch.
type URLResolver interface {
	ResolveMany(ctx context.Context, scope credcache.Scope, refs []string) []string
}

// Item is one feed entry with its media URL already resolved.
type Item struct {
	Media api.Media
	URL   string
}

type Loader struct {
	api      API
	resolver URLResolver
	scope    credcache.Scope
	pageSize int
	log      logging.Logger

	items   []Item
	total   int
	page    int
	hasMore bool
}

func NewLoader(backend API, resolver URLResolver, scope credcache.Scope, pageSize int, log logging.Logger) *Loader {
	return &Loader{api: backend, resolver: resolver, scope: scope, pageSize: pageSize, log: log, hasMore: true}
}

// LoadPage fetches one page, resolves its media URLs, and merges it into the
// loaded list: page 1 replaces, later pages append. Items whose URL could
// not be resolved are dropped from the visible list.
//
// hasMore is derived from the server-reported total, not the local list
// length, so it stays correct when items are filtered out or mutated
// concurrently on the backend.
func (l *Loader) LoadPage(ctx context.Context, page int, filter map[string]string) error {
	result, err := l.api.ListMedia(ctx, page, l.pageSize, filter)
	if err != nil {
		return fmt.Errorf("loading page %d: %w", page, err)
	}

	refs := make([]string, len(result.Data))
	for i, m := range result.Data {
		refs[i] = m.MediaURL
	}
	urls := l.resolver.ResolveMany(ctx, l.scope, refs)

	loaded := make([]Item, 0, len(result.Data))
	for i, m := range result.Data {
		if urls[i] == "" {
			l.log.Warn(ctx, "dropping feed item with unresolvable media", "id", m.ID)
			continue
		}
		loaded = append(loaded, Item{Media: m, URL: urls[i]})
	}

	if page <= 1 {
		l.items = loaded
	} else {
		l.items = append(l.items, loaded...)
	}

	l.page = page
	l.total = result.Total
	l.hasMore = (page-1)*l.pageSize+len(result.Data) < result.Total
	return nil
}

// LoadNext fetches the page after the last loaded one.
func (l *Loader) LoadNext(ctx context.Context, filter map[string]string) error {
	return l.LoadPage(ctx, l.page+1, filter)
}

func (l *Loader) Items() []Item { return l.items }
func (l *Loader) Total() int    { return l.total }
func (l *Loader) HasMore() bool { return l.hasMore }
func (l *Loader) Page() int     { return l.page }

// Reset forgets loaded state so the next LoadNext starts from page 1.
func (l *Loader) Reset() {
	l.items = nil
	l.total = 0
	l.page = 0
	l.hasMore = true
}
