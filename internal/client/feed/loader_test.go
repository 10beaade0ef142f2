package feed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/memoirapp/mediakit/internal/client/api"
	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/logging"
)

// fakeAPI serves a fixed collection of `total` media records.
type fakeAPI struct {
	total int
	err   error
}

func (f *fakeAPI) ListMedia(ctx context.Context, page, pageSize int, filter map[string]string) (*api.MediaPage, error) {
	if f.err != nil {
		return nil, f.err
	}
	start := (page - 1) * pageSize
	var data []api.Media
	for i := start; i < start+pageSize && i < f.total; i++ {
		data = append(data, api.Media{
			ID:       fmt.Sprintf("m%d", i),
			MediaURL: fmt.Sprintf("couple/2026/08/28/%d-aaaaaa.jpg", i),
		})
	}
	return &api.MediaPage{Data: data, Total: f.total, Page: page, PageSize: pageSize}, nil
}

// fakeResolver signs everything except refs containing "-bad".
type fakeResolver struct{}

func (fakeResolver) ResolveMany(ctx context.Context, scope credcache.Scope, refs []string) []string {
	out := make([]string, len(refs))
	for i, ref := range refs {
		if strings.Contains(ref, "-bad") {
			continue
		}
		out[i] = "https://signed.example.com/" + ref
	}
	return out
}

func newLoader(total int) *Loader {
	return NewLoader(&fakeAPI{total: total}, fakeResolver{}, credcache.ScopeCouple, 20, logging.Default())
}

func TestLoadPage_HasMoreFromServerTotal(t *testing.T) {
	l := newLoader(45)
	ctx := context.Background()

	require.NoError(t, l.LoadPage(ctx, 1, nil))
	assert.Len(t, l.Items(), 20)
	assert.Equal(t, 45, l.Total())
	assert.True(t, l.HasMore())

	require.NoError(t, l.LoadPage(ctx, 2, nil))
	assert.Len(t, l.Items(), 40)
	assert.True(t, l.HasMore())

	require.NoError(t, l.LoadPage(ctx, 3, nil))
	assert.Len(t, l.Items(), 45)
	assert.False(t, l.HasMore())
}

func TestLoadPage_FirstPageReplaces(t *testing.T) {
	l := newLoader(45)
	ctx := context.Background()

	require.NoError(t, l.LoadPage(ctx, 1, nil))
	require.NoError(t, l.LoadPage(ctx, 2, nil))
	require.Len(t, l.Items(), 40)

	// reloading page 1 starts over
	require.NoError(t, l.LoadPage(ctx, 1, nil))
	assert.Len(t, l.Items(), 20)
	assert.Equal(t, "m0", l.Items()[0].Media.ID)
}

func TestLoadPage_AppendKeepsExistingItemsStable(t *testing.T) {
	l := newLoader(45)
	ctx := context.Background()

	require.NoError(t, l.LoadPage(ctx, 1, nil))
	first := make([]Item, len(l.Items()))
	copy(first, l.Items())

	require.NoError(t, l.LoadPage(ctx, 2, nil))
	assert.Equal(t, first, l.Items()[:len(first)], "append must not disturb already-loaded items")
}

func TestLoadPage_ResolvedURLsAttached(t *testing.T) {
	l := newLoader(5)
	require.NoError(t, l.LoadPage(context.Background(), 1, nil))

	for _, item := range l.Items() {
		assert.True(t, strings.HasPrefix(item.URL, "https://signed.example.com/"), item.URL)
	}
}

type badMediaAPI struct{}

func (badMediaAPI) ListMedia(ctx context.Context, page, pageSize int, filter map[string]string) (*api.MediaPage, error) {
	return &api.MediaPage{
		Data: []api.Media{
			{ID: "ok1", MediaURL: "couple/1-aaaaaa.jpg"},
			{ID: "broken", MediaURL: "couple/2-bad000.jpg"},
			{ID: "ok2", MediaURL: "couple/3-cccccc.jpg"},
		},
		Total: 3, Page: page, PageSize: pageSize,
	}, nil
}

func TestLoadPage_UnresolvableItemsFiltered(t *testing.T) {
	l := NewLoader(badMediaAPI{}, fakeResolver{}, credcache.ScopeCouple, 20, logging.Default())
	require.NoError(t, l.LoadPage(context.Background(), 1, nil))

	require.Len(t, l.Items(), 2)
	assert.Equal(t, "ok1", l.Items()[0].Media.ID)
	assert.Equal(t, "ok2", l.Items()[1].Media.ID)
	// hasMore uses the raw server count, not the filtered length
	assert.False(t, l.HasMore())
}

func TestLoadNext(t *testing.T) {
	l := newLoader(45)
	ctx := context.Background()

	require.NoError(t, l.LoadNext(ctx, nil))
	assert.Equal(t, 1, l.Page())
	require.NoError(t, l.LoadNext(ctx, nil))
	assert.Equal(t, 2, l.Page())

	l.Reset()
	require.NoError(t, l.LoadNext(ctx, nil))
	assert.Equal(t, 1, l.Page())
	assert.Len(t, l.Items(), 20)
}

func TestLoadPage_ErrorPropagates(t *testing.T) {
	boom := errors.New("backend down")
	l := NewLoader(&fakeAPI{err: boom}, fakeResolver{}, credcache.ScopeCouple, 20, logging.Default())
	require.ErrorIs(t, l.LoadPage(context.Background(), 1, nil), boom)
}
