package cli

import (
	"context"
	"fmt"
)

// List reloads the feed from its first page.
func (a *App) List(ctx context.Context) {
	a.loader.Reset()
	a.More(ctx)
}

// More loads the next feed page and prints the cumulative listing state.
func (a *App) More(ctx context.Context) {
	if !a.loader.HasMore() {
		fmt.Fprintln(a.out, "no more items")
		return
	}

	if err := a.loader.LoadNext(ctx, nil); err != nil {
		fmt.Fprintln(a.out, "loading failed:", err.Error())
		return
	}

	for _, item := range a.loader.Items() {
		fmt.Fprintf(a.out, "%s  %-6s  %s\n", item.Media.ID, item.Media.MediaType, item.URL)
	}
	fmt.Fprintf(a.out, "(%d of %d loaded)\n", len(a.loader.Items()), a.loader.Total())
}

// Sign resolves one stored object reference to a time-limited URL.
func (a *App) Sign(ctx context.Context, ref string) {
	url, err := a.resolver.Sign(ctx, a.scope, ref)
	if err != nil {
		fmt.Fprintln(a.out, "signing failed:", err.Error())
		return
	}
	fmt.Fprintln(a.out, url)
}
