package cli

import (
	"context"
	"fmt"

	"github.com/memoirapp/mediakit/internal/client/uploader"
)

// Upload queues the given paths and uploads them as one best-effort batch
// into the owning album. Progress is rendered per file; a single failure
// does not stop the remaining files.
func (a *App) Upload(ctx context.Context, owningID string, paths []string) {
	items := make([]*uploader.Item, 0, len(paths))
	for _, path := range paths {
		item, err := uploader.NewItem(path)
		if err != nil {
			fmt.Fprintln(a.out, "skipping:", err.Error())
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		fmt.Fprintln(a.out, "nothing to upload")
		return
	}

	batch := a.orchestrator.UploadMany(ctx, a.scope, owningID, items, func(item *uploader.Item, pct int) {
		fmt.Fprintf(a.out, "\r%s: %3d%%", item.Name, pct)
		if pct == 100 {
			fmt.Fprintln(a.out)
		}
	})

	switch batch.Status {
	case uploader.BatchCancelled:
		fmt.Fprintln(a.out, "\nupload cancelled")
	case uploader.BatchError:
		fmt.Fprintln(a.out, "\nall uploads failed")
	default:
		fmt.Fprintf(a.out, "uploaded %d of %d files\n", len(batch.Results), len(items))
	}

	for _, item := range items {
		if item.Status() == uploader.StatusError {
			fmt.Fprintf(a.out, "  %s: %s (retry with 'upload' again)\n", item.Name, item.Err())
		}
	}
}
