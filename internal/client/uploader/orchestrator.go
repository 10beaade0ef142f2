// Package uploader drives single- and multi-file uploads to object storage:
// multipart transfer with progress, best-effort batch semantics, cooperative
// cancellation, and registration of each stored object with the backend's
// metadata API.
package uploader

import (
	"context"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/memoirapp/mediakit/internal/client/api"
	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/client/objectkey"
	"github.com/memoirapp/mediakit/internal/client/signer"
	"github.com/memoirapp/mediakit/internal/common"
	"github.com/memoirapp/mediakit/internal/filex"
	"github.com/memoirapp/mediakit/internal/logging"
)

// uploadRunner is the slice of manager.Uploader the orchestrator uses.
type uploadRunner interface {
	Upload(ctx context.Context, input *s3.PutObjectInput, opts ...func(*manager.Uploader)) (*manager.UploadOutput, error)
}

// Seam for tests. Concurrency 1 keeps part reads sequential so progress
// stays monotonic.
var newUploadRunner = func(client *s3.Client) uploadRunner {
	return manager.NewUploader(client, func(u *manager.Uploader) {
		u.Concurrency = 1
	})
}

// StorageFactory is the slice of the storage factory the orchestrator needs.
type StorageFactory interface {
	Client(ctx context.Context, scope credcache.Scope) (*s3.Client, string, error)
}

// MetadataAPI registers stored objects with the backend.
type MetadataAPI interface {
	CreateMedia(ctx context.Context, req api.CreateMediaRequest) (*api.Media, error)
}

// ThumbnailSigner derives a viewable thumbnail URL for video uploads.
type ThumbnailSigner interface {
	Sign(ctx context.Context, scope credcache.Scope, ref string) (string, error)
}

// Result is the reference returned for one successfully uploaded and
// registered file.
type Result struct {
	Key         string
	Name        string
	Size        int64
	ContentType string
	Media       *api.Media
}

// BatchStatus summarizes an uploadMany run.
type BatchStatus string

const (
	// BatchSuccess means at least one file made it through.
	BatchSuccess BatchStatus = "success"
	// BatchError means every file failed.
	BatchError BatchStatus = "error"
	// BatchCancelled means the batch was aborted before completion.
	BatchCancelled BatchStatus = "cancelled"
)

// BatchResult carries the successful results plus the items themselves,
// whose per-item status and error fields describe any partial failures.
type BatchResult struct {
	Status  BatchStatus
	Results []*Result
	Items   []*Item
}

type Orchestrator struct {
	factory StorageFactory
	keys    *objectkey.Generator
	backend MetadataAPI
	thumbs  ThumbnailSigner
	log     logging.Logger
}

func NewOrchestrator(factory StorageFactory, keys *objectkey.Generator, backend MetadataAPI, thumbs ThumbnailSigner, log logging.Logger) *Orchestrator {
	return &Orchestrator{factory: factory, keys: keys, backend: backend, thumbs: thumbs, log: log}
}

// UploadOne uploads a single item under the scope and registers it with the
// backend for the owning album/event. onProgress, when non-nil, receives
// monotonically increasing percentages ending at 100 on success.
//
// The two side effects are sequential: storage write, then metadata write.
// A metadata failure leaves the stored object orphaned; that is logged, not
// compensated.
func (o *Orchestrator) UploadOne(ctx context.Context, scope credcache.Scope, owningID string, item *Item, onProgress func(int)) (*Result, error) {
	if !item.startUploading() {
		return nil, fmt.Errorf("item %s is %s, not %s", item.ID, item.Status(), StatusWaiting)
	}

	res, err := o.transferAndRegister(ctx, scope, owningID, item, onProgress)
	if err != nil {
		if ctx.Err() != nil {
			item.cancel()
			return nil, common.ErrUploadCancelled
		}
		item.fail(err)
		return nil, err
	}

	item.succeed()
	if onProgress != nil {
		onProgress(100)
	}
	return res, nil
}

func (o *Orchestrator) transferAndRegister(ctx context.Context, scope credcache.Scope, owningID string, item *Item, onProgress func(int)) (*Result, error) {
	client, bucket, err := o.factory.Client(ctx, scope)
	if err != nil {
		return nil, err
	}

	key := o.keys.Generate(scope, item.Name)

	body, err := item.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", item.Name, err)
	}
	defer body.Close()

	reader := newProgressReader(body, item.Size, item, onProgress)

	_, err = newUploadRunner(client).Upload(ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		Body:        reader,
		ContentType: &item.ContentType,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// do not leak the SDK error type past this boundary
		return nil, fmt.Errorf("uploading %s: %v", item.Name, err)
	}

	thumbnailURL := o.deriveThumbnail(ctx, scope, key, item.ContentType)

	media, err := o.backend.CreateMedia(ctx, api.CreateMediaRequest{
		MediaType:    filex.MediaType(item.ContentType),
		Title:        item.Name,
		MediaURL:     key,
		ThumbnailURL: thumbnailURL,
		OwningID:     owningID,
	})
	if err != nil {
		o.log.Error(ctx, "metadata registration failed, stored object is orphaned",
			"key", key, "scope", scope, "error", err)
		return nil, fmt.Errorf("registering %s: %w", item.Name, err)
	}

	return &Result{
		Key:         key,
		Name:        item.Name,
		Size:        item.Size,
		ContentType: item.ContentType,
		Media:       media,
	}, nil
}

// deriveThumbnail requests a snapshot URL for video uploads. Failure is
// non-fatal and leaves the thumbnail empty.
func (o *Orchestrator) deriveThumbnail(ctx context.Context, scope credcache.Scope, key, contentType string) string {
	if !filex.IsVideo(contentType) || o.thumbs == nil {
		return ""
	}
	url, err := o.thumbs.Sign(ctx, scope, signer.WithDirective(key, signer.VideoSnapshotDirective))
	if err != nil {
		o.log.Warn(ctx, "thumbnail derivation failed", "key", key, "error", err)
		return ""
	}
	return url
}

// UploadMany uploads the items in order. One item's failure is recorded on
// that item and does not abort its siblings. Cancellation is checked at each
// per-file boundary; items not yet started stay waiting.
func (o *Orchestrator) UploadMany(ctx context.Context, scope credcache.Scope, owningID string, items []*Item, onProgress func(item *Item, pct int)) *BatchResult {
	batch := &BatchResult{Items: items}
	cancelled := false

	for _, item := range items {
		if ctx.Err() != nil {
			cancelled = true
			break
		}

		var cb func(int)
		if onProgress != nil {
			it := item
			cb = func(pct int) { onProgress(it, pct) }
		}

		res, err := o.UploadOne(ctx, scope, owningID, item, cb)
		if err != nil {
			if errors.Is(err, common.ErrUploadCancelled) {
				cancelled = true
				break
			}
			o.log.Warn(ctx, "upload failed, continuing with remaining files",
				"item", item.Name, "error", err)
			continue
		}
		batch.Results = append(batch.Results, res)
	}

	switch {
	case cancelled:
		batch.Status = BatchCancelled
	case len(batch.Results) > 0:
		batch.Status = BatchSuccess
	default:
		batch.Status = BatchError
	}
	return batch
}
