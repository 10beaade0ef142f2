// Package signer converts stored object references into time-limited,
// browser-fetchable URLs. References may be bare storage keys or full URLs;
// an attached transform directive (e.g. a video snapshot request) survives
// the round trip onto the signed URL.
package signer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/memoirapp/mediakit/internal/client/credcache"
	"github.com/memoirapp/mediakit/internal/logging"
)

// DefaultExpiry is how long signed URLs stay valid unless overridden.
const DefaultExpiry = time.Hour

// DirectiveParam is the query parameter carrying a transform directive.
const DirectiveParam = "x-process"

// VideoSnapshotDirective asks the storage service for a first-frame JPEG
// thumbnail of a video object.
const VideoSnapshotDirective = "video-snapshot,t_0,f_jpg,w_400,h_300"

// Seam for tests.
var presignGetObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
	return pc.PresignGetObject(ctx, in, optFns...)
}

// PresignFactory is the slice of the storage factory the resolver needs.
type PresignFactory interface {
	PresignClient(ctx context.Context, scope credcache.Scope) (*s3.PresignClient, string, error)
}

type Resolver struct {
	factory PresignFactory
	expiry  time.Duration
	log     logging.Logger
}

func NewResolver(factory PresignFactory, log logging.Logger) *Resolver {
	return &Resolver{factory: factory, expiry: DefaultExpiry, log: log}
}

// WithExpiry overrides the signed-URL lifetime.
func (r *Resolver) WithExpiry(d time.Duration) *Resolver {
	r.expiry = d
	return r
}

// WithDirective attaches a transform directive to a storage key or URL,
// producing a reference Sign will honor.
func WithDirective(ref, directive string) string {
	sep := "?"
	if strings.Contains(ref, "?") {
		sep = "&"
	}
	return ref + sep + DirectiveParam + "=" + url.QueryEscape(directive)
}

// splitRef reduces a reference to a bare storage key plus any transform
// directive. Full URLs lose protocol, host, and every query parameter except
// the directive; a path-style bucket prefix is stripped when it matches.
func splitRef(ref, bucket string) (key, directive string, err error) {
	raw := ref
	if !strings.Contains(raw, "://") {
		// bare key, possibly with a query suffix
		raw = "memoir:///" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", "", fmt.Errorf("invalid object reference %q: %v", ref, err)
	}

	key = strings.TrimPrefix(u.Path, "/")
	if bucket != "" {
		key = strings.TrimPrefix(key, bucket+"/")
	}
	if key == "" {
		return "", "", fmt.Errorf("object reference %q has no key", ref)
	}
	return key, u.Query().Get(DirectiveParam), nil
}

// Sign produces a time-limited GET URL for the referenced object.
func (r *Resolver) Sign(ctx context.Context, scope credcache.Scope, ref string) (string, error) {
	pc, bucket, err := r.factory.PresignClient(ctx, scope)
	if err != nil {
		return "", err
	}
	return r.sign(ctx, pc, bucket, ref)
}

func (r *Resolver) sign(ctx context.Context, pc *s3.PresignClient, bucket, ref string) (string, error) {
	key, directive, err := splitRef(ref, bucket)
	if err != nil {
		return "", err
	}

	req, err := presignGetObject(pc, ctx, &s3.GetObjectInput{
		Bucket: &bucket,
		Key:    &key,
	}, s3.WithPresignExpires(r.expiry))
	if err != nil {
		// do not leak the SDK error type past this boundary
		return "", fmt.Errorf("presigning object %q: %v", key, err)
	}

	if directive == "" {
		return req.URL, nil
	}
	return attachDirective(req.URL, directive)
}

// attachDirective re-adds the transform directive to the signed URL.
// OSS-compatible stores treat the directive as outside the signature.
func attachDirective(signedURL, directive string) (string, error) {
	u, err := url.Parse(signedURL)
	if err != nil {
		return "", fmt.Errorf("parsing signed url: %v", err)
	}
	q := u.Query()
	q.Set(DirectiveParam, directive)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ResolveMany signs a batch concurrently. The output aligns positionally
// with the input; an individual failure yields an empty entry instead of
// failing the batch. One client serves the whole batch, so every signature
// is bound to the same (still valid) credential.
func (r *Resolver) ResolveMany(ctx context.Context, scope credcache.Scope, refs []string) []string {
	out := make([]string, len(refs))
	if len(refs) == 0 {
		return out
	}

	pc, bucket, err := r.factory.PresignClient(ctx, scope)
	if err != nil {
		r.log.Warn(ctx, "batch signing unavailable", "scope", scope, "error", err)
		return out
	}

	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref string) {
			defer wg.Done()
			signed, err := r.sign(ctx, pc, bucket, ref)
			if err != nil {
				r.log.Warn(ctx, "signing failed, leaving placeholder", "ref", ref, "error", err)
				return
			}
			out[i] = signed
		}(i, ref)
	}
	wg.Wait()

	return out
}
