package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/memoirapp/mediakit/internal/client/credcache"
)

// storageTokenResponse mirrors the token endpoint's data payload. Expiration
// is ISO8601.
type storageTokenResponse struct {
	AccessKeyID     string `json:"accessKeyId"`
	AccessKeySecret string `json:"accessKeySecret"`
	SecurityToken   string `json:"securityToken"`
	Expiration      string `json:"expiration"`
	Region          string `json:"region"`
	Bucket          string `json:"bucket"`
}

// FetchStorageCredentials asks the backend for short-lived storage
// credentials scoped to personal or couple storage. Implements
// credcache.TokenAPI.
func (c *Client) FetchStorageCredentials(ctx context.Context, scope credcache.Scope) (*credcache.Credential, error) {
	if err := c.ensureToken(); err != nil {
		return nil, err
	}

	query := url.Values{"scope": {string(scope)}}
	var out storageTokenResponse
	if err := c.do(ctx, http.MethodGet, "/storage/token", query, nil, &out); err != nil {
		return nil, err
	}

	expiration, err := time.Parse(time.RFC3339, out.Expiration)
	if err != nil {
		return nil, &TransportError{Op: "parse credential expiration", Err: fmt.Errorf("%q: %w", out.Expiration, err)}
	}

	return &credcache.Credential{
		AccessKeyID:     out.AccessKeyID,
		AccessKeySecret: out.AccessKeySecret,
		SecurityToken:   out.SecurityToken,
		Expiration:      expiration,
		Region:          out.Region,
		Bucket:          out.Bucket,
	}, nil
}
