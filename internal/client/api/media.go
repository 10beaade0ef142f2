package api

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Media is the backend's media record.
type Media struct {
	ID           string    `json:"id"`
	MediaType    string    `json:"media_type"`
	Title        string    `json:"title,omitempty"`
	MediaURL     string    `json:"media_url"`
	ThumbnailURL string    `json:"thumbnail_url,omitempty"`
	Description  string    `json:"description,omitempty"`
	OwningID     string    `json:"owning_id"`
	CreatedAt    time.Time `json:"created_at"`
}

// CreateMediaRequest registers a stored object with the backend after the
// storage upload succeeded. MediaURL carries the storage key, not a signed
// URL; signing happens per view session.
type CreateMediaRequest struct {
	MediaType    string `json:"media_type"`
	Title        string `json:"title,omitempty"`
	MediaURL     string `json:"media_url"`
	ThumbnailURL string `json:"thumbnail_url,omitempty"`
	Description  string `json:"description,omitempty"`
	OwningID     string `json:"owning_id"`
}

// MediaPage is one page of the paginated listing, with the server-side
// total that pagination decisions must be based on.
type MediaPage struct {
	Data       []Media `json:"data"`
	Total      int     `json:"total"`
	Page       int     `json:"page"`
	PageSize   int     `json:"page_size"`
	TotalPages int     `json:"total_pages"`
}

// CreateMedia registers one uploaded object.
func (c *Client) CreateMedia(ctx context.Context, req CreateMediaRequest) (*Media, error) {
	if err := c.ensureToken(); err != nil {
		return nil, err
	}
	var out Media
	if err := c.do(ctx, http.MethodPost, "/media", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListMedia fetches one page. filter keys pass through as query parameters
// (e.g. "album_id", "media_type").
func (c *Client) ListMedia(ctx context.Context, page, pageSize int, filter map[string]string) (*MediaPage, error) {
	if err := c.ensureToken(); err != nil {
		return nil, err
	}

	query := url.Values{
		"page":      {strconv.Itoa(page)},
		"page_size": {strconv.Itoa(pageSize)},
	}
	for k, v := range filter {
		query.Set(k, v)
	}

	var out MediaPage
	if err := c.do(ctx, http.MethodGet, "/media", query, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
