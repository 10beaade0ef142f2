package models

import "time"

// Media is one uploaded object registered with the backend. MediaURL and
// ThumbnailURL store storage keys, not signed URLs.
type Media struct {
	ID           string
	UserID       string
	MediaType    string
	Title        string
	MediaURL     string
	ThumbnailURL string
	Description  string
	OwningID     string
	CreatedAt    time.Time
}

// MediaFilter narrows a listing. Zero values mean no constraint.
type MediaFilter struct {
	OwningID  string
	MediaType string
}
