// Package common defines shared constants and sentinel errors used across
// the Memoir client and devserver layers. Callers should use errors.Is to
// match these values.
package common

import "errors"

var (
	// Repository / cache level errors.
	ErrNotFound = errors.New("not found")

	// Service-level errors.
	ErrUnauthorized = errors.New("unauthorized")

	// Auth errors (invalid or malformed token).
	ErrInvalidToken = errors.New("invalid token")

	// Token lifecycle errors.
	ErrTokenExpired = errors.New("token expired")

	// Upload flow errors.
	ErrUploadCancelled = errors.New("upload cancelled")
)
