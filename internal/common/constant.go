// Package common contains shared constants and sentinel errors used across
// Memoir components.
package common

// AuthHeaderName is the HTTP header carrying the bearer access token on
// outbound API requests.
const AuthHeaderName = "Authorization"

// BearerPrefix precedes the token value in AuthHeaderName.
const BearerPrefix = "Bearer "
