// Package filex contains small filesystem and file-type helpers used by the
// client pipeline.
package filex

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// EnsureSubDir creates (if needed) and returns a subdirectory of the current
// working directory. The client keeps its local state there.
func EnsureSubDir(dirName string) (string, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("getwd: %w", err)
	}

	dir := filepath.Join(cwd, dirName)

	if err := os.MkdirAll(dir, 0o770); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}

	return dir, nil
}

// ContentType guesses the MIME type of a file from its extension.
// Unknown extensions map to application/octet-stream.
func ContentType(name string) string {
	ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name)))
	if ct == "" {
		return "application/octet-stream"
	}
	return ct
}

// MediaType classifies a MIME type into the backend's media_type values.
func MediaType(contentType string) string {
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return "photo"
	case strings.HasPrefix(contentType, "video/"):
		return "video"
	default:
		return "file"
	}
}

// IsVideo reports whether the MIME type denotes a video, which is what
// decides whether a snapshot thumbnail is requested after upload.
func IsVideo(contentType string) bool {
	return strings.HasPrefix(contentType, "video/")
}
