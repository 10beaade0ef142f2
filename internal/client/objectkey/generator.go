// Package objectkey derives collision-resistant, date-partitioned storage
// paths for uploaded files. Uniqueness relies on timestamp plus a short
// random suffix; there is no coordination service and no uniqueness check.
package objectkey

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/memoirapp/mediakit/internal/client/credcache"
)

// skewAllowance is how far ahead of the trusted baseline the local clock may
// read before it is considered bogus and clamped.
const skewAllowance = 5 * time.Minute

// Generator produces keys of the form
//
//	{scope}/{year}/{month}/{day}/{epochMillis}-{random6}{.ext}
//
// A server-trusted baseline, when known, guards against a future-dated local
// clock: a timestamp ahead of the baseline is clamped to the baseline so the
// date partition stays sane.
type Generator struct {
	now func() time.Time

	mu       sync.RWMutex
	baseline time.Time
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now}
}

// WithClock replaces the local clock. Test hook.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// SetBaseline records a server-trusted reference time, typically taken from
// a backend response header.
func (g *Generator) SetBaseline(t time.Time) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.baseline = t
}

// timestamp returns the local time, clamped to the baseline when the local
// clock runs ahead of it.
func (g *Generator) timestamp() time.Time {
	t := g.now()
	g.mu.RLock()
	baseline := g.baseline
	g.mu.RUnlock()

	if !baseline.IsZero() && t.After(baseline.Add(skewAllowance)) {
		return baseline
	}
	return t
}

// Generate derives a fresh storage key for the given file name and scope.
// The extension is kept (lowercased); the rest of the name is discarded.
func (g *Generator) Generate(scope credcache.Scope, filename string) string {
	t := g.timestamp().UTC()

	ext := strings.ToLower(filepath.Ext(filename))
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]

	return fmt.Sprintf("%s/%04d/%02d/%02d/%d-%s%s",
		scope, t.Year(), int(t.Month()), t.Day(), t.UnixMilli(), suffix, ext)
}
