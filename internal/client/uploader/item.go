package uploader

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/memoirapp/mediakit/internal/filex"
)

// Status is the lifecycle state of one upload item.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
	// StatusCancelled is terminal and reachable from uploading only.
	StatusCancelled Status = "cancelled"
)

// Item is one file queued for upload. Progress is an integer percentage and
// never decreases while the item is uploading.
type Item struct {
	ID          string
	Name        string
	Size        int64
	ContentType string

	// Open yields a fresh reader over the file's bytes. It is invoked once
	// per upload attempt, so a retried item re-reads from the start.
	Open func() (io.ReadCloser, error)

	mu       sync.Mutex
	status   Status
	progress int
	errMsg   string
}

// NewItem builds an item for a file on disk.
func NewItem(path string) (*Item, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%s is a directory", path)
	}

	name := filepath.Base(path)
	return &Item{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        info.Size(),
		ContentType: filex.ContentType(name),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
		status: StatusWaiting,
	}, nil
}

// NewItemFromBytes builds an in-memory item. Used by tests and by callers
// holding already-loaded data.
func NewItemFromBytes(name string, data []byte) *Item {
	return &Item{
		ID:          uuid.NewString(),
		Name:        name,
		Size:        int64(len(data)),
		ContentType: filex.ContentType(name),
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
		status: StatusWaiting,
	}
}

func (i *Item) Status() Status {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.status
}

func (i *Item) Progress() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.progress
}

func (i *Item) Err() string {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.errMsg
}

// Retry re-queues a failed item. It is the only legal backwards transition
// and requires explicit user action.
func (i *Item) Retry() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status != StatusError {
		return false
	}
	i.status = StatusWaiting
	i.progress = 0
	i.errMsg = ""
	return true
}

func (i *Item) startUploading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status != StatusWaiting {
		return false
	}
	i.status = StatusUploading
	return true
}

// recordProgress clamps the reported percentage to [0,100] and discards
// anything that would move progress backwards.
func (i *Item) recordProgress(pct int) (int, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status != StatusUploading {
		return i.progress, false
	}
	if pct > 100 {
		pct = 100
	}
	if pct <= i.progress {
		return i.progress, false
	}
	i.progress = pct
	return pct, true
}

func (i *Item) succeed() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = StatusSuccess
	i.progress = 100
}

func (i *Item) fail(err error) {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.status = StatusError
	i.errMsg = err.Error()
}

func (i *Item) cancel() {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.status == StatusUploading {
		i.status = StatusCancelled
	}
}
