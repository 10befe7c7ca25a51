// Package datasrc provides shared read handles over data blobs.
//
// Data blobs are opened lazily on first read and one handle is shared
// across all entries belonging to the same blob. Handles live for the
// duration of a run and are released together via CloseAll, including on
// early abort. The cache is never ambient state; the extractor owns it.
package datasrc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ErrClosed is returned when a source is requested after CloseAll.
var ErrClosed = errors.New("datasrc: cache closed")

// Source is a random-access read handle over one data blob.
type Source struct {
	f    *os.File
	size int64
}

var _ io.ReaderAt = (*Source)(nil)

// ReadAt implements io.ReaderAt.
func (s *Source) ReadAt(p []byte, off int64) (int, error) {
	return s.f.ReadAt(p, off)
}

// Size returns the blob's byte length as observed at open time.
func (s *Source) Size() int64 {
	return s.size
}

// Name returns the blob's filesystem path.
func (s *Source) Name() string {
	return s.f.Name()
}

func (s *Source) close() error {
	return s.f.Close()
}

// Cache opens data blobs lazily and shares one handle per blob path.
//
// Cache is safe for concurrent use; concurrent first reads of the same blob
// are deduplicated so the blob is opened exactly once.
type Cache struct {
	group singleflight.Group

	mu     sync.Mutex
	open   map[string]*Source
	closed bool
}

// NewCache returns an empty handle cache.
func NewCache() *Cache {
	return &Cache{open: make(map[string]*Source)}
}

// Get returns the shared handle for the blob at path, opening it on first
// use. Returns ErrClosed after CloseAll.
func (c *Cache) Get(path string) (*Source, error) {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return nil, ErrClosed
	}
	if s, ok := c.open[path]; ok {
		c.mu.Unlock()
		return s, nil
	}
	c.mu.Unlock()

	v, err, _ := c.group.Do(path, func() (any, error) {
		// Double-check under the lock; a concurrent caller may have won.
		c.mu.Lock()
		if s, ok := c.open[path]; ok {
			c.mu.Unlock()
			return s, nil
		}
		c.mu.Unlock()

		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open data file: %w", err)
		}
		info, err := f.Stat()
		if err != nil {
			_ = f.Close() //nolint:errcheck // open failed, best-effort cleanup
			return nil, fmt.Errorf("stat data file: %w", err)
		}
		s := &Source{f: f, size: info.Size()}

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.closed {
			_ = f.Close() //nolint:errcheck // cache closed while opening
			return nil, ErrClosed
		}
		c.open[path] = s
		return s, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Source), nil //nolint:errcheck // type assertion always succeeds when err is nil
}

// CloseAll releases every open handle and marks the cache closed.
// Subsequent Get calls fail with ErrClosed. Safe to call more than once.
func (c *Cache) CloseAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true

	var errs []error
	for path, s := range c.open {
		if err := s.close(); err != nil {
			errs = append(errs, fmt.Errorf("close %s: %w", path, err))
		}
		delete(c.open, path)
	}
	return errors.Join(errs...)
}
