package cache

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// entryMagic starts every cache file. The header line is
// "<magic> <expiry unix nanos>\n" followed by the raw value; an expiry of 0
// means the entry never expires.
const entryMagic = "seatplan-cache/1"

// FileCache keeps one file per key under dir, fanned out into
// subdirectories by the first two hex digits of the key hash. It is the
// CLI's default cache, shared between invocations.
type FileCache struct {
	dir string
}

// DefaultDir returns the per-user cache directory, ~/.cache/seatplan on Linux.
func DefaultDir() (string, error) {
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "seatplan"), nil
}

// NewFileCache opens (and if needed creates) a file cache rooted at dir.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create cache dir: %w", err)
	}
	return &FileCache{dir: dir}, nil
}

func (c *FileCache) Dir() string { return c.dir }

// Get returns a live entry. Expired or unreadable entries are removed and
// reported as misses.
func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}

	data, expires, ok := decodeEntry(raw)
	if !ok || (!expires.IsZero() && time.Now().After(expires)) {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return data, true, nil
}

// Set writes the entry through a temp file and a rename, so a concurrent
// Get sees either the old entry or the new one.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	path := c.path(key)
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".entry-*")
	if err != nil {
		return err
	}
	_, werr := tmp.Write(encodeEntry(data, expires))
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		_ = os.Remove(tmp.Name())
		return werr
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	if err := os.Remove(c.path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes every entry, leaving an empty cache directory.
func (c *FileCache) Clear(context.Context) error {
	if err := os.RemoveAll(c.dir); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0755)
}

func (c *FileCache) Close() error { return nil }

func (c *FileCache) path(key string) string {
	h := Hash([]byte(key))
	return filepath.Join(c.dir, h[:2], h[2:])
}

func encodeEntry(data []byte, expires time.Time) []byte {
	var nanos int64
	if !expires.IsZero() {
		nanos = expires.UnixNano()
	}
	header := entryMagic + " " + strconv.FormatInt(nanos, 10) + "\n"
	return append([]byte(header), data...)
}

func decodeEntry(raw []byte) (data []byte, expires time.Time, ok bool) {
	header, data, found := bytes.Cut(raw, []byte("\n"))
	if !found {
		return nil, time.Time{}, false
	}
	magic, stamp, found := bytes.Cut(header, []byte(" "))
	if !found || string(magic) != entryMagic {
		return nil, time.Time{}, false
	}
	nanos, err := strconv.ParseInt(string(stamp), 10, 64)
	if err != nil {
		return nil, time.Time{}, false
	}
	if nanos != 0 {
		expires = time.Unix(0, nanos)
	}
	return data, expires, true
}

var _ Cache = (*FileCache)(nil)
