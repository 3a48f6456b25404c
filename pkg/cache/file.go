package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// FileCache stores entries as files under one directory, grouped by key type:
//
//	<dir>/render/3f/a9c1...   an SVG or PNG artifact
//	<dir>/snapshot/07/12be... an encoded snapshot
//
// Each file starts with an 8-byte big-endian expiry in Unix nanoseconds
// (zero never expires) followed by the raw value. Expired and truncated
// entries are removed when read.
type FileCache struct {
	dir string
}

const headerSize = 8

// NewFileCache creates the cache directory if needed.
func NewFileCache(dir string) (*FileCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *FileCache) Dir() string { return c.dir }

func (c *FileCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	path := c.path(key)
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	if len(raw) < headerSize {
		_ = os.Remove(path)
		return nil, false, nil
	}
	if exp := int64(binary.BigEndian.Uint64(raw)); exp != 0 && time.Now().UnixNano() > exp {
		_ = os.Remove(path)
		return nil, false, nil
	}
	return raw[headerSize:], true, nil
}

// Set writes the entry to a temporary file and renames it into place, so
// concurrent readers see either the old or the new value.
func (c *FileCache) Set(_ context.Context, key string, data []byte, ttl time.Duration) error {
	var exp int64
	if ttl > 0 {
		exp = time.Now().Add(ttl).UnixNano()
	}
	buf := make([]byte, headerSize+len(data))
	binary.BigEndian.PutUint64(buf, uint64(exp))
	copy(buf[headerSize:], data)

	path := c.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), path)
}

func (c *FileCache) Delete(_ context.Context, key string) error {
	err := os.Remove(c.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *FileCache) Close() error { return nil }

// Usage counts the stored entries and their total size in bytes.
func (c *FileCache) Usage() (entries int, size int64, err error) {
	err = c.walk(func(path string, info fs.FileInfo) {
		entries++
		size += info.Size()
	})
	return entries, size, err
}

// Clear removes every entry and the emptied directories below the root.
// It returns the number of entries removed.
func (c *FileCache) Clear() (int, error) {
	n := 0
	err := c.walk(func(path string, _ fs.FileInfo) {
		if os.Remove(path) == nil {
			n++
		}
	})
	if err != nil {
		return n, err
	}
	entries, err := os.ReadDir(c.dir)
	if err != nil {
		return n, err
	}
	for _, e := range entries {
		if e.IsDir() {
			_ = os.RemoveAll(filepath.Join(c.dir, e.Name()))
		}
	}
	return n, nil
}

func (c *FileCache) walk(fn func(path string, info fs.FileInfo)) error {
	err := filepath.WalkDir(c.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || strings.HasPrefix(d.Name(), ".tmp-") {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		fn(path, info)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// path maps key to <dir>/<type>/<aa>/<rest>, where type is the part of key
// before the first colon and aa the first byte of the key digest.
func (c *FileCache) path(key string) string {
	// Keys end in "<type>:<digest>"; scope prefixes only reach the hash.
	keyType := "misc"
	if i := strings.LastIndexByte(key, ':'); i > 0 {
		head := key[:i]
		keyType = head[strings.LastIndexByte(head, ':')+1:]
	}
	sum := Hash([]byte(key))
	return filepath.Join(c.dir, keyType, sum[:2], sum[2:])
}

var _ Cache = (*FileCache)(nil)
