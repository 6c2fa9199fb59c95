package driver

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"verdant/internal/diag"
	"verdant/internal/diagfmt"
)

// Current schema version - increment when DiskPayload format changes
const diskCacheSchemaVersion uint16 = 1

// DiskCache хранит результаты анализа файлов на диске по ключу resultKey.
// Thread-safe for concurrent access.
type DiskCache struct {
	mu  sync.RWMutex
	dir string
}

// CachedFix ties a suggestion to the diagnostic it belongs to.
type CachedFix struct {
	Diagnostic int // index into DiskPayload.Diagnostics
	Suggestion diagfmt.Suggestion
}

// DiskPayload is one cached analysis result.
type DiskPayload struct {
	// Schema version for safe invalidation when format changes
	Schema uint16

	Path        string
	Diagnostics []diag.Diagnostic
	Fixes       []CachedFix

	// Rule and engine counters of the run that produced the payload
	Signals    int
	Suppressed int
}

// OpenDiskCache initializes and returns a disk cache at the standard location.
func OpenDiskCache(app string) (*DiskCache, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		base = filepath.Join(home, ".cache")
	}
	return OpenDiskCacheAt(filepath.Join(base, app))
}

// OpenDiskCacheAt uses dir as the cache root.
func OpenDiskCacheAt(dir string) (*DiskCache, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DiskCache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *DiskCache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

func (c *DiskCache) pathFor(key Digest) string {
	hexKey := key.String()
	// Подкаталог по первому байту, чтобы не держать тысячи файлов в одном месте.
	return filepath.Join(c.dir, "results", hexKey[:2], hexKey+".mp")
}

// Put serializes and writes a payload to the disk cache.
func (c *DiskCache) Put(key Digest, payload *DiskPayload) (err error) {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(filepath.Dir(p), "tmp-*")
	if err != nil {
		return err
	}
	defer func() {
		// после Rename временного файла уже нет
		if rmErr := os.Remove(f.Name()); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) && err == nil {
			err = fmt.Errorf("failed to remove temp file: %w", rmErr)
		}
	}()

	payload.Schema = diskCacheSchemaVersion
	enc := msgpack.NewEncoder(f)
	if err := enc.Encode(payload); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	// Атомарная замена
	return os.Rename(f.Name(), p)
}

// Get reads and deserializes a payload from the disk cache. Payloads written
// with another schema are treated as misses.
func (c *DiskCache) Get(key Digest, out *DiskPayload) (bool, error) {
	if c == nil {
		return false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	f, err := os.Open(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()

	dec := msgpack.NewDecoder(f)
	if err := dec.Decode(out); err != nil {
		return false, fmt.Errorf("corrupt cache entry %s: %w", key, err)
	}
	if out.Schema != diskCacheSchemaVersion {
		return false, nil
	}
	return true, nil
}

// DropAll invalidates the cache, useful after format changes.
func (c *DiskCache) DropAll() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	// тривиально: переименуем каталог и удалим
	old := c.dir + ".old-" + time.Now().Format("20060102150405")
	if err := os.Rename(c.dir, old); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return os.MkdirAll(c.dir, 0o755)
		}
		return err
	}
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	return os.MkdirAll(c.dir, 0o755)
}

// payloadFromResult converts an analysis result into its cached form.
func payloadFromResult(r *FileResult) *DiskPayload {
	p := &DiskPayload{
		Path:        r.Path,
		Diagnostics: r.Diagnostics,
		Signals:     r.Stats.Signals,
		Suppressed:  r.Stats.Suppressed,
	}
	seen := make(map[diagfmt.FixKey]bool)
	for i, d := range r.Diagnostics {
		// одинаковые ключи делят один список предложений
		k := diagfmt.KeyOf(d)
		if seen[k] {
			continue
		}
		seen[k] = true
		for _, s := range r.Fixes.For(d) {
			p.Fixes = append(p.Fixes, CachedFix{Diagnostic: i, Suggestion: s})
		}
	}
	return p
}

// applyPayload restores diagnostics and fixes. Source text is not cached; the
// caller attaches the freshly loaded file.
func applyPayload(r *FileResult, p *DiskPayload) {
	r.Diagnostics = make([]diag.Diagnostic, len(p.Diagnostics))
	for i, d := range p.Diagnostics {
		r.Diagnostics[i] = d.WithFilePath(r.Path)
	}
	r.Fixes = diagfmt.Fixes{}
	for _, cf := range p.Fixes {
		if cf.Diagnostic < 0 || cf.Diagnostic >= len(r.Diagnostics) {
			continue
		}
		r.Fixes.Add(r.Diagnostics[cf.Diagnostic], cf.Suggestion)
	}
	r.Stats.Signals = p.Signals
	r.Stats.Suppressed = p.Suppressed
	r.Cached = true
}
