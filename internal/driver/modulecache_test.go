package driver

import (
	"os"
	"path/filepath"
	"testing"

	"verdant/internal/diag"
	"verdant/internal/diagfmt"
	"verdant/internal/source"
)

func samplePayload() *DiskPayload {
	d := diag.New(diag.LintCategory("suspicious", "noDoubleEquals"), diag.SevError, source.NewRange(2, 4),
		diag.Markup(diag.Text("Use "), diag.Code("==="))).
		WithNote(diag.Msgf("note")).
		WithTags(diag.TagUnnecessary)
	return &DiskPayload{
		Path:        "a.js",
		Diagnostics: []diag.Diagnostic{d},
		Fixes: []CachedFix{{
			Diagnostic: 0,
			Suggestion: diagfmt.Suggestion{Title: "Use ===", Safe: true, Edit: source.Replace(source.NewRange(2, 4), "===")},
		}},
		Signals: 1,
	}
}

func TestDiskCache_RoundTrip(t *testing.T) {
	c, err := OpenDiskCacheAt(filepath.Join(t.TempDir(), "cache"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := digest(7)
	var out DiskPayload
	if ok, err := c.Get(key, &out); ok || err != nil {
		t.Fatalf("expected clean miss, got %v %v", ok, err)
	}
	if err := c.Put(key, samplePayload()); err != nil {
		t.Fatalf("put: %v", err)
	}
	ok, err := c.Get(key, &out)
	if !ok || err != nil {
		t.Fatalf("expected hit, got %v %v", ok, err)
	}
	d := out.Diagnostics[0]
	if d.Severity != diag.SevError || d.Message.String() != "Use `===`" || !d.Tags.Has(diag.TagUnnecessary) {
		t.Fatalf("diagnostic did not round-trip: %+v", d)
	}
	if len(out.Fixes) != 1 || out.Fixes[0].Suggestion.Edit[0].Insert != "===" {
		t.Fatalf("fixes did not round-trip: %+v", out.Fixes)
	}

	// временные файлы не остаются
	entries, err := os.ReadDir(filepath.Dir(c.pathFor(key)))
	if err != nil {
		t.Fatalf("readdir: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected only the entry file, got %d files", len(entries))
	}

	if err := c.DropAll(); err != nil {
		t.Fatalf("drop: %v", err)
	}
	if ok, _ := c.Get(key, &out); ok {
		t.Fatal("expected miss after DropAll")
	}
}

func TestDiskCache_CorruptEntryIsError(t *testing.T) {
	c, err := OpenDiskCacheAt(t.TempDir())
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	key := digest(9)
	p := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(p, []byte{0xc1}, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	var out DiskPayload
	if ok, err := c.Get(key, &out); ok || err == nil {
		t.Fatalf("expected decode error, got %v %v", ok, err)
	}

	// для ResultCache испорченная запись - просто промах
	rc := NewResultCache(c, 1)
	if _, ok := rc.Get(key); ok {
		t.Fatal("corrupt entry must be a miss")
	}
	if _, misses := rc.Stats(); misses != 1 {
		t.Fatalf("expected one miss, got %d", misses)
	}
}

func TestResultCache_MemoryOnly(t *testing.T) {
	var nilCache *ResultCache
	if _, ok := nilCache.Get(digest(1)); ok {
		t.Fatal("nil cache never hits")
	}
	if err := nilCache.Put(digest(1), samplePayload()); err != nil {
		t.Fatalf("nil cache put: %v", err)
	}

	c := NewResultCache(nil, 2)
	if err := c.Put(digest(1), samplePayload()); err != nil {
		t.Fatalf("put: %v", err)
	}
	if _, ok := c.Get(digest(2)); ok {
		t.Fatal("expected miss on different key")
	}
	p, ok := c.Get(digest(1))
	if !ok || p.Path != "a.js" {
		t.Fatal("expected hit")
	}
	if hits, misses := c.Stats(); hits != 1 || misses != 1 {
		t.Fatalf("unexpected stats %d/%d", hits, misses)
	}
}

func TestApplyPayloadRestoresFixes(t *testing.T) {
	res := &FileResult{Path: "moved.js"}
	applyPayload(res, samplePayload())
	if !res.Cached || res.Diagnostics[0].Location.Path != "moved.js" {
		t.Fatalf("unexpected result %+v", res)
	}
	fixes := res.Fixes.For(res.Diagnostics[0])
	if len(fixes) != 1 || fixes[0].Title != "Use ===" {
		t.Fatalf("unexpected fixes %+v", fixes)
	}

	back := payloadFromResult(res)
	if len(back.Fixes) != 1 || back.Fixes[0].Diagnostic != 0 {
		t.Fatalf("unexpected payload %+v", back.Fixes)
	}
}
