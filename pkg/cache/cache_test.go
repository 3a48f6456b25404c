package cache

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/matzehuels/graphstream/pkg/observability"
)

var (
	errNetwork  = errors.New("network error")
	errNotFound = errors.New("not found")
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	// Get always returns miss
	data, hit, err := c.Get(ctx, "key")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if hit {
		t.Error("NullCache.Get should always return miss")
	}
	if data != nil {
		t.Error("NullCache.Get should return nil data")
	}

	// Set does nothing (no error)
	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Errorf("Set error: %v", err)
	}

	// Still a miss after Set
	_, hit, _ = c.Get(ctx, "key")
	if hit {
		t.Error("NullCache should not store data")
	}

	// Delete does nothing (no error)
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestHash(t *testing.T) {
	// Test determinism
	h1 := Hash([]byte("hello"))
	h2 := Hash([]byte("hello"))
	if h1 != h2 {
		t.Error("Hash should be deterministic")
	}

	// Test different inputs produce different hashes
	h3 := Hash([]byte("world"))
	if h1 == h3 {
		t.Error("Different inputs should produce different hashes")
	}

	// Test hash length (SHA-256 produces 64 hex chars)
	if len(h1) != 64 {
		t.Errorf("Hash length should be 64, got %d", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	rk1 := k.RenderKey("hash123", RenderKeyOpts{Format: "svg"})
	rk2 := k.RenderKey("hash123", RenderKeyOpts{Format: "png"})
	if rk1 == rk2 {
		t.Error("Different RenderKeyOpts should produce different keys")
	}
	if rk1 != k.RenderKey("hash123", RenderKeyOpts{Format: "svg"}) {
		t.Error("RenderKey should be deterministic")
	}
	if !strings.HasPrefix(rk1, "render:") {
		t.Errorf("RenderKey unexpected: %s", rk1)
	}

	sk1 := k.SnapshotKey("g", 10)
	sk2 := k.SnapshotKey("g", 11)
	if sk1 == sk2 {
		t.Error("Different event positions should produce different keys")
	}
}

func TestScopedKeyer(t *testing.T) {
	inner := NewDefaultKeyer()
	scoped := NewScopedKeyer(inner, "traffic:")

	opts := RenderKeyOpts{Format: "svg", Detailed: true}
	if got, want := scoped.RenderKey("h", opts), "traffic:"+inner.RenderKey("h", opts); got != want {
		t.Errorf("ScopedKeyer RenderKey = %s, want %s", got, want)
	}
	if got := scoped.SnapshotKey("g", 1); !strings.HasPrefix(got, "traffic:snapshot:") {
		t.Errorf("ScopedKeyer SnapshotKey should be prefixed: %s", got)
	}
}

func TestScopedKeyerNilInner(t *testing.T) {
	// Should use DefaultKeyer when inner is nil
	scoped := NewScopedKeyer(nil, "prefix:")
	key := scoped.SnapshotKey("g", 3)
	if key != "prefix:"+NewDefaultKeyer().SnapshotKey("g", 3) {
		t.Errorf("Unexpected key with nil inner: %s", key)
	}
}

func TestFileCacheScopedKeysShareTypeDirectory(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	base := NewScopedKeyer(NewDefaultKeyer(), "graphstream:")
	feed := NewScopedKeyer(base, "feed-1a2b:")
	if err := c.Set(ctx, feed.SnapshotKey("g", 4), []byte("{}"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != KeyTypeSnapshot {
		t.Errorf("cache dir holds %v, want only %s", entries, KeyTypeSnapshot)
	}
	if _, ok, _ := c.Get(ctx, base.SnapshotKey("g", 4)); ok {
		t.Error("differently scoped keys must not collide")
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}
	defer c.Close()

	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("empty cache should miss")
	}
	if err := c.Set(ctx, "key", []byte("value"), 0); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}

	if err := c.Set(ctx, "expired", []byte("x"), time.Nanosecond); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	time.Sleep(time.Millisecond)
	if _, hit, _ := c.Get(ctx, "expired"); hit {
		t.Error("expired entry should miss")
	}

	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete of missing key should succeed: %v", err)
	}
	if _, hit, _ := c.Get(ctx, "key"); hit {
		t.Error("deleted entry should miss")
	}
}

func TestFileCacheLayoutAndClear(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c, err := NewFileCache(dir)
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	keyer := NewDefaultKeyer()
	keys := []string{
		keyer.RenderKey(Hash([]byte("digraph G {}")), RenderKeyOpts{Format: "svg"}),
		keyer.RenderKey(Hash([]byte("digraph G {}")), RenderKeyOpts{Format: "png"}),
		keyer.SnapshotKey("g", 7),
	}
	for _, k := range keys {
		if err := c.Set(ctx, k, []byte("12345"), 0); err != nil {
			t.Fatalf("Set error: %v", err)
		}
	}
	for _, sub := range []string{KeyTypeRender, KeyTypeSnapshot} {
		if _, err := os.Stat(filepath.Join(dir, sub)); err != nil {
			t.Errorf("missing %s directory: %v", sub, err)
		}
	}

	n, size, err := c.Usage()
	if err != nil || n != 3 || size != 3*(headerSize+5) {
		t.Errorf("Usage() = %d, %d, %v", n, size, err)
	}

	removed, err := c.Clear()
	if err != nil || removed != 3 {
		t.Errorf("Clear() = %d, %v", removed, err)
	}
	if n, _, _ := c.Usage(); n != 0 {
		t.Errorf("%d entries left after Clear", n)
	}
	if _, hit, _ := c.Get(ctx, keys[0]); hit {
		t.Error("cleared entry should miss")
	}
}

func TestFileCacheDropsTruncatedEntry(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	path := c.path("render:x")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, hit, err := c.Get(ctx, "render:x"); hit || err != nil {
		t.Errorf("truncated entry: hit %v, err %v", hit, err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("truncated entry should be removed")
	}
}

func TestHashKeySeparatesParts(t *testing.T) {
	if hashKey("render", "ab", "c") == hashKey("render", "a", "bc") {
		t.Error("part boundaries should change the key")
	}
	if !strings.HasPrefix(hashKey("snapshot", "g"), "snapshot:") {
		t.Error("key should start with its type")
	}
}

func TestGetOrCompute(t *testing.T) {
	observability.Reset()
	defer observability.Reset()
	hooks := &countingHooks{}
	observability.SetCacheHooks(hooks)

	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache error: %v", err)
	}

	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("<svg/>"), nil
	}
	for i := 0; i < 2; i++ {
		data, err := GetOrCompute(ctx, c, KeyTypeRender, "k", 0, compute)
		if err != nil || string(data) != "<svg/>" {
			t.Fatalf("GetOrCompute = %q, %v", data, err)
		}
	}
	if calls != 1 {
		t.Errorf("compute called %d times, want 1", calls)
	}
	if hooks.hits != 1 || hooks.misses != 1 || hooks.bytes != 6 {
		t.Errorf("hooks = %+v", hooks)
	}

	boom := errors.New("boom")
	if _, err := GetOrCompute(ctx, NewNullCache(), KeyTypeRender, "k", 0, func() ([]byte, error) {
		return nil, boom
	}); !errors.Is(err, boom) {
		t.Errorf("compute error should propagate: %v", err)
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GRAPHSTREAM_REDIS_ADDR")
	if addr == "" {
		t.Skip("GRAPHSTREAM_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := DialRedis(ctx, addr, "", 0)
	if err != nil {
		t.Fatalf("DialRedis error: %v", err)
	}
	defer c.Close()

	key := "graphstream:test:" + Hash([]byte(t.Name()))
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get before Set = %v, %v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("value"), time.Minute); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "value" {
		t.Errorf("Get = %q, %v, %v", data, hit, err)
	}
}

type countingHooks struct {
	hits, misses, bytes int
}

func (h *countingHooks) OnCacheHit(context.Context, string)            { h.hits++ }
func (h *countingHooks) OnCacheMiss(context.Context, string)           { h.misses++ }
func (h *countingHooks) OnCacheSet(_ context.Context, _ string, n int) { h.bytes += n }

func TestRetryableError(t *testing.T) {
	// Retryable(nil) returns nil
	if Retryable(nil) != nil {
		t.Error("Retryable(nil) should return nil")
	}

	// Non-nil error is wrapped
	err := Retryable(errNetwork)
	if err == nil {
		t.Fatal("Retryable should return wrapped error")
	}
	if !IsRetryable(err) {
		t.Error("IsRetryable should return true for wrapped error")
	}

	// Error message is preserved
	if err.Error() != errNetwork.Error() {
		t.Errorf("Error message should be preserved: %s", err.Error())
	}

	// Non-wrapped errors are not retryable
	if IsRetryable(errNotFound) {
		t.Error("IsRetryable should return false for unwrapped error")
	}
}

var fastBackoff = Backoff{Attempts: 3, Initial: time.Millisecond, Max: 2 * time.Millisecond}

func TestRetryWithBackoff(t *testing.T) {
	ctx := context.Background()

	// Success on first try
	calls := 0
	err := fastBackoff.Retry(ctx, func() error {
		calls++
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should call once: %d", calls)
	}

	// Non-retryable error stops immediately
	calls = 0
	err = fastBackoff.Retry(ctx, func() error {
		calls++
		return errNotFound
	})
	if err != errNotFound {
		t.Errorf("Should return non-retryable error: %v", err)
	}
	if calls != 1 {
		t.Errorf("Should not retry non-retryable error: %d", calls)
	}

	// Retryable error triggers retries
	calls = 0
	err = fastBackoff.Retry(ctx, func() error {
		calls++
		if calls < 2 {
			return Retryable(errNetwork)
		}
		return nil
	})
	if err != nil {
		t.Errorf("Should succeed after retry: %v", err)
	}
	if calls != 2 {
		t.Errorf("Should retry once: %d", calls)
	}

	// Attempts are bounded
	calls = 0
	err = fastBackoff.Retry(ctx, func() error {
		calls++
		return Retryable(errNetwork)
	})
	if !errors.Is(err, errNetwork) || calls != 3 {
		t.Errorf("Should give up after 3 attempts: %d, %v", calls, err)
	}
}

func TestRetryWithBackoffContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel() // Cancel immediately

	err := fastBackoff.Retry(ctx, func() error {
		return Retryable(errNetwork)
	})
	if err != context.Canceled {
		t.Errorf("Should return context error: %v", err)
	}
}
