package cache

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestResponseCache_SaveGet(t *testing.T) {
	c := &ResponseCache{Dir: t.TempDir()}
	key := KeyFrom("model", "prompt")
	data := []byte(`{"label":"S1","rows":["Yes"]}`)
	if err := c.Save(context.Background(), key, data); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, ok, err := c.Get(context.Background(), key)
	if err != nil || !ok {
		t.Fatalf("get: %v ok=%v", err, ok)
	}
	if string(got) != string(data) {
		t.Fatalf("mismatch")
	}
	if _, ok, _ := c.Get(context.Background(), KeyFrom("model", "other")); ok {
		t.Fatalf("unexpected hit")
	}
}

func TestKeyFrom_DependsOnModel(t *testing.T) {
	if KeyFrom("a", "p") == KeyFrom("b", "p") {
		t.Fatalf("keys must differ per model")
	}
}

func TestResponseCache_StrictPerms(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "responses")
	c := &ResponseCache{Dir: dir, StrictPerms: true}
	key := KeyFrom("model", "prompt")
	if err := c.Save(context.Background(), key, []byte(`{}`)); err != nil {
		t.Fatalf("save: %v", err)
	}
	info, err := os.Stat(dir)
	if err != nil {
		t.Fatalf("stat dir: %v", err)
	}
	if got := info.Mode() & 0o777; got != 0o700 {
		t.Fatalf("dir mode = %o, want 0700", got)
	}
	finfo, err := os.Stat(filepath.Join(dir, key+".json"))
	if err != nil {
		t.Fatalf("stat file: %v", err)
	}
	if got := finfo.Mode() & 0o777; got != 0o600 {
		t.Fatalf("file mode = %o, want 0600", got)
	}
}

func TestEnforceLimits_EvictsLeastRecentlyUsed(t *testing.T) {
	tmp := t.TempDir()
	c := &ResponseCache{Dir: tmp}
	keys := []string{KeyFrom("m", "p1"), KeyFrom("m", "p2"), KeyFrom("m", "p3")}
	base := time.Now().Add(-time.Hour)
	for i, k := range keys {
		if err := c.Save(context.Background(), k, []byte(fmt.Sprintf("%d", i))); err != nil {
			t.Fatalf("save %d: %v", i, err)
		}
		ts := base.Add(time.Duration(i) * time.Minute)
		_ = os.Chtimes(filepath.Join(tmp, k+".json"), ts, ts)
	}
	// a hit makes p1 the most recently used
	if _, ok, _ := c.Get(context.Background(), keys[0]); !ok {
		t.Fatal("expected hit")
	}
	removed, err := EnforceLimits(tmp, 0, 2)
	if err != nil {
		t.Fatalf("enforce: %v", err)
	}
	if removed != 1 {
		t.Fatalf("expected 1 removed, got %d", removed)
	}
	if _, err := os.Stat(filepath.Join(tmp, keys[1]+".json")); !os.IsNotExist(err) {
		t.Fatalf("expected p2 evicted, stat err=%v", err)
	}
}

func TestEnforceLimits_PurgesByAge(t *testing.T) {
	tmp := t.TempDir()
	c := &ResponseCache{Dir: tmp}
	oldKey, newKey := KeyFrom("m", "old"), KeyFrom("m", "new")
	_ = c.Save(context.Background(), oldKey, []byte("1"))
	_ = c.Save(context.Background(), newKey, []byte("2"))
	past := time.Now().Add(-48 * time.Hour)
	_ = os.Chtimes(filepath.Join(tmp, oldKey+".json"), past, past)

	removed, err := EnforceLimits(tmp, 24*time.Hour, 0)
	if err != nil || removed != 1 {
		t.Fatalf("removed=%d err=%v", removed, err)
	}
	if n, _ := EnforceLimits(tmp, 0, 0); n != 0 {
		t.Fatalf("zero limits must not purge")
	}
	if n, err := EnforceLimits(filepath.Join(tmp, "missing"), time.Hour, 0); err != nil || n != 0 {
		t.Fatalf("missing dir: n=%d err=%v", n, err)
	}
}

func TestClearDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "c")
	c := &ResponseCache{Dir: dir}
	_ = c.Save(context.Background(), KeyFrom("m", "p"), []byte("x"))
	if err := ClearDir(dir); err != nil {
		t.Fatal(err)
	}
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		t.Fatalf("expected empty dir, entries=%d err=%v", len(entries), err)
	}
	if err := ClearDir("  "); err == nil {
		t.Fatalf("expected error for empty dir")
	}
}
