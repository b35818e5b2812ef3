package content

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestStore_ReloadKeepsLastGoodSnapshot(t *testing.T) {
	dir := t.TempDir()
	writeContent(t, dir, "Original")

	store, err := NewStore(WithDir(dir), WithLogger(zaptest.NewLogger(t)))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if page, _ := store.Page("home"); page.Title != "Original" {
		t.Fatalf("title = %q", page.Title)
	}

	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte("pages: ["), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := store.Reload(); err == nil {
		t.Fatalf("expected reload error")
	}
	if page, _ := store.Page("home"); page.Title != "Original" {
		t.Fatalf("failed reload replaced snapshot: %q", page.Title)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	defer goleak.VerifyNone(t)

	dir := t.TempDir()
	writeContent(t, dir, "Before")

	store, err := NewStore(WithDir(dir))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	reloads := make(chan error, 4)
	watcher, err := NewWatcher(store, zaptest.NewLogger(t),
		WithDebounce(20*time.Millisecond),
		WithReloadHook(func(err error) { reloads <- err }),
	)
	if err != nil {
		t.Fatalf("new watcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- watcher.Run(ctx) }()

	// Give the watcher time to register the directory.
	time.Sleep(100 * time.Millisecond)
	writeContent(t, dir, "After")

	select {
	case err := <-reloads:
		if err != nil {
			t.Fatalf("reload: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for reload")
	}
	if page, _ := store.Page("home"); page.Title != "After" {
		t.Fatalf("title = %q", page.Title)
	}

	cancel()
	if err := <-done; err != nil {
		t.Fatalf("run: %v", err)
	}
}

func TestNewWatcher_RequiresDirectory(t *testing.T) {
	store, err := NewStore()
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if _, err := NewWatcher(store, nil); err == nil {
		t.Fatalf("expected error for embedded store")
	}
}

func writeContent(t *testing.T, dir, title string) {
	t.Helper()

	data := strings.ReplaceAll("name: Test\npages:\n  home:\n    title: TITLE\n", "TITLE", title)
	if err := os.WriteFile(filepath.Join(dir, DefaultFile), []byte(data), 0o644); err != nil {
		t.Fatalf("write content: %v", err)
	}
}
