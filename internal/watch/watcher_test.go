package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestWatcherValidatesChangedScene(t *testing.T) {
	dir := t.TempDir()
	validated := make(chan string, 4)

	w := New(dir, func(ctx context.Context, path string) {
		validated <- path
	})
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	// Give the watcher a moment to register before writing.
	time.Sleep(100 * time.Millisecond)

	scenePath := filepath.Join(dir, "scene.json")
	if err := os.WriteFile(scenePath, []byte(`{"sceneName":"Café"}`), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-validated:
		if got != scenePath {
			t.Errorf("validated %q, want %q", got, scenePath)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("timed out waiting for validation callback")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil && !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v", err)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("watcher did not stop on cancel")
	}
}

func TestWatcherIgnoresNonSceneFiles(t *testing.T) {
	dir := t.TempDir()
	validated := make(chan string, 4)

	w := New(dir, func(ctx context.Context, path string) {
		validated <- path
	})
	w.debounce = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a scene"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-validated:
		t.Errorf("unexpected validation of %q", path)
	case <-time.After(400 * time.Millisecond):
	}

	cancel()
	<-done
}

func TestWatcherMissingDirectory(t *testing.T) {
	w := New(filepath.Join(t.TempDir(), "does-not-exist"), func(ctx context.Context, path string) {})
	if err := w.Run(context.Background()); err == nil {
		t.Errorf("expected error for missing directory")
	}
}
