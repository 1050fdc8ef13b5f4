package watch_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/mwaldron/flowlens/pkg/infrastructure/watch"
)

func TestConfigWatcher_ReportsYAMLChanges(t *testing.T) {
	dir := t.TempDir()

	changed := make(chan string, 1)
	w, err := watch.NewConfigWatcher(dir, 30*time.Millisecond, func(path string) {
		select {
		case changed <- path:
		default:
		}
	})
	if err != nil {
		t.Fatalf("NewConfigWatcher: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = w.Run(ctx)
	}()

	// Non-YAML writes must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "scratch.tmp"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	target := filepath.Join(dir, "workflow.yaml")
	if err := os.WriteFile(target, []byte("categories: []\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case path := <-changed:
		if path != target {
			t.Errorf("changed path = %q, want %q", path, target)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("watcher did not stop on cancellation")
	}
}
