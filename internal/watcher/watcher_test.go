package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypeString(t *testing.T) {
	testCases := []struct {
		eventType EventType
		expected  string
	}{
		{EventTypeCreated, "created"},
		{EventTypeModified, "modified"},
		{EventTypeDeleted, "deleted"},
		{EventTypeRenamed, "renamed"},
		{EventType(42), "unknown"},
	}

	for _, tc := range testCases {
		t.Run(tc.expected, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.eventType.String())
		})
	}
}

func TestNewFileWatcher(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NotNil(t, watcher.watcher)
	assert.NotNil(t, watcher.debouncer)
	assert.NotNil(t, watcher.logger)
	assert.Empty(t, watcher.filters)
	assert.Empty(t, watcher.handlers)
}

func TestFileWatcherFiltersAndHandlers(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	watcher.AddFilter(CatalogFilter)
	watcher.AddFilter(NoHiddenFilter)
	assert.Len(t, watcher.filters, 2)

	assert.True(t, watcher.accepts("projects.yml"))
	assert.False(t, watcher.accepts(".projects.yml"))
	assert.False(t, watcher.accepts("logo.png"))

	watcher.AddHandler(func(context.Context, []ChangeEvent) error { return nil })
	assert.Len(t, watcher.handlers, 1)
}

func TestFileWatcherAddPath(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	assert.NoError(t, watcher.AddPath(t.TempDir()))

	err = watcher.AddPath("/non/existent/path")
	assert.Error(t, err)

	err = watcher.AddPath("  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid path")
}

func TestAddRecursive(t *testing.T) {
	watcher, err := NewFileWatcher(100*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "logos", "dark"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(root, ".cache"), 0o755))

	require.NoError(t, watcher.AddRecursive(root))

	watched := watcher.watcher.WatchList()
	assert.Contains(t, watched, root)
	assert.Contains(t, watched, filepath.Join(root, "logos", "dark"))
	assert.NotContains(t, watched, filepath.Join(root, ".cache"))

	assert.Error(t, watcher.AddRecursive(filepath.Join(root, "missing")))
}

func TestFileWatcherStartStop(t *testing.T) {
	watcher, err := NewFileWatcher(50*time.Millisecond, nil)
	require.NoError(t, err)

	dir := t.TempDir()
	catalogPath := filepath.Join(dir, "projects.yml")
	require.NoError(t, watcher.AddPath(dir))
	watcher.AddFilter(FileFilterFor(catalogPath))

	received := make(chan []ChangeEvent, 4)
	watcher.AddHandler(func(_ context.Context, events []ChangeEvent) error {
		received <- events
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	// Unrelated files are filtered out.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(catalogPath, []byte("projects: []\n"), 0o644))

	select {
	case events := <-received:
		require.Len(t, events, 1)
		assert.Equal(t, catalogPath, events[0].Path)
	case <-time.After(2 * time.Second):
		t.Fatal("no change event received")
	}

	cancel()
	assert.NoError(t, watcher.Stop())
	assert.NoError(t, watcher.Stop())
}

func TestFileWatcherHandlerErrorDoesNotStopProcessing(t *testing.T) {
	watcher, err := NewFileWatcher(20*time.Millisecond, nil)
	require.NoError(t, err)
	defer watcher.Stop()

	dir := t.TempDir()
	require.NoError(t, watcher.AddPath(dir))

	var mu sync.Mutex
	calls := 0
	watcher.AddHandler(func(context.Context, []ChangeEvent) error {
		mu.Lock()
		calls++
		mu.Unlock()
		return fmt.Errorf("reload failed")
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, watcher.Start(ctx))

	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644))
	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 2
	}, 2*time.Second, 10*time.Millisecond)
}

func TestDebouncer(t *testing.T) {
	debouncer := newDebouncer(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go debouncer.start(ctx)

	debouncer.events <- ChangeEvent{Path: "b.yml", Type: EventTypeCreated}
	debouncer.events <- ChangeEvent{Path: "b.yml", Type: EventTypeModified}
	debouncer.events <- ChangeEvent{Path: "a.png", Type: EventTypeModified}

	select {
	case events := <-debouncer.output:
		require.Len(t, events, 2)
		assert.Equal(t, "a.png", events[0].Path)
		assert.Equal(t, "b.yml", events[1].Path)
		assert.Equal(t, EventTypeModified, events[1].Type)
	case <-time.After(time.Second):
		t.Fatal("debouncer did not flush")
	}
}

func TestDebouncerFlushEmpty(t *testing.T) {
	debouncer := newDebouncer(time.Millisecond)
	debouncer.flush()
	assert.Empty(t, debouncer.output)
}

func TestFilters(t *testing.T) {
	testCases := []struct {
		path    string
		catalog bool
		image   bool
		visible bool
	}{
		{"projects.yml", true, false, true},
		{"data/projects.YAML", true, false, true},
		{"projects.json", true, false, true},
		{"images/logo.png", false, true, true},
		{"images/photo.JPEG", false, true, true},
		{"images/icon.svg", false, true, true},
		{"README.md", false, false, true},
		{".projects.yml.swp", false, false, false},
		{"projects.yml~", false, false, false},
		{"images/.DS_Store", false, false, false},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			assert.Equal(t, tc.catalog, CatalogFilter(tc.path), "catalog")
			assert.Equal(t, tc.image, ImageFilter(tc.path), "image")
			assert.Equal(t, tc.visible, NoHiddenFilter(tc.path), "hidden")
		})
	}
}

func TestFileFilterForAndAnyFilter(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "projects.yml")

	only := FileFilterFor(target)
	assert.True(t, only(target))
	assert.True(t, only(filepath.Join(dir, ".", "projects.yml")))
	assert.False(t, only(filepath.Join(dir, "other.yml")))

	either := AnyFilter(only, ImageFilter)
	assert.True(t, either(target))
	assert.True(t, either(filepath.Join(dir, "logo.png")))
	assert.False(t, either(filepath.Join(dir, "other.yml")))
	assert.False(t, AnyFilter()(target))
}
