package watch

import (
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewFileWatcher(t *testing.T) {
	_, err := NewFileWatcher([]string{"a.yaml"}, 0, nil, nil)
	assert.Error(t, err)

	_, err = NewFileWatcher([]string{"", ""}, 0, func() {}, nil)
	assert.Error(t, err)

	fw, err := NewFileWatcher([]string{"a.yaml", ""}, 0, func() {}, nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultDebounce, fw.debounceDelay)
	require.Len(t, fw.Files(), 1)
	assert.True(t, filepath.IsAbs(fw.Files()[0]))
}

func TestFileWatcher_ReloadsOnReplace(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "vocabulary.yaml")
	require.NoError(t, os.WriteFile(file, []byte("soft: [a]\n"), 0o644))

	var reloads atomic.Int32
	fw, err := NewFileWatcher([]string{file}, 20*time.Millisecond, func() { reloads.Add(1) }, nil)
	require.NoError(t, err)
	require.NoError(t, fw.Start())
	t.Cleanup(func() { _ = fw.Stop() })

	assert.True(t, fw.IsRunning())
	assert.Error(t, fw.Start(), "second start must fail")

	// replace the file atomically, the way deploy tools do
	tmp := filepath.Join(dir, "vocabulary.yaml.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte("soft: [b]\n"), 0o644))
	future := time.Now().Add(time.Hour)
	require.NoError(t, os.Chtimes(tmp, future, future))
	require.NoError(t, os.Rename(tmp, file))

	assert.Eventually(t, func() bool { return reloads.Load() >= 1 }, 5*time.Second, 10*time.Millisecond)
}

func TestFileWatcher_StopIsIdempotent(t *testing.T) {
	file := filepath.Join(t.TempDir(), "headings.yaml")
	fw, err := NewFileWatcher([]string{file}, 0, func() {}, nil)
	require.NoError(t, err)

	require.NoError(t, fw.Start())
	require.NoError(t, fw.Stop())
	require.NoError(t, fw.Stop())
	assert.False(t, fw.IsRunning())
}

func TestShouldProcessEvent(t *testing.T) {
	fw, err := NewFileWatcher([]string{"/etc/atsbuilder/vocabulary.yaml"}, 0, func() {}, nil)
	require.NoError(t, err)

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{"write to watched file", fsnotify.Event{Name: "/etc/atsbuilder/vocabulary.yaml", Op: fsnotify.Write}, true},
		{"rename onto watched name", fsnotify.Event{Name: "/etc/atsbuilder/vocabulary.yaml", Op: fsnotify.Rename}, true},
		{"chmod only", fsnotify.Event{Name: "/etc/atsbuilder/vocabulary.yaml", Op: fsnotify.Chmod}, false},
		{"other file", fsnotify.Event{Name: "/etc/atsbuilder/config.yaml", Op: fsnotify.Write}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, fw.shouldProcessEvent(tt.event))
		})
	}
}
