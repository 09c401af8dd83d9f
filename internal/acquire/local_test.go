package acquire

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalAcquirer_ExistingFileReturnsSamePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))

	got, err := NewLocalAcquirer().Acquire(context.Background(), path)
	require.NoError(t, err)
	require.Equal(t, path, got)
}

func TestLocalAcquirer_MissingFileErrors(t *testing.T) {
	_, err := NewLocalAcquirer().Acquire(context.Background(), filepath.Join(t.TempDir(), "missing.mp4"))
	require.Error(t, err)
}

func TestLocalAcquirer_DirectoryErrors(t *testing.T) {
	_, err := NewLocalAcquirer().Acquire(context.Background(), t.TempDir())
	require.Error(t, err)
}

func TestLocalAcquirer_CancelledContextErrors(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte("fake video"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewLocalAcquirer().Acquire(ctx, path)
	require.Error(t, err)
}
