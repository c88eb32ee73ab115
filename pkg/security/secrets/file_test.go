package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSecret(t *testing.T, dir, name, value string, perm os.FileMode) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(value), perm))
	require.NoError(t, os.Chmod(filepath.Join(dir, name), perm))
}

func TestFileProvider_GetSecret(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "openai_api_key", "sk-file-value\n", 0600)

	p, err := NewFileProvider(dir, false)
	require.NoError(t, err)
	defer p.Close()

	value, err := p.GetSecret(context.Background(), "openai_api_key")
	require.NoError(t, err)
	assert.Equal(t, "sk-file-value", value)
}

func TestFileProvider_Errors(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "loose", "value", 0644)
	writeSecret(t, dir, "empty", "\n", 0600)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0700))

	p, err := NewFileProvider(dir, false)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()

	_, err = p.GetSecret(ctx, "missing")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = p.GetSecret(ctx, "empty")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = p.GetSecret(ctx, "loose")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
	assert.Contains(t, err.Error(), "insecure permissions")

	_, err = p.GetSecret(ctx, "subdir")
	assert.Error(t, err)

	_, err = p.GetSecret(ctx, "../etc/passwd")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "directory traversal")
}

func TestFileProvider_InvalidBasePath(t *testing.T) {
	_, err := NewFileProvider(filepath.Join(t.TempDir(), "nope"), false)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0600))
	_, err = NewFileProvider(file, false)
	assert.Error(t, err)
}

func TestFileProvider_Refresh(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "key", "first", 0600)

	p, err := NewFileProvider(dir, false)
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	value, err := p.GetSecret(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	writeSecret(t, dir, "key", "second", 0600)

	value, _ = p.GetSecret(ctx, "key")
	assert.Equal(t, "first", value, "value should be served from cache")

	require.NoError(t, p.Refresh(ctx))
	value, err = p.GetSecret(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestFileProvider_WatchInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	writeSecret(t, dir, "key", "first", 0600)

	changed := make(chan string, 8)
	p, err := NewFileProvider(dir, true, WithChangeHandler(func(name string) {
		select {
		case changed <- name:
		default:
		}
	}))
	require.NoError(t, err)
	defer p.Close()

	ctx := context.Background()
	value, err := p.GetSecret(ctx, "key")
	require.NoError(t, err)
	assert.Equal(t, "first", value)

	writeSecret(t, dir, "key", "second", 0600)

	select {
	case name := <-changed:
		assert.Equal(t, "key", name)
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}

	assert.Eventually(t, func() bool {
		v, err := p.GetSecret(ctx, "key")
		return err == nil && v == "second"
	}, 2*time.Second, 10*time.Millisecond)
}

func TestFileProvider_CloseIdempotent(t *testing.T) {
	p, err := NewFileProvider(t.TempDir(), true)
	require.NoError(t, err)

	assert.NoError(t, p.Close())
	assert.NoError(t, p.Close())
}
