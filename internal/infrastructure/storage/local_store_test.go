package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/lats/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStore_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "backup-a.json", strings.NewReader(`{"tables":{}}`), -1))

	rc, size, err := store.Get(ctx, "backup-a.json")
	require.NoError(t, err)
	data, err := io.ReadAll(rc)
	require.NoError(t, rc.Close())
	require.NoError(t, err)
	assert.Equal(t, `{"tables":{}}`, string(data))
	assert.Equal(t, int64(len(data)), size)

	// no temp files left behind
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	require.NoError(t, store.Delete(ctx, "backup-a.json"))
	require.NoError(t, store.Delete(ctx, "backup-a.json"), "deleting twice is fine")

	_, _, err = store.Get(ctx, "backup-a.json")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestLocalStore_RejectsEscapingKeys(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "/abs.json"} {
		err := store.Put(context.Background(), key, strings.NewReader("x"), 1)
		assert.Error(t, err, key)
	}
}

func TestLocalStore_PutHonoursContext(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStore(dir)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = store.Put(ctx, "late.json", strings.NewReader("{}"), 2)
	require.ErrorIs(t, err, context.Canceled)

	_, statErr := os.Stat(filepath.Join(dir, "late.json"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestLocalStore_Ping(t *testing.T) {
	store, err := NewLocalStore(filepath.Join(t.TempDir(), "nested", "backups"))
	require.NoError(t, err)
	assert.NoError(t, store.Ping(context.Background()))
	assert.Equal(t, "local", store.Name())
}
