package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutGet(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir)
	require.NoError(t, err)

	location, err := store.Put(context.Background(), "chat-1-abc.log", strings.NewReader("Query: x\n"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "chat-1-abc.log"), location)

	rc, err := store.Get(context.Background(), "chat-1-abc.log")
	require.NoError(t, err)
	defer rc.Close()

	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "Query: x\n", string(data))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "temp files must not be left behind")
}

func TestLocalStorage_Overwrite(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "k.log", strings.NewReader("first"))
	require.NoError(t, err)
	_, err = store.Put(context.Background(), "k.log", strings.NewReader("second"))
	require.NoError(t, err)

	rc, err := store.Get(context.Background(), "k.log")
	require.NoError(t, err)
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	assert.Equal(t, "second", string(data))
}

func TestLocalStorage_NotFound(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	_, err = store.Get(context.Background(), "missing.log")

	assert.ErrorIs(t, err, ErrNotFound)
}

func TestLocalStorage_CreatesBaseDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "logs")

	_, err := NewLocalStorage(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

func TestValidateKey(t *testing.T) {
	store, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"", "../etc/passwd", "a/b.log", `a\b.log`, ".."} {
		t.Run(key, func(t *testing.T) {
			_, err := store.Put(context.Background(), key, strings.NewReader("x"))
			assert.ErrorIs(t, err, ErrInvalidKey)

			_, err = store.Get(context.Background(), key)
			assert.ErrorIs(t, err, ErrInvalidKey)
		})
	}
}

func TestExchangeLogKey(t *testing.T) {
	id := uuid.MustParse("6ba7b810-9dad-11d1-80b4-00c04fd430c8")

	key := ExchangeLogKey(id, time.UnixMilli(1700000000123))

	assert.Equal(t, "chat-1700000000123-6ba7b810-9dad-11d1-80b4-00c04fd430c8.log", key)
	assert.NoError(t, validateKey(key))
}

func TestNewStorage(t *testing.T) {
	store, err := NewStorage(StorageConfig{LocalPath: t.TempDir()})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	_, err = NewStorage(StorageConfig{Type: StorageTypeS3})
	assert.Error(t, err)

	_, err = NewStorage(StorageConfig{Type: "ftp"})
	assert.Error(t, err)
}

func TestS3Storage_ObjectKey(t *testing.T) {
	s := &S3Storage{bucket: "b", prefix: "exchanges"}
	assert.Equal(t, "exchanges/chat-1.log", s.objectKey("chat-1.log"))

	s.prefix = ""
	assert.Equal(t, "chat-1.log", s.objectKey("chat-1.log"))
}
