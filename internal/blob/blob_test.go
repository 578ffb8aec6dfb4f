package blob

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)
	return map[string]Store{
		"memory": NewMemory(),
		"fs":     fs,
	}
}

func TestPutGetOverwrite(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := "RoutePhotos/Jupiter Bowl.jpeg"
			require.NoError(t, s.Put(ctx, key, []byte("first"), "image/jpeg"))

			got, err := s.Get(ctx, key, 1<<20)
			require.NoError(t, err)
			assert.Equal(t, []byte("first"), got)

			// Same key overwrites silently; titles are not unique.
			require.NoError(t, s.Put(ctx, key, []byte("second"), "image/jpeg"))
			got, err = s.Get(ctx, key, 1<<20)
			require.NoError(t, err)
			assert.Equal(t, []byte("second"), got)
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(ctx, "RoutePhotos/Nope.jpeg", 1<<20)
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestGetByteLimit(t *testing.T) {
	ctx := context.Background()
	for name, s := range stores(t) {
		t.Run(name, func(t *testing.T) {
			key := "RoutePhotos/Big.jpeg"
			require.NoError(t, s.Put(ctx, key, make([]byte, 64), ""))

			_, err := s.Get(ctx, key, 16)
			assert.ErrorIs(t, err, ErrTooLarge)

			got, err := s.Get(ctx, key, 64)
			require.NoError(t, err)
			assert.Len(t, got, 64)
		})
	}
}

func TestFilesystemRejectsTraversal(t *testing.T) {
	fs, err := NewFilesystem(filepath.Join(t.TempDir(), "blobs"))
	require.NoError(t, err)

	for _, key := range []string{"", "  ", "../escape", "/abs", "a/../../b"} {
		assert.Error(t, fs.Put(context.Background(), key, []byte("x"), ""), "key %q", key)
	}
}
