package imagestore

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Local {
	store, err := NewLocal(filepath.Join(t.TempDir(), "images"), "/images/")
	require.NoError(t, err)
	return store
}

func TestLocal_UploadAndRelease(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	url, err := store.Upload(ctx, "cover.PNG", []byte("png-bytes"))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/images/"))
	assert.True(t, strings.HasSuffix(url, ".png"))

	stored := filepath.Join(store.Dir(), strings.TrimPrefix(url, "/images/"))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, []byte("png-bytes"), data)

	require.NoError(t, store.Release(ctx, url))
	_, err = os.Stat(stored)
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, store.Release(ctx, url), "повторное освобождение не ошибка")
}

func TestLocal_UploadUniqueNames(t *testing.T) {
	store := newTestStore(t)

	first, err := store.Upload(context.Background(), "a.jpg", []byte("1"))
	require.NoError(t, err)
	second, err := store.Upload(context.Background(), "a.jpg", []byte("2"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocal_UploadRejectsEmpty(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Upload(context.Background(), "a.jpg", nil)
	assert.Error(t, err)
}

func TestLocal_UnknownExtension(t *testing.T) {
	store := newTestStore(t)

	url, err := store.Upload(context.Background(), "script.sh", []byte("x"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".bin"))
}

func TestLocal_ExtensionFromContent(t *testing.T) {
	store := newTestStore(t)
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	url, err := store.Upload(context.Background(), "upload.bin", png)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(url, ".png"))
}

func TestLocal_ReleaseForeignURL(t *testing.T) {
	store := newTestStore(t)

	tests := []string{
		"https://cdn.example.com/a.png",
		"/images/",
		"/images/../secret.txt",
		"/images/nested/a.png",
		"/images/..",
		"/images/.",
	}
	for _, url := range tests {
		t.Run(url, func(t *testing.T) {
			assert.ErrorIs(t, store.Release(context.Background(), url), ErrForeignURL)
		})
	}
}

func TestLocal_CanceledContext(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Upload(ctx, "a.png", []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.ErrorIs(t, store.Release(ctx, "/images/a.png"), context.Canceled)
}
