package storage

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*AssetStore, string) {
	t.Helper()
	root := t.TempDir()
	store, err := NewAssetStore(root, "https://cdn.example.com/")
	require.NoError(t, err)
	return store, root
}

func TestNewAssetStore_CreatesItemsDir(t *testing.T) {
	store, root := newStore(t)

	fi, err := os.Stat(filepath.Join(root, "items"))
	require.NoError(t, err)
	require.True(t, fi.IsDir())
	require.Equal(t, root, store.Root())
}

func TestStore(t *testing.T) {
	store, root := newStore(t)

	img, err := store.Store(context.Background(), strings.NewReader("png-bytes"), "image/png", "Front Bumper.PNG")
	require.NoError(t, err)

	require.True(t, strings.HasSuffix(img.Filename, ".PNG"))
	require.Equal(t, "https://cdn.example.com/library/items/"+img.Filename, img.URL)

	content, err := os.ReadFile(filepath.Join(root, "items", img.Filename))
	require.NoError(t, err)
	require.Equal(t, "png-bytes", string(content))
}

func TestStore_RejectsNonImage(t *testing.T) {
	store, root := newStore(t)

	for _, ct := range []string{"application/pdf", "text/plain", ""} {
		_, err := store.Store(context.Background(), strings.NewReader("x"), ct, "a.png")
		require.ErrorIs(t, err, ErrNotImage, ct)
	}

	entries, err := os.ReadDir(filepath.Join(root, "items"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("client went away") }

func TestStore_RemovesPartialFileOnCopyError(t *testing.T) {
	store, root := newStore(t)

	_, err := store.Store(context.Background(), failingReader{}, "image/jpeg", "a.jpg")
	require.Error(t, err)

	entries, err := os.ReadDir(filepath.Join(root, "items"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestStore_ConcurrentUploadsNeverCollide(t *testing.T) {
	store, root := newStore(t)

	const n = 64
	names := make(chan string, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			img, err := store.Store(context.Background(), bytes.NewReader([]byte("x")), "image/webp", "same-name.webp")
			assert.NoError(t, err)
			names <- img.Filename
		}()
	}
	wg.Wait()
	close(names)

	seen := map[string]bool{}
	for name := range names {
		require.False(t, seen[name], "duplicate filename %s", name)
		seen[name] = true
	}
	entries, err := os.ReadDir(filepath.Join(root, "items"))
	require.NoError(t, err)
	require.Len(t, entries, n)
}

func TestRemove(t *testing.T) {
	store, root := newStore(t)

	img, err := store.Store(context.Background(), strings.NewReader("x"), "image/gif", "a.gif")
	require.NoError(t, err)

	removed, err := store.Remove(img.Filename)
	require.NoError(t, err)
	require.True(t, removed)

	_, err = os.Stat(filepath.Join(root, "items", img.Filename))
	require.True(t, os.IsNotExist(err))

	removed, err = store.Remove(img.Filename)
	require.NoError(t, err)
	require.False(t, removed)
}

func TestRemove_RejectsTraversal(t *testing.T) {
	store, root := newStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(root, "secret.txt"), []byte("x"), 0o600))

	for _, name := range []string{"", "..", "../secret.txt", "sub/file.png", `..\secret.txt`} {
		_, err := store.Remove(name)
		require.ErrorIs(t, err, ErrInvalidFilename, name)
	}
	_, err := os.Stat(filepath.Join(root, "secret.txt"))
	require.NoError(t, err)
}

func TestFilenameFromURL(t *testing.T) {
	cases := []struct{ url, want string }{
		{"http://localhost:8000/library/items/abc.png", "abc.png"},
		{"https://cdn.example.com/x/library/items/d-e-f.jpeg", "d-e-f.jpeg"},
		{"plain.png", "plain.png"},
		{"http://localhost:8000/library/items/", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FilenameFromURL(tc.url), tc.url)
	}
}
