package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const (
	// URLPrefix is where the asset root is mounted for static serving.
	URLPrefix = "/library"
	itemsDir  = "items"
	// itemsMarker separates the base URL from the stored filename in image URLs.
	itemsMarker = URLPrefix + "/" + itemsDir + "/"
)

var (
	ErrNotImage        = errors.New("file must be an image")
	ErrInvalidFilename = errors.New("invalid image filename")
)

// StoredImage describes a file written by Store.
type StoredImage struct {
	Filename string
	URL      string
}

// AssetStore keeps product images under {root}/items.
type AssetStore struct {
	root    string
	baseURL string
}

// NewAssetStore creates the items directory if needed.
func NewAssetStore(root, publicBaseURL string) (*AssetStore, error) {
	dir := filepath.Join(root, itemsDir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return &AssetStore{root: root, baseURL: strings.TrimRight(publicBaseURL, "/")}, nil
}

// Root is the directory served under URLPrefix.
func (s *AssetStore) Root() string {
	return s.root
}

// Store writes r under a fresh name. The original filename only contributes
// its extension, kept as given. An existing file is never overwritten.
func (s *AssetStore) Store(ctx context.Context, r io.Reader, contentType, originalName string) (StoredImage, error) {
	if !strings.HasPrefix(strings.ToLower(contentType), "image/") {
		return StoredImage{}, ErrNotImage
	}
	if err := ctx.Err(); err != nil {
		return StoredImage{}, err
	}

	filename := uuid.NewString() + filepath.Ext(filepath.Base(originalName))
	path := s.pathFor(filename)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return StoredImage{}, fmt.Errorf("create %s: %w", filename, err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return StoredImage{}, fmt.Errorf("write %s: %w", filename, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return StoredImage{}, fmt.Errorf("close %s: %w", filename, err)
	}

	return StoredImage{Filename: filename, URL: s.URLFor(filename)}, nil
}

// Remove deletes filename. It reports false, with no error, when the file
// does not exist.
func (s *AssetStore) Remove(filename string) (bool, error) {
	if !validFilename(filename) {
		return false, ErrInvalidFilename
	}
	err := os.Remove(s.pathFor(filename))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	default:
		return false, err
	}
}

// URLFor builds the public URL of a stored file.
func (s *AssetStore) URLFor(filename string) string {
	return s.baseURL + itemsMarker + filename
}

func (s *AssetStore) pathFor(filename string) string {
	return filepath.Join(s.root, itemsDir, filename)
}

// FilenameFromURL returns the part of imageURL after the items marker, or the
// whole string when the marker is absent.
func FilenameFromURL(imageURL string) string {
	if i := strings.LastIndex(imageURL, itemsMarker); i >= 0 {
		return imageURL[i+len(itemsMarker):]
	}
	return imageURL
}

func validFilename(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`) && !strings.Contains(name, "..")
}
