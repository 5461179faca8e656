package filex

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// MaxImageSize caps the files accepted for upload.
const MaxImageSize = 10 << 20

var (
	ErrNotImage      = errors.New("file is not an image")
	ErrImageTooLarge = errors.New("image is too large")
)

// EnsureParentDir creates the directory that will hold path. In-memory and
// URI-style SQLite names are left alone.
func EnsureParentDir(path string) error {
	if path == "" || path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}

	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("mkdir %s: %w", dir, err)
	}
	return nil
}

// ReadImage reads the file at path and checks, by sniffing its content, that
// it is an image of at most MaxImageSize bytes. It returns the content and
// the detected MIME type.
func ReadImage(path string) ([]byte, string, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return nil, "", err
	}
	if fi.IsDir() {
		return nil, "", fmt.Errorf("%s: %w", path, ErrNotImage)
	}
	if fi.Size() > MaxImageSize {
		return nil, "", fmt.Errorf("%s (%d bytes): %w", path, fi.Size(), ErrImageTooLarge)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}

	mime := http.DetectContentType(content)
	if !strings.HasPrefix(mime, "image/") {
		return nil, "", fmt.Errorf("%s (%s): %w", path, mime, ErrNotImage)
	}
	return content, mime, nil
}
