package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

const uploadPrefix = "/uploads/"

// LocalMedia writes images into a public uploads directory.
type LocalMedia struct {
	Dir string
}

func NewLocalMedia(dir string) (*LocalMedia, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir %s: %w", dir, err)
	}
	return &LocalMedia{Dir: dir}, nil
}

func (m *LocalMedia) Save(_ context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := extForType(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	name := uuid.New().String() + ext
	dstPath := filepath.Join(m.Dir, name)

	dst, err := os.Create(dstPath)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", dstPath, err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		_ = os.Remove(dstPath)
		return "", fmt.Errorf("save file content: %w", err)
	}

	return uploadPrefix + name, nil
}

// Delete removes a previously saved upload. Refs that do not point into the
// uploads path (external URLs, empty strings) are left alone, and a file that
// is already gone counts as deleted.
func (m *LocalMedia) Delete(_ context.Context, ref string) error {
	if !strings.HasPrefix(ref, uploadPrefix) {
		return nil
	}
	path := filepath.Join(m.Dir, filepath.Base(ref))
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("delete %s: %w", path, err)
	}
	return nil
}
