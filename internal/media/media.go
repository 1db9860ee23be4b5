package media

import (
	"context"
	"fmt"
	"mime/multipart"
)

// Media stores uploaded catalog images and returns a reference the frontend
// can render: a /uploads/ path in local mode, a public object URL in remote
// mode.
type Media interface {
	Save(ctx context.Context, file *multipart.FileHeader) (string, error)
	Delete(ctx context.Context, ref string) error
}

var imageExt = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/webp": ".webp",
	"image/gif":  ".gif",
}

func extForType(file *multipart.FileHeader) (string, error) {
	contentType := file.Header.Get("Content-Type")
	ext, ok := imageExt[contentType]
	if !ok {
		return "", fmt.Errorf("unsupported image type %q", contentType)
	}
	return ext, nil
}
