package media

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BucketMedia uploads images into an object-storage bucket over its REST API
// and serves them back by public URL.
type BucketMedia struct {
	baseURL    string
	bucket     string
	key        string
	httpClient *http.Client
}

func NewBucketMedia(storageURL, bucket, key string) *BucketMedia {
	return &BucketMedia{
		baseURL: strings.TrimRight(storageURL, "/"),
		bucket:  bucket,
		key:     key,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
	}
}

func (m *BucketMedia) Save(ctx context.Context, file *multipart.FileHeader) (string, error) {
	ext, err := extForType(file)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("open uploaded file: %w", err)
	}
	defer src.Close()

	objectPath := "products/" + uuid.New().String() + ext

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		m.baseURL+"/object/"+m.bucket+"/"+objectPath,
		src,
	)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.key)
	req.Header.Set("Content-Type", file.Header.Get("Content-Type"))
	req.ContentLength = file.Size

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("upload object: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("upload object: status %d: %s", resp.StatusCode, body)
	}

	return m.PublicURL(objectPath), nil
}

func (m *BucketMedia) Delete(ctx context.Context, ref string) error {
	objectPath, ok := m.objectPath(ref)
	if !ok {
		return nil
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodDelete,
		m.baseURL+"/object/"+m.bucket+"/"+objectPath,
		nil,
	)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+m.key)

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("delete object: %w", err)
	}
	defer resp.Body.Close()

	if (resp.StatusCode < 200 || resp.StatusCode > 299) && resp.StatusCode != http.StatusNotFound {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("delete object: status %d: %s", resp.StatusCode, body)
	}
	return nil
}

func (m *BucketMedia) PublicURL(objectPath string) string {
	return m.baseURL + "/object/public/" + m.bucket + "/" + objectPath
}

// objectPath recovers the bucket-relative path from a public URL previously
// returned by Save. Refs from somewhere else are ignored.
func (m *BucketMedia) objectPath(ref string) (string, bool) {
	prefix := m.baseURL + "/object/public/" + m.bucket + "/"
	if !strings.HasPrefix(ref, prefix) {
		return "", false
	}
	return strings.TrimPrefix(ref, prefix), true
}
