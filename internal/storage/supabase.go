package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	storage "github.com/supabase-community/storage-go"
)

// SupabaseStorage stores image blobs in a Supabase bucket and downloads
// provider-hosted blobs over plain HTTP.
type SupabaseStorage struct {
	client     *storage.Client
	bucket     string
	baseURL    string
	httpClient *http.Client
}

func NewSupabaseStorage(supabaseURL, serviceKey, bucket string) (*SupabaseStorage, error) {
	baseURL := strings.TrimSuffix(supabaseURL, "/")
	client := storage.NewClient(baseURL+"/storage/v1", serviceKey, nil)

	return &SupabaseStorage{
		client:  client,
		bucket:  bucket,
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}, nil
}

// Upload writes data into the bucket under a unique object name and returns
// its public URL.
func (s *SupabaseStorage) Upload(ctx context.Context, data []byte, name, contentType string) (string, error) {
	objectPath := fmt.Sprintf("%s_%s", uuid.New(), name)

	upsert := true
	_, err := s.client.UploadFile(s.bucket, objectPath, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload file: %w", err)
	}

	publicURL := fmt.Sprintf("%s/storage/v1/object/public/%s/%s", s.baseURL, s.bucket, objectPath)
	return publicURL, nil
}

// Download fetches a blob from an arbitrary URL, typically the provider's
// enhanced-image location.
func (s *SupabaseStorage) Download(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to download file: status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return data, nil
}

// Delete removes the object behind a public URL from the bucket. Returns
// false without error when the URL does not belong to this bucket.
func (s *SupabaseStorage) Delete(ctx context.Context, url string) (bool, error) {
	// URL format: {base}/storage/v1/object/public/{bucket}/{object-path}
	parts := strings.SplitN(url, "/"+s.bucket+"/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return false, nil
	}

	if _, err := s.client.RemoveFile(s.bucket, []string{parts[1]}); err != nil {
		return false, fmt.Errorf("failed to delete file: %w", err)
	}

	return true, nil
}
