package imageprocessing

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"lexio/config"
	"lexio/pkg/logger"
	s3client "lexio/pkg/s3"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

var ErrTempNotFound = errors.New("temp file not found")

var extByMIME = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/bmp":  ".bmp",
	"image/tiff": ".tiff",
	"image/webp": ".webp",
}

var mimeByExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".webp": "image/webp",
}

// AllowedType reports whether the content type is an accepted image format.
func AllowedType(mimeType string) bool {
	_, ok := extByMIME[mimeType]
	return ok
}

func tempDir() string {
	if d := config.Cfg.Image.TempDir; d != "" {
		return d
	}
	return filepath.Join("uploads", "temp")
}

// saveTemp writes the upload to the temp dir under a fresh uuid handle.
func saveTemp(data []byte, mimeType string) (string, error) {
	dir := tempDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create temp dir: %w", err)
	}
	ext := extByMIME[mimeType]
	if ext == "" {
		ext = ".jpg"
	}
	fileID := uuid.NewString()
	path := filepath.Join(dir, fileID+ext)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write temp file: %w", err)
	}
	return fileID, nil
}

// findTemp locates the stored file for a handle, whatever its extension.
func findTemp(fileID string) (string, error) {
	matches, err := filepath.Glob(filepath.Join(tempDir(), fileID+".*"))
	if err != nil {
		return "", err
	}
	if len(matches) == 0 {
		return "", ErrTempNotFound
	}
	return matches[0], nil
}

// loadTemp reads a stored upload back, returning its bytes and MIME type.
func loadTemp(fileID string) ([]byte, string, error) {
	path, err := findTemp(fileID)
	if err != nil {
		return nil, "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", ErrTempNotFound
		}
		return nil, "", err
	}
	mimeType := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	return data, mimeType, nil
}

// deleteTemp removes a stored upload. Deleting an already-gone handle is
// not an error.
func deleteTemp(fileID string) error {
	path, err := findTemp(fileID)
	if err != nil {
		if errors.Is(err, ErrTempNotFound) {
			return nil
		}
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// sweepTemp removes temp files older than maxAge and returns how many went.
func sweepTemp(maxAge time.Duration) (int, error) {
	entries, err := os.ReadDir(tempDir())
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, err
	}
	cutoff := time.Now().Add(-maxAge)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(tempDir(), entry.Name())); err == nil {
			removed++
		}
	}
	return removed, nil
}

// archiveToS3 copies a saved image into the configured bucket so the source
// material survives the temp sweep. Skipped when no bucket is configured.
func archiveToS3(ctx context.Context, fileID string) error {
	bucket := strings.TrimSpace(config.Cfg.S3.Bucket)
	if bucket == "" {
		return nil
	}
	path, err := findTemp(fileID)
	if err != nil {
		return err
	}

	client, err := s3client.GetClient()
	if err != nil {
		return fmt.Errorf("s3 client: %w", err)
	}
	if _, err := client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		_, crtErr := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
		if crtErr != nil {
			var bErr *s3types.BucketAlreadyOwnedByYou
			if !errors.As(crtErr, &bErr) {
				return fmt.Errorf("create bucket: %w", crtErr)
			}
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	key := "images/" + filepath.Base(path)
	mimeType := mimeByExt[strings.ToLower(filepath.Ext(path))]
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(mimeType),
	})
	if err != nil {
		return fmt.Errorf("put object: %w", err)
	}
	logger.Info("%v: archived %s to s3://%s/%s", config.ModuleS3, fileID, bucket, key)
	return nil
}
