// Package gcsio reads and writes statement documents in Google Cloud
// Storage. It assumes Application Default Credentials are configured
// (gcloud auth application-default login).
package gcsio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
)

// IsURI reports whether the source names a GCS object.
func IsURI(source string) bool {
	return strings.HasPrefix(source, "gs://")
}

// Fetch downloads the document bytes from the given gs:// URI.
func Fetch(ctx context.Context, uri string) ([]byte, error) {
	bucket, object, err := splitURI(uri)
	if err != nil {
		return nil, err
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsio: create storage client: %w", err)
	}
	defer client.Close()

	rc, err := client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return nil, fmt.Errorf("gcsio: read object %s/%s: %w", bucket, object, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("gcsio: read bytes: %w", err)
	}
	return data, nil
}

// Upload copies a local statement file into a bucket under the given object
// name, for the worker inbox.
func Upload(ctx context.Context, bucket, object, filePath string) error {
	f, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("gcsio: open file %q: %w", filePath, err)
	}
	defer f.Close()

	client, err := storage.NewClient(ctx)
	if err != nil {
		return fmt.Errorf("gcsio: create storage client: %w", err)
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := client.Bucket(bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("gcsio: copy file to writer: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("gcsio: finalize upload: %w", err)
	}
	return nil
}

// Filename extracts the object's base name from a gs:// URI,
// e.g. "gs://bucket/folder/file.pdf" becomes "file.pdf".
func Filename(uri string) string {
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) < 2 {
		return trimmed
	}
	return path.Base(parts[1])
}

func splitURI(uri string) (bucket, object string, err error) {
	if !IsURI(uri) {
		return "", "", fmt.Errorf("gcsio: invalid GCS URI: %s", uri)
	}
	trimmed := strings.TrimPrefix(uri, "gs://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[1] == "" {
		return "", "", fmt.Errorf("gcsio: invalid GCS URI (no object path): %s", uri)
	}
	return parts[0], parts[1], nil
}
