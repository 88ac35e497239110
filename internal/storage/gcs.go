package storage

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
)

// GCSArchive mirrors finished event directories to a GCS bucket so local
// cleanup cannot lose generated content.
type GCSArchive struct {
	client *storage.Client
	bucket string
	prefix string
}

func NewGCSArchive(ctx context.Context, bucket, prefix string) (*GCSArchive, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create GCS client: %w", err)
	}

	return &GCSArchive{
		client: client,
		bucket: bucket,
		prefix: prefix,
	}, nil
}

func (a *GCSArchive) Close() error {
	return a.client.Close()
}

// ArchiveEvent uploads every file in the event directory, preserving the
// <date>/<id>/... layout under the configured prefix.
func (a *GCSArchive) ArchiveEvent(ctx context.Context, local *Local, date string, id uuid.UUID) error {
	dir := local.Abs(local.EventDir(date, id))

	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(dir, p)
		if err != nil {
			return fmt.Errorf("relativize %s: %w", p, err)
		}

		object := path.Join(a.prefix, date, id.String(), filepath.ToSlash(rel))
		if err := a.uploadFile(ctx, p, object); err != nil {
			return fmt.Errorf("upload %s: %w", rel, err)
		}
		return nil
	})
}

// ListArchived returns the object names stored for a date.
func (a *GCSArchive) ListArchived(ctx context.Context, date string) ([]string, error) {
	bkt := a.client.Bucket(a.bucket)
	query := &storage.Query{Prefix: path.Join(a.prefix, date) + "/"}

	var objects []string
	it := bkt.Objects(ctx, query)
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("list objects: %w", err)
		}
		objects = append(objects, attrs.Name)
	}

	return objects, nil
}

func (a *GCSArchive) uploadFile(ctx context.Context, localPath, object string) error {
	f, err := os.Open(localPath)
	if err != nil {
		return fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	w := a.client.Bucket(a.bucket).Object(object).NewWriter(ctx)
	if _, err := io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("copy to bucket: %w", err)
	}

	return w.Close()
}
