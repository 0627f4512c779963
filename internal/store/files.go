package store

import (
	"context"
	"fmt"
	"net/url"

	"github.com/Debanjan110d/DevQnA/internal/models"
)

const (
	bucketsWhat = "bucket"
	filesWhat   = "file"
)

// CreateBucket stores a bucket under its given ID; buckets have stable,
// human-chosen identifiers.
func (s *Store) CreateBucket(ctx context.Context, b *models.Bucket) error {
	if b.ID == "" {
		b.ID = newID()
	}
	return createDocument(ctx, s, bucketsWhat, b)
}

func (s *Store) GetBucket(ctx context.Context, id string) (*models.Bucket, error) {
	return getDocument[models.Bucket](ctx, s, bucketsWhat, id)
}

func (s *Store) CreateFile(ctx context.Context, f *models.File) error {
	if f.ID == "" {
		f.ID = newID()
	}
	return createDocument(ctx, s, filesWhat, f)
}

func (s *Store) GetFile(ctx context.Context, bucketID, fileID string) (*models.File, error) {
	f, err := getDocument[models.File](ctx, s, filesWhat, fileID)
	if err != nil {
		return nil, err
	}
	if f.BucketID != bucketID {
		return nil, NotFound(filesWhat)
	}
	return f, nil
}

// FileURL is the public view URL of a stored file.
func (s *Store) FileURL(bucketID, fileID string) string {
	return fmt.Sprintf("%s/api/storage/buckets/%s/files/%s/view",
		s.publicEndpoint, url.PathEscape(bucketID), url.PathEscape(fileID))
}
