package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/gcerrors"
)

// PhotoPrefix is the key prefix every stored profile photo lives under
const PhotoPrefix = "profile_photos/"

// ErrPhotoNotFound is returned when a key has no stored blob
var ErrPhotoNotFound = errors.New("photo not found")

// PhotoStore keeps profile photos in a blob bucket and resolves their public URLs
type PhotoStore struct {
	bucket  *blob.Bucket
	baseURL string
}

// NewPhotoStore wraps an already opened bucket
func NewPhotoStore(bucket *blob.Bucket, baseURL string) *PhotoStore {
	return &PhotoStore{bucket: bucket, baseURL: baseURL}
}

// OpenFileStore opens a directory-backed bucket, creating the directory if needed
func OpenFileStore(dir, baseURL string) (*PhotoStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "create media dir %s", dir)
	}

	bucket, err := fileblob.OpenBucket(dir, nil)
	if err != nil {
		return nil, errors.Wrapf(err, "open media bucket %s", dir)
	}

	return NewPhotoStore(bucket, baseURL), nil
}

// Save writes the photo under a freshly generated key and returns that key
func (s *PhotoStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	key := PhotoPrefix + uuid.New().String() + strings.ToLower(filepath.Ext(filename))

	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", errors.Wrap(err, "open photo writer")
	}

	if _, err := io.Copy(w, r); err != nil {
		w.Close()
		return "", errors.Wrap(err, "write photo")
	}

	if err := w.Close(); err != nil {
		return "", errors.Wrap(err, "close photo writer")
	}

	return key, nil
}

// Open returns a reader for the stored photo. Callers must close it.
func (s *PhotoStore) Open(ctx context.Context, key string) (*blob.Reader, error) {
	if !ValidKey(key) {
		return nil, ErrPhotoNotFound
	}

	r, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, ErrPhotoNotFound
		}
		return nil, errors.Wrapf(err, "open photo %s", key)
	}
	return r, nil
}

// Keys lists stored photo keys last modified before the cutoff
func (s *PhotoStore) Keys(ctx context.Context, modifiedBefore time.Time) ([]string, error) {
	iter := s.bucket.List(&blob.ListOptions{Prefix: PhotoPrefix})

	var keys []string
	for {
		obj, err := iter.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "list photos")
		}
		if obj.IsDir || !obj.ModTime.Before(modifiedBefore) {
			continue
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

// Delete removes a stored photo; a missing blob is not an error
func (s *PhotoStore) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}

	err := s.bucket.Delete(ctx, key)
	if err != nil && gcerrors.Code(err) != gcerrors.NotFound {
		return errors.Wrapf(err, "delete photo %s", key)
	}
	return nil
}

// URL resolves a stored key to its public URL, or nil when there is no photo
func (s *PhotoStore) URL(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	url := s.baseURL + *key
	return &url
}

// Close releases the underlying bucket
func (s *PhotoStore) Close() error {
	return s.bucket.Close()
}

// ValidKey reports whether key looks like a key produced by Save
func ValidKey(key string) bool {
	return strings.HasPrefix(key, PhotoPrefix) && !strings.Contains(key, "..")
}
