// Package filestore stores uploaded images in an S3-compatible
// object store and resolves stored keys to presigned URLs.
package filestore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

const (
	recipeCoverDir = "recipes/covers"
	profileDir     = "users/pictures"

	DefaultURLExpiry = 15 * time.Minute
)

type Store interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	ResolveURL(ctx context.Context, key string) (string, error)
}

type Config struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	URLExpiry time.Duration
}

type FileStore struct {
	client    *minio.Client
	bucket    string
	urlExpiry time.Duration
}

var _ Store = (*FileStore)(nil)

func New(conf Config) (*FileStore, error) {
	client, err := minio.New(conf.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.AccessKey, conf.SecretKey, ""),
		Secure: conf.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating object store client: %w", err)
	}

	expiry := conf.URLExpiry
	if expiry <= 0 {
		expiry = DefaultURLExpiry
	}
	return &FileStore{
		client:    client,
		bucket:    conf.Bucket,
		urlExpiry: expiry,
	}, nil
}

// EnsureBucket creates the bucket if it does not exist yet.
func (f *FileStore) EnsureBucket(ctx context.Context) error {
	exists, err := f.client.BucketExists(ctx, f.bucket)
	if err != nil {
		return fmt.Errorf("checking bucket %q: %w", f.bucket, err)
	}
	if exists {
		return nil
	}
	if err := f.client.MakeBucket(ctx, f.bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("creating bucket %q: %w", f.bucket, err)
	}
	return nil
}

func (f *FileStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := f.client.PutObject(ctx, f.bucket, key,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("uploading %q: %w", key, err)
	}
	return nil
}

// ResolveURL issues a presigned GET URL for the stored object.
func (f *FileStore) ResolveURL(ctx context.Context, key string) (string, error) {
	u, err := f.client.PresignedGetObject(ctx, f.bucket, key, f.urlExpiry, url.Values{})
	if err != nil {
		return "", fmt.Errorf("presigning %q: %w", key, err)
	}
	return u.String(), nil
}

// RecipeCoverKey is the object key for a recipe's cover image.
func RecipeCoverKey(recipeID int64, suffix string) string {
	return recipeCoverDir + "/" + strconv.FormatInt(recipeID, 10) + suffix
}

// ProfilePictureKey is the object key for a user's profile picture.
func ProfilePictureKey(userID int64, suffix string) string {
	return profileDir + "/" + strconv.FormatInt(userID, 10) + suffix
}
