// Package s3store implements the Storage port against any S3-compatible
// endpoint via aws-sdk-go-v2 (narrowed to
// PutObject/GetObject/DeleteObject,
// the three verbs this port exposes).
package s3store

import (
	"context"
	"errors"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/antbox/antbox/internal/result"
	"github.com/antbox/antbox/internal/storage"
)

// Client is the subset of the AWS SDK S3 client this package needs,
// kept narrow for dependency injection and testability.
type Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// Store is an S3-backed Storage.
type Store struct {
	client   Client
	uploader *manager.Uploader
	bucket   string
}

// New wraps an already-configured S3 client and bucket.
func New(client Client, bucket string) *Store {
	var uploader *manager.Uploader
	if c, ok := client.(manager.UploadAPIClient); ok {
		uploader = manager.NewUploader(c)
	}
	return &Store{client: client, uploader: uploader, bucket: bucket}
}

var _ storage.Storage = (*Store)(nil)

func (s *Store) Write(ctx context.Context, uuid string, file io.Reader, opts storage.WriteOpts) *result.Error {
	key := objectKey(uuid, opts)
	if s.uploader != nil {
		if _, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
			Bucket: aws.String(s.bucket), Key: aws.String(key), Body: file,
		}); err != nil {
			return result.Wrap(result.CodeUnknownError, "s3 upload failed", err)
		}
		return nil
	}
	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket), Key: aws.String(key), Body: file,
	}); err != nil {
		return result.Wrap(result.CodeUnknownError, "s3 put failed", err)
	}
	return nil
}

func (s *Store) Read(ctx context.Context, uuid string) (io.ReadCloser, *result.Error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket), Key: aws.String(uuid),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, result.FileNotFound("blob not found: " + uuid)
		}
		return nil, result.Wrap(result.CodeUnknownError, "s3 get failed", err)
	}
	return out.Body, nil
}

func (s *Store) Delete(ctx context.Context, uuid string) *result.Error {
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket), Key: aws.String(uuid),
	}); err != nil {
		return result.Wrap(result.CodeUnknownError, "s3 delete failed", err)
	}
	return nil
}

// objectKey uses opts.parent/opts.title as a human-readable prefix when
// present; the uuid remains the authoritative suffix so lookups by
// Read/Delete never depend on the hint having been supplied consistently.
func objectKey(uuid string, opts storage.WriteOpts) string {
	if opts.Parent == "" {
		return uuid
	}
	return opts.Parent + "/" + uuid
}
