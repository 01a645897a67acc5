package blob

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/BruksfildServices01/mediplus/internal/config"
)

// S3Store keeps blobs in a bucket. URLs point at the API's file route so
// the bucket itself can stay private.
type S3Store struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

func NewS3Store(cfg config.StorageConfig) *S3Store {
	opts := s3.Options{
		Region:                     cfg.S3Region,
		UsePathStyle:               cfg.S3PathStyle,
		RequestChecksumCalculation: aws.RequestChecksumCalculationWhenRequired,
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = aws.NewCredentialsCache(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		)
	}
	if cfg.S3Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.S3Endpoint)
	}

	return &S3Store{
		client:  s3.New(opts),
		bucket:  cfg.S3Bucket,
		baseURL: cfg.PublicBaseURL,
	}
}

func (s *S3Store) Upload(ctx context.Context, name, contentType string, r io.Reader) (Object, error) {
	id := NewID(name)
	if contentType == "" {
		contentType = contentTypeFor(id)
	}

	// PutObject needs a seekable body to sign; uploads are size-capped upstream.
	body, err := io.ReadAll(r)
	if err != nil {
		return Object{}, fmt.Errorf("reading upload: %w", err)
	}

	if _, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(id),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	}); err != nil {
		return Object{}, fmt.Errorf("put %s: %w", id, err)
	}

	return Object{ID: id, URL: s.URL(id)}, nil
}

func (s *S3Store) Open(ctx context.Context, id string) (io.ReadCloser, string, error) {
	if err := validateID(id); err != nil {
		return nil, "", err
	}

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	})
	if err != nil {
		var nsk *types.NoSuchKey
		if errors.As(err, &nsk) {
			return nil, "", ErrNotFound
		}
		return nil, "", fmt.Errorf("get %s: %w", id, err)
	}

	ct := aws.ToString(out.ContentType)
	if ct == "" {
		ct = contentTypeFor(id)
	}
	return out.Body, ct, nil
}

func (s *S3Store) Delete(ctx context.Context, id string) error {
	if err := validateID(id); err != nil {
		return err
	}

	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(id),
	}); err != nil {
		return fmt.Errorf("delete %s: %w", id, err)
	}
	return nil
}

func (s *S3Store) URL(id string) string {
	return publicURL(s.baseURL, id)
}

var _ Store = (*S3Store)(nil)
