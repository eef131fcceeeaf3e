package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"

	mconfig "github.com/imamik/muchos/internal/config"
)

// Client reads tarballs from one bucket under a key prefix.
type Client struct {
	s3     *s3.Client
	bucket string
	prefix string
}

// NewClient creates a client for the upload section of the configuration.
// Without static keys the default AWS credential chain is used.
func NewClient(ctx context.Context, upload mconfig.UploadConfig) (*Client, error) {
	if upload.Bucket == "" {
		return nil, fmt.Errorf("bucket cannot be empty")
	}

	opts := []func(*config.LoadOptions) error{}
	if upload.Region != "" {
		opts = append(opts, config.WithRegion(upload.Region))
	}
	if upload.AccessKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(upload.AccessKey, upload.SecretKey, "")))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if upload.Endpoint != "" {
			o.BaseEndpoint = aws.String(upload.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Client{s3: client, bucket: upload.Bucket, prefix: upload.Prefix}, nil
}

// ObjectExists checks if a tarball is present in the bucket.
func (c *Client) ObjectExists(ctx context.Context, name string) (bool, error) {
	key := c.prefix + name
	_, err := c.s3.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check object %s in bucket %s: %w", key, c.bucket, err)
	}
	return true, nil
}

// Fetch downloads tarball name into dir. It reports false, without error,
// when the bucket has no such object. A partially downloaded file is
// never left behind.
func (c *Client) Fetch(ctx context.Context, name, dir string) (bool, error) {
	key := c.prefix + name
	result, err := c.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFoundError(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get object %s from bucket %s: %w", key, c.bucket, err)
	}
	defer func() { _ = result.Body.Close() }()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("failed to create %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return false, fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := io.Copy(tmp, result.Body); err != nil {
		_ = tmp.Close()
		return false, fmt.Errorf("failed to read object body: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), filepath.Join(dir, name)); err != nil {
		return false, fmt.Errorf("failed to move %s into place: %w", name, err)
	}
	return true, nil
}

// isNotFoundError checks if the error is a not found error.
func isNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	// Check for typed S3 errors first
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}

	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}

	// Fall back to API error code checking for S3-compatible services
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		code := apiErr.ErrorCode()
		return code == "NotFound" || code == "NoSuchKey" || code == "404"
	}

	return false
}
