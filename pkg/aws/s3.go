package aws

import (
	"bytes"
	"context"
	"fmt"
	"mime"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Scheme prefixes report destinations that are uploaded to S3
const S3Scheme = "s3://"

// S3PutObjectAPI is the part of the S3 client the uploader needs
type S3PutObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Uploader writes reports to S3
type S3Uploader struct {
	client S3PutObjectAPI
}

// NewS3Uploader creates an S3Uploader using the default credential chain
func NewS3Uploader(ctx context.Context, region string) (*S3Uploader, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithRetryMode(aws.RetryModeStandard),
	)
	if err != nil {
		return nil, fmt.Errorf("error loading AWS config: %w", err)
	}

	return NewS3UploaderFromAPI(s3.NewFromConfig(cfg)), nil
}

// NewS3UploaderFromAPI wraps an existing S3 client
func NewS3UploaderFromAPI(client S3PutObjectAPI) *S3Uploader {
	return &S3Uploader{client: client}
}

// IsS3URI reports whether dest is an s3:// destination
func IsS3URI(dest string) bool {
	return strings.HasPrefix(dest, S3Scheme)
}

// ParseS3URI splits s3://bucket/key into bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %s", uri)
	}

	bucket, key, _ = strings.Cut(strings.TrimPrefix(uri, S3Scheme), "/")
	if bucket == "" {
		return "", "", fmt.Errorf("missing bucket in %s", uri)
	}
	if key == "" || strings.HasSuffix(key, "/") {
		return "", "", fmt.Errorf("missing object key in %s", uri)
	}
	return bucket, key, nil
}

// Upload puts body at the s3://bucket/key destination
func (u *S3Uploader) Upload(ctx context.Context, uri string, body []byte) error {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(body),
	}
	if contentType := mime.TypeByExtension(path.Ext(key)); contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	if _, err := u.client.PutObject(ctx, input); err != nil {
		return fmt.Errorf("error uploading report to %s: %w", uri, err)
	}
	return nil
}
