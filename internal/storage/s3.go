// Package storage implements the upload file store on S3-compatible object
// storage, with an in-memory variant for tests and local development.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	appconfig "github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/internal/store"
)

// S3FileStore stores uploads in an S3 bucket.
type S3FileStore struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

var _ store.FileStore = (*S3FileStore)(nil)

// NewS3FileStore creates an S3-backed file store. A configured endpoint with
// static keys targets S3-compatible providers; otherwise the default AWS
// credential chain is used.
func NewS3FileStore(ctx context.Context, cfg appconfig.UploadConfig) (*S3FileStore, error) {
	var client *s3.Client
	if cfg.EndpointURL != "" {
		client = s3.New(s3.Options{
			Region:       cfg.Region,
			BaseEndpoint: aws.String(cfg.EndpointURL),
			Credentials:  credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		})
	} else {
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
		if err != nil {
			return nil, fmt.Errorf("loading aws config: %w", err)
		}
		client = s3.NewFromConfig(awsCfg)
	}
	return &S3FileStore{
		client:        client,
		bucket:        cfg.Bucket,
		publicBaseURL: strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// validateKey rejects storage keys containing path traversal segments.
func validateKey(key string) error {
	for _, segment := range strings.Split(key, "/") {
		if segment == ".." {
			return fmt.Errorf("path traversal detected in storage key")
		}
	}
	return nil
}

// Put uploads a file and returns its public URL.
func (s *S3FileStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      &s.bucket,
		Key:         &key,
		Body:        bytes.NewReader(data),
		ContentType: &contentType,
	})
	if err != nil {
		return "", fmt.Errorf("s3 put object failed: %w", err)
	}
	return s.urlFor(key), nil
}

// Get downloads a stored file.
func (s *S3FileStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	if err := validateKey(key); err != nil {
		return nil, "", err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: &s.bucket,
		Key:    &key,
	})
	if err != nil {
		return nil, "", fmt.Errorf("s3 get object failed: %w", err)
	}
	defer func() { _ = out.Body.Close() }()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("reading s3 object body: %w", err)
	}
	contentType := ""
	if out.ContentType != nil {
		contentType = *out.ContentType
	}
	return data, contentType, nil
}

func (s *S3FileStore) urlFor(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}
