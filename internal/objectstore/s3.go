package objectstore

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"booth-go/internal/booth"
	"booth-go/internal/config"
)

// S3ObjectStore stores photos in an S3-compatible bucket (Cloudflare R2 in production).
// Objects are written public-read and addressed path-style on the configured endpoint.
type S3ObjectStore struct {
	client        *s3.Client
	uploader      *manager.Uploader
	bucket        string
	endpoint      string
	publicBaseURL string
}

// NewS3ObjectStore creates an S3ObjectStore from configuration.
// Static credentials are used when both keys are set; otherwise the default
// AWS credential chain applies.
func NewS3ObjectStore(ctx context.Context, cfg config.ObjectStoreConfig) (*S3ObjectStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("s3 object store requires bucket to be set")
	}
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("s3 object store requires endpoint to be set")
	}

	region := cfg.Region
	if region == "" {
		region = "auto"
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})

	return &S3ObjectStore{
		client:        client,
		uploader:      manager.NewUploader(client),
		bucket:        cfg.Bucket,
		endpoint:      strings.TrimRight(cfg.Endpoint, "/"),
		publicBaseURL: strings.TrimRight(cfg.PublicBaseURL, "/"),
	}, nil
}

// Put streams r to the bucket under key with a public-read ACL.
func (s *S3ObjectStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          r,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("uploading %s to bucket %s: %w", key, s.bucket, err)
	}
	return nil
}

// PublicURL returns "{endpoint}/{bucket}/{key}", or "{public_base_url}/{key}"
// when a public base URL is configured.
func (s *S3ObjectStore) PublicURL(key string) string {
	return publicURL(s.endpoint, s.bucket, s.publicBaseURL, key)
}

// ValidateSetup checks that the bucket exists and the credentials can reach it.
func (s *S3ObjectStore) ValidateSetup(ctx context.Context) error {
	if _, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)}); err != nil {
		return fmt.Errorf("bucket %s not accessible: %w", s.bucket, err)
	}
	return nil
}

func publicURL(endpoint, bucket, publicBaseURL, key string) string {
	if publicBaseURL != "" {
		return publicBaseURL + "/" + key
	}
	return endpoint + "/" + bucket + "/" + key
}

// Compile-time check that S3ObjectStore implements booth.ObjectStore interface
var _ booth.ObjectStore = (*S3ObjectStore)(nil)
