package mediastore

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/idprov/internal/common"
	"github.com/google/uuid"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// seams for testing the AWS SDK calls
var (
	loadDefaultAWSConfig = awsconfig.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	putObject = func(c *s3.Client, ctx context.Context, in *s3.PutObjectInput) (*s3.PutObjectOutput, error) {
		return c.PutObject(ctx, in)
	}
	deleteObject = func(c *s3.Client, ctx context.Context, in *s3.DeleteObjectInput) (*s3.DeleteObjectOutput, error) {
		return c.DeleteObject(ctx, in)
	}
)

// S3Config holds the settings of the S3-compatible backend.
type S3Config struct {
	RootUser     string
	RootPassword string
	Bucket       string
	Region       string
	BaseEndpoint string
	// Timeout bounds every remote call.
	Timeout time.Duration
}

// S3Store stores media in an S3-compatible object store (MinIO in
// development). The object key doubles as the public identifier.
type S3Store struct {
	config S3Config
}

func NewS3Store(cfg S3Config) *S3Store {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	return &S3Store{config: cfg}
}

// randomStorageKey produces a date-partitioned object key.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("media/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

func (s *S3Store) getClient(ctx context.Context) (*s3.Client, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		awsconfig.WithRegion(s.config.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.RootUser,     // MINIO_ROOT_USER
			s.config.RootPassword, // MINIO_ROOT_PASSWORD
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.BaseEndpoint)
		o.UsePathStyle = true
	})

	return client, nil
}

func (s *S3Store) objectURL(key string) string {
	base := strings.TrimSuffix(s.config.BaseEndpoint, "/")
	u, err := url.JoinPath(base, s.config.Bucket, key)
	if err != nil {
		return base + "/" + s.config.Bucket + "/" + key
	}
	return u
}

func (s *S3Store) Upload(ctx context.Context, data []byte, contentType string) (*UploadResult, error) {

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	client, err := s.getClient(ctx)
	if err != nil {
		return nil, err
	}

	bucket := s.config.Bucket
	key := randomStorageKey()

	input := &s3.PutObjectInput{
		Bucket: &bucket,
		Key:    &key,
		Body:   bytes.NewReader(data),
	}
	if contentType != "" {
		input.ContentType = &contentType
	}

	if _, err := putObject(client, ctx, input); err != nil {
		return nil, err
	}

	return &UploadResult{URL: s.objectURL(key), PublicID: key}, nil
}

func (s *S3Store) Delete(ctx context.Context, publicID string) error {

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	client, err := s.getClient(ctx)
	if err != nil {
		return err
	}

	bucket := s.config.Bucket

	if _, err := deleteObject(client, ctx, &s3.DeleteObjectInput{
		Bucket: &bucket,
		Key:    &publicID,
	}); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorRemoteDeleteFailed, err)
	}

	return nil
}
