// Package storage stores uploaded resumes in an S3 compatible object
// store and hands back time limited retrieval URLs.
package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// RetrievalTTL is how long a stored resume's presigned URL stays valid
const RetrievalTTL = 7 * 24 * time.Hour

// Config carries the object store credentials, initialized once at
// startup alongside the rest of the process configuration.
type Config struct {
	Region       string
	Bucket       string
	AccessKey    string
	SecretKey    string
	BaseEndpoint string
}

// ObjectPutter is the slice of the S3 client the store writes through
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// ObjectPresigner mints presigned GET URLs for stored objects
type ObjectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Store stores blobs in a bucket and returns presigned GET URLs valid
// for RetrievalTTL.
type S3Store struct {
	cfg       *Config
	client    ObjectPutter
	presigner ObjectPresigner
}

// New builds an S3Store from static credentials. BaseEndpoint is
// optional and makes the store work against MinIO style deployments.
func New(ctx context.Context, cfg *Config) (*S3Store, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.AccessKey,
			cfg.SecretKey,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.BaseEndpoint)
		}
	})

	return &S3Store{
		cfg:       cfg,
		client:    client,
		presigner: s3.NewPresignClient(client),
	}, nil
}

// NewWithClients wires explicit client implementations, used by tests
func NewWithClients(cfg *Config, client ObjectPutter, presigner ObjectPresigner) *S3Store {
	return &S3Store{
		cfg:       cfg,
		client:    client,
		presigner: presigner,
	}
}

// randomStorageKey namespaces uploads by date and prefixes the original
// filename with a random component so collisions cannot clobber files
func randomStorageKey(filename string) string {
	d := time.Now()
	return fmt.Sprintf("resumes/%d/%d/%d/%s-%s", d.Year(), d.Month(), d.Day(), uuid.New(), filename)
}

// Store uploads the blob and returns a presigned GET URL valid for
// RetrievalTTL. The caller is responsible for size and content type
// policy; this layer is just the capability store(file) -> reference.
func (s *S3Store) Store(ctx context.Context, filename, contentType string, body io.Reader) (string, error) {
	key := randomStorageKey(filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.cfg.Bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload resume: %w", err)
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.cfg.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(RetrievalTTL))
	if err != nil {
		return "", fmt.Errorf("failed to presign resume URL: %w", err)
	}

	return req.URL, nil
}
