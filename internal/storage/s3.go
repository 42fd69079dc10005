// Package storage archives conversion outputs to an S3-compatible bucket.
package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/google/uuid"
)

type objectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type objectPresigner interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

type S3Client struct {
	client  objectPutter
	presign objectPresigner
	bucket  string
	ttl     time.Duration
	now     func() time.Time
}

type UploadResult struct {
	Key string
	URL string
}

type Options struct {
	Endpoint        string
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
	PresignTTL      time.Duration
}

// NewS3Client creates a client for AWS S3 or, when Endpoint is set, any
// S3-compatible service addressed path-style.
func NewS3Client(ctx context.Context, opts Options) (*S3Client, error) {
	loadOpts := []func(*config.LoadOptions) error{config.WithRegion(opts.Region)}
	if opts.AccessKeyID != "" {
		loadOpts = append(loadOpts, config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKeyID, opts.SecretAccessKey, "",
		)))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return newS3Client(client, s3.NewPresignClient(client), opts.Bucket, opts.PresignTTL), nil
}

func newS3Client(client objectPutter, presign objectPresigner, bucket string, ttl time.Duration) *S3Client {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &S3Client{client: client, presign: presign, bucket: bucket, ttl: ttl, now: time.Now}
}

// Upload stores body under key and returns a presigned download URL.
func (s *S3Client) Upload(ctx context.Context, key string, body io.Reader, contentType string) (*UploadResult, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
		ACL:         types.ObjectCannedACLPrivate,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload file: %w", err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, func(o *s3.PresignOptions) {
		o.Expires = s.ttl
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	return &UploadResult{Key: key, URL: req.URL}, nil
}

// ArchiveOutput uploads a conversion output under
// outputs/<yyyy>/<mm>/<uuid>/<filename>.
func (s *S3Client) ArchiveOutput(ctx context.Context, filename string, data []byte) (*UploadResult, error) {
	key := s.outputKey(filename)
	return s.Upload(ctx, key, bytes.NewReader(data), contentType(filename))
}

func (s *S3Client) outputKey(filename string) string {
	now := s.now().UTC()
	return fmt.Sprintf("outputs/%04d/%02d/%s/%s", now.Year(), int(now.Month()), uuid.NewString(), path.Base(filename))
}

func contentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".webp":
		return "image/webp"
	case ".gif":
		return "image/gif"
	case ".pdf":
		return "application/pdf"
	case ".docx":
		return "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	default:
		return "application/octet-stream"
	}
}
