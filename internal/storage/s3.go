package storage

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	appcfg "docuvault/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// S3Uploader stores blobs in a single S3 bucket.
type S3Uploader struct {
	client *s3.Client
	region string
	bucket string
}

func NewS3Uploader(ctx context.Context, cfg *appcfg.Config) (*S3Uploader, error) {
	if cfg.AWSAccessKey == "" || cfg.AWSSecretKey == "" {
		return nil, fmt.Errorf("AWS credentials not set")
	}
	if cfg.AWSRegion == "" {
		return nil, fmt.Errorf("AWS_REGION not set")
	}
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("S3 bucket name not set")
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(cfg.AWSRegion),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AWSAccessKey, cfg.AWSSecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return &S3Uploader{
		client: s3.NewFromConfig(awsCfg),
		region: cfg.AWSRegion,
		bucket: cfg.S3Bucket,
	}, nil
}

// Upload puts the buffer under a fresh key inside folder and returns the
// stored-object metadata. The format tag is sniffed from the content.
func (u *S3Uploader) Upload(ctx context.Context, data []byte, folder string) (*UploadResult, error) {
	contentType := http.DetectContentType(data)
	key := fmt.Sprintf("%s/%s", folder, uuid.New().String())

	ctxUpload, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	_, err := u.client.PutObject(ctxUpload, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("s3 upload failed: %w", err)
	}

	return &UploadResult{
		ID:     key,
		URL:    fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.bucket, u.region, key),
		Format: formatTag(contentType),
		Size:   int64(len(data)),
	}, nil
}

func (u *S3Uploader) Delete(ctx context.Context, blobID string) error {
	ctxDel, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	_, err := u.client.DeleteObject(ctxDel, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(blobID),
	})
	if err != nil {
		return fmt.Errorf("s3 delete failed: %w", err)
	}
	return nil
}

// formatTag reduces a mime type to the short tag stored on a version,
// e.g. "application/pdf" -> "pdf".
func formatTag(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	if i := strings.LastIndex(contentType, "/"); i >= 0 {
		contentType = contentType[i+1:]
	}
	return contentType
}
