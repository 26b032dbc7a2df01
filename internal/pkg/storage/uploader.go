package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gofiber/fiber/v2/log"

	"github.com/eventlyhq/evently/internal/pkg/env"
)

// Uploader pushes event images to an S3-compatible bucket and hands back
// their public URLs.
type Uploader struct {
	client *s3.Client
	bucket string
	public string
}

var (
	uploader *Uploader
	initErr  error
	once     sync.Once
)

// GetUploader returns the shared uploader, building the S3 client on first use.
func GetUploader() (*Uploader, error) {
	once.Do(func() {
		uploader, initErr = newUploader()
	})
	return uploader, initErr
}

func newUploader() (*Uploader, error) {
	region := env.GetEnv("S3_REGION", "us-east-1")
	endpoint := env.GetEnv("S3_ENDPOINT", "")
	bucket := env.GetEnv("S3_BUCKET", "evently-images")

	awsConfig, err := awsconfig.LoadDefaultConfig(context.TODO(),
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			env.GetEnv("S3_ACCESS_KEY_ID", ""),
			env.GetEnv("S3_SECRET_ACCESS_KEY", ""),
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// Path-style URLs for S3-compatible providers
			o.UsePathStyle = true
		}
	})

	public := strings.TrimRight(env.GetEnv("S3_PUBLIC_URL", ""), "/")
	if public == "" {
		public = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}

	log.Infof("[Storage] S3 uploader ready for bucket %s", bucket)
	return &Uploader{client: client, bucket: bucket, public: public}, nil
}

// UploadImage stores an event image under the given key and returns its
// public URL.
func (u *Uploader) UploadImage(ctx context.Context, key, contentType string, body io.Reader) (string, error) {
	_, err := u.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(u.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", key, err)
	}
	return u.public + "/" + key, nil
}

// Delete removes a previously uploaded image. Best effort; callers only log
// failures.
func (u *Uploader) Delete(ctx context.Context, key string) error {
	_, err := u.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(u.bucket),
		Key:    aws.String(key),
	})
	return err
}
