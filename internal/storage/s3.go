package storage

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/wdg-platform/filestore/internal/config"
)

// S3Client implements ObjectStorage against AWS S3 or any S3-compatible
// endpoint (MinIO, R2) via a custom base endpoint.
type S3Client struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
}

// NewS3Client initializes the client from static credentials. A non-empty
// endpoint switches to path-style addressing for S3-compatible providers.
func NewS3Client(cfg config.S3Config) *S3Client {
	awsCfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Region:      cfg.Region,
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	log.Println("Successfully initialized S3 client")

	return &S3Client{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    cfg.BucketName,
	}
}

// Bucket returns the configured default bucket name.
func (c *S3Client) Bucket() string {
	return c.bucket
}

func (c *S3Client) GenerateUploadURL(ctx context.Context, key string, sizeBytes int64, contentType string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(c.bucket),
		Key:           aws.String(key),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(sizeBytes),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", &ProviderError{Op: "presign put", Key: key, Err: err}
	}
	return req.URL, nil
}

func (c *S3Client) GenerateDownloadURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error) {
	if bucket == "" {
		bucket = c.bucket
	}
	req, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", &ProviderError{Op: "presign get", Key: key, Err: err}
	}
	return req.URL, nil
}

func (c *S3Client) GenerateDeleteURL(ctx context.Context, key string, expires time.Duration) (string, error) {
	req, err := c.presigner.PresignDeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(expires))
	if err != nil {
		return "", &ProviderError{Op: "presign delete", Key: key, Err: err}
	}
	return req.URL, nil
}

func (c *S3Client) CopyObject(ctx context.Context, bucket, srcKey, dstKey string) error {
	if bucket == "" {
		bucket = c.bucket
	}
	_, err := c.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     aws.String(bucket),
		CopySource: aws.String(fmt.Sprintf("%s/%s", bucket, srcKey)),
		Key:        aws.String(dstKey),
	})
	if err != nil {
		return &ProviderError{Op: "copy", Key: srcKey, Err: err}
	}
	return nil
}

func (c *S3Client) DeleteObject(ctx context.Context, bucket, key string) error {
	if bucket == "" {
		bucket = c.bucket
	}
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return &ProviderError{Op: "delete", Key: key, Err: err}
	}
	return nil
}

// ObjectExists checks if a given object key exists in the bucket.
// Returns true if the object exists, false if not, and an error if something went wrong.
func (c *S3Client) ObjectExists(ctx context.Context, bucket, key string) (bool, error) {
	if bucket == "" {
		bucket = c.bucket
	}
	_, err := c.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var nsk *s3types.NotFound
		if errors.As(err, &nsk) {
			return false, nil
		}
		// Other error (e.g. auth, network)
		return false, &ProviderError{Op: "head", Key: key, Err: err}
	}
	return true, nil
}
