package client

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	appConfig "board-sync-api/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const PresignExpiry = 5 * time.Minute

// S3ClientInterface is the object storage surface used for card attachments.
type S3ClientInterface interface {
	GenerateFileKey(boardID, cardID uuid.UUID, fileName string) string
	GeneratePresignedURL(ctx context.Context, key, contentType string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

// CallRecorder receives one observation per storage request.
type CallRecorder interface {
	RecordExternalAPICall(endpoint, method string, statusCode int, duration time.Duration, err error)
}

// S3Client wraps AWS S3 client and implements S3ClientInterface
type S3Client struct {
	client        *s3.Client
	presignClient *s3.PresignClient
	bucket        string
	region        string
	endpoint      string // set for MinIO and other S3-compatible stores
	recorder      CallRecorder
	now           func() time.Time
}

// NewS3Client creates a new S3 client. recorder may be nil.
func NewS3Client(ctx context.Context, cfg *appConfig.S3Config, recorder CallRecorder) (*S3Client, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("S3 bucket is required")
	}
	if cfg.Region == "" {
		return nil, fmt.Errorf("S3 region is required")
	}

	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" || cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	} else if cfg.Endpoint != "" {
		return nil, fmt.Errorf("access key and secret key are required for a custom S3 endpoint")
	}

	// Without static keys the default chain applies (IAM role, ~/.aws/credentials)
	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Client{
		client:        s3Client,
		presignClient: s3.NewPresignClient(s3Client),
		bucket:        cfg.Bucket,
		region:        cfg.Region,
		endpoint:      strings.TrimSuffix(cfg.Endpoint, "/"),
		recorder:      recorder,
		now:           time.Now,
	}, nil
}

// GenerateFileKey generates a unique object key
// Format: cards/{boardId}/{cardId}/{year}/{month}/{uuid}_{timestamp}.ext
func (c *S3Client) GenerateFileKey(boardID, cardID uuid.UUID, fileName string) string {
	return buildFileKey(c.now(), boardID, cardID, fileName)
}

func buildFileKey(now time.Time, boardID, cardID uuid.UUID, fileName string) string {
	return fmt.Sprintf("cards/%s/%s/%s/%s/%s_%d%s",
		boardID, cardID, now.Format("2006"), now.Format("01"),
		uuid.New(), now.Unix(), strings.ToLower(filepath.Ext(fileName)))
}

// GeneratePresignedURL returns a PUT URL for key that expires after PresignExpiry.
func (c *S3Client) GeneratePresignedURL(ctx context.Context, key, contentType string) (string, error) {
	start := time.Now()
	presignedReq, err := c.presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = PresignExpiry
	})
	c.record(key, "PRESIGN", start, err)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return presignedReq.URL, nil
}

// DeleteFile deletes a file from S3
func (c *S3Client) DeleteFile(ctx context.Context, key string) error {
	start := time.Now()
	_, err := c.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(key),
	})
	c.record(key, "DELETE", start, err)
	if err != nil {
		return fmt.Errorf("failed to delete file from S3: %w", err)
	}
	return nil
}

// GetFileURL returns the download URL for key.
func (c *S3Client) GetFileURL(key string) string {
	if c.endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", c.endpoint, c.bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", c.bucket, c.region, key)
}

func (c *S3Client) record(key, method string, start time.Time, err error) {
	if c.recorder == nil {
		return
	}
	status := 200
	if err != nil {
		status = 0
	}
	c.recorder.RecordExternalAPICall("s3:"+key, method, status, time.Since(start), err)
}

var _ S3ClientInterface = (*S3Client)(nil)
