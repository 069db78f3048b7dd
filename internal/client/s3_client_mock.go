package client

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MockS3Client implements S3ClientInterface for testing without AWS credentials
type MockS3Client struct {
	Bucket string
	Region string

	GenerateFileKeyFunc      func(boardID, cardID uuid.UUID, fileName string) string
	GeneratePresignedURLFunc func(ctx context.Context, key, contentType string) (string, error)
	DeleteFileFunc           func(ctx context.Context, key string) error

	mu      sync.Mutex
	deleted []string
}

func NewMockS3Client() *MockS3Client {
	return &MockS3Client{
		Bucket: "test-bucket",
		Region: "us-east-1",
	}
}

func (m *MockS3Client) GenerateFileKey(boardID, cardID uuid.UUID, fileName string) string {
	if m.GenerateFileKeyFunc != nil {
		return m.GenerateFileKeyFunc(boardID, cardID, fileName)
	}
	return buildFileKey(time.Now(), boardID, cardID, fileName)
}

func (m *MockS3Client) GeneratePresignedURL(ctx context.Context, key, contentType string) (string, error) {
	if m.GeneratePresignedURLFunc != nil {
		return m.GeneratePresignedURLFunc(ctx, key, contentType)
	}
	return fmt.Sprintf("%s?X-Amz-Algorithm=AWS4-HMAC-SHA256&X-Amz-Expires=%d&X-Amz-Signature=mocksignature",
		m.GetFileURL(key), int(PresignExpiry.Seconds())), nil
}

func (m *MockS3Client) DeleteFile(ctx context.Context, key string) error {
	if m.DeleteFileFunc != nil {
		if err := m.DeleteFileFunc(ctx, key); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.deleted = append(m.deleted, key)
	return nil
}

func (m *MockS3Client) GetFileURL(key string) string {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", m.Bucket, m.Region, key)
}

// Deleted returns the keys successfully deleted so far.
func (m *MockS3Client) Deleted() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

var _ S3ClientInterface = (*MockS3Client)(nil)
