package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

const MaxAttachmentSize = 50 * 1024 * 1024

type PresignedURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,max=100"`
	FileSize    int64  `json:"file_size" binding:"required,gt=0,lte=52428800"`
}

type PresignedURLResponse struct {
	AttachmentID uuid.UUID `json:"attachment_id"`
	UploadURL    string    `json:"upload_url"`
	FileKey      string    `json:"file_key"`
	ExpiresIn    int       `json:"expires_in"`
}

type AttachmentResponse struct {
	ID          uuid.UUID               `json:"id"`
	CardID      uuid.UUID               `json:"card_id"`
	BoardID     uuid.UUID               `json:"board_id"`
	FileName    string                  `json:"file_name"`
	FileURL     string                  `json:"file_url"`
	FileSize    int64                   `json:"file_size"`
	ContentType string                  `json:"content_type"`
	Status      domain.AttachmentStatus `json:"status"`
	UploadedBy  uuid.UUID               `json:"uploaded_by"`
	CreatedAt   time.Time               `json:"created_at"`
}

func NewAttachmentResponse(a *domain.Attachment, fileURL string) *AttachmentResponse {
	return &AttachmentResponse{
		ID:          a.ID,
		CardID:      a.CardID,
		BoardID:     a.BoardID,
		FileName:    a.FileName,
		FileURL:     fileURL,
		FileSize:    a.FileSize,
		ContentType: a.ContentType,
		Status:      a.Status,
		UploadedBy:  a.UploadedBy,
		CreatedAt:   a.CreatedAt,
	}
}
