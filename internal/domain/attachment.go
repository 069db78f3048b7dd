package domain

import (
	"time"

	"github.com/google/uuid"
)

// AttachmentStatus represents the status of an attachment
type AttachmentStatus string

const (
	AttachmentStatusTemp      AttachmentStatus = "TEMP"
	AttachmentStatusConfirmed AttachmentStatus = "CONFIRMED"
)

// Attachment is an uploaded file of a card. FileKey holds the object key, not a URL.
type Attachment struct {
	BaseModel
	CardID      uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_card_id" json:"card_id"`
	BoardID     uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_board_id" json:"board_id"`
	Status      AttachmentStatus `gorm:"type:varchar(20);not null;default:'TEMP';index:idx_attachments_status" json:"status"`
	FileName    string           `gorm:"type:varchar(255);not null" json:"file_name"`
	FileKey     string           `gorm:"type:text;not null" json:"file_key"`
	FileSize    int64            `gorm:"not null" json:"file_size"`
	ContentType string           `gorm:"type:varchar(100);not null" json:"content_type"`
	UploadedBy  uuid.UUID        `gorm:"type:uuid;not null;index:idx_attachments_uploaded_by" json:"uploaded_by"`
	ExpiresAt   *time.Time       `gorm:"type:timestamp;index:idx_attachments_expires_at" json:"expires_at,omitempty"`
}

func (Attachment) TableName() string {
	return "attachments"
}

// IsExpired reports whether a temporary upload outlived its confirmation window.
func (a *Attachment) IsExpired(now time.Time) bool {
	return a.Status == AttachmentStatusTemp && a.ExpiresAt != nil && now.After(*a.ExpiresAt)
}
