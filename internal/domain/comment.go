package domain

import (
	"github.com/google/uuid"
)

type Comment struct {
	BaseModel
	Content  string    `gorm:"type:text;not null" json:"content"`
	CardID   uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_card_id" json:"card_id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index:idx_comments_author_id" json:"author_id"`
}

func (Comment) TableName() string {
	return "comments"
}
