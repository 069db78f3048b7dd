package domain

import (
	"time"

	"github.com/google/uuid"
)

// Card belongs to a list; BoardID always mirrors the owning list's board.
type Card struct {
	BaseModel
	Title         string     `gorm:"type:varchar(255);not null" json:"title"`
	Description   *string    `gorm:"type:text" json:"description,omitempty"`
	DueDate       *time.Time `gorm:"type:timestamp" json:"due_date,omitempty"`
	AttachmentURL *string    `gorm:"type:text" json:"attachment_url,omitempty"`
	Position      int        `gorm:"not null;default:0;index:idx_cards_list_position,priority:2" json:"position"`
	ListID        uuid.UUID  `gorm:"type:uuid;not null;index:idx_cards_list_position,priority:1" json:"list_id"`
	BoardID       uuid.UUID  `gorm:"type:uuid;not null;index:idx_cards_board_id" json:"board_id"`

	Comments []Comment `gorm:"foreignKey:CardID;constraint:OnDelete:CASCADE" json:"-"`

	// Loaded by the repository from the link tables.
	Labels      []Label     `gorm:"-" json:"labels,omitempty"`
	AssigneeIDs []uuid.UUID `gorm:"-" json:"assignee_ids,omitempty"`
}

func (Card) TableName() string {
	return "cards"
}

// CardLabel links a card to a label of the same board.
type CardLabel struct {
	CardID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"card_id"`
	LabelID   uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_card_labels_label_id" json:"label_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CardLabel) TableName() string {
	return "card_labels"
}

// CardAssignee links a card to a user with access to its board.
type CardAssignee struct {
	CardID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"card_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey;index:idx_card_assignees_user_id" json:"user_id"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (CardAssignee) TableName() string {
	return "card_assignees"
}
