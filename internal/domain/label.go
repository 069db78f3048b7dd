package domain

import (
	"github.com/google/uuid"
)

// Label is unique per (board, name, color).
type Label struct {
	BaseModel
	Name    string    `gorm:"type:varchar(50);not null;uniqueIndex:uq_labels_board_name_color,priority:2" json:"name"`
	Color   string    `gorm:"type:varchar(7);not null;uniqueIndex:uq_labels_board_name_color,priority:3" json:"color"`
	BoardID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:uq_labels_board_name_color,priority:1" json:"board_id"`
}

func (Label) TableName() string {
	return "labels"
}
