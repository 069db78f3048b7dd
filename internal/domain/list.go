package domain

import (
	"github.com/google/uuid"
)

type List struct {
	BaseModel
	Name     string    `gorm:"type:varchar(255);not null" json:"name"`
	Position int       `gorm:"not null;default:0;index:idx_lists_board_position,priority:2" json:"position"`
	BoardID  uuid.UUID `gorm:"type:uuid;not null;index:idx_lists_board_position,priority:1" json:"board_id"`

	Cards []Card `gorm:"foreignKey:ListID;constraint:OnDelete:CASCADE" json:"cards,omitempty"`
}

func (List) TableName() string {
	return "lists"
}
