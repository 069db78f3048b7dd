package domain

import (
	"github.com/google/uuid"
)

// Board is the top-level container; its owner holds every right without a membership row.
type Board struct {
	BaseModel
	Name        string    `gorm:"type:varchar(255);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	OwnerID     uuid.UUID `gorm:"type:uuid;not null;index:idx_boards_owner_id" json:"owner_id"`

	Lists   []List        `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"lists,omitempty"`
	Members []BoardMember `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"members,omitempty"`
	Labels  []Label       `gorm:"foreignKey:BoardID;constraint:OnDelete:CASCADE" json:"labels,omitempty"`
}

func (Board) TableName() string {
	return "boards"
}

// IsOwner reports whether userID owns the board.
func (b *Board) IsOwner(userID uuid.UUID) bool {
	return b.OwnerID == userID
}

// BoardMember grants a non-owner access to a board.
type BoardMember struct {
	BaseModel
	BoardID uuid.UUID `gorm:"type:uuid;not null;index:idx_board_members_board_id;uniqueIndex:uq_board_members_board_user" json:"board_id"`
	UserID  uuid.UUID `gorm:"type:uuid;not null;index:idx_board_members_user_id;uniqueIndex:uq_board_members_board_user" json:"user_id"`
	IsAdmin bool      `gorm:"not null;default:false" json:"is_admin"`
}

func (BoardMember) TableName() string {
	return "board_members"
}
