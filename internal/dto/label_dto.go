package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

// AddLabelRequest names a board label by (name, color); an existing pair is reused.
type AddLabelRequest struct {
	Name  string `json:"name" binding:"required,max=50"`
	Color string `json:"color" binding:"required,len=7,hexcolor"`
}

type UpdateLabelRequest struct {
	Name  *string `json:"name" binding:"omitempty,min=1,max=50"`
	Color *string `json:"color" binding:"omitempty,len=7,hexcolor"`
}

type LabelResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	BoardID   uuid.UUID `json:"board_id"`
	CreatedAt time.Time `json:"created_at"`
}

func NewLabelResponse(l *domain.Label) *LabelResponse {
	return &LabelResponse{
		ID:        l.ID,
		Name:      l.Name,
		Color:     l.Color,
		BoardID:   l.BoardID,
		CreatedAt: l.CreatedAt,
	}
}
