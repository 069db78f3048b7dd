package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

type CreateListRequest struct {
	Name     string `json:"name" binding:"required,max=255"`
	Position *int   `json:"position" binding:"omitempty,min=0"`
}

type UpdateListRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=255"`
	Position *int    `json:"position" binding:"omitempty,min=0"`
}

// ReorderItem is one entry of a bulk reorder body, sent as a JSON array.
type ReorderItem struct {
	ID       uuid.UUID `json:"id" binding:"required"`
	Position *int      `json:"position" binding:"required,min=0"`
}

type ListResponse struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Position  int             `json:"position"`
	BoardID   uuid.UUID       `json:"board_id"`
	Cards     []*CardResponse `json:"cards,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func NewListResponse(l *domain.List) *ListResponse {
	return &ListResponse{
		ID:        l.ID,
		Name:      l.Name,
		Position:  l.Position,
		BoardID:   l.BoardID,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}

// ToPositionUpdates converts a reorder body that passed binding, so every
// Position is set.
func ToPositionUpdates(items []ReorderItem) []domain.PositionUpdate {
	updates := make([]domain.PositionUpdate, 0, len(items))
	for _, item := range items {
		updates = append(updates, domain.PositionUpdate{ID: item.ID, Position: *item.Position})
	}
	return updates
}
