package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

type CreateBoardRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description"`
}

type UpdateBoardRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=255"`
	Description *string `json:"description"`
}

type BoardResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     uuid.UUID `json:"owner_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BoardDetailResponse is a board with its ordered lists and cards, members and labels.
type BoardDetailResponse struct {
	BoardResponse
	Lists   []*ListResponse   `json:"lists"`
	Members []*MemberResponse `json:"members"`
	Labels  []*LabelResponse  `json:"labels"`
}

func NewBoardResponse(b *domain.Board) *BoardResponse {
	return &BoardResponse{
		ID:          b.ID,
		Name:        b.Name,
		Description: b.Description,
		OwnerID:     b.OwnerID,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}
