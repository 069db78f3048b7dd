package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

type CreateCardRequest struct {
	Title       string     `json:"title" binding:"required,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Position    *int       `json:"position" binding:"omitempty,min=0"`
}

type UpdateCardRequest struct {
	Title       *string    `json:"title" binding:"omitempty,min=1,max=255"`
	Description *string    `json:"description"`
	DueDate     *time.Time `json:"due_date"`
	Position    *int       `json:"position" binding:"omitempty,min=0"`
}

type MoveCardRequest struct {
	NewListID   uuid.UUID `json:"new_list_id" binding:"required"`
	NewPosition *int      `json:"new_position" binding:"required,min=0"`
}

type AddAssigneeRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

type CardResponse struct {
	ID            uuid.UUID        `json:"id"`
	Title         string           `json:"title"`
	Description   *string          `json:"description"`
	DueDate       *time.Time       `json:"due_date"`
	AttachmentURL *string          `json:"attachment_url"`
	Position      int              `json:"position"`
	ListID        uuid.UUID        `json:"list_id"`
	BoardID       uuid.UUID        `json:"board_id"`
	Labels        []*LabelResponse `json:"labels"`
	AssigneeIDs   []uuid.UUID      `json:"assignee_ids"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

func NewCardResponse(c *domain.Card) *CardResponse {
	labels := make([]*LabelResponse, 0, len(c.Labels))
	for i := range c.Labels {
		labels = append(labels, NewLabelResponse(&c.Labels[i]))
	}
	assignees := c.AssigneeIDs
	if assignees == nil {
		assignees = []uuid.UUID{}
	}

	return &CardResponse{
		ID:            c.ID,
		Title:         c.Title,
		Description:   c.Description,
		DueDate:       c.DueDate,
		AttachmentURL: c.AttachmentURL,
		Position:      c.Position,
		ListID:        c.ListID,
		BoardID:       c.BoardID,
		Labels:        labels,
		AssigneeIDs:   assignees,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}
