package dto

import (
	"time"

	"board-sync-api/internal/domain"

	"github.com/google/uuid"
)

type CreateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type UpdateCommentRequest struct {
	Content string `json:"content" binding:"required,min=1"`
}

type CommentResponse struct {
	ID        uuid.UUID     `json:"id"`
	Content   string        `json:"content"`
	CardID    uuid.UUID     `json:"card_id"`
	AuthorID  uuid.UUID     `json:"author_id"`
	Author    *UserResponse `json:"author,omitempty"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// NewCommentResponse builds the response; author may be nil when the account is gone.
func NewCommentResponse(c *domain.Comment, author *domain.User) *CommentResponse {
	resp := &CommentResponse{
		ID:        c.ID,
		Content:   c.Content,
		CardID:    c.CardID,
		AuthorID:  c.AuthorID,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
	if author != nil {
		resp.Author = NewUserResponse(author)
	}
	return resp
}
