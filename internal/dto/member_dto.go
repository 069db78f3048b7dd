package dto

import (
	"time"

	"github.com/google/uuid"
)

type AddMemberRequest struct {
	Username string `json:"username" binding:"required"`
	IsAdmin  bool   `json:"is_admin"`
}

// MemberResponse describes one user with access to a board. The owner is
// listed with IsOwner set and no membership row behind it.
type MemberResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
	Avatar   *string   `json:"avatar"`
	IsAdmin  bool      `json:"is_admin"`
	IsOwner  bool      `json:"is_owner"`
	JoinedAt time.Time `json:"joined_at"`
}
