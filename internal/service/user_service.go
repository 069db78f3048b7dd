package service

import (
	"context"
	"errors"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TokenIssuer is the credential surface used for login and refresh.
type TokenIssuer interface {
	IssuePair(subject uuid.UUID) (*auth.TokenPair, error)
	Rotate(refreshToken string) (uuid.UUID, *auth.TokenPair, error)
}

// UserService handles accounts and credentials.
type UserService interface {
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error)
	Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error)
	GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error)
	UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error)
	DeleteMe(ctx context.Context, userID uuid.UUID) error
}

type userServiceImpl struct {
	userRepo  repository.UserRepository
	boardRepo repository.BoardRepository
	tokens    TokenIssuer
	events    Publisher
}

func NewUserService(userRepo repository.UserRepository, boardRepo repository.BoardRepository, tokens TokenIssuer, events Publisher) UserService {
	return &userServiceImpl{
		userRepo:  userRepo,
		boardRepo: boardRepo,
		tokens:    tokens,
		events:    events,
	}
}

func (s *userServiceImpl) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.TokenResponse, error) {
	if err := s.ensureUnique(ctx, uuid.Nil, &req.Username, &req.Email, "registered"); err != nil {
		return nil, err
	}

	hashed, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, internalError("Failed to hash password", err)
	}

	user := &domain.User{
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashed,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Username or email already registered", "")
		}
		return nil, internalError("Failed to create user", err)
	}

	return s.issue(user.ID)
}

func (s *userServiceImpl) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	user, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "Incorrect username or password", "")
		}
		return nil, internalError("Failed to load user", err)
	}
	if !auth.CheckPassword(user.HashedPassword, req.Password) {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Incorrect username or password", "")
	}

	return s.issue(user.ID)
}

// Refresh rotates a refresh token. The presented token stays valid until it expires.
func (s *userServiceImpl) Refresh(ctx context.Context, req *dto.RefreshRequest) (*dto.TokenResponse, error) {
	userID, pair, err := s.tokens.Rotate(req.RefreshToken)
	if err != nil {
		return nil, response.NewAppError(response.ErrCodeUnauthorized, "Invalid refresh token", "")
	}
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewAppError(response.ErrCodeUnauthorized, "User not found", "")
		}
		return nil, internalError("Failed to load user", err)
	}
	return toTokenResponse(pair), nil
}

func (s *userServiceImpl) GetMe(ctx context.Context, userID uuid.UUID) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}
	return dto.NewUserResponse(user), nil
}

func (s *userServiceImpl) UpdateMe(ctx context.Context, userID uuid.UUID, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, lookupError(err, "User")
	}

	if err := s.ensureUnique(ctx, userID, req.Username, req.Email, "taken"); err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = *req.Username
	}
	if req.Email != nil {
		user.Email = *req.Email
	}
	if req.Avatar != nil {
		user.Avatar = req.Avatar
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		if isDuplicateKey(err) {
			return nil, response.NewAppError(response.ErrCodeAlreadyExists, "Username or email already taken", "")
		}
		return nil, internalError("Failed to update user", err)
	}
	return dto.NewUserResponse(user), nil
}

// DeleteMe removes the account with its owned boards and memberships.
func (s *userServiceImpl) DeleteMe(ctx context.Context, userID uuid.UUID) error {
	boards, err := s.boardRepo.FindAccessibleByUser(ctx, userID)
	if err != nil {
		return internalError("Failed to load boards", err)
	}

	if err := s.userRepo.Delete(ctx, userID); err != nil {
		return lookupError(err, "User")
	}

	for _, board := range boards {
		if board.IsOwner(userID) {
			s.events.Publish(ctx, realtime.NewEvent(realtime.EventBoardDeleted, board.ID))
		} else {
			s.events.Publish(ctx, realtime.NewEvent(realtime.EventMemberRemoved, board.ID).WithUser(userID))
		}
	}
	return nil
}

// ensureUnique rejects a username or email held by another account.
func (s *userServiceImpl) ensureUnique(ctx context.Context, self uuid.UUID, username, email *string, verb string) error {
	if username != nil {
		existing, err := s.userRepo.FindByUsername(ctx, *username)
		switch {
		case err == nil && existing.ID != self:
			return response.NewAppError(response.ErrCodeAlreadyExists, "Username already "+verb, "")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return internalError("Failed to check username", err)
		}
	}
	if email != nil {
		existing, err := s.userRepo.FindByEmail(ctx, *email)
		switch {
		case err == nil && existing.ID != self:
			return response.NewAppError(response.ErrCodeAlreadyExists, "Email already "+verb, "")
		case err != nil && !errors.Is(err, gorm.ErrRecordNotFound):
			return internalError("Failed to check email", err)
		}
	}
	return nil
}

func (s *userServiceImpl) issue(userID uuid.UUID) (*dto.TokenResponse, error) {
	pair, err := s.tokens.IssuePair(userID)
	if err != nil {
		return nil, internalError("Failed to issue tokens", err)
	}
	return toTokenResponse(pair), nil
}

func toTokenResponse(pair *auth.TokenPair) *dto.TokenResponse {
	return &dto.TokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
	}
}
