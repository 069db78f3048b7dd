package service

import (
	"context"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CommentService manages card comments. Only authors may edit or delete them.
type CommentService interface {
	GetComments(ctx context.Context, cardID, userID uuid.UUID) ([]*dto.CommentResponse, error)
	CreateComment(ctx context.Context, cardID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error)
	UpdateComment(ctx context.Context, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error)
	DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error
}

type commentServiceImpl struct {
	commentRepo repository.CommentRepository
	cardRepo    repository.CardRepository
	userRepo    repository.UserRepository
	authorizer  Authorizer
	lookups     permission.Lookups
	events      Publisher
	logger      *zap.Logger
}

func NewCommentService(
	commentRepo repository.CommentRepository,
	cardRepo repository.CardRepository,
	userRepo repository.UserRepository,
	authorizer Authorizer,
	events Publisher,
	logger *zap.Logger,
) CommentService {
	return &commentServiceImpl{
		commentRepo: commentRepo,
		cardRepo:    cardRepo,
		userRepo:    userRepo,
		authorizer:  authorizer,
		lookups:     permission.Lookups{Cards: cardRepo, Comments: commentRepo},
		events:      events,
		logger:      logger,
	}
}

// GetComments returns the card's comments newest first, with their authors.
func (s *commentServiceImpl) GetComments(ctx context.Context, cardID, userID uuid.UUID) ([]*dto.CommentResponse, error) {
	if _, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember); err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByCardID(ctx, cardID)
	if err != nil {
		return nil, internalError("Failed to load comments", err)
	}

	authorIDs := make([]uuid.UUID, 0, len(comments))
	seen := make(map[uuid.UUID]struct{}, len(comments))
	for _, c := range comments {
		if _, ok := seen[c.AuthorID]; !ok {
			seen[c.AuthorID] = struct{}{}
			authorIDs = append(authorIDs, c.AuthorID)
		}
	}
	authors, err := s.userRepo.FindByIDs(ctx, authorIDs)
	if err != nil {
		return nil, internalError("Failed to load authors", err)
	}
	byID := make(map[uuid.UUID]*domain.User, len(authors))
	for _, u := range authors {
		byID[u.ID] = u
	}

	responses := make([]*dto.CommentResponse, 0, len(comments))
	for _, c := range comments {
		responses = append(responses, dto.NewCommentResponse(c, byID[c.AuthorID]))
	}
	return responses, nil
}

func (s *commentServiceImpl) CreateComment(ctx context.Context, cardID, userID uuid.UUID, req *dto.CreateCommentRequest) (*dto.CommentResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card

	comment := &domain.Comment{
		Content:  req.Content,
		CardID:   card.ID,
		AuthorID: userID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, internalError("Failed to create comment", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCommentCreated, card.BoardID).WithCard(card.ID).WithComment(comment.ID))
	return dto.NewCommentResponse(comment, s.author(ctx, userID)), nil
}

func (s *commentServiceImpl) UpdateComment(ctx context.Context, commentID, userID uuid.UUID, req *dto.UpdateCommentRequest) (*dto.CommentResponse, error) {
	target, err := gate(ctx, s.authorizer, s.lookups.ByComment(commentID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	comment, card := target.Comment, target.Card
	if comment.AuthorID != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "You can only edit your own comments", "")
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, internalError("Failed to update comment", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCommentUpdated, card.BoardID).WithCard(card.ID).WithComment(comment.ID))
	return dto.NewCommentResponse(comment, s.author(ctx, userID)), nil
}

func (s *commentServiceImpl) DeleteComment(ctx context.Context, commentID, userID uuid.UUID) error {
	target, err := gate(ctx, s.authorizer, s.lookups.ByComment(commentID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	comment, card := target.Comment, target.Card
	if comment.AuthorID != userID {
		return response.NewAppError(response.ErrCodeForbidden, "You can only delete your own comments", "")
	}

	if err := s.commentRepo.Delete(ctx, comment.ID); err != nil {
		return lookupError(err, "Comment")
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventCommentDeleted, card.BoardID).WithCard(card.ID).WithComment(comment.ID))
	return nil
}

// author loads the comment author for the response; a failed lookup leaves it out.
func (s *commentServiceImpl) author(ctx context.Context, userID uuid.UUID) *domain.User {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		s.logger.Warn("Failed to load comment author", zap.String("user_id", userID.String()), zap.Error(err))
		return nil
	}
	return user
}
