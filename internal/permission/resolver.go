package permission

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/response"
)

// Target is what a resolver found on its way to the owning board.
type Target struct {
	BoardID    uuid.UUID
	Board      *domain.Board
	List       *domain.List
	Card       *domain.Card
	Comment    *domain.Comment
	Label      *domain.Label
	Attachment *domain.Attachment
}

// Resolver sets target.BoardID, keeping the resources it had to load.
type Resolver func(ctx context.Context, target *Target) error

type ListReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.List, error)
}

type CardReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
}

type CommentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Comment, error)
}

type LabelReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error)
}

type AttachmentReader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
}

// Lookups builds resolvers for every resource kind that hangs off a board.
type Lookups struct {
	Lists       ListReader
	Cards       CardReader
	Comments    CommentReader
	Labels      LabelReader
	Attachments AttachmentReader
}

func ByBoard(boardID uuid.UUID) Resolver {
	return func(_ context.Context, target *Target) error {
		target.BoardID = boardID
		return nil
	}
}

func (l Lookups) ByList(listID uuid.UUID) Resolver {
	return func(ctx context.Context, target *Target) error {
		list, err := l.Lists.FindByID(ctx, listID)
		if err != nil {
			return notFound("List", err)
		}
		target.List = list
		target.BoardID = list.BoardID
		return nil
	}
}

func (l Lookups) ByCard(cardID uuid.UUID) Resolver {
	return func(ctx context.Context, target *Target) error {
		card, err := l.Cards.FindByID(ctx, cardID)
		if err != nil {
			return notFound("Card", err)
		}
		target.Card = card
		target.BoardID = card.BoardID
		return nil
	}
}

// ByComment also loads the comment's card.
func (l Lookups) ByComment(commentID uuid.UUID) Resolver {
	return func(ctx context.Context, target *Target) error {
		comment, err := l.Comments.FindByID(ctx, commentID)
		if err != nil {
			return notFound("Comment", err)
		}
		target.Comment = comment
		return l.ByCard(comment.CardID)(ctx, target)
	}
}

func (l Lookups) ByLabel(labelID uuid.UUID) Resolver {
	return func(ctx context.Context, target *Target) error {
		label, err := l.Labels.FindByID(ctx, labelID)
		if err != nil {
			return notFound("Label", err)
		}
		target.Label = label
		target.BoardID = label.BoardID
		return nil
	}
}

// ByAttachment also loads the attachment's card.
func (l Lookups) ByAttachment(attachmentID uuid.UUID) Resolver {
	return func(ctx context.Context, target *Target) error {
		attachment, err := l.Attachments.FindByID(ctx, attachmentID)
		if err != nil {
			return notFound("Attachment", err)
		}
		target.Attachment = attachment
		return l.ByCard(attachment.CardID)(ctx, target)
	}
}

func notFound(kind string, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, kind+" not found", "")
	}
	return fmt.Errorf("failed to load %s: %w", kind, err)
}
