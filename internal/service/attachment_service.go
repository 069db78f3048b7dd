package service

import (
	"context"
	"time"

	"board-sync-api/internal/client"
	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// TempAttachmentTTL is how long an unconfirmed upload is kept before cleanup.
const TempAttachmentTTL = time.Hour

// AttachmentService runs the presigned upload flow for card attachments.
type AttachmentService interface {
	GeneratePresignedURL(ctx context.Context, cardID, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error)
	ConfirmUpload(ctx context.Context, attachmentID, userID uuid.UUID) (*dto.AttachmentResponse, error)
	DeleteAttachment(ctx context.Context, attachmentID, userID uuid.UUID) error
}

type attachmentServiceImpl struct {
	attachmentRepo repository.AttachmentRepository
	cardRepo       repository.CardRepository
	storage        client.S3ClientInterface
	authorizer     Authorizer
	lookups        permission.Lookups
	events         Publisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewAttachmentService creates the service. storage may be nil when no bucket is configured.
func NewAttachmentService(
	attachmentRepo repository.AttachmentRepository,
	cardRepo repository.CardRepository,
	storage client.S3ClientInterface,
	authorizer Authorizer,
	events Publisher,
	logger *zap.Logger,
) AttachmentService {
	return &attachmentServiceImpl{
		attachmentRepo: attachmentRepo,
		cardRepo:       cardRepo,
		storage:        storage,
		authorizer:     authorizer,
		lookups:        permission.Lookups{Cards: cardRepo, Attachments: attachmentRepo},
		events:         events,
		logger:         logger,
		now:            time.Now,
	}
}

// GeneratePresignedURL records a TEMP attachment and returns a URL the client uploads to.
func (s *attachmentServiceImpl) GeneratePresignedURL(ctx context.Context, cardID, userID uuid.UUID, req *dto.PresignedURLRequest) (*dto.PresignedURLResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	target, err := gate(ctx, s.authorizer, s.lookups.ByCard(cardID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	card := target.Card
	if req.FileSize > dto.MaxAttachmentSize {
		return nil, response.NewAppError(response.ErrCodeValidation, "File too large", "")
	}

	fileKey := s.storage.GenerateFileKey(card.BoardID, card.ID, req.FileName)
	uploadURL, err := s.storage.GeneratePresignedURL(ctx, fileKey, req.ContentType)
	if err != nil {
		s.logger.Error("Failed to generate presigned URL", zap.String("file_key", fileKey), zap.Error(err))
		return nil, internalError("Failed to generate upload URL", err)
	}

	expiresAt := s.now().UTC().Add(TempAttachmentTTL)
	attachment := &domain.Attachment{
		CardID:      card.ID,
		BoardID:     card.BoardID,
		Status:      domain.AttachmentStatusTemp,
		FileName:    req.FileName,
		FileKey:     fileKey,
		FileSize:    req.FileSize,
		ContentType: req.ContentType,
		UploadedBy:  userID,
		ExpiresAt:   &expiresAt,
	}
	if err := s.attachmentRepo.Create(ctx, attachment); err != nil {
		return nil, internalError("Failed to create attachment", err)
	}

	return &dto.PresignedURLResponse{
		AttachmentID: attachment.ID,
		UploadURL:    uploadURL,
		FileKey:      fileKey,
		ExpiresIn:    int(client.PresignExpiry.Seconds()),
	}, nil
}

// ConfirmUpload marks the uploader's TEMP attachment as CONFIRMED and points the card at it.
func (s *attachmentServiceImpl) ConfirmUpload(ctx context.Context, attachmentID, userID uuid.UUID) (*dto.AttachmentResponse, error) {
	if err := s.requireStorage(); err != nil {
		return nil, err
	}
	target, err := gate(ctx, s.authorizer, s.lookups.ByAttachment(attachmentID), userID, permission.RoleMember)
	if err != nil {
		return nil, err
	}
	attachment, card := target.Attachment, target.Card
	if attachment.UploadedBy != userID {
		return nil, response.NewAppError(response.ErrCodeForbidden, "Only the uploader can confirm this attachment", "")
	}
	if attachment.Status != domain.AttachmentStatusTemp {
		return nil, response.NewAppError(response.ErrCodeValidation, "Attachment already confirmed", "")
	}
	if attachment.IsExpired(s.now()) {
		return nil, response.NewAppError(response.ErrCodeValidation, "Upload window has expired", "")
	}

	if err := s.attachmentRepo.Confirm(ctx, attachment.ID); err != nil {
		return nil, internalError("Failed to confirm attachment", err)
	}
	attachment.Status = domain.AttachmentStatusConfirmed
	attachment.ExpiresAt = nil

	fileURL := s.storage.GetFileURL(attachment.FileKey)
	card.AttachmentURL = &fileURL
	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, internalError("Failed to update card", err)
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventAttachmentAdded, card.BoardID).WithCard(card.ID).WithAttachment(attachment.ID))
	return dto.NewAttachmentResponse(attachment, fileURL), nil
}

// DeleteAttachment removes the row and the stored object. A storage failure is logged
// and left for cleanup.
func (s *attachmentServiceImpl) DeleteAttachment(ctx context.Context, attachmentID, userID uuid.UUID) error {
	if err := s.requireStorage(); err != nil {
		return err
	}
	target, err := gate(ctx, s.authorizer, s.lookups.ByAttachment(attachmentID), userID, permission.RoleMember)
	if err != nil {
		return err
	}
	attachment, card := target.Attachment, target.Card

	if err := s.attachmentRepo.Delete(ctx, attachment.ID); err != nil {
		return lookupError(err, "Attachment")
	}
	if err := s.storage.DeleteFile(ctx, attachment.FileKey); err != nil {
		s.logger.Warn("Failed to delete attachment object",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("file_key", attachment.FileKey),
			zap.Error(err))
	}

	fileURL := s.storage.GetFileURL(attachment.FileKey)
	if card.AttachmentURL != nil && *card.AttachmentURL == fileURL {
		card.AttachmentURL = nil
		if err := s.cardRepo.Update(ctx, card); err != nil {
			return internalError("Failed to update card", err)
		}
	}

	s.events.Publish(ctx, realtime.NewEvent(realtime.EventAttachmentDeleted, card.BoardID).WithCard(card.ID).WithAttachment(attachment.ID))
	return nil
}

func (s *attachmentServiceImpl) requireStorage() error {
	if s.storage == nil {
		return response.NewAppError(response.ErrCodeInternal, "Attachment storage is not configured", "")
	}
	return nil
}
