package job

import (
	"context"
	"time"

	"board-sync-api/internal/client"
	"board-sync-api/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// CleanupJob removes TEMP attachments whose upload was never confirmed.
type CleanupJob struct {
	attachmentRepo repository.AttachmentRepository
	s3Client       client.S3ClientInterface
	logger         *zap.Logger
	now            func() time.Time
}

func NewCleanupJob(
	attachmentRepo repository.AttachmentRepository,
	s3Client client.S3ClientInterface,
	logger *zap.Logger,
) *CleanupJob {
	return &CleanupJob{
		attachmentRepo: attachmentRepo,
		s3Client:       s3Client,
		logger:         logger,
		now:            time.Now,
	}
}

func (j *CleanupJob) Name() string {
	return "attachment_cleanup"
}

// Run deletes expired objects from storage, then deletes the rows whose object
// is gone. Rows whose object could not be deleted are retried on the next run.
func (j *CleanupJob) Run(ctx context.Context) {
	j.logger.Info("Starting cleanup job for expired temporary attachments")

	expired, err := j.attachmentRepo.FindExpiredTempAttachments(ctx, j.now())
	if err != nil {
		j.logger.Error("Failed to find expired temporary attachments", zap.Error(err))
		return
	}

	if len(expired) == 0 {
		j.logger.Info("No expired temporary attachments found")
		return
	}

	j.logger.Info("Found expired temporary attachments", zap.Int("count", len(expired)))

	var deletedIDs []uuid.UUID
	failCount := 0

	for _, attachment := range expired {
		if err := j.s3Client.DeleteFile(ctx, attachment.FileKey); err != nil {
			j.logger.Error("Failed to delete file from S3",
				zap.String("attachment_id", attachment.ID.String()),
				zap.String("file_key", attachment.FileKey),
				zap.Error(err),
			)
			failCount++
			continue
		}

		deletedIDs = append(deletedIDs, attachment.ID)
		j.logger.Debug("Deleted file from S3",
			zap.String("attachment_id", attachment.ID.String()),
			zap.String("file_key", attachment.FileKey),
		)
	}

	if len(deletedIDs) > 0 {
		if err := j.attachmentRepo.DeleteBatch(ctx, deletedIDs); err != nil {
			j.logger.Error("Failed to delete attachments from database",
				zap.Int("count", len(deletedIDs)),
				zap.Error(err),
			)
		} else {
			j.logger.Info("Successfully deleted attachments from database",
				zap.Int("count", len(deletedIDs)),
			)
		}
	}

	j.logger.Info("Cleanup job completed",
		zap.Int("total_expired", len(expired)),
		zap.Int("success", len(deletedIDs)),
		zap.Int("failed", failCount),
	)
}
