package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/response"
	"board-sync-api/internal/service"
)

type AttachmentHandler struct {
	attachmentService service.AttachmentService
	logger            *zap.Logger
}

func NewAttachmentHandler(attachmentService service.AttachmentService, logger *zap.Logger) *AttachmentHandler {
	return &AttachmentHandler{attachmentService: attachmentService, logger: logger}
}

// GeneratePresignedURL starts an upload; the client PUTs the file to upload_url
// and then calls ConfirmUpload.
func (h *AttachmentHandler) GeneratePresignedURL(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	var req dto.PresignedURLRequest
	if !bindJSON(c, &req) {
		return
	}

	presigned, err := h.attachmentService.GeneratePresignedURL(c.Request.Context(), cardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, presigned)
}

func (h *AttachmentHandler) ConfirmUpload(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId", "attachment")
	if !ok {
		return
	}

	attachment, err := h.attachmentService.ConfirmUpload(c.Request.Context(), attachmentID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, attachment)
}

func (h *AttachmentHandler) DeleteAttachment(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	attachmentID, ok := parseIDParam(c, "attachmentId", "attachment")
	if !ok {
		return
	}

	if err := h.attachmentService.DeleteAttachment(c.Request.Context(), attachmentID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
