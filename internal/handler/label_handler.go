package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/response"
	"board-sync-api/internal/service"
)

type LabelHandler struct {
	labelService service.LabelService
	logger       *zap.Logger
}

func NewLabelHandler(labelService service.LabelService, logger *zap.Logger) *LabelHandler {
	return &LabelHandler{labelService: labelService, logger: logger}
}

func (h *LabelHandler) GetBoardLabels(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	labels, err := h.labelService.GetBoardLabels(c.Request.Context(), boardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, labels)
}

func (h *LabelHandler) GetCardLabels(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}

	labels, err := h.labelService.GetCardLabels(c.Request.Context(), cardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, labels)
}

func (h *LabelHandler) AddLabelToCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	var req dto.AddLabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.labelService.AddLabelToCard(c.Request.Context(), cardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, label)
}

func (h *LabelHandler) RemoveLabelFromCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "labelId", "label")
	if !ok {
		return
	}

	if err := h.labelService.RemoveLabelFromCard(c.Request.Context(), cardID, labelID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "labelId", "label")
	if !ok {
		return
	}
	var req dto.UpdateLabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.labelService.UpdateLabel(c.Request.Context(), labelID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, label)
}

func (h *LabelHandler) DeleteLabel(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	labelID, ok := parseIDParam(c, "labelId", "label")
	if !ok {
		return
	}

	if err := h.labelService.DeleteLabel(c.Request.Context(), labelID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
