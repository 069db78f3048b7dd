package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/response"
	"board-sync-api/internal/service"
)

type CardHandler struct {
	cardService service.CardService
	logger      *zap.Logger
}

func NewCardHandler(cardService service.CardService, logger *zap.Logger) *CardHandler {
	return &CardHandler{cardService: cardService, logger: logger}
}

func (h *CardHandler) GetCards(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}

	cards, err := h.cardService.GetCards(c.Request.Context(), listID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, cards)
}

func (h *CardHandler) CreateCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}
	var req dto.CreateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.CreateCard(c.Request.Context(), listID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, card)
}

// ReorderCards takes a JSON array of {id, position} for cards of one list.
func (h *CardHandler) ReorderCards(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}
	var items []dto.ReorderItem
	if !bindJSON(c, &items) {
		return
	}

	if err := h.cardService.ReorderCards(c.Request.Context(), listID, userID, items); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Cards reordered"})
}

func (h *CardHandler) GetCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}

	card, err := h.cardService.GetCard(c.Request.Context(), cardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

func (h *CardHandler) UpdateCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	var req dto.UpdateCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.UpdateCard(c.Request.Context(), cardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

func (h *CardHandler) DeleteCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}

	if err := h.cardService.DeleteCard(c.Request.Context(), cardID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *CardHandler) MoveCard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	var req dto.MoveCardRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.MoveCard(c.Request.Context(), cardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

func (h *CardHandler) AddAssignee(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	var req dto.AddAssigneeRequest
	if !bindJSON(c, &req) {
		return
	}

	card, err := h.cardService.AddAssignee(c.Request.Context(), cardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, card)
}

func (h *CardHandler) RemoveAssignee(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	cardID, ok := parseIDParam(c, "cardId", "card")
	if !ok {
		return
	}
	assigneeID, ok := parseIDParam(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.cardService.RemoveAssignee(c.Request.Context(), cardID, userID, assigneeID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
