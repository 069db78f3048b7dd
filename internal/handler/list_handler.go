package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/response"
	"board-sync-api/internal/service"
)

type ListHandler struct {
	listService service.ListService
	logger      *zap.Logger
}

func NewListHandler(listService service.ListService, logger *zap.Logger) *ListHandler {
	return &ListHandler{listService: listService, logger: logger}
}

func (h *ListHandler) GetLists(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	lists, err := h.listService.GetLists(c.Request.Context(), boardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, lists)
}

func (h *ListHandler) CreateList(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.CreateListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.listService.CreateList(c.Request.Context(), boardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, list)
}

func (h *ListHandler) GetList(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}

	list, err := h.listService.GetList(c.Request.Context(), listID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, list)
}

func (h *ListHandler) UpdateList(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}
	var req dto.UpdateListRequest
	if !bindJSON(c, &req) {
		return
	}

	list, err := h.listService.UpdateList(c.Request.Context(), listID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, list)
}

func (h *ListHandler) DeleteList(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	listID, ok := parseIDParam(c, "listId", "list")
	if !ok {
		return
	}

	if err := h.listService.DeleteList(c.Request.Context(), listID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ReorderLists takes a JSON array of {id, position}.
func (h *ListHandler) ReorderLists(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var items []dto.ReorderItem
	if !bindJSON(c, &items) {
		return
	}

	if err := h.listService.ReorderLists(c.Request.Context(), userID, items); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, gin.H{"message": "Lists reordered"})
}
