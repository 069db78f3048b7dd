package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/response"
	"board-sync-api/internal/service"
)

type BoardHandler struct {
	boardService  service.BoardService
	memberService service.MemberService
	logger        *zap.Logger
}

func NewBoardHandler(boardService service.BoardService, memberService service.MemberService, logger *zap.Logger) *BoardHandler {
	return &BoardHandler{
		boardService:  boardService,
		memberService: memberService,
		logger:        logger,
	}
}

func (h *BoardHandler) ListBoards(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	boards, err := h.boardService.ListBoards(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, boards)
}

func (h *BoardHandler) CreateBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req dto.CreateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.CreateBoard(c.Request.Context(), userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, board)
}

func (h *BoardHandler) GetBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	board, err := h.boardService.GetBoard(c.Request.Context(), boardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}

func (h *BoardHandler) UpdateBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.UpdateBoardRequest
	if !bindJSON(c, &req) {
		return
	}

	board, err := h.boardService.UpdateBoard(c.Request.Context(), boardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, board)
}

func (h *BoardHandler) DeleteBoard(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	if err := h.boardService.DeleteBoard(c.Request.Context(), boardID, userID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *BoardHandler) ListMembers(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}

	members, err := h.memberService.ListMembers(c.Request.Context(), boardID, userID)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusOK, members)
}

func (h *BoardHandler) AddMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if !bindJSON(c, &req) {
		return
	}

	member, err := h.memberService.AddMember(c.Request.Context(), boardID, userID, &req)
	if err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	response.SendSuccess(c, http.StatusCreated, member)
}

func (h *BoardHandler) RemoveMember(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	boardID, ok := parseIDParam(c, "boardId", "board")
	if !ok {
		return
	}
	targetID, ok := parseIDParam(c, "userId", "user")
	if !ok {
		return
	}

	if err := h.memberService.RemoveMember(c.Request.Context(), boardID, userID, targetID); err != nil {
		handleServiceError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}
