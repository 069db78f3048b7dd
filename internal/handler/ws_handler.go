package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ConnectionServer upgrades and serves one realtime board connection.
type ConnectionServer interface {
	Serve(w http.ResponseWriter, r *http.Request, boardID, token string)
}

type WSHandler struct {
	gateway ConnectionServer
}

func NewWSHandler(gateway ConnectionServer) *WSHandler {
	return &WSHandler{gateway: gateway}
}

// HandleBoard serves GET /ws/boards/:boardId?token=... until the connection closes.
// Authentication happens after the upgrade so that refusals arrive as close frames.
func (h *WSHandler) HandleBoard(c *gin.Context) {
	h.gateway.Serve(c.Writer, c.Request, c.Param("boardId"), c.Query("token"))
}
