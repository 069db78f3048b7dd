package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/domain"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Rejection reasons reported to metrics. Clients only ever see close code 1008.
const (
	RejectMissingToken = "missing_token"
	RejectInvalidToken = "invalid_token"
	RejectInvalidBoard = "invalid_board"
	RejectUnknownUser  = "unknown_user"
	RejectForbidden    = "forbidden"
	RejectSubscribe    = "subscribe_failed"
)

var errRejected = errors.New("connection rejected")

type TokenVerifier interface {
	Verify(token string, expected auth.TokenType) (uuid.UUID, error)
}

type UserFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
}

type BoardAuthorizer interface {
	Authorize(ctx context.Context, boardID, userID uuid.UUID, requireAdmin bool) error
}

// GatewayMetrics is satisfied by the metrics package; nil disables recording.
type GatewayMetrics interface {
	RealtimeConnectionOpened()
	RealtimeConnectionClosed()
	RecordRealtimeRejection(reason string)
}

type GatewayConfig struct {
	SendBuffer     int
	MaxMessageSize int64
	PongWait       time.Duration
	WriteWait      time.Duration
}

func DefaultGatewayConfig() GatewayConfig {
	return GatewayConfig{
		SendBuffer:     256,
		MaxMessageSize: 64 * 1024,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
	}
}

func (c GatewayConfig) withDefaults() GatewayConfig {
	d := DefaultGatewayConfig()
	if c.SendBuffer <= 0 {
		c.SendBuffer = d.SendBuffer
	}
	if c.MaxMessageSize <= 0 {
		c.MaxMessageSize = d.MaxMessageSize
	}
	if c.PongWait <= 0 {
		c.PongWait = d.PongWait
	}
	if c.WriteWait <= 0 {
		c.WriteWait = d.WriteWait
	}
	return c
}

// Gateway upgrades board connections, authorizes them and runs their pumps.
type Gateway struct {
	hub      *Hub
	tokens   TokenVerifier
	users    UserFinder
	perms    BoardAuthorizer
	cfg      GatewayConfig
	upgrader websocket.Upgrader
	metrics  GatewayMetrics
	logger   *zap.Logger
}

func NewGateway(hub *Hub, tokens TokenVerifier, users UserFinder, perms BoardAuthorizer, cfg GatewayConfig, metrics GatewayMetrics, logger *zap.Logger) *Gateway {
	return &Gateway{
		hub:    hub,
		tokens: tokens,
		users:  users,
		perms:  perms,
		cfg:    cfg.withDefaults(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		metrics: metrics,
		logger:  logger,
	}
}

// Serve handles one connection for boardID and returns once it is closed.
// The socket is upgraded before authentication so failures can be reported
// with a policy-violation close frame.
func (g *Gateway) Serve(w http.ResponseWriter, r *http.Request, boardID, token string) {
	conn, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.logger.Warn("WebSocket upgrade failed", zap.Error(err))
		return
	}

	session := newSession(conn, g.hub, g.cfg, g.logger)
	if err := g.admit(r.Context(), session, boardID, token); err != nil {
		session.setState(StateClosed)
		conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.ClosePolicyViolation, ""),
			time.Now().Add(g.cfg.WriteWait))
		conn.Close()
		return
	}

	if g.metrics != nil {
		g.metrics.RealtimeConnectionOpened()
		defer g.metrics.RealtimeConnectionClosed()
	}

	g.logger.Info("WebSocket connected",
		zap.String("session_id", session.ID()),
		zap.String("board_id", session.BoardID()),
		zap.String("user_id", session.UserID().String()),
	)

	session.setState(StateRelaying)
	go session.writePump()
	session.readPump()

	g.logger.Info("WebSocket disconnected",
		zap.String("session_id", session.ID()),
		zap.String("board_id", session.BoardID()),
	)
}

// admit walks the session through Authenticating and Authorized and subscribes it.
func (g *Gateway) admit(ctx context.Context, session *Session, rawBoardID, token string) error {
	session.setState(StateAuthenticating)

	if token == "" {
		return g.reject(RejectMissingToken, rawBoardID, nil)
	}
	userID, err := g.tokens.Verify(token, auth.TokenTypeAccess)
	if err != nil {
		return g.reject(RejectInvalidToken, rawBoardID, err)
	}
	boardID, err := uuid.Parse(rawBoardID)
	if err != nil {
		return g.reject(RejectInvalidBoard, rawBoardID, err)
	}
	if _, err := g.users.FindByID(ctx, userID); err != nil {
		return g.reject(RejectUnknownUser, rawBoardID, err)
	}
	if err := g.perms.Authorize(ctx, boardID, userID, false); err != nil {
		return g.reject(RejectForbidden, rawBoardID, err)
	}

	session.setState(StateAuthorized)
	session.userID = userID
	session.boardID = boardID.String()

	if err := g.hub.Subscribe(session.boardID, session); err != nil {
		session.boardID = ""
		return g.reject(RejectSubscribe, rawBoardID, err)
	}
	return nil
}

func (g *Gateway) reject(reason, boardID string, cause error) error {
	if g.metrics != nil {
		g.metrics.RecordRealtimeRejection(reason)
	}
	g.logger.Info("WebSocket connection rejected",
		zap.String("reason", reason),
		zap.String("board_id", boardID),
		zap.Error(cause),
	)
	return errRejected
}

func isJSONObject(message []byte) bool {
	var probe map[string]json.RawMessage
	return json.Unmarshal(message, &probe) == nil
}
