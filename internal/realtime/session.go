package realtime

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var (
	ErrSessionClosed  = errors.New("session is closed")
	ErrSendBufferFull = errors.New("session send buffer is full")
)

// State is the lifecycle position of a realtime connection.
type State int32

const (
	StateConnecting State = iota
	StateAuthenticating
	StateAuthorized
	StateRelaying
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthorized:
		return "authorized"
	case StateRelaying:
		return "relaying"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// Session is one authorized websocket connection subscribed to a board.
// Only the write pump writes data frames to conn.
type Session struct {
	id      string
	boardID string
	userID  uuid.UUID

	conn   *websocket.Conn
	hub    *Hub
	cfg    GatewayConfig
	logger *zap.Logger

	state     atomic.Int32
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, hub *Hub, cfg GatewayConfig, logger *zap.Logger) *Session {
	s := &Session{
		id:     uuid.NewString(),
		conn:   conn,
		hub:    hub,
		cfg:    cfg,
		logger: logger,
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
	}
	s.state.Store(int32(StateConnecting))
	return s
}

func (s *Session) ID() string { return s.id }

func (s *Session) BoardID() string { return s.boardID }

func (s *Session) UserID() uuid.UUID { return s.userID }

func (s *Session) State() State { return State(s.state.Load()) }

func (s *Session) setState(state State) {
	s.state.Store(int32(state))
}

// Send queues message for the write pump. It never blocks.
func (s *Session) Send(message []byte) error {
	select {
	case <-s.done:
		return ErrSessionClosed
	default:
	}

	select {
	case s.send <- message:
		return nil
	case <-s.done:
		return ErrSessionClosed
	default:
		return ErrSendBufferFull
	}
}

// Close unsubscribes the session and stops its pumps. Safe to call more than once.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		s.setState(StateClosed)
		close(s.done)
		if s.boardID != "" {
			s.hub.Unsubscribe(s.boardID, s)
		}
	})
}

// Done is closed once the session has been closed.
func (s *Session) Done() <-chan struct{} { return s.done }

// readPump relays inbound JSON frames to the other subscribers of the board.
func (s *Session) readPump() {
	defer s.Close()

	s.conn.SetReadLimit(s.cfg.MaxMessageSize)
	s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(s.cfg.PongWait))
		return nil
	})

	for {
		_, message, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				s.logger.Warn("WebSocket read error",
					zap.String("session_id", s.id),
					zap.String("board_id", s.boardID),
					zap.Error(err),
				)
			}
			return
		}

		if !isJSONObject(message) {
			s.logger.Debug("Ignoring non-JSON frame",
				zap.String("session_id", s.id),
				zap.String("board_id", s.boardID),
			)
			continue
		}

		s.hub.BroadcastExcept(context.Background(), s.boardID, message, s)
	}
}

// writePump delivers queued messages and keepalive pings until the session closes.
func (s *Session) writePump() {
	pingPeriod := (s.cfg.PongWait * 9) / 10
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case message := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				s.logger.Warn("WebSocket write error",
					zap.String("session_id", s.id),
					zap.Error(err),
				)
				s.Close()
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				s.Close()
				return
			}
		case <-s.done:
			s.conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
				time.Now().Add(s.cfg.WriteWait))
			return
		}
	}
}
