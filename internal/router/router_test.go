package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/database"
	"board-sync-api/internal/domain"
	"board-sync-api/internal/dto"
	"board-sync-api/internal/metrics"
	"board-sync-api/internal/realtime"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testServer struct {
	db     *gorm.DB
	hub    *realtime.Hub
	server *httptest.Server
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))

	logger := zap.NewNop()
	registry := prometheus.NewRegistry()
	m := metrics.NewWithRegistry(registry, logger)
	hub := realtime.NewHub(logger, realtime.WithMetrics(m))

	r := Setup(Config{
		DB:       db,
		Logger:   logger,
		Metrics:  m,
		Gatherer: registry,
		Hub:      hub,
		Tokens:   auth.NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour),
		BasePath: "/api",
	})

	srv := httptest.NewServer(r)
	t.Cleanup(func() {
		hub.Close()
		srv.Close()
		_ = database.Close(db)
	})
	return &testServer{db: db, hub: hub, server: srv}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (s *testServer) do(t *testing.T, method, path, token string, body interface{}) (int, envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, s.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var env envelope
	if resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&env))
	}
	return resp.StatusCode, env
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(env.Data, &out))
	return out
}

func (s *testServer) register(t *testing.T, username string) string {
	t.Helper()
	status, env := s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.Equal(t, http.StatusCreated, status)
	return decode[dto.TokenResponse](t, env).AccessToken
}

func (s *testServer) dial(t *testing.T, boardID, token string) *websocket.Conn {
	t.Helper()
	wsURL := "ws" + strings.TrimPrefix(s.server.URL, "http") + "/api/ws/boards/" + boardID + "?token=" + token
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readEventType(t *testing.T, conn *websocket.Conn) string {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	var event realtime.Event
	require.NoError(t, json.Unmarshal(data, &event))
	return string(event.Type)
}

// TestMetricsEndpoint_RootPath tests /metrics endpoint at root path
func TestMetricsEndpoint_RootPath(t *testing.T) {
	s := setupTestServer(t)

	resp, err := http.Get(s.server.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()

	resp, err = http.Get(s.server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Header.Get("Content-Type"), "text/plain")
}

func TestMetricsEndpoint_NotUnderBasePath(t *testing.T) {
	s := setupTestServer(t)

	resp, err := http.Get(s.server.URL + "/api/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthAndReady(t *testing.T) {
	s := setupTestServer(t)

	for _, path := range []string{"/health", "/ready"} {
		resp, err := http.Get(s.server.URL + path)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode, path)
	}
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := setupTestServer(t)

	status, env := s.do(t, http.MethodGet, "/api/boards", "", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.False(t, env.Success)
	assert.Equal(t, "UNAUTHORIZED", env.Error.Code)

	status, _ = s.do(t, http.MethodGet, "/api/users/me", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestAuthFlow(t *testing.T) {
	s := setupTestServer(t)

	token := s.register(t, "alice")

	status, env := s.do(t, http.MethodGet, "/api/users/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	me := decode[dto.UserResponse](t, env)
	assert.Equal(t, "alice", me.Username)

	status, env = s.do(t, http.MethodPost, "/api/auth/register", "", dto.RegisterRequest{
		Username: "alice",
		Email:    "other@example.com",
		Password: "secret123",
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "ALREADY_EXISTS", env.Error.Code)

	status, env = s.do(t, http.MethodPost, "/api/auth/login", "", dto.LoginRequest{Username: "alice", Password: "secret123"})
	require.Equal(t, http.StatusOK, status)
	pair := decode[dto.TokenResponse](t, env)
	assert.Equal(t, "bearer", strings.ToLower(pair.TokenType))

	status, env = s.do(t, http.MethodPost, "/api/auth/refresh", "", dto.RefreshRequest{RefreshToken: pair.RefreshToken})
	require.Equal(t, http.StatusOK, status)
	assert.NotEmpty(t, decode[dto.TokenResponse](t, env).AccessToken)

	// a refresh token is not an access token
	status, _ = s.do(t, http.MethodGet, "/api/users/me", pair.RefreshToken, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestSprintScenario(t *testing.T) {
	s := setupTestServer(t)
	token := s.register(t, "alice")

	status, env := s.do(t, http.MethodPost, "/api/boards", token, dto.CreateBoardRequest{Name: "Sprint"})
	require.Equal(t, http.StatusCreated, status)
	board := decode[dto.BoardResponse](t, env)

	conn := s.dial(t, board.ID.String(), token)
	require.Eventually(t, func() bool {
		return s.hub.SubscriberCount(board.ID.String()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	status, env = s.do(t, http.MethodPost, "/api/boards/"+board.ID.String()+"/lists", token, dto.CreateListRequest{Name: "Todo"})
	require.Equal(t, http.StatusCreated, status)
	todo := decode[dto.ListResponse](t, env)
	assert.Equal(t, 0, todo.Position)

	status, env = s.do(t, http.MethodPost, "/api/boards/"+board.ID.String()+"/lists", token, dto.CreateListRequest{Name: "Done"})
	require.Equal(t, http.StatusCreated, status)
	done := decode[dto.ListResponse](t, env)
	assert.Equal(t, 1, done.Position)

	status, env = s.do(t, http.MethodPost, "/api/lists/"+todo.ID.String()+"/cards", token, dto.CreateCardRequest{Title: "Fix bug"})
	require.Equal(t, http.StatusCreated, status)
	card := decode[dto.CardResponse](t, env)
	assert.Equal(t, 0, card.Position)
	assert.Equal(t, board.ID, card.BoardID)

	zero := 0
	status, env = s.do(t, http.MethodPost, "/api/cards/"+card.ID.String()+"/move", token, dto.MoveCardRequest{
		NewListID:   done.ID,
		NewPosition: &zero,
	})
	require.Equal(t, http.StatusOK, status)
	moved := decode[dto.CardResponse](t, env)
	assert.Equal(t, done.ID, moved.ListID)
	assert.Equal(t, 0, moved.Position)
	assert.Equal(t, board.ID, moved.BoardID)

	received := map[string]int{}
	for i := 0; i < 4; i++ {
		received[readEventType(t, conn)]++
	}
	assert.Equal(t, map[string]int{
		"list_created": 2,
		"card_created": 1,
		"card_moved":   1,
	}, received)

	status, env = s.do(t, http.MethodGet, "/api/cards/"+card.ID.String(), token, nil)
	require.Equal(t, http.StatusOK, status)
	stored := decode[dto.CardResponse](t, env)
	assert.Equal(t, done.ID, stored.ListID)
	assert.Equal(t, board.ID, stored.BoardID)

	status, _ = s.do(t, http.MethodDelete, "/api/boards/"+board.ID.String(), token, nil)
	require.Equal(t, http.StatusNoContent, status)
	assert.Equal(t, "board_deleted", readEventType(t, conn))

	var count int64
	for _, model := range []interface{}{&domain.List{}, &domain.Card{}, &domain.Label{}, &domain.BoardMember{}} {
		require.NoError(t, s.db.Model(model).Where("board_id = ?", board.ID).Count(&count).Error)
		assert.Zero(t, count)
	}
}

func TestOutsiderIsForbidden(t *testing.T) {
	s := setupTestServer(t)
	owner := s.register(t, "alice")
	outsider := s.register(t, "mallory")

	status, env := s.do(t, http.MethodPost, "/api/boards", owner, dto.CreateBoardRequest{Name: "Private"})
	require.Equal(t, http.StatusCreated, status)
	board := decode[dto.BoardResponse](t, env)

	status, env = s.do(t, http.MethodGet, "/api/boards/"+board.ID.String(), outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "FORBIDDEN", env.Error.Code)

	status, _ = s.do(t, http.MethodPost, "/api/boards/"+board.ID.String()+"/members", owner, dto.AddMemberRequest{Username: "mallory"})
	require.Equal(t, http.StatusCreated, status)

	status, _ = s.do(t, http.MethodGet, "/api/boards/"+board.ID.String(), outsider, nil)
	assert.Equal(t, http.StatusOK, status)

	status, env = s.do(t, http.MethodDelete, "/api/boards/"+board.ID.String(), outsider, nil)
	assert.Equal(t, http.StatusForbidden, status)
	assert.Equal(t, "Only the board owner can perform this action", env.Error.Message)
}

func TestWebSocketRejectsNonMember(t *testing.T) {
	s := setupTestServer(t)
	owner := s.register(t, "alice")
	outsider := s.register(t, "mallory")

	status, env := s.do(t, http.MethodPost, "/api/boards", owner, dto.CreateBoardRequest{Name: "Private"})
	require.Equal(t, http.StatusCreated, status)
	board := decode[dto.BoardResponse](t, env)

	conn := s.dial(t, board.ID.String(), outsider)
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.ClosePolicyViolation))
	assert.Zero(t, s.hub.SubscriberCount(board.ID.String()))
}
