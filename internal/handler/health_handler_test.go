package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-sync-api/internal/database"
)

func TestHealthHandler(t *testing.T) {
	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)

	r := gin.New()
	h := NewHealthHandler(db, nil)
	r.GET("/health", h.Health)
	r.GET("/ready", h.Ready)

	w := doRequest(r, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	require.NoError(t, database.Close(db))
	w = doRequest(r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestHealthHandler_RedisUnreachable(t *testing.T) {
	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	r := gin.New()
	r.GET("/ready", NewHealthHandler(db, rdb).Ready)

	w := doRequest(r, http.MethodGet, "/ready", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "redis not reachable")
}
