package service

import (
	"context"
	"errors"
	"strings"

	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/response"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Publisher fans a committed change out to the board's viewers.
type Publisher interface {
	Publish(ctx context.Context, event realtime.Event)
}

// Authorizer is the permission gate every operation passes through.
type Authorizer interface {
	Gate(ctx context.Context, resolve permission.Resolver, userID uuid.UUID, role permission.Role) (*permission.Target, error)
}

// BusinessMetrics counts domain events; a nil value disables counting.
type BusinessMetrics interface {
	IncrementBoardCreated()
	IncrementCardCreated()
	IncrementCardMoved()
}

type noopMetrics struct{}

func (noopMetrics) IncrementBoardCreated() {}
func (noopMetrics) IncrementCardCreated()  {}
func (noopMetrics) IncrementCardMoved()    {}

func metricsOrNoop(m BusinessMetrics) BusinessMetrics {
	if m == nil {
		return noopMetrics{}
	}
	return m
}

// gate authorizes userID for role on the board resolve reaches and returns
// what was loaded on the way.
func gate(ctx context.Context, authorizer Authorizer, resolve permission.Resolver, userID uuid.UUID, role permission.Role) (*permission.Target, error) {
	target, err := authorizer.Gate(ctx, resolve, userID, role)
	if err != nil {
		return nil, passThrough(err, "Failed to check permissions")
	}
	return target, nil
}

// lookupError maps a repository read failure to NOT_FOUND or INTERNAL_ERROR.
func lookupError(err error, kind string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return response.NewAppError(response.ErrCodeNotFound, kind+" not found", "")
	}
	return internalError("Failed to load "+strings.ToLower(kind), err)
}

// passThrough keeps AppErrors from lower layers and wraps everything else.
func passThrough(err error, message string) error {
	var appErr *response.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return internalError(message, err)
}

func internalError(message string, err error) error {
	return response.NewAppError(response.ErrCodeInternal, message, err.Error())
}

func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key value")
}
