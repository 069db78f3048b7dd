package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/response"
)

func TestBoardService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")

	created, err := env.boardSvc.CreateBoard(env.ctx, alice.ID, &dto.CreateBoardRequest{Name: "Sprint", Description: "Q3"})
	require.NoError(t, err)
	assert.Equal(t, alice.ID, created.OwnerID)
	assert.Equal(t, 1, env.metrics.boards)

	shared := env.board(t, bob, "Shared")
	env.member(t, shared, alice, false)
	env.board(t, bob, "Private")

	boards, err := env.boardSvc.ListBoards(env.ctx, alice.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(boards))
	for _, b := range boards {
		names = append(names, b.Name)
	}
	assert.ElementsMatch(t, []string{"Sprint", "Shared"}, names)
}

func TestBoardService_GetBoardDetail(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	board := env.board(t, alice, "Sprint")
	env.member(t, board, bob, false)
	todo := env.list(t, board, "Todo", 0)
	done := env.list(t, board, "Done", 1)
	env.card(t, todo, "second", 1)
	env.card(t, todo, "first", 0)

	detail, err := env.boardSvc.GetBoard(env.ctx, board.ID, bob.ID)
	require.NoError(t, err)
	require.Len(t, detail.Lists, 2)
	assert.Equal(t, todo.ID, detail.Lists[0].ID)
	assert.Equal(t, done.ID, detail.Lists[1].ID)
	require.Len(t, detail.Lists[0].Cards, 2)
	assert.Equal(t, "first", detail.Lists[0].Cards[0].Title)
	assert.Empty(t, detail.Lists[1].Cards)
	require.Len(t, detail.Members, 2)
	assert.True(t, detail.Members[0].IsOwner)
	assert.Equal(t, bob.ID, detail.Members[1].UserID)

	stranger := env.user(t, "eve")
	_, err = env.boardSvc.GetBoard(env.ctx, board.ID, stranger.ID)
	assertAppError(t, err, response.ErrCodeForbidden, "Access denied")
}

func TestBoardService_UpdateRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	carol := env.user(t, "carol")
	board := env.board(t, alice, "Sprint")
	env.member(t, board, bob, false)
	env.member(t, board, carol, true)

	_, err := env.boardSvc.UpdateBoard(env.ctx, board.ID, bob.ID, &dto.UpdateBoardRequest{Name: strPtr("Hijack")})
	assertAppError(t, err, response.ErrCodeForbidden, "Admin access required")
	assert.Empty(t, env.events.Events())

	updated, err := env.boardSvc.UpdateBoard(env.ctx, board.ID, carol.ID, &dto.UpdateBoardRequest{Name: strPtr("Sprint 2")})
	require.NoError(t, err)
	assert.Equal(t, "Sprint 2", updated.Name)
	assert.Equal(t, realtime.EventBoardUpdated, env.events.Last().Type)
}

func TestBoardService_DeleteIsOwnerOnly(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	carol := env.user(t, "carol")
	board := env.board(t, alice, "Sprint")
	env.member(t, board, carol, true)
	env.card(t, env.list(t, board, "Todo", 0), "task", 0)

	err := env.boardSvc.DeleteBoard(env.ctx, board.ID, carol.ID)
	assertAppError(t, err, response.ErrCodeForbidden, "Only the board owner can perform this action")

	require.NoError(t, env.boardSvc.DeleteBoard(env.ctx, board.ID, alice.ID))
	assert.Equal(t, realtime.EventBoardDeleted, env.events.Last().Type)

	_, err = env.boardSvc.GetBoard(env.ctx, board.ID, alice.ID)
	assertAppError(t, err, response.ErrCodeNotFound, "Board not found")
}
