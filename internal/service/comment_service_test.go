package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"board-sync-api/internal/dto"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/response"
)

func TestCommentService_CreateAndList(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	board := env.board(t, alice, "Sprint")
	env.member(t, board, bob, false)
	card := env.card(t, env.list(t, board, "Todo", 0), "task", 0)

	first, err := env.commentSvc.CreateComment(env.ctx, card.ID, alice.ID, &dto.CreateCommentRequest{Content: "first"})
	require.NoError(t, err)
	require.NotNil(t, first.Author)
	assert.Equal(t, "alice", first.Author.Username)
	assert.Equal(t, realtime.EventCommentCreated, env.events.Last().Type)

	time.Sleep(10 * time.Millisecond)
	_, err = env.commentSvc.CreateComment(env.ctx, card.ID, bob.ID, &dto.CreateCommentRequest{Content: "second"})
	require.NoError(t, err)

	comments, err := env.commentSvc.GetComments(env.ctx, card.ID, alice.ID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, "second", comments[0].Content)
	assert.Equal(t, "bob", comments[0].Author.Username)
	assert.Equal(t, "first", comments[1].Content)
}

func TestCommentService_AuthorOnlyEdits(t *testing.T) {
	env := newTestEnv(t)
	alice := env.user(t, "alice")
	bob := env.user(t, "bob")
	board := env.board(t, alice, "Sprint")
	env.member(t, board, bob, false)
	card := env.card(t, env.list(t, board, "Todo", 0), "task", 0)

	comment, err := env.commentSvc.CreateComment(env.ctx, card.ID, bob.ID, &dto.CreateCommentRequest{Content: "mine"})
	require.NoError(t, err)

	// the board owner is not the author
	_, err = env.commentSvc.UpdateComment(env.ctx, comment.ID, alice.ID, &dto.UpdateCommentRequest{Content: "edited"})
	assertAppError(t, err, response.ErrCodeForbidden, "You can only edit your own comments")
	err = env.commentSvc.DeleteComment(env.ctx, comment.ID, alice.ID)
	assertAppError(t, err, response.ErrCodeForbidden, "You can only delete your own comments")

	updated, err := env.commentSvc.UpdateComment(env.ctx, comment.ID, bob.ID, &dto.UpdateCommentRequest{Content: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, realtime.EventCommentUpdated, env.events.Last().Type)

	require.NoError(t, env.commentSvc.DeleteComment(env.ctx, comment.ID, bob.ID))
	assert.Equal(t, realtime.EventCommentDeleted, env.events.Last().Type)

	_, err = env.commentSvc.UpdateComment(env.ctx, comment.ID, bob.ID, &dto.UpdateCommentRequest{Content: "again"})
	assertAppError(t, err, response.ErrCodeNotFound, "Comment not found")
}
