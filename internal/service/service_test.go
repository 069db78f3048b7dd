package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"board-sync-api/internal/auth"
	"board-sync-api/internal/client"
	"board-sync-api/internal/database"
	"board-sync-api/internal/domain"
	"board-sync-api/internal/ordering"
	"board-sync-api/internal/permission"
	"board-sync-api/internal/realtime"
	"board-sync-api/internal/repository"
	"board-sync-api/internal/response"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (p *recordingPublisher) Publish(_ context.Context, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]realtime.Event(nil), p.events...)
}

func (p *recordingPublisher) Last() realtime.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.events) == 0 {
		return realtime.Event{}
	}
	return p.events[len(p.events)-1]
}

func (p *recordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

type countingMetrics struct {
	boards, cards, moves int
}

func (m *countingMetrics) IncrementBoardCreated() { m.boards++ }
func (m *countingMetrics) IncrementCardCreated()  { m.cards++ }
func (m *countingMetrics) IncrementCardMoved()    { m.moves++ }

type testEnv struct {
	ctx     context.Context
	db      *gorm.DB
	events  *recordingPublisher
	metrics *countingMetrics
	storage *client.MockS3Client

	users       repository.UserRepository
	boards      repository.BoardRepository
	memberRepo  repository.MemberRepository
	lists       repository.ListRepository
	cards       repository.CardRepository
	labels      repository.LabelRepository
	commentRepo repository.CommentRepository
	attachRepo  repository.AttachmentRepository

	userSvc       UserService
	boardSvc      BoardService
	memberSvc     MemberService
	listSvc       ListService
	cardSvc       CardService
	labelSvc      LabelService
	commentSvc    CommentService
	attachmentSvc AttachmentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := database.New(database.Config{Driver: database.DriverSQLite, DSN: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, database.AutoMigrate(db))
	t.Cleanup(func() { _ = database.Close(db) })

	env := &testEnv{
		ctx:         context.Background(),
		db:          db,
		events:      &recordingPublisher{},
		metrics:     &countingMetrics{},
		storage:     client.NewMockS3Client(),
		users:       repository.NewUserRepository(db),
		boards:      repository.NewBoardRepository(db),
		memberRepo:  repository.NewMemberRepository(db),
		lists:       repository.NewListRepository(db),
		cards:       repository.NewCardRepository(db),
		labels:      repository.NewLabelRepository(db),
		commentRepo: repository.NewCommentRepository(db),
		attachRepo:  repository.NewAttachmentRepository(db),
	}

	logger := zap.NewNop()
	evaluator := permission.NewEvaluator(env.boards, env.memberRepo)
	engine := ordering.NewEngine(env.lists, env.cards)
	tokens := auth.NewTokenService("test-secret", 30*time.Minute, 7*24*time.Hour)

	env.userSvc = NewUserService(env.users, env.boards, tokens, env.events)
	env.memberSvc = NewMemberService(env.memberRepo, env.users, evaluator, env.events, logger)
	env.boardSvc = NewBoardService(env.boards, env.lists, env.cards, env.labels, env.memberSvc, evaluator, env.events, env.metrics, logger)
	env.listSvc = NewListService(env.lists, env.cards, engine, evaluator, env.events, logger)
	env.cardSvc = NewCardService(env.cards, env.lists, engine, evaluator, env.events, env.metrics, logger)
	env.labelSvc = NewLabelService(env.labels, env.cards, evaluator, env.events, logger)
	env.commentSvc = NewCommentService(env.commentRepo, env.cards, env.users, evaluator, env.events, logger)
	env.attachmentSvc = NewAttachmentService(env.attachRepo, env.cards, env.storage, evaluator, env.events, logger)
	return env
}

func (e *testEnv) user(t *testing.T, name string) *domain.User {
	t.Helper()
	u := &domain.User{Username: name, Email: name + "@example.com", HashedPassword: "hash"}
	require.NoError(t, e.users.Create(e.ctx, u))
	return u
}

func (e *testEnv) board(t *testing.T, owner *domain.User, name string) *domain.Board {
	t.Helper()
	b := &domain.Board{Name: name, OwnerID: owner.ID}
	require.NoError(t, e.boards.Create(e.ctx, b))
	return b
}

func (e *testEnv) member(t *testing.T, board *domain.Board, u *domain.User, admin bool) {
	t.Helper()
	require.NoError(t, e.memberRepo.Create(e.ctx, &domain.BoardMember{BoardID: board.ID, UserID: u.ID, IsAdmin: admin}))
}

func (e *testEnv) list(t *testing.T, board *domain.Board, name string, position int) *domain.List {
	t.Helper()
	l := &domain.List{Name: name, BoardID: board.ID, Position: position}
	require.NoError(t, e.lists.Create(e.ctx, l))
	return l
}

func (e *testEnv) card(t *testing.T, list *domain.List, title string, position int) *domain.Card {
	t.Helper()
	c := &domain.Card{Title: title, ListID: list.ID, BoardID: list.BoardID, Position: position}
	require.NoError(t, e.cards.Create(e.ctx, c))
	return c
}

func assertAppError(t *testing.T, err error, code, message string) {
	t.Helper()
	require.Error(t, err)
	var appErr *response.AppError
	require.True(t, errors.As(err, &appErr), "expected AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	if message != "" {
		assert.Equal(t, message, appErr.Message)
	}
}

func TestLookupError(t *testing.T) {
	assertAppError(t, lookupError(gorm.ErrRecordNotFound, "Card"), response.ErrCodeNotFound, "Card not found")
	assertAppError(t, lookupError(errors.New("boom"), "Card"), response.ErrCodeInternal, "Failed to load card")
}

func TestPassThrough(t *testing.T) {
	forbidden := response.NewAppError(response.ErrCodeForbidden, "Access denied", "")
	assert.Same(t, forbidden, passThrough(forbidden, "ignored"))
	assertAppError(t, passThrough(errors.New("db down"), "Failed"), response.ErrCodeInternal, "Failed")
}

func TestIsDuplicateKey(t *testing.T) {
	assert.True(t, isDuplicateKey(gorm.ErrDuplicatedKey))
	assert.True(t, isDuplicateKey(errors.New("UNIQUE constraint failed: users.username")))
	assert.True(t, isDuplicateKey(errors.New(`ERROR: duplicate key value violates unique constraint "uq_users_email"`)))
	assert.False(t, isDuplicateKey(errors.New("connection refused")))
}

func TestMetricsOrNoop(t *testing.T) {
	m := metricsOrNoop(nil)
	assert.NotPanics(t, func() {
		m.IncrementBoardCreated()
		m.IncrementCardCreated()
		m.IncrementCardMoved()
	})
	counting := &countingMetrics{}
	assert.Same(t, counting, metricsOrNoop(counting))
}
