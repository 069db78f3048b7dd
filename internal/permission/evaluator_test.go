package permission

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/response"
)

// MockBoardReader is a mock implementation of BoardReader
type MockBoardReader struct {
	FindByIDFunc func(ctx context.Context, id uuid.UUID) (*domain.Board, error)
}

func (m *MockBoardReader) FindByID(ctx context.Context, id uuid.UUID) (*domain.Board, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

// MockMembershipReader is a mock implementation of MembershipReader
type MockMembershipReader struct {
	FindByBoardAndUserFunc func(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error)
}

func (m *MockMembershipReader) FindByBoardAndUser(ctx context.Context, boardID, userID uuid.UUID) (*domain.BoardMember, error) {
	if m.FindByBoardAndUserFunc != nil {
		return m.FindByBoardAndUserFunc(ctx, boardID, userID)
	}
	return nil, gorm.ErrRecordNotFound
}

type membership int

const (
	noMembership membership = iota
	plainMember
	adminMember
)

// newScenario builds an evaluator over one board whose owner is ownerID.
func newScenario(boardExists bool, ownerID, userID uuid.UUID, m membership) (*Evaluator, uuid.UUID) {
	boardID := uuid.New()
	boards := &MockBoardReader{FindByIDFunc: func(_ context.Context, id uuid.UUID) (*domain.Board, error) {
		if !boardExists || id != boardID {
			return nil, gorm.ErrRecordNotFound
		}
		return &domain.Board{BaseModel: domain.BaseModel{ID: boardID}, OwnerID: ownerID}, nil
	}}
	members := &MockMembershipReader{FindByBoardAndUserFunc: func(_ context.Context, bID, uID uuid.UUID) (*domain.BoardMember, error) {
		if m == noMembership || bID != boardID || uID != userID {
			return nil, gorm.ErrRecordNotFound
		}
		return &domain.BoardMember{BoardID: bID, UserID: uID, IsAdmin: m == adminMember}, nil
	}}
	return NewEvaluator(boards, members), boardID
}

// expectedCode is the authorization truth table; "" means allowed.
func expectedCode(boardExists, isOwner bool, m membership, role Role) string {
	switch {
	case !boardExists:
		return response.ErrCodeNotFound
	case isOwner:
		return ""
	case role == RoleOwner:
		return response.ErrCodeForbidden
	case m == noMembership:
		return response.ErrCodeForbidden
	case role == RoleAdmin && m != adminMember:
		return response.ErrCodeForbidden
	default:
		return ""
	}
}

func TestEvaluator_TruthTableProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	properties.Property("Check matches the owner/member/admin truth table", prop.ForAll(
		func(boardExists, isOwner bool, m int, r int) bool {
			userID := uuid.New()
			ownerID := uuid.New()
			if isOwner {
				ownerID = userID
			}
			evaluator, boardID := newScenario(boardExists, ownerID, userID, membership(m))

			_, err := evaluator.Check(context.Background(), boardID, userID, Role(r))
			want := expectedCode(boardExists, isOwner, membership(m), Role(r))
			if want == "" {
				return err == nil
			}
			return response.IsCode(err, want)
		},
		gen.Bool(),
		gen.Bool(),
		gen.IntRange(int(noMembership), int(adminMember)),
		gen.IntRange(int(RoleMember), int(RoleOwner)),
	))

	properties.TestingRun(t)
}

func TestEvaluator_Messages(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	tests := []struct {
		name        string
		exists      bool
		owner       bool
		membership  membership
		role        Role
		wantMessage string
	}{
		{"missing board", false, false, noMembership, RoleMember, "Board not found"},
		{"stranger", true, false, noMembership, RoleMember, "Access denied"},
		{"member needs admin", true, false, plainMember, RoleAdmin, "Admin access required"},
		{"admin cannot delete", true, false, adminMember, RoleOwner, "Only the board owner can perform this action"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ownerID := uuid.New()
			if tt.owner {
				ownerID = userID
			}
			evaluator, boardID := newScenario(tt.exists, ownerID, userID, tt.membership)
			_, err := evaluator.Check(ctx, boardID, userID, tt.role)

			var appErr *response.AppError
			require.True(t, errors.As(err, &appErr))
			assert.Equal(t, tt.wantMessage, appErr.Message)
		})
	}
}

func TestEvaluator_AuthorizeWrappers(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	evaluator, boardID := newScenario(true, uuid.New(), userID, adminMember)
	assert.NoError(t, evaluator.Authorize(ctx, boardID, userID, true))
	assert.NoError(t, evaluator.Authorize(ctx, boardID, userID, false))
	assert.True(t, response.IsCode(evaluator.AuthorizeOwner(ctx, boardID, userID), response.ErrCodeForbidden))

	evaluator, boardID = newScenario(true, userID, userID, noMembership)
	assert.NoError(t, evaluator.AuthorizeOwner(ctx, boardID, userID))
}

func TestEvaluator_PropagatesStoreErrors(t *testing.T) {
	boom := errors.New("connection reset")
	evaluator := NewEvaluator(
		&MockBoardReader{FindByIDFunc: func(context.Context, uuid.UUID) (*domain.Board, error) { return nil, boom }},
		&MockMembershipReader{},
	)

	_, err := evaluator.Check(context.Background(), uuid.New(), uuid.New(), RoleMember)
	assert.ErrorIs(t, err, boom)
	assert.False(t, response.IsCode(err, response.ErrCodeNotFound))
}

type stubCards map[uuid.UUID]*domain.Card

func (s stubCards) FindByID(_ context.Context, id uuid.UUID) (*domain.Card, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubComments map[uuid.UUID]*domain.Comment

func (s stubComments) FindByID(_ context.Context, id uuid.UUID) (*domain.Comment, error) {
	if c, ok := s[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubLists map[uuid.UUID]*domain.List

func (s stubLists) FindByID(_ context.Context, id uuid.UUID) (*domain.List, error) {
	if l, ok := s[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubLabels map[uuid.UUID]*domain.Label

func (s stubLabels) FindByID(_ context.Context, id uuid.UUID) (*domain.Label, error) {
	if l, ok := s[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubAttachments map[uuid.UUID]*domain.Attachment

func (s stubAttachments) FindByID(_ context.Context, id uuid.UUID) (*domain.Attachment, error) {
	if a, ok := s[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func TestEvaluator_GateResolvesOwningBoard(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	evaluator, boardID := newScenario(true, uuid.New(), userID, plainMember)

	list := &domain.List{BaseModel: domain.BaseModel{ID: uuid.New()}, BoardID: boardID}
	card := &domain.Card{BaseModel: domain.BaseModel{ID: uuid.New()}, ListID: list.ID, BoardID: boardID}
	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, CardID: card.ID}
	label := &domain.Label{BaseModel: domain.BaseModel{ID: uuid.New()}, BoardID: boardID}
	attachment := &domain.Attachment{BaseModel: domain.BaseModel{ID: uuid.New()}, CardID: card.ID, BoardID: boardID}
	lookups := Lookups{
		Lists:       stubLists{list.ID: list},
		Cards:       stubCards{card.ID: card},
		Comments:    stubComments{comment.ID: comment},
		Labels:      stubLabels{label.ID: label},
		Attachments: stubAttachments{attachment.ID: attachment},
	}

	tests := []struct {
		name    string
		resolve Resolver
		check   func(t *testing.T, target *Target)
	}{
		{"board", ByBoard(boardID), func(t *testing.T, target *Target) {}},
		{"list", lookups.ByList(list.ID), func(t *testing.T, target *Target) {
			assert.Same(t, list, target.List)
		}},
		{"card", lookups.ByCard(card.ID), func(t *testing.T, target *Target) {
			assert.Same(t, card, target.Card)
		}},
		{"comment", lookups.ByComment(comment.ID), func(t *testing.T, target *Target) {
			assert.Same(t, comment, target.Comment)
			assert.Same(t, card, target.Card)
		}},
		{"label", lookups.ByLabel(label.ID), func(t *testing.T, target *Target) {
			assert.Same(t, label, target.Label)
		}},
		{"attachment", lookups.ByAttachment(attachment.ID), func(t *testing.T, target *Target) {
			assert.Same(t, attachment, target.Attachment)
			assert.Same(t, card, target.Card)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target, err := evaluator.Gate(ctx, tt.resolve, userID, RoleMember)
			require.NoError(t, err)
			assert.Equal(t, boardID, target.BoardID)
			require.NotNil(t, target.Board)
			assert.Equal(t, boardID, target.Board.ID)
			tt.check(t, target)
		})
	}
}

func TestEvaluator_GateRejects(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()
	evaluator, boardID := newScenario(true, uuid.New(), userID, plainMember)

	card := &domain.Card{BaseModel: domain.BaseModel{ID: uuid.New()}, BoardID: boardID}
	comment := &domain.Comment{BaseModel: domain.BaseModel{ID: uuid.New()}, CardID: uuid.New()}
	lookups := Lookups{
		Cards:    stubCards{card.ID: card},
		Comments: stubComments{comment.ID: comment},
	}

	_, err := evaluator.Gate(ctx, lookups.ByCard(card.ID), userID, RoleAdmin)
	assert.True(t, response.IsCode(err, response.ErrCodeForbidden))

	_, err = evaluator.Gate(ctx, lookups.ByCard(uuid.New()), userID, RoleMember)
	require.True(t, response.IsCode(err, response.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Card not found")

	// a comment whose card is gone resolves to no board
	_, err = evaluator.Gate(ctx, lookups.ByComment(comment.ID), userID, RoleMember)
	require.True(t, response.IsCode(err, response.ErrCodeNotFound))
	assert.Contains(t, err.Error(), "Card not found")

	_, err = evaluator.Gate(ctx, ByBoard(uuid.New()), userID, RoleMember)
	assert.True(t, response.IsCode(err, response.ErrCodeNotFound))
}
