package ordering

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"board-sync-api/internal/domain"
	"board-sync-api/internal/response"
)

type ListStore interface {
	CountByBoard(ctx context.Context, boardID uuid.UUID) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.List, error)
	UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error
}

type CardStore interface {
	CountByList(ctx context.Context, listID uuid.UUID) (int64, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)
	UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error
	UpdatePlacement(ctx context.Context, card *domain.Card) error
}

// BoardGate authorizes the caller on the board a batch resolved to.
type BoardGate func(ctx context.Context, boardID uuid.UUID) error

// Engine assigns and rewrites sibling positions of lists and cards.
type Engine struct {
	lists ListStore
	cards CardStore
}

func NewEngine(lists ListStore, cards CardStore) *Engine {
	return &Engine{lists: lists, cards: cards}
}

// ListPosition returns requested when set, otherwise the current sibling count.
// Two concurrent appends may receive the same position; reads stay deterministic
// through the created_at/id tie-break.
func (e *Engine) ListPosition(ctx context.Context, boardID uuid.UUID, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	count, err := e.lists.CountByBoard(ctx, boardID)
	if err != nil {
		return 0, fmt.Errorf("failed to count lists: %w", err)
	}
	return int(count), nil
}

// CardPosition is ListPosition for cards within a list.
func (e *Engine) CardPosition(ctx context.Context, listID uuid.UUID, requested *int) (int, error) {
	if requested != nil {
		return *requested, nil
	}
	count, err := e.cards.CountByList(ctx, listID)
	if err != nil {
		return 0, fmt.Errorf("failed to count cards: %w", err)
	}
	return int(count), nil
}

// ReorderLists validates that every id exists on one board, authorizes through gate,
// then writes all positions in one transaction. It returns the board id.
func (e *Engine) ReorderLists(ctx context.Context, updates []domain.PositionUpdate, gate BoardGate) (uuid.UUID, error) {
	ids, err := batchIDs(updates)
	if err != nil {
		return uuid.Nil, err
	}

	lists, err := e.lists.FindByIDs(ctx, ids)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to load lists: %w", err)
	}
	if len(lists) != len(ids) {
		return uuid.Nil, invalidGrouping("one or more lists do not exist")
	}

	boardID := lists[0].BoardID
	for _, l := range lists[1:] {
		if l.BoardID != boardID {
			return uuid.Nil, invalidGrouping("all lists must belong to the same board")
		}
	}

	if err := gate(ctx, boardID); err != nil {
		return uuid.Nil, err
	}
	if err := e.lists.UpdatePositions(ctx, updates); err != nil {
		return uuid.Nil, fmt.Errorf("failed to reorder lists: %w", err)
	}
	return boardID, nil
}

// ReorderCards rewrites positions of cards that must all sit in listID.
func (e *Engine) ReorderCards(ctx context.Context, listID uuid.UUID, updates []domain.PositionUpdate) error {
	ids, err := batchIDs(updates)
	if err != nil {
		return err
	}

	cards, err := e.cards.FindByIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("failed to load cards: %w", err)
	}
	if len(cards) != len(ids) {
		return invalidGrouping("one or more cards do not exist")
	}
	for _, c := range cards {
		if c.ListID != listID {
			return invalidGrouping("all cards must belong to the list being reordered")
		}
	}

	if err := e.cards.UpdatePositions(ctx, updates); err != nil {
		return fmt.Errorf("failed to reorder cards: %w", err)
	}
	return nil
}

// MoveCard places card at position in target. Moving across boards is refused.
func (e *Engine) MoveCard(ctx context.Context, card *domain.Card, target *domain.List, position int) error {
	if target.BoardID != card.BoardID {
		return response.NewAppError(response.ErrCodeCrossBoardMove, "Cannot move card to a list on another board", "")
	}

	moved := *card
	moved.ListID = target.ID
	moved.Position = position
	SyncCardBoard(&moved, target)

	if err := e.cards.UpdatePlacement(ctx, &moved); err != nil {
		return fmt.Errorf("failed to move card: %w", err)
	}
	*card = moved
	return nil
}

// SyncCardBoard derives the card's board from the list that holds it.
func SyncCardBoard(card *domain.Card, list *domain.List) {
	card.ListID = list.ID
	card.BoardID = list.BoardID
}

func batchIDs(updates []domain.PositionUpdate) ([]uuid.UUID, error) {
	if len(updates) == 0 {
		return nil, response.NewAppError(response.ErrCodeValidation, "Reorder batch must not be empty", "")
	}
	seen := make(map[uuid.UUID]struct{}, len(updates))
	ids := make([]uuid.UUID, 0, len(updates))
	for _, u := range updates {
		if _, dup := seen[u.ID]; dup {
			return nil, response.NewAppError(response.ErrCodeValidation, "Reorder batch contains duplicate ids", u.ID.String())
		}
		seen[u.ID] = struct{}{}
		ids = append(ids, u.ID)
	}
	return ids, nil
}

func invalidGrouping(details string) error {
	return response.NewAppError(response.ErrCodeInvalidGrouping, "Invalid reorder batch", details)
}
