package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"board-sync-api/internal/domain"
)

// CardRepository defines the interface for card data access
type CardRepository interface {
	Create(ctx context.Context, card *domain.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error)
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error)
	FindByListID(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error)
	CountByList(ctx context.Context, listID uuid.UUID) (int64, error)
	Update(ctx context.Context, card *domain.Card) error
	UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error
	UpdatePlacement(ctx context.Context, card *domain.Card) error
	Delete(ctx context.Context, id uuid.UUID) error
	AddAssignee(ctx context.Context, cardID, userID uuid.UUID) error
	RemoveAssignee(ctx context.Context, cardID, userID uuid.UUID) error
	Count(ctx context.Context) (int64, error)
}

type cardRepositoryImpl struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) CardRepository {
	return &cardRepositoryImpl{db: db}
}

func (r *cardRepositoryImpl) Create(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(card).Error
}

// FindByID loads the card with its labels and assignee ids.
func (r *cardRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Card, error) {
	var card domain.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, []*domain.Card{&card}); err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *cardRepositoryImpl) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*domain.Card, error) {
	if len(ids) == 0 {
		return []*domain.Card{}, nil
	}
	var cards []*domain.Card
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&cards).Error; err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepositoryImpl) FindByListID(ctx context.Context, listID uuid.UUID) ([]*domain.Card, error) {
	var cards []*domain.Card
	if err := r.db.WithContext(ctx).
		Where("list_id = ?", listID).
		Order(siblingOrder).
		Find(&cards).Error; err != nil {
		return nil, err
	}
	if err := r.loadRelations(ctx, cards); err != nil {
		return nil, err
	}
	return cards, nil
}

func (r *cardRepositoryImpl) CountByList(ctx context.Context, listID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).Where("list_id = ?", listID).Count(&count).Error
	return count, err
}

// Update persists the editable card fields. Placement changes go through UpdatePlacement.
func (r *cardRepositoryImpl) Update(ctx context.Context, card *domain.Card) error {
	return r.db.WithContext(ctx).
		Model(card).
		Select("title", "description", "due_date", "attachment_url", "position").
		Omit(clause.Associations).
		Updates(card).Error
}

func (r *cardRepositoryImpl) UpdatePositions(ctx context.Context, updates []domain.PositionUpdate) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return applyPositions(tx, &domain.Card{}, updates)
	})
}

// UpdatePlacement writes list, board and position in a single statement.
func (r *cardRepositoryImpl) UpdatePlacement(ctx context.Context, card *domain.Card) error {
	result := r.db.WithContext(ctx).
		Model(&domain.Card{}).
		Where("id = ?", card.ID).
		Updates(map[string]interface{}{
			"list_id":  card.ListID,
			"board_id": card.BoardID,
			"position": card.Position,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cardRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return deleteCardTree(tx, []uuid.UUID{id})
	})
}

// AddAssignee is idempotent.
func (r *cardRepositoryImpl) AddAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	link := domain.CardAssignee{CardID: cardID, UserID: userID, CreatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link).Error
}

func (r *cardRepositoryImpl) RemoveAssignee(ctx context.Context, cardID, userID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("card_id = ? AND user_id = ?", cardID, userID).
		Delete(&domain.CardAssignee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *cardRepositoryImpl) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Card{}).Count(&count).Error
	return count, err
}

func (r *cardRepositoryImpl) loadRelations(ctx context.Context, cards []*domain.Card) error {
	if len(cards) == 0 {
		return nil
	}
	byID := make(map[uuid.UUID]*domain.Card, len(cards))
	ids := make([]uuid.UUID, 0, len(cards))
	for _, c := range cards {
		byID[c.ID] = c
		ids = append(ids, c.ID)
	}

	type labelRow struct {
		domain.Label
		CardID uuid.UUID
	}
	var labelRows []labelRow
	if err := r.db.WithContext(ctx).
		Table("labels").
		Select("labels.*, card_labels.card_id").
		Joins("JOIN card_labels ON card_labels.label_id = labels.id").
		Where("card_labels.card_id IN ?", ids).
		Order("labels.name ASC, labels.id ASC").
		Scan(&labelRows).Error; err != nil {
		return err
	}
	for _, row := range labelRows {
		card := byID[row.CardID]
		card.Labels = append(card.Labels, row.Label)
	}

	var assignees []domain.CardAssignee
	if err := r.db.WithContext(ctx).
		Where("card_id IN ?", ids).
		Order("created_at ASC").
		Find(&assignees).Error; err != nil {
		return err
	}
	for _, a := range assignees {
		card := byID[a.CardID]
		card.AssigneeIDs = append(card.AssigneeIDs, a.UserID)
	}
	return nil
}
