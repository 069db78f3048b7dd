package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"board-sync-api/internal/domain"
)

// LabelRepository defines the interface for label data access
type LabelRepository interface {
	FindOrCreate(ctx context.Context, boardID uuid.UUID, name, color string) (*domain.Label, bool, error)
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error)
	FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Label, error)
	FindByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Label, error)
	AttachToCard(ctx context.Context, cardID, labelID uuid.UUID) (bool, error)
	DetachFromCard(ctx context.Context, cardID, labelID uuid.UUID) error
	Update(ctx context.Context, label *domain.Label) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type labelRepositoryImpl struct {
	db *gorm.DB
}

func NewLabelRepository(db *gorm.DB) LabelRepository {
	return &labelRepositoryImpl{db: db}
}

// FindOrCreate returns the board's label with the given name and color, creating it once.
// The boolean is true when a new row was inserted.
func (r *labelRepositoryImpl) FindOrCreate(ctx context.Context, boardID uuid.UUID, name, color string) (*domain.Label, bool, error) {
	existing, err := r.findByKey(ctx, boardID, name, color)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	label := &domain.Label{BoardID: boardID, Name: name, Color: color}
	if createErr := r.db.WithContext(ctx).Create(label).Error; createErr != nil {
		// a concurrent insert may have won the unique index
		if existing, err := r.findByKey(ctx, boardID, name, color); err == nil {
			return existing, false, nil
		}
		return nil, false, createErr
	}
	return label, true, nil
}

func (r *labelRepositoryImpl) findByKey(ctx context.Context, boardID uuid.UUID, name, color string) (*domain.Label, error) {
	var label domain.Label
	if err := r.db.WithContext(ctx).
		Where("board_id = ? AND name = ? AND color = ?", boardID, name, color).
		First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *labelRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*domain.Label, error) {
	var label domain.Label
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&label).Error; err != nil {
		return nil, err
	}
	return &label, nil
}

func (r *labelRepositoryImpl) FindByBoardID(ctx context.Context, boardID uuid.UUID) ([]*domain.Label, error) {
	var labels []*domain.Label
	if err := r.db.WithContext(ctx).
		Where("board_id = ?", boardID).
		Order("name ASC, id ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

func (r *labelRepositoryImpl) FindByCardID(ctx context.Context, cardID uuid.UUID) ([]*domain.Label, error) {
	var labels []*domain.Label
	if err := r.db.WithContext(ctx).
		Joins("JOIN card_labels ON card_labels.label_id = labels.id").
		Where("card_labels.card_id = ?", cardID).
		Order("labels.name ASC, labels.id ASC").
		Find(&labels).Error; err != nil {
		return nil, err
	}
	return labels, nil
}

// AttachToCard links the label to the card; the boolean is false when the link already existed.
func (r *labelRepositoryImpl) AttachToCard(ctx context.Context, cardID, labelID uuid.UUID) (bool, error) {
	link := domain.CardLabel{CardID: cardID, LabelID: labelID, CreatedAt: time.Now().UTC()}
	result := r.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(&link)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *labelRepositoryImpl) DetachFromCard(ctx context.Context, cardID, labelID uuid.UUID) error {
	result := r.db.WithContext(ctx).
		Where("card_id = ? AND label_id = ?", cardID, labelID).
		Delete(&domain.CardLabel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *labelRepositoryImpl) Update(ctx context.Context, label *domain.Label) error {
	return r.db.WithContext(ctx).
		Model(label).
		Select("name", "color").
		Updates(label).Error
}

func (r *labelRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("label_id = ?", id).Delete(&domain.CardLabel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&domain.Label{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
