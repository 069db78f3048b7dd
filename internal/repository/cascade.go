package repository

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"board-sync-api/internal/domain"
)

// The helpers below remove dependent rows explicitly so deletes cascade the same
// way whether or not the driver enforces foreign keys.

func deleteCardTree(tx *gorm.DB, cardIDs []uuid.UUID) error {
	if len(cardIDs) == 0 {
		return nil
	}
	if err := tx.Where("card_id IN ?", cardIDs).Delete(&domain.Comment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("card_id IN ?", cardIDs).Delete(&domain.CardLabel{}).Error; err != nil {
		return err
	}
	if err := tx.Where("card_id IN ?", cardIDs).Delete(&domain.CardAssignee{}).Error; err != nil {
		return err
	}
	if err := tx.Where("card_id IN ?", cardIDs).Delete(&domain.Attachment{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", cardIDs).Delete(&domain.Card{}).Error
}

func deleteListTree(tx *gorm.DB, listIDs []uuid.UUID) error {
	if len(listIDs) == 0 {
		return nil
	}
	var cardIDs []uuid.UUID
	if err := tx.Model(&domain.Card{}).Where("list_id IN ?", listIDs).Pluck("id", &cardIDs).Error; err != nil {
		return err
	}
	if err := deleteCardTree(tx, cardIDs); err != nil {
		return err
	}
	return tx.Where("id IN ?", listIDs).Delete(&domain.List{}).Error
}

func deleteBoardTree(tx *gorm.DB, boardIDs []uuid.UUID) error {
	if len(boardIDs) == 0 {
		return nil
	}
	var listIDs []uuid.UUID
	if err := tx.Model(&domain.List{}).Where("board_id IN ?", boardIDs).Pluck("id", &listIDs).Error; err != nil {
		return err
	}
	if err := deleteListTree(tx, listIDs); err != nil {
		return err
	}

	var labelIDs []uuid.UUID
	if err := tx.Model(&domain.Label{}).Where("board_id IN ?", boardIDs).Pluck("id", &labelIDs).Error; err != nil {
		return err
	}
	if len(labelIDs) > 0 {
		if err := tx.Where("label_id IN ?", labelIDs).Delete(&domain.CardLabel{}).Error; err != nil {
			return err
		}
		if err := tx.Where("id IN ?", labelIDs).Delete(&domain.Label{}).Error; err != nil {
			return err
		}
	}

	if err := tx.Where("board_id IN ?", boardIDs).Delete(&domain.Attachment{}).Error; err != nil {
		return err
	}
	if err := tx.Where("board_id IN ?", boardIDs).Delete(&domain.BoardMember{}).Error; err != nil {
		return err
	}
	return tx.Where("id IN ?", boardIDs).Delete(&domain.Board{}).Error
}
