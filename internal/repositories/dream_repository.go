package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"oneira/internal/models/db_models"
)

type DreamRepository interface {
	Insert(ctx context.Context, dream *db_models.Dream) error
	ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Dream, error)
	FindByID(ctx context.Context, accountID, dreamID uuid.UUID) (*db_models.Dream, error)
	// HardDelete removes the row outright; the undo store keeps the copy.
	HardDelete(ctx context.Context, accountID, dreamID uuid.UUID) error
	UpdateConversations(ctx context.Context, dreamID uuid.UUID, conversations datatypes.JSON, analysis *string) error
}

type dreamRepository struct {
	db *gorm.DB
}

func NewDreamRepository(db *gorm.DB) DreamRepository {
	return &dreamRepository{
		db: db,
	}
}

func (d *dreamRepository) Insert(ctx context.Context, dream *db_models.Dream) error {
	return d.db.WithContext(ctx).Create(dream).Error
}

func (d *dreamRepository) ListByAccount(ctx context.Context, accountID uuid.UUID) ([]db_models.Dream, error) {
	var dreams []db_models.Dream
	err := d.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("date DESC, created_at DESC").
		Find(&dreams).Error
	if err != nil {
		return nil, err
	}
	return dreams, nil
}

func (d *dreamRepository) FindByID(ctx context.Context, accountID, dreamID uuid.UUID) (*db_models.Dream, error) {
	var dream db_models.Dream
	err := d.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		First(&dream, "id = ?", dreamID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &dream, nil
}

func (d *dreamRepository) HardDelete(ctx context.Context, accountID, dreamID uuid.UUID) error {
	return d.db.WithContext(ctx).
		Unscoped().
		Where("account_id = ?", accountID).
		Delete(&db_models.Dream{}, "id = ?", dreamID).Error
}

func (d *dreamRepository) UpdateConversations(ctx context.Context, dreamID uuid.UUID, conversations datatypes.JSON, analysis *string) error {
	updates := map[string]interface{}{
		"conversations": conversations,
	}
	if analysis != nil {
		updates["analysis"] = *analysis
	}
	return d.db.WithContext(ctx).
		Model(&db_models.Dream{}).
		Where("id = ?", dreamID).
		Updates(updates).Error
}
