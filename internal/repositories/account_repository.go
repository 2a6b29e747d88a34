package repositories

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"oneira/internal/models/db_models"
	"oneira/pkg/utils"
)

type AccountRepository interface {
	Insert(ctx context.Context, account *db_models.Account) error
	FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error)
	FindByEmail(ctx context.Context, email string) (*db_models.Account, error)
	CompleteOnboarding(ctx context.Context, id uuid.UUID, preferredName string) error
	// AdjustCredits adds delta (may be negative) to the account balance.
	AdjustCredits(ctx context.Context, id uuid.UUID, delta int64) error
	// DebitCredit takes one credit, failing with ErrInsufficientCredits when
	// the balance is already zero.
	DebitCredit(ctx context.Context, id uuid.UUID) error
}

type accountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) AccountRepository {
	return &accountRepository{
		db: db,
	}
}

func (a *accountRepository) Insert(ctx context.Context, account *db_models.Account) error {
	return a.db.WithContext(ctx).Create(account).Error
}

func (a *accountRepository) FindByID(ctx context.Context, id uuid.UUID) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "id = ?", id).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) FindByEmail(ctx context.Context, email string) (*db_models.Account, error) {
	var account db_models.Account
	err := a.db.WithContext(ctx).First(&account, "email = ?", email).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &account, nil
}

func (a *accountRepository) CompleteOnboarding(ctx context.Context, id uuid.UUID, preferredName string) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"preferred_name":       preferredName,
			"onboarding_completed": true,
		}).Error
}

func (a *accountRepository) AdjustCredits(ctx context.Context, id uuid.UUID, delta int64) error {
	return a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ?", id).
		Update("credits", gorm.Expr("credits + ?", delta)).Error
}

func (a *accountRepository) DebitCredit(ctx context.Context, id uuid.UUID) error {
	res := a.db.WithContext(ctx).
		Model(&db_models.Account{}).
		Where("id = ? AND credits > 0", id).
		Update("credits", gorm.Expr("credits - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return utils.ErrInsufficientCredits
	}
	return nil
}
