package repositories

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oneira/internal/models/db_models"
)

type SubscriptionRepository interface {
	// Upsert inserts or refreshes the row keyed by provider_sub_id. Repeated
	// webhook deliveries for the same subscription never create duplicates.
	Upsert(ctx context.Context, sub *db_models.Subscription) error
	FindByProviderSubID(ctx context.Context, providerSubID string) (*db_models.Subscription, error)
	FindActiveByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error)
	// RefreshPeriod updates status and period bounds of a matched row,
	// reporting whether anything matched.
	RefreshPeriod(ctx context.Context, providerSubID string, status db_models.SubscriptionStatus, periodStart, periodEnd int64) (bool, error)
	MarkCanceled(ctx context.Context, providerSubID string) (bool, error)
}

type subscriptionRepository struct {
	db *gorm.DB
}

func NewSubscriptionRepository(db *gorm.DB) SubscriptionRepository {
	return &subscriptionRepository{
		db: db,
	}
}

func (s *subscriptionRepository) Upsert(ctx context.Context, sub *db_models.Subscription) error {
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "provider_sub_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"status",
				"plan_code",
				"current_period_start",
				"current_period_end",
				"provider_customer_id",
				"updated_at",
			}),
		}).
		Create(sub).Error
}

func (s *subscriptionRepository) FindByProviderSubID(ctx context.Context, providerSubID string) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).First(&sub, "provider_sub_id = ?", providerSubID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (s *subscriptionRepository) FindActiveByAccount(ctx context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	var sub db_models.Subscription
	err := s.db.WithContext(ctx).
		Where("account_id = ? AND status = ? AND current_period_end > ?",
			accountID, db_models.SubStatusActive, time.Now().Unix()).
		Order("current_period_end DESC").
		First(&sub).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &sub, nil
}

func (s *subscriptionRepository) RefreshPeriod(ctx context.Context, providerSubID string, status db_models.SubscriptionStatus, periodStart, periodEnd int64) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("provider_sub_id = ?", providerSubID).
		Updates(map[string]interface{}{
			"status":               status,
			"current_period_start": periodStart,
			"current_period_end":   periodEnd,
		})
	return res.RowsAffected > 0, res.Error
}

func (s *subscriptionRepository) MarkCanceled(ctx context.Context, providerSubID string) (bool, error) {
	now := time.Now().Unix()
	res := s.db.WithContext(ctx).
		Model(&db_models.Subscription{}).
		Where("provider_sub_id = ?", providerSubID).
		Updates(map[string]interface{}{
			"status":      db_models.SubStatusCanceled,
			"canceled_at": now,
		})
	return res.RowsAffected > 0, res.Error
}
