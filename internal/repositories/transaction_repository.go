package repositories

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oneira/internal/models/db_models"
	"oneira/pkg/utils"
)

type TransactionRepository interface {
	Insert(ctx context.Context, txn *db_models.Transaction) error
	FindByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.Transaction, error)
	// MarkPaidAndCredit flips a pending transaction to paid and grants its
	// credits to the owning account, atomically. Returns the number of
	// credits granted: 0 when the transaction was already paid (idempotent
	// under webhook retries), ErrPaymentNotCompleted when no transaction
	// matches.
	MarkPaidAndCredit(ctx context.Context, providerTxnID string) (int64, error)
	MarkFailed(ctx context.Context, providerTxnID string) error
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{
		db: db,
	}
}

func (t *transactionRepository) Insert(ctx context.Context, txn *db_models.Transaction) error {
	return t.db.WithContext(ctx).Create(txn).Error
}

func (t *transactionRepository) FindByProviderTxnID(ctx context.Context, providerTxnID string) (*db_models.Transaction, error) {
	var txn db_models.Transaction
	err := t.db.WithContext(ctx).First(&txn, "provider_txn_id = ?", providerTxnID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &txn, nil
}

func (t *transactionRepository) MarkPaidAndCredit(ctx context.Context, providerTxnID string) (int64, error) {
	var granted int64

	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var txn db_models.Transaction
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&txn, "provider_txn_id = ?", providerTxnID).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.ErrPaymentNotCompleted
			}
			return err
		}

		if txn.Status == db_models.TxnStatusPaid {
			// Already reconciled by an earlier delivery.
			return nil
		}

		now := time.Now().Unix()
		if err := tx.Model(&txn).Updates(map[string]interface{}{
			"status":  db_models.TxnStatusPaid,
			"paid_at": now,
		}).Error; err != nil {
			return err
		}

		if err := tx.Model(&db_models.Account{}).
			Where("id = ?", txn.AccountID).
			Update("credits", gorm.Expr("credits + ?", txn.Credits)).Error; err != nil {
			return err
		}

		granted = txn.Credits
		return nil
	})
	if err != nil {
		return 0, err
	}
	return granted, nil
}

func (t *transactionRepository) MarkFailed(ctx context.Context, providerTxnID string) error {
	return t.db.WithContext(ctx).
		Model(&db_models.Transaction{}).
		Where("provider_txn_id = ? AND status = ?", providerTxnID, db_models.TxnStatusPending).
		Update("status", db_models.TxnStatusFailed).Error
}
