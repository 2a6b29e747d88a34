package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TransactionStatus string

const (
	TxnStatusPending TransactionStatus = "pending"
	TxnStatusPaid    TransactionStatus = "paid"
	TxnStatusFailed  TransactionStatus = "failed"
)

// Transaction tracks one-time credit purchases. ProviderTxnID holds the
// checkout session reference and is the idempotency key for webhook retries:
// a session credits an account at most once.
type Transaction struct {
	BaseModel
	AccountID   uuid.UUID         `gorm:"index"`
	AmountMinor int64             // price in minor units, e.g. 499 = $4.99
	Currency    string            `gorm:"size:3"`
	Credits     int64             // credits granted when paid
	Status      TransactionStatus `gorm:"index"`

	Provider      string `gorm:"index"`
	ProviderTxnID string `gorm:"uniqueIndex"`

	PaidAt *int64

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:AccountID"`
}
