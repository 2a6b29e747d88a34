package db_models

import (
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SubscriptionStatus string

const (
	SubStatusActive   SubscriptionStatus = "active"
	SubStatusPastDue  SubscriptionStatus = "past_due"
	SubStatusCanceled SubscriptionStatus = "canceled"
	SubStatusExpired  SubscriptionStatus = "expired"
)

type BillingPeriod string

const (
	PeriodMonth BillingPeriod = "month"
	PeriodYear  BillingPeriod = "year"
)

// Subscription is written exclusively by the payment webhook reconciler.
// ProviderSubID carries the unique index that makes repeated webhook
// deliveries upsert instead of duplicate.
type Subscription struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	PlanCode  string    `gorm:"index"`

	Status             SubscriptionStatus `gorm:"index"`
	CurrentPeriodStart int64              `gorm:"not null"`
	CurrentPeriodEnd   int64              `gorm:"not null"`
	CanceledAt         *int64

	Provider           string `gorm:"index"` // "stripe"
	ProviderCustomerID string `gorm:"index"`
	ProviderSubID      string `gorm:"uniqueIndex"`

	Metadata datatypes.JSON `gorm:"type:jsonb;default:'{}'"`

	Account Account `gorm:"foreignKey:AccountID"`
}
