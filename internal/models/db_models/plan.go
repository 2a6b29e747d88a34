package db_models

import (
	"gorm.io/datatypes"
)

type Plan struct {
	BaseModel
	Code        string `gorm:"uniqueIndex"` // e.g. "monthly_300", "yearly_3600"
	Name        string
	Description *string
	Period      BillingPeriod // "month" | "year"
	PriceMinor  int64         // 999 = $9.99
	Currency    string        `gorm:"size:3"` // ISO 4217
	// Credits granted on each successful billing period, 0 for unlimited plans.
	CreditsPerPeriod int64 `gorm:"default:0"`
	IsActive         bool  `gorm:"default:true"`

	Features datatypes.JSON `gorm:"type:jsonb;default:'{}'"`
}
