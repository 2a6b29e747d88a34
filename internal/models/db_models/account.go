package db_models

type Account struct {
	BaseModel
	PreferredName       string
	Email               string `gorm:"uniqueIndex"`
	PasswordHash        string
	Credits             int64 `gorm:"default:0"`
	OnboardingCompleted bool  `gorm:"default:false"`

	Dreams []Dream
}
