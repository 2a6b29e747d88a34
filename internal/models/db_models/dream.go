package db_models

import (
	"encoding/json"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type TurnRole string

const (
	RoleDreamer TurnRole = "dreamer"
	RoleGuide   TurnRole = "guide"
)

// ConversationTurn is one message of a dream's analysis dialogue. The full
// ordered list is serialized into the Conversations jsonb column and is only
// ever written as a whole.
type ConversationTurn struct {
	ID        string   `json:"id"`
	Role      TurnRole `json:"role"`
	Text      string   `json:"text"`
	Timestamp int64    `json:"timestamp"`
}

type Dream struct {
	BaseModel
	AccountID uuid.UUID `gorm:"index"`
	Content   string    `gorm:"type:text;not null"`
	Title     *string
	// Date of the dream in unix seconds, defaults to creation time.
	Date int64 `gorm:"not null"`
	// Analysis holds the first guide reply, kept as a quick "analyzed" snapshot.
	Analysis      *string        `gorm:"type:text"`
	Conversations datatypes.JSON `gorm:"type:jsonb;default:'[]'"`

	Account Account `gorm:"foreignKey:AccountID"`
}

// Turns decodes the stored conversation list. A missing or empty column
// decodes to an empty slice.
func (d *Dream) Turns() ([]ConversationTurn, error) {
	if len(d.Conversations) == 0 {
		return []ConversationTurn{}, nil
	}
	var turns []ConversationTurn
	if err := json.Unmarshal(d.Conversations, &turns); err != nil {
		return nil, err
	}
	return turns, nil
}

// SetTurns replaces the stored conversation list wholesale.
func (d *Dream) SetTurns(turns []ConversationTurn) error {
	raw, err := json.Marshal(turns)
	if err != nil {
		return err
	}
	d.Conversations = raw
	return nil
}
