package db_models

import (
	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

// DreamEmbedding stores one vector per dream for the related-dreams lookup.
// Written best-effort on save; a dream without an embedding simply never
// shows up as related.
type DreamEmbedding struct {
	BaseModel
	DreamID   uuid.UUID       `gorm:"uniqueIndex"`
	AccountID uuid.UUID       `gorm:"index"`
	Embedding pgvector.Vector `gorm:"type:vector(1536)"`
}
