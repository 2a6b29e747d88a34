package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"oneira/internal/models/db_models"
)

type RelatedDream struct {
	ID         uuid.UUID
	Title      *string
	Content    string
	Date       int64
	Similarity float64
}

type DreamEmbeddingRepository interface {
	Upsert(ctx context.Context, emb *db_models.DreamEmbedding) error
	FindByDreamID(ctx context.Context, dreamID uuid.UUID) (*db_models.DreamEmbedding, error)
	ListSimilar(ctx context.Context, accountID, excludeDreamID uuid.UUID, vector pgvector.Vector, limit int) ([]RelatedDream, error)
}

type dreamEmbeddingRepository struct {
	db *gorm.DB
}

func NewDreamEmbeddingRepository(db *gorm.DB) DreamEmbeddingRepository {
	return &dreamEmbeddingRepository{
		db: db,
	}
}

func (r *dreamEmbeddingRepository) Upsert(ctx context.Context, emb *db_models.DreamEmbedding) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "dream_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"embedding", "updated_at"}),
		}).
		Create(emb).Error
}

func (r *dreamEmbeddingRepository) FindByDreamID(ctx context.Context, dreamID uuid.UUID) (*db_models.DreamEmbedding, error) {
	var emb db_models.DreamEmbedding
	err := r.db.WithContext(ctx).First(&emb, "dream_id = ?", dreamID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &emb, nil
}

func (r *dreamEmbeddingRepository) ListSimilar(ctx context.Context, accountID, excludeDreamID uuid.UUID, vector pgvector.Vector, limit int) ([]RelatedDream, error) {
	var results []RelatedDream

	vecStr := vector.String()

	query := `
        SELECT d.id, d.title, d.content, d.date, (1 - (e.embedding <=> ?)) AS similarity
        FROM dream_embeddings e
        JOIN dreams d ON d.id = e.dream_id
        WHERE e.account_id = ?
          AND e.dream_id <> ?
          AND d.deleted_at IS NULL
        ORDER BY e.embedding <=> ?
        LIMIT ?
    `

	err := r.db.WithContext(ctx).
		Raw(query, vecStr, accountID, excludeDreamID, vecStr, limit).
		Scan(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}
