package services

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"oneira/internal/models/db_models"
	"oneira/internal/models/request_models"
	"oneira/internal/models/response_models"
	"oneira/internal/repositories"
	"oneira/pkg/memcache"
	"oneira/pkg/utils"
)

// UndoRetention is how long a deleted dream stays restorable.
const UndoRetention = 10 * time.Minute

type DreamServiceInterface interface {
	Save(ctx context.Context, accountID uuid.UUID, request request_models.SaveDreamRequest) (*response_models.DreamResponse, error)
	List(ctx context.Context, accountID uuid.UUID) ([]response_models.DreamResponse, error)
	Get(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.DreamResponse, error)
	Delete(ctx context.Context, accountID, dreamID uuid.UUID) error
	Restore(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.DreamResponse, error)
	UpdateConversation(ctx context.Context, accountID, dreamID uuid.UUID, turns []request_models.TurnPayload) error
	Related(ctx context.Context, accountID, dreamID uuid.UUID) ([]response_models.RelatedDreamResponse, error)
}

type DreamService struct {
	dreamRepo   repositories.DreamRepository
	embedRepo   repositories.DreamEmbeddingRepository
	embedClient utils.EmbeddingClientInterface
	undoStore   memcache.DeletedDreamStore
}

func NewDreamService(
	dreamRepo repositories.DreamRepository,
	embedRepo repositories.DreamEmbeddingRepository,
	embedClient utils.EmbeddingClientInterface,
	undoStore memcache.DeletedDreamStore,
) DreamServiceInterface {
	return &DreamService{
		dreamRepo:   dreamRepo,
		embedRepo:   embedRepo,
		embedClient: embedClient,
		undoStore:   undoStore,
	}
}

func (d *DreamService) Save(ctx context.Context, accountID uuid.UUID, request request_models.SaveDreamRequest) (*response_models.DreamResponse, error) {
	date := request.Date
	if date == 0 {
		date = time.Now().Unix()
	}

	dream := &db_models.Dream{
		AccountID: accountID,
		Content:   request.Content,
		Title:     request.Title,
		Date:      date,
	}

	if err := d.dreamRepo.Insert(ctx, dream); err != nil {
		return nil, utils.ErrDatabaseError
	}

	d.embedDream(ctx, dream)

	return toDreamResponse(dream), nil
}

func (d *DreamService) List(ctx context.Context, accountID uuid.UUID) ([]response_models.DreamResponse, error) {
	dreams, err := d.dreamRepo.ListByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.DreamResponse, 0, len(dreams))
	for i := range dreams {
		out = append(out, *toDreamResponse(&dreams[i]))
	}
	return out, nil
}

func (d *DreamService) Get(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.DreamResponse, error) {
	dream, err := d.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}
	return toDreamResponse(dream), nil
}

// Delete parks the full record before removing the row, so Restore can bring
// back the exact content, title, date and conversation list.
func (d *DreamService) Delete(ctx context.Context, accountID, dreamID uuid.UUID) error {
	dream, err := d.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if dream == nil {
		return utils.ErrDreamNotFound
	}

	d.undoStore.Park(*dream, UndoRetention)

	if err := d.dreamRepo.HardDelete(ctx, accountID, dreamID); err != nil {
		// Row still exists; drop the parked copy so undo cannot duplicate it.
		d.undoStore.Take(dreamID.String())
		return utils.ErrDatabaseError
	}
	return nil
}

func (d *DreamService) Restore(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.DreamResponse, error) {
	parked := d.undoStore.Take(dreamID.String())
	if parked == nil {
		return nil, utils.ErrUndoExpired
	}
	if parked.AccountID != accountID {
		return nil, utils.ErrDreamNotFound
	}

	if err := d.dreamRepo.Insert(ctx, parked); err != nil {
		return nil, utils.ErrDatabaseError
	}

	d.embedDream(ctx, parked)

	return toDreamResponse(parked), nil
}

func (d *DreamService) UpdateConversation(ctx context.Context, accountID, dreamID uuid.UUID, payload []request_models.TurnPayload) error {
	dream, err := d.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if dream == nil {
		return utils.ErrDreamNotFound
	}

	existing, err := dream.Turns()
	if err != nil {
		return utils.ErrDatabaseError
	}

	turns := make([]db_models.ConversationTurn, 0, len(payload))
	for _, t := range payload {
		ts := t.Timestamp
		if ts == 0 {
			ts = time.Now().Unix()
		}
		turns = append(turns, db_models.ConversationTurn{
			ID:        t.ID,
			Role:      db_models.TurnRole(t.Role),
			Text:      t.Text,
			Timestamp: ts,
		})
	}

	if !isAppendOf(existing, turns) {
		return utils.ErrConversationNotAppend
	}

	if err := dream.SetTurns(turns); err != nil {
		return utils.ErrDatabaseError
	}

	var analysis *string
	if dream.Analysis == nil {
		if first := firstGuideText(turns); first != "" {
			analysis = &first
		}
	}

	if err := d.dreamRepo.UpdateConversations(ctx, dreamID, dream.Conversations, analysis); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (d *DreamService) Related(ctx context.Context, accountID, dreamID uuid.UUID) ([]response_models.RelatedDreamResponse, error) {
	dream, err := d.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}

	emb, err := d.embedRepo.FindByDreamID(ctx, dreamID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if emb == nil {
		return []response_models.RelatedDreamResponse{}, nil
	}

	rows, err := d.embedRepo.ListSimilar(ctx, accountID, dreamID, emb.Embedding, 5)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.RelatedDreamResponse, 0, len(rows))
	for _, row := range rows {
		out = append(out, response_models.RelatedDreamResponse{
			ID:         row.ID.String(),
			Title:      row.Title,
			Content:    row.Content,
			Date:       row.Date,
			Similarity: row.Similarity,
		})
	}
	return out, nil
}

// embedDream writes the dream's vector best-effort; the journal never fails
// because the embedding provider is down.
func (d *DreamService) embedDream(ctx context.Context, dream *db_models.Dream) {
	vector, err := d.embedClient.GetEmbedding(ctx, dream.Content)
	if err != nil {
		log.Printf("embedding failed for dream %s: %v", dream.ID, err)
		return
	}
	emb := &db_models.DreamEmbedding{
		DreamID:   dream.ID,
		AccountID: dream.AccountID,
		Embedding: vector,
	}
	if err := d.embedRepo.Upsert(ctx, emb); err != nil {
		log.Printf("embedding upsert failed for dream %s: %v", dream.ID, err)
	}
}

// isAppendOf reports whether next extends prev without rewriting any
// existing turn.
func isAppendOf(prev, next []db_models.ConversationTurn) bool {
	if len(next) < len(prev) {
		return false
	}
	for i := range prev {
		if prev[i].ID != next[i].ID || prev[i].Role != next[i].Role || prev[i].Text != next[i].Text {
			return false
		}
	}
	return true
}

func firstGuideText(turns []db_models.ConversationTurn) string {
	for _, t := range turns {
		if t.Role == db_models.RoleGuide {
			return t.Text
		}
	}
	return ""
}

func toDreamResponse(dream *db_models.Dream) *response_models.DreamResponse {
	turns, err := dream.Turns()
	if err != nil {
		log.Printf("corrupt conversation list on dream %s: %v", dream.ID, err)
		turns = []db_models.ConversationTurn{}
	}

	conv := make([]response_models.TurnResponse, 0, len(turns))
	for _, t := range turns {
		conv = append(conv, response_models.TurnResponse{
			ID:        t.ID,
			Role:      string(t.Role),
			Text:      t.Text,
			Timestamp: t.Timestamp,
		})
	}

	return &response_models.DreamResponse{
		ID:            dream.ID.String(),
		Content:       dream.Content,
		Title:         dream.Title,
		Date:          dream.Date,
		Analyzed:      dream.Analysis != nil || len(conv) > 0,
		Analysis:      dream.Analysis,
		Conversations: conv,
		CreatedAt:     dream.CreatedAt,
	}
}
