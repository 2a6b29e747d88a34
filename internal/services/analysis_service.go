package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"oneira/internal/models/db_models"
	"oneira/internal/models/response_models"
	"oneira/internal/repositories"
	"oneira/pkg/utils"
)

// ConversationMarker flags a prompt as a follow-up exchange. The orchestrator
// emits it when serializing a transcript, and the single-shot endpoint
// switches to the follow-up system prompt when it sees it.
const ConversationMarker = "Previous conversation:"

const initialSystemPrompt = `You are a thoughtful dream guide with a background in depth psychology.
The dreamer shares a dream with you. Offer a warm, grounded interpretation:
name the central images, what feelings they may carry, and one gentle question
for the dreamer to sit with. Never diagnose, never predict the future.`

const followUpSystemPrompt = `You are a thoughtful dream guide continuing an ongoing conversation about
a dream. Build on what was already said, answer the dreamer's latest message
directly, and keep the tone warm and grounded. Never diagnose.`

type AnalysisServiceInterface interface {
	// Analyze is the single-shot contract: raw text in, analysis out.
	Analyze(ctx context.Context, accountID uuid.UUID, dreamText string) (string, error)
	// StartAnalysis runs the first interpretation of a dream and appends the
	// guide's reply to its conversation.
	StartAnalysis(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.TurnResponse, error)
	// SendMessage adds a dreamer turn and the guide's answer together; on
	// provider failure nothing is persisted.
	SendMessage(ctx context.Context, accountID, dreamID uuid.UUID, text string) ([]response_models.TurnResponse, error)
}

type AnalysisService struct {
	dreamRepo        repositories.DreamRepository
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.SubscriptionRepository
	aiClient         utils.AnalysisClientInterface
}

func NewAnalysisService(
	dreamRepo repositories.DreamRepository,
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	aiClient utils.AnalysisClientInterface,
) AnalysisServiceInterface {
	return &AnalysisService{
		dreamRepo:        dreamRepo,
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
		aiClient:         aiClient,
	}
}

func (a *AnalysisService) Analyze(ctx context.Context, accountID uuid.UUID, dreamText string) (string, error) {
	debited, err := a.ensureEntitled(ctx, accountID)
	if err != nil {
		return "", err
	}

	systemPrompt := initialSystemPrompt
	if strings.Contains(dreamText, ConversationMarker) {
		systemPrompt = followUpSystemPrompt
	}

	reply, err := a.aiClient.Complete(ctx, systemPrompt, dreamText)
	if err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return "", err
	}
	return reply, nil
}

func (a *AnalysisService) StartAnalysis(ctx context.Context, accountID, dreamID uuid.UUID) (*response_models.TurnResponse, error) {
	dream, err := a.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}

	debited, err := a.ensureEntitled(ctx, accountID)
	if err != nil {
		return nil, err
	}

	reply, err := a.aiClient.Complete(ctx, initialSystemPrompt, dream.Content)
	if err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, err
	}

	turns, err := dream.Turns()
	if err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, utils.ErrDatabaseError
	}

	guideTurn := newTurn(db_models.RoleGuide, reply)
	turns = append(turns, guideTurn)

	if err := dream.SetTurns(turns); err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, utils.ErrDatabaseError
	}
	// The reply never reached the dreamer, so the credit goes back even
	// though the provider call itself succeeded.
	if err := a.dreamRepo.UpdateConversations(ctx, dreamID, dream.Conversations, &reply); err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, utils.ErrDatabaseError
	}

	return toTurnResponse(guideTurn), nil
}

func (a *AnalysisService) SendMessage(ctx context.Context, accountID, dreamID uuid.UUID, text string) ([]response_models.TurnResponse, error) {
	dream, err := a.dreamRepo.FindByID(ctx, accountID, dreamID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if dream == nil {
		return nil, utils.ErrDreamNotFound
	}

	turns, err := dream.Turns()
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	debited, err := a.ensureEntitled(ctx, accountID)
	if err != nil {
		return nil, err
	}

	prompt := buildTranscript(dream.Content, turns, text)

	reply, err := a.aiClient.Complete(ctx, followUpSystemPrompt, prompt)
	if err != nil {
		// The dreamer's turn was never persisted, so the stored list is
		// untouched; the caller only has to surface the error.
		a.refundIfDebited(ctx, accountID, debited)
		return nil, err
	}

	dreamerTurn := newTurn(db_models.RoleDreamer, text)
	guideTurn := newTurn(db_models.RoleGuide, reply)
	turns = append(turns, dreamerTurn, guideTurn)

	if err := dream.SetTurns(turns); err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, utils.ErrDatabaseError
	}
	if err := a.dreamRepo.UpdateConversations(ctx, dreamID, dream.Conversations, nil); err != nil {
		a.refundIfDebited(ctx, accountID, debited)
		return nil, utils.ErrDatabaseError
	}

	return []response_models.TurnResponse{*toTurnResponse(dreamerTurn), *toTurnResponse(guideTurn)}, nil
}

// ensureEntitled lets subscribers through for free and debits one credit
// otherwise. Returns whether a credit was taken so a failed provider call can
// hand it back.
func (a *AnalysisService) ensureEntitled(ctx context.Context, accountID uuid.UUID) (bool, error) {
	sub, err := a.subscriptionRepo.FindActiveByAccount(ctx, accountID)
	if err != nil {
		return false, utils.ErrDatabaseError
	}
	if sub != nil {
		return false, nil
	}
	if err := a.accountRepo.DebitCredit(ctx, accountID); err != nil {
		return false, err
	}
	return true, nil
}

func (a *AnalysisService) refundIfDebited(ctx context.Context, accountID uuid.UUID, debited bool) {
	if !debited {
		return
	}
	// Best effort; a failed refund only costs one credit, not the analysis.
	_ = a.accountRepo.AdjustCredits(ctx, accountID, 1)
}

func buildTranscript(dreamContent string, turns []db_models.ConversationTurn, newMessage string) string {
	var b strings.Builder
	b.WriteString("Dream:\n")
	b.WriteString(dreamContent)
	b.WriteString("\n\n")
	b.WriteString(ConversationMarker)
	b.WriteString("\n")
	for _, t := range turns {
		if t.Role == db_models.RoleGuide {
			b.WriteString("Guide: ")
		} else {
			b.WriteString("Dreamer: ")
		}
		b.WriteString(t.Text)
		b.WriteString("\n")
	}
	b.WriteString("Dreamer: ")
	b.WriteString(newMessage)
	return b.String()
}

func newTurn(role db_models.TurnRole, text string) db_models.ConversationTurn {
	return db_models.ConversationTurn{
		ID:        uuid.New().String(),
		Role:      role,
		Text:      text,
		Timestamp: time.Now().Unix(),
	}
}

func toTurnResponse(t db_models.ConversationTurn) *response_models.TurnResponse {
	return &response_models.TurnResponse{
		ID:        t.ID,
		Role:      string(t.Role),
		Text:      t.Text,
		Timestamp: t.Timestamp,
	}
}
