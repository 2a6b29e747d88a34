package services

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	stripe "github.com/stripe/stripe-go/v76"
	"gorm.io/datatypes"

	"oneira/internal/models/db_models"
	"oneira/internal/repositories"
	"oneira/pkg/utils"
)

// In-memory stand-ins for the gorm repositories, so service behavior can be
// exercised without a database.

type fakeDreamRepo struct {
	mu     sync.Mutex
	dreams map[uuid.UUID]*db_models.Dream

	insertErr error
	deleteErr error
	updateErr error
}

func newFakeDreamRepo() *fakeDreamRepo {
	return &fakeDreamRepo{dreams: make(map[uuid.UUID]*db_models.Dream)}
}

func (f *fakeDreamRepo) Insert(_ context.Context, dream *db_models.Dream) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.insertErr != nil {
		return f.insertErr
	}
	if dream.ID == uuid.Nil {
		dream.ID = uuid.New()
	}
	stored := *dream
	f.dreams[dream.ID] = &stored
	return nil
}

func (f *fakeDreamRepo) ListByAccount(_ context.Context, accountID uuid.UUID) ([]db_models.Dream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []db_models.Dream
	for _, d := range f.dreams {
		if d.AccountID == accountID {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDreamRepo) FindByID(_ context.Context, accountID, dreamID uuid.UUID) (*db_models.Dream, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	d, ok := f.dreams[dreamID]
	if !ok || d.AccountID != accountID {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (f *fakeDreamRepo) HardDelete(_ context.Context, accountID, dreamID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	d, ok := f.dreams[dreamID]
	if ok && d.AccountID == accountID {
		delete(f.dreams, dreamID)
	}
	return nil
}

func (f *fakeDreamRepo) UpdateConversations(_ context.Context, dreamID uuid.UUID, conversations datatypes.JSON, analysis *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	d, ok := f.dreams[dreamID]
	if !ok {
		return nil
	}
	d.Conversations = conversations
	if analysis != nil {
		d.Analysis = analysis
	}
	return nil
}

type fakeEmbedRepo struct {
	mu         sync.Mutex
	embeddings map[uuid.UUID]*db_models.DreamEmbedding
	similar    []repositories.RelatedDream
}

func newFakeEmbedRepo() *fakeEmbedRepo {
	return &fakeEmbedRepo{embeddings: make(map[uuid.UUID]*db_models.DreamEmbedding)}
}

func (f *fakeEmbedRepo) Upsert(_ context.Context, emb *db_models.DreamEmbedding) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	stored := *emb
	f.embeddings[emb.DreamID] = &stored
	return nil
}

func (f *fakeEmbedRepo) FindByDreamID(_ context.Context, dreamID uuid.UUID) (*db_models.DreamEmbedding, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.embeddings[dreamID]
	if !ok {
		return nil, nil
	}
	copied := *e
	return &copied, nil
}

func (f *fakeEmbedRepo) ListSimilar(_ context.Context, _, _ uuid.UUID, _ pgvector.Vector, _ int) ([]repositories.RelatedDream, error) {
	return f.similar, nil
}

type fakeEmbedClient struct {
	err   error
	calls int
}

func (f *fakeEmbedClient) GetEmbedding(_ context.Context, _ string) (pgvector.Vector, error) {
	f.calls++
	if f.err != nil {
		return pgvector.Vector{}, f.err
	}
	return pgvector.NewVector([]float32{0.1, 0.2, 0.3}), nil
}

type fakeAccountRepo struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]*db_models.Account
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{accounts: make(map[uuid.UUID]*db_models.Account)}
}

func (f *fakeAccountRepo) add(account *db_models.Account) {
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	f.accounts[account.ID] = account
}

func (f *fakeAccountRepo) Insert(_ context.Context, account *db_models.Account) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.add(account)
	return nil
}

func (f *fakeAccountRepo) FindByID(_ context.Context, id uuid.UUID) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok {
		return nil, nil
	}
	copied := *a
	return &copied, nil
}

func (f *fakeAccountRepo) FindByEmail(_ context.Context, email string) (*db_models.Account, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, a := range f.accounts {
		if a.Email == email {
			copied := *a
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeAccountRepo) CompleteOnboarding(_ context.Context, id uuid.UUID, preferredName string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		a.PreferredName = preferredName
		a.OnboardingCompleted = true
	}
	return nil
}

func (f *fakeAccountRepo) AdjustCredits(_ context.Context, id uuid.UUID, delta int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		a.Credits += delta
	}
	return nil
}

func (f *fakeAccountRepo) DebitCredit(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	a, ok := f.accounts[id]
	if !ok || a.Credits <= 0 {
		return utils.ErrInsufficientCredits
	}
	a.Credits--
	return nil
}

func (f *fakeAccountRepo) credits(id uuid.UUID) int64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	if a, ok := f.accounts[id]; ok {
		return a.Credits
	}
	return 0
}

type fakeSubscriptionRepo struct {
	mu   sync.Mutex
	subs map[string]*db_models.Subscription // keyed by ProviderSubID
}

func newFakeSubscriptionRepo() *fakeSubscriptionRepo {
	return &fakeSubscriptionRepo{subs: make(map[string]*db_models.Subscription)}
}

func (f *fakeSubscriptionRepo) Upsert(_ context.Context, sub *db_models.Subscription) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if existing, ok := f.subs[sub.ProviderSubID]; ok {
		sub.ID = existing.ID
	} else if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	stored := *sub
	f.subs[sub.ProviderSubID] = &stored
	return nil
}

func (f *fakeSubscriptionRepo) FindByProviderSubID(_ context.Context, providerSubID string) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[providerSubID]
	if !ok {
		return nil, nil
	}
	copied := *s
	return &copied, nil
}

func (f *fakeSubscriptionRepo) FindActiveByAccount(_ context.Context, accountID uuid.UUID) (*db_models.Subscription, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.subs {
		if s.AccountID == accountID && s.Status == db_models.SubStatusActive {
			copied := *s
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeSubscriptionRepo) RefreshPeriod(_ context.Context, providerSubID string, status db_models.SubscriptionStatus, periodStart, periodEnd int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[providerSubID]
	if !ok {
		return false, nil
	}
	s.Status = status
	s.CurrentPeriodStart = periodStart
	s.CurrentPeriodEnd = periodEnd
	return true, nil
}

func (f *fakeSubscriptionRepo) MarkCanceled(_ context.Context, providerSubID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.subs[providerSubID]
	if !ok {
		return false, nil
	}
	s.Status = db_models.SubStatusCanceled
	return true, nil
}

func (f *fakeSubscriptionRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

type fakePlanRepo struct {
	plans map[string]*db_models.Plan
}

func newFakePlanRepo(plans ...*db_models.Plan) *fakePlanRepo {
	f := &fakePlanRepo{plans: make(map[string]*db_models.Plan)}
	for _, p := range plans {
		f.plans[p.Code] = p
	}
	return f
}

func (f *fakePlanRepo) FindActiveByCode(_ context.Context, code string) (*db_models.Plan, error) {
	p, ok := f.plans[code]
	if !ok {
		return nil, nil
	}
	copied := *p
	return &copied, nil
}

func (f *fakePlanRepo) ListActive(_ context.Context) ([]db_models.Plan, error) {
	var out []db_models.Plan
	for _, p := range f.plans {
		out = append(out, *p)
	}
	return out, nil
}

// fakeTransactionRepo mirrors the real repository's idempotency contract:
// unique provider_txn_id, MarkPaidAndCredit grants at most once.
type fakeTransactionRepo struct {
	mu       sync.Mutex
	txns     map[string]*db_models.Transaction
	accounts *fakeAccountRepo
}

func newFakeTransactionRepo(accounts *fakeAccountRepo) *fakeTransactionRepo {
	return &fakeTransactionRepo{
		txns:     make(map[string]*db_models.Transaction),
		accounts: accounts,
	}
}

func (f *fakeTransactionRepo) Insert(_ context.Context, txn *db_models.Transaction) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, exists := f.txns[txn.ProviderTxnID]; exists {
		return utils.ErrDatabaseError
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	stored := *txn
	f.txns[txn.ProviderTxnID] = &stored
	return nil
}

func (f *fakeTransactionRepo) FindByProviderTxnID(_ context.Context, providerTxnID string) (*db_models.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.txns[providerTxnID]
	if !ok {
		return nil, nil
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTransactionRepo) MarkPaidAndCredit(ctx context.Context, providerTxnID string) (int64, error) {
	f.mu.Lock()
	t, ok := f.txns[providerTxnID]
	if !ok {
		f.mu.Unlock()
		return 0, utils.ErrPaymentNotCompleted
	}
	if t.Status == db_models.TxnStatusPaid {
		f.mu.Unlock()
		return 0, nil
	}
	t.Status = db_models.TxnStatusPaid
	accountID := t.AccountID
	credits := t.Credits
	f.mu.Unlock()

	if err := f.accounts.AdjustCredits(ctx, accountID, credits); err != nil {
		return 0, err
	}
	return credits, nil
}

func (f *fakeTransactionRepo) MarkFailed(_ context.Context, providerTxnID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.txns[providerTxnID]; ok {
		t.Status = db_models.TxnStatusFailed
	}
	return nil
}

type fakeAIClient struct {
	mu            sync.Mutex
	reply         string
	err           error
	systemPrompts []string
	userPrompts   []string
}

func (f *fakeAIClient) Complete(_ context.Context, systemPrompt, userPrompt string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.systemPrompts = append(f.systemPrompts, systemPrompt)
	f.userPrompts = append(f.userPrompts, userPrompt)
	if f.err != nil {
		return "", f.err
	}
	return f.reply, nil
}

type fakeStripeBackend struct {
	sessions      map[string]*stripe.CheckoutSession
	subscriptions map[string]*stripe.Subscription
	createdParams []*stripe.CheckoutSessionParams
}

func newFakeStripeBackend() *fakeStripeBackend {
	return &fakeStripeBackend{
		sessions:      make(map[string]*stripe.CheckoutSession),
		subscriptions: make(map[string]*stripe.Subscription),
	}
}

func (f *fakeStripeBackend) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	f.createdParams = append(f.createdParams, params)
	sess := &stripe.CheckoutSession{
		ID:  "cs_test_1",
		URL: "https://checkout.stripe.test/cs_test_1",
	}
	f.sessions[sess.ID] = sess
	return sess, nil
}

func (f *fakeStripeBackend) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	sess, ok := f.sessions[id]
	if !ok {
		return nil, utils.ErrPaymentNotCompleted
	}
	return sess, nil
}

func (f *fakeStripeBackend) GetSubscription(id string) (*stripe.Subscription, error) {
	sub, ok := f.subscriptions[id]
	if !ok {
		return nil, utils.ErrPaymentNotCompleted
	}
	return sub, nil
}
