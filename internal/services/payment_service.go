package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	stripe "github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/subscription"
	"github.com/stripe/stripe-go/v76/webhook"

	"oneira/internal/models/db_models"
	"oneira/internal/models/response_models"
	"oneira/internal/repositories"
	"oneira/pkg/utils"
)

type StripeConfig struct {
	SecretKey     string `env:"STRIPE_SECRET_KEY,required"`
	WebhookSecret string `env:"STRIPE_WEBHOOK_SECRET,required"`
	SuccessURL    string `env:"CHECKOUT_SUCCESS_URL,default=https://oneira.app/payment/success"`
	CancelURL     string `env:"CHECKOUT_CANCEL_URL,default=https://oneira.app/payment/cancelled"`
	Currency      string `env:"CHECKOUT_CURRENCY,default=usd"`
	ProviderName  string `env:"PAYMENT_PROVIDER_NAME,default=stripe"`
}

// StripeBackend is the thin slice of the Stripe API the service touches,
// split out so the reconciliation logic is testable without the network.
type StripeBackend interface {
	CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
	GetCheckoutSession(id string) (*stripe.CheckoutSession, error)
	GetSubscription(id string) (*stripe.Subscription, error)
}

type stripeBackend struct{}

// NewStripeBackend returns the live Stripe-API-backed implementation.
func NewStripeBackend() StripeBackend {
	return stripeBackend{}
}

func (stripeBackend) CreateCheckoutSession(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

func (stripeBackend) GetCheckoutSession(id string) (*stripe.CheckoutSession, error) {
	return session.Get(id, nil)
}

func (stripeBackend) GetSubscription(id string) (*stripe.Subscription, error) {
	return subscription.Get(id, nil)
}

type PaymentService interface {
	CreateCreditCheckout(ctx context.Context, accountID uuid.UUID, amount, priceCents int64) (*response_models.CheckoutResponse, error)
	CreateSubscriptionCheckout(ctx context.Context, accountID uuid.UUID, planCode string) (*response_models.CheckoutResponse, error)
	ProcessPayment(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.ProcessPaymentResponse, error)
	HandleWebhook(c *gin.Context)
}

type paymentService struct {
	accountRepo      repositories.AccountRepository
	planRepo         repositories.PlanRepository
	subscriptionRepo repositories.SubscriptionRepository
	txnRepo          repositories.TransactionRepository
	backend          StripeBackend
	cfg              StripeConfig
}

func NewPaymentService(
	accountRepo repositories.AccountRepository,
	planRepo repositories.PlanRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	txnRepo repositories.TransactionRepository,
	backend StripeBackend,
	cfg StripeConfig,
) (PaymentService, error) {
	if cfg.SecretKey == "" || cfg.WebhookSecret == "" {
		return nil, errors.New("missing stripe credentials")
	}
	stripe.Key = cfg.SecretKey

	return &paymentService{
		accountRepo:      accountRepo,
		planRepo:         planRepo,
		subscriptionRepo: subscriptionRepo,
		txnRepo:          txnRepo,
		backend:          backend,
		cfg:              cfg,
	}, nil
}

func (p *paymentService) CreateCreditCheckout(ctx context.Context, accountID uuid.UUID, amount, priceCents int64) (*response_models.CheckoutResponse, error) {
	account, err := p.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModePayment)),
		CustomerEmail: stripe.String(account.Email),
		SuccessURL:    stripe.String(p.cfg.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(p.cfg.Currency),
					UnitAmount: stripe.Int64(priceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(fmt.Sprintf("%d dream analysis credits", amount)),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("account_id", accountID.String())
	params.AddMetadata("credits", strconv.FormatInt(amount, 10))

	sess, err := p.backend.CreateCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create session: %w", err)
	}

	// Pending transaction keyed by the session; the webhook (or the
	// process-payment poll) flips it to paid exactly once.
	txn := &db_models.Transaction{
		AccountID:     accountID,
		AmountMinor:   priceCents,
		Currency:      strings.ToUpper(p.cfg.Currency),
		Credits:       amount,
		Status:        db_models.TxnStatusPending,
		Provider:      p.cfg.ProviderName,
		ProviderTxnID: sess.ID,
	}
	if err := p.txnRepo.Insert(ctx, txn); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.CheckoutResponse{URL: sess.URL}, nil
}

func (p *paymentService) CreateSubscriptionCheckout(ctx context.Context, accountID uuid.UUID, planCode string) (*response_models.CheckoutResponse, error) {
	account, err := p.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	plan, err := p.planRepo.FindActiveByCode(ctx, planCode)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if plan == nil {
		return nil, utils.ErrPlanNotFound
	}

	interval := "month"
	if plan.Period == db_models.PeriodYear {
		interval = "year"
	}

	params := &stripe.CheckoutSessionParams{
		Mode:          stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		CustomerEmail: stripe.String(account.Email),
		SuccessURL:    stripe.String(p.cfg.SuccessURL + "?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:     stripe.String(p.cfg.CancelURL),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(strings.ToLower(plan.Currency)),
					UnitAmount: stripe.Int64(plan.PriceMinor),
					Recurring: &stripe.CheckoutSessionLineItemPriceDataRecurringParams{
						Interval: stripe.String(interval),
					},
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(plan.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
	}
	params.AddMetadata("account_id", accountID.String())
	params.AddMetadata("plan_code", plan.Code)

	sess, err := p.backend.CreateCheckoutSession(params)
	if err != nil {
		return nil, fmt.Errorf("stripe create session: %w", err)
	}

	return &response_models.CheckoutResponse{URL: sess.URL}, nil
}

func (p *paymentService) ProcessPayment(ctx context.Context, accountID uuid.UUID, sessionID string) (*response_models.ProcessPaymentResponse, error) {
	sess, err := p.backend.GetCheckoutSession(sessionID)
	if err != nil {
		return nil, utils.ErrPaymentNotCompleted
	}

	if sess.PaymentStatus != stripe.CheckoutSessionPaymentStatusPaid {
		return &response_models.ProcessPaymentResponse{Success: false}, nil
	}

	txn, err := p.txnRepo.FindByProviderTxnID(ctx, sessionID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if txn == nil || txn.AccountID != accountID {
		return nil, utils.ErrPaymentNotCompleted
	}

	granted, err := p.txnRepo.MarkPaidAndCredit(ctx, sessionID)
	if err != nil {
		if errors.Is(err, utils.ErrPaymentNotCompleted) {
			return nil, err
		}
		return nil, utils.ErrDatabaseError
	}

	return &response_models.ProcessPaymentResponse{
		Success:      true,
		CreditsAdded: granted,
	}, nil
}

// HandleWebhook is the sole writer of entitlement state. The signature check
// is the only authentication on this entry point: Stripe calls it, users
// never do.
func (p *paymentService) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read request body"})
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if sigHeader == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing signature"})
		return
	}

	event, err := webhook.ConstructEvent(payload, sigHeader, p.cfg.WebhookSecret)
	if err != nil {
		log.Printf("webhook: signature verification failed: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "signature verification failed"})
		return
	}

	ctx := c.Request.Context()

	switch string(event.Type) {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}
		err = p.applyCheckoutCompleted(ctx, &sess)

	case "invoice.payment_succeeded":
		var inv stripe.Invoice
		if err := json.Unmarshal(event.Data.Raw, &inv); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}
		err = p.applyInvoicePaid(ctx, &inv)

	case "customer.subscription.deleted":
		var deleted stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &deleted); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "malformed event payload"})
			return
		}
		err = p.applySubscriptionDeleted(ctx, &deleted)

	default:
		// Not a reconciled event type; ack so Stripe stops resending.
		c.JSON(http.StatusOK, gin.H{"received": true})
		return
	}

	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"received": true})
	case errors.Is(err, utils.ErrAccountNotFound), errors.Is(err, utils.ErrPaymentNotCompleted):
		// Lookup failures are not retryable; tell Stripe not to bother.
		log.Printf("webhook: %s rejected: %v", event.Type, err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		// Database trouble: 500 so Stripe redelivers.
		log.Printf("webhook: %s failed: %v", event.Type, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process event"})
	}
}

func (p *paymentService) applyCheckoutCompleted(ctx context.Context, sess *stripe.CheckoutSession) error {
	if sess.Mode != stripe.CheckoutSessionModeSubscription {
		// One-time credit purchase.
		_, err := p.txnRepo.MarkPaidAndCredit(ctx, sess.ID)
		return err
	}

	email := sess.CustomerEmail
	if sess.CustomerDetails != nil && sess.CustomerDetails.Email != "" {
		email = sess.CustomerDetails.Email
	}
	account, err := p.accountRepo.FindByEmail(ctx, email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	if sess.Subscription == nil || sess.Subscription.ID == "" {
		return utils.ErrPaymentNotCompleted
	}

	stripeSub, err := p.backend.GetSubscription(sess.Subscription.ID)
	if err != nil {
		return fmt.Errorf("stripe get subscription: %w", err)
	}

	planCode := sess.Metadata["plan_code"]
	customerID := ""
	if stripeSub.Customer != nil {
		customerID = stripeSub.Customer.ID
	}

	record := &db_models.Subscription{
		AccountID:          account.ID,
		PlanCode:           planCode,
		Status:             mapStripeStatus(stripeSub.Status),
		CurrentPeriodStart: stripeSub.CurrentPeriodStart,
		CurrentPeriodEnd:   stripeSub.CurrentPeriodEnd,
		Provider:           p.cfg.ProviderName,
		ProviderCustomerID: customerID,
		ProviderSubID:      stripeSub.ID,
		Metadata: jsonRaw(map[string]any{
			"checkout_session": sess.ID,
		}),
	}

	if err := p.subscriptionRepo.Upsert(ctx, record); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func (p *paymentService) applyInvoicePaid(ctx context.Context, inv *stripe.Invoice) error {
	if inv.Subscription == nil || inv.Subscription.ID == "" {
		// One-off invoice, nothing to reconcile.
		return nil
	}
	subID := inv.Subscription.ID

	stripeSub, err := p.backend.GetSubscription(subID)
	if err != nil {
		return fmt.Errorf("stripe get subscription: %w", err)
	}

	matched, err := p.subscriptionRepo.RefreshPeriod(ctx, subID,
		mapStripeStatus(stripeSub.Status),
		stripeSub.CurrentPeriodStart,
		stripeSub.CurrentPeriodEnd)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !matched {
		// Unknown subscription: ack and log rather than invite a retry storm.
		log.Printf("webhook: invoice for unknown subscription %s", subID)
		return nil
	}

	return p.grantPeriodCredits(ctx, subID, inv.ID)
}

func (p *paymentService) applySubscriptionDeleted(ctx context.Context, deleted *stripe.Subscription) error {
	matched, err := p.subscriptionRepo.MarkCanceled(ctx, deleted.ID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if !matched {
		log.Printf("webhook: deletion for unknown subscription %s", deleted.ID)
	}
	return nil
}

// grantPeriodCredits gives a subscriber their per-period credit allowance at
// most once per invoice: the grant rides on a Transaction row whose unique
// provider reference is the invoice ID.
func (p *paymentService) grantPeriodCredits(ctx context.Context, providerSubID, invoiceID string) error {
	record, err := p.subscriptionRepo.FindByProviderSubID(ctx, providerSubID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if record == nil || record.PlanCode == "" {
		return nil
	}

	plan, err := p.planRepo.FindActiveByCode(ctx, record.PlanCode)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if plan == nil || plan.CreditsPerPeriod == 0 {
		return nil
	}

	ref := "invoice:" + invoiceID
	existing, err := p.txnRepo.FindByProviderTxnID(ctx, ref)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existing != nil {
		// This invoice already granted its credits.
		return nil
	}

	txn := &db_models.Transaction{
		AccountID:     record.AccountID,
		AmountMinor:   plan.PriceMinor,
		Currency:      plan.Currency,
		Credits:       plan.CreditsPerPeriod,
		Status:        db_models.TxnStatusPending,
		Provider:      p.cfg.ProviderName,
		ProviderTxnID: ref,
	}
	if err := p.txnRepo.Insert(ctx, txn); err != nil {
		// Unique index lost the race to a concurrent delivery; the credits
		// were already granted.
		return nil
	}

	if _, err := p.txnRepo.MarkPaidAndCredit(ctx, ref); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}

func mapStripeStatus(status stripe.SubscriptionStatus) db_models.SubscriptionStatus {
	switch status {
	case stripe.SubscriptionStatusActive, stripe.SubscriptionStatusTrialing:
		return db_models.SubStatusActive
	case stripe.SubscriptionStatusPastDue, stripe.SubscriptionStatusIncomplete:
		return db_models.SubStatusPastDue
	case stripe.SubscriptionStatusCanceled, stripe.SubscriptionStatusUnpaid, stripe.SubscriptionStatusIncompleteExpired:
		return db_models.SubStatusCanceled
	default:
		return db_models.SubStatusExpired
	}
}

func jsonRaw(v any) []byte {
	b, _ := json.Marshal(v)
	return b
}
