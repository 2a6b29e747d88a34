package payment_fx

import (
	"log"

	"github.com/joeshaw/envdecode"
	"go.uber.org/fx"
	"gorm.io/gorm"

	"oneira/internal/api/controllers"
	"oneira/internal/repositories"
	"oneira/internal/services"
)

var Module = fx.Provide(
	providePlanRepo,
	provideSubscriptionRepo,
	provideTransactionRepo,
	providePaymentService,
	providePaymentController)

func providePlanRepo(db *gorm.DB) repositories.PlanRepository {
	return repositories.NewPlanRepository(db)
}

func provideSubscriptionRepo(db *gorm.DB) repositories.SubscriptionRepository {
	return repositories.NewSubscriptionRepository(db)
}

func provideTransactionRepo(db *gorm.DB) repositories.TransactionRepository {
	return repositories.NewTransactionRepository(db)
}

func providePaymentService(
	accountRepo repositories.AccountRepository,
	planRepo repositories.PlanRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	txnRepo repositories.TransactionRepository,
) services.PaymentService {
	var cfg services.StripeConfig
	if err := envdecode.Decode(&cfg); err != nil {
		log.Fatalf("stripe configuration: %v", err)
	}

	instance, err := services.NewPaymentService(
		accountRepo, planRepo, subscriptionRepo, txnRepo,
		services.NewStripeBackend(), cfg)
	if err != nil {
		log.Fatalf("Error initializing PaymentService: %v", err)
	}

	return instance
}

func providePaymentController(paymentService services.PaymentService) *controllers.PaymentController {
	return controllers.NewPaymentController(paymentService)
}
