package account_fx

import (
	"go.uber.org/fx"
	"gorm.io/gorm"

	"oneira/internal/api/controllers"
	"oneira/internal/repositories"
	"oneira/internal/services"
)

var Module = fx.Provide(
	provideAccountRepo, provideAccountService, provideAccountController)

func provideAccountRepo(db *gorm.DB) repositories.AccountRepository {
	return repositories.NewAccountRepository(db)
}

func provideAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
) services.AccountServiceInterface {
	return services.NewAccountService(accountRepo, subscriptionRepo)
}

func provideAccountController(accountService services.AccountServiceInterface) *controllers.AccountController {
	return controllers.NewAccountController(accountService)
}
