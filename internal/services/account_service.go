package services

import (
	"context"

	"github.com/google/uuid"

	"oneira/internal/models/db_models"
	"oneira/internal/models/request_models"
	"oneira/internal/models/response_models"
	"oneira/internal/repositories"
	"oneira/pkg/utils"
)

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, request request_models.SignUpRequest) error
	Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error)
	GetProfile(ctx context.Context, accountID uuid.UUID) (*response_models.ProfileResponse, error)
	CompleteOnboarding(ctx context.Context, accountID uuid.UUID, preferredName string) error
}

type AccountService struct {
	accountRepo      repositories.AccountRepository
	subscriptionRepo repositories.SubscriptionRepository
}

func NewAccountService(
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
) AccountServiceInterface {
	return &AccountService{
		accountRepo:      accountRepo,
		subscriptionRepo: subscriptionRepo,
	}
}

func (a *AccountService) CreateAccount(ctx context.Context, request request_models.SignUpRequest) error {

	existingAccount, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if existingAccount != nil {
		return utils.ErrEmailAlreadyExists
	}

	hashedPassword, err := utils.HashPassword(request.Password)
	if err != nil {
		return utils.ErrDatabaseError
	}

	newAccount := &db_models.Account{
		PreferredName: request.DisplayName,
		Email:         request.Email,
		PasswordHash:  hashedPassword,
	}

	if err := a.accountRepo.Insert(ctx, newAccount); err != nil {
		return utils.ErrDatabaseError
	}

	return nil
}

func (a *AccountService) Login(ctx context.Context, request request_models.LoginRequest) (*response_models.LoginResponse, error) {

	account, err := a.accountRepo.FindByEmail(ctx, request.Email)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(account.PasswordHash, request.Password); err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	token, err := utils.CreateToken(account.ID)
	if err != nil {
		return nil, utils.ErrInvalidCredentials
	}

	sub, err := a.subscriptionRepo.FindActiveByAccount(ctx, account.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.LoginResponse{
		Token:                 token,
		HasActiveSubscription: sub != nil,
	}, nil
}

func (a *AccountService) GetProfile(ctx context.Context, accountID uuid.UUID) (*response_models.ProfileResponse, error) {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if account == nil {
		return nil, utils.ErrAccountNotFound
	}

	profile := &response_models.ProfileResponse{
		ID:                  account.ID.String(),
		Email:               account.Email,
		PreferredName:       account.PreferredName,
		Credits:             account.Credits,
		OnboardingCompleted: account.OnboardingCompleted,
	}

	sub, err := a.subscriptionRepo.FindActiveByAccount(ctx, accountID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if sub != nil {
		profile.SubscriptionStatus = string(sub.Status)
		profile.SubscriptionPlan = sub.PlanCode
	}

	return profile, nil
}

func (a *AccountService) CompleteOnboarding(ctx context.Context, accountID uuid.UUID, preferredName string) error {
	account, err := a.accountRepo.FindByID(ctx, accountID)
	if err != nil {
		return utils.ErrDatabaseError
	}
	if account == nil {
		return utils.ErrAccountNotFound
	}

	if err := a.accountRepo.CompleteOnboarding(ctx, accountID, preferredName); err != nil {
		return utils.ErrDatabaseError
	}
	return nil
}
