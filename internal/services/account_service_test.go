package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"oneira/internal/models/db_models"
	"oneira/internal/models/request_models"
	"oneira/pkg/utils"
)

func newAccountServiceForTest(t *testing.T) (AccountServiceInterface, *fakeAccountRepo, *fakeSubscriptionRepo) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-signing-secret")

	accounts := newFakeAccountRepo()
	subs := newFakeSubscriptionRepo()
	return NewAccountService(accounts, subs), accounts, subs
}

func TestCreateAccountRejectsDuplicateEmail(t *testing.T) {
	svc, _, _ := newAccountServiceForTest(t)

	req := request_models.SignUpRequest{
		DisplayName: "Maya",
		Email:       "maya@example.com",
		Password:    "hunter2hunter2",
	}
	require.NoError(t, svc.CreateAccount(context.Background(), req))

	err := svc.CreateAccount(context.Background(), req)
	assert.ErrorIs(t, err, utils.ErrEmailAlreadyExists)
}

func TestLoginRoundTrip(t *testing.T) {
	svc, _, _ := newAccountServiceForTest(t)

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		DisplayName: "Maya",
		Email:       "maya@example.com",
		Password:    "hunter2hunter2",
	}))

	resp, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
	assert.False(t, resp.HasActiveSubscription)

	claims, err := utils.ValidateToken(resp.Token)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.UserID)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, _, _ := newAccountServiceForTest(t)

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	}))

	_, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "maya@example.com",
		Password: "wrong-password",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)

	// Unknown email reads the same as a bad password.
	_, err = svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "nobody@example.com",
		Password: "hunter2hunter2",
	})
	assert.ErrorIs(t, err, utils.ErrInvalidCredentials)
}

func TestLoginReportsActiveSubscription(t *testing.T) {
	svc, accounts, subs := newAccountServiceForTest(t)

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	}))
	account, err := accounts.FindByEmail(context.Background(), "maya@example.com")
	require.NoError(t, err)

	now := time.Now().Unix()
	require.NoError(t, subs.Upsert(context.Background(), &db_models.Subscription{
		AccountID:          account.ID,
		PlanCode:           "monthly_300",
		Status:             db_models.SubStatusActive,
		CurrentPeriodStart: now - 100,
		CurrentPeriodEnd:   now + 100,
		ProviderSubID:      "sub_login_test",
	}))

	resp, err := svc.Login(context.Background(), request_models.LoginRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	})
	require.NoError(t, err)
	assert.True(t, resp.HasActiveSubscription)
}

func TestCompleteOnboarding(t *testing.T) {
	svc, accounts, _ := newAccountServiceForTest(t)

	require.NoError(t, svc.CreateAccount(context.Background(), request_models.SignUpRequest{
		Email:    "maya@example.com",
		Password: "hunter2hunter2",
	}))
	account, err := accounts.FindByEmail(context.Background(), "maya@example.com")
	require.NoError(t, err)

	require.NoError(t, svc.CompleteOnboarding(context.Background(), account.ID, "Maya"))

	profile, err := svc.GetProfile(context.Background(), account.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maya", profile.PreferredName)
	assert.True(t, profile.OnboardingCompleted)
}

func TestGetProfileUnknownAccount(t *testing.T) {
	svc, _, _ := newAccountServiceForTest(t)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, utils.ErrAccountNotFound)
}
