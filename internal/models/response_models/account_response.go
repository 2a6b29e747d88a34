package response_models

type LoginResponse struct {
	Token                 string `json:"token"`
	HasActiveSubscription bool   `json:"has_active_subscription"`
}

type ProfileResponse struct {
	ID                  string `json:"id"`
	Email               string `json:"email"`
	PreferredName       string `json:"preferred_name"`
	Credits             int64  `json:"credits"`
	OnboardingCompleted bool   `json:"onboarding_completed"`
	SubscriptionStatus  string `json:"subscription_status,omitempty"`
	SubscriptionPlan    string `json:"subscription_plan,omitempty"`
}
