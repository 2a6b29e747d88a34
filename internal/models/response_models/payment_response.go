package response_models

type CheckoutResponse struct {
	URL string `json:"url"`
}

type ProcessPaymentResponse struct {
	Success      bool  `json:"success"`
	CreditsAdded int64 `json:"credits_added,omitempty"`
}
