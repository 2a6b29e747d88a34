package request_models

type CreatePaymentRequest struct {
	// Amount of credits to purchase.
	Amount int64 `json:"amount" binding:"required,gt=0"`
	// Price in integer cents for the whole bundle.
	Price int64 `json:"price" binding:"required,gt=0"`
}

type CreateSubscriptionRequest struct {
	Plan string `json:"plan" binding:"required"`
}
