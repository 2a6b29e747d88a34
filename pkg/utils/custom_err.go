package utils

import "errors"

var (
	ErrAccountNotFound    = errors.New("account not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDreamNotFound = errors.New("dream not found")
	ErrUndoExpired   = errors.New("undo window expired")
	// ErrConversationNotAppend rejects turn lists that rewrite history instead
	// of extending it.
	ErrConversationNotAppend = errors.New("conversation update is not an append")

	ErrPlanNotFound        = errors.New("plan not found")
	ErrInsufficientCredits = errors.New("insufficient credits")
	ErrPaymentNotCompleted = errors.New("payment not completed")
	ErrWebhookVerification = errors.New("webhook signature verification failed")

	ErrAITimeout     = errors.New("analysis timed out")
	ErrAIUnavailable = errors.New("analysis service unavailable")
	ErrAIEmptyReply  = errors.New("analysis returned no content")

	ErrAudioTooLarge = errors.New("audio payload too large")
	ErrInvalidInput  = errors.New("invalid input")

	ErrDatabaseError = errors.New("database error")
)
