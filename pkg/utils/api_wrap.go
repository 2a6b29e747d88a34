package utils

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

type APIResponse struct {
	Status  string      `json:"status"`
	Code    int         `json:"code"`
	Message string      `json:"message,omitempty"`
	TraceID string      `json:"trace_id,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func RespondSuccess(c *gin.Context, data interface{}, message string) {
	c.JSON(http.StatusOK, APIResponse{
		Status:  "success",
		Code:    http.StatusOK,
		Message: message,
		TraceID: c.GetString("trace_id"),
		Data:    data,
	})
}

func RespondError(c *gin.Context, code int, message string) {
	c.JSON(code, APIResponse{
		Status:  "error",
		Code:    code,
		Message: message,
		TraceID: c.GetString("trace_id"),
	})
}

// HandleServiceError maps the sentinel error taxonomy onto HTTP responses.
// Every failure ends here with a user-facing message; nothing is retried
// automatically.
func HandleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrAccountNotFound):
		RespondError(c, http.StatusNotFound, "Account not found")
	case errors.Is(err, ErrDreamNotFound):
		RespondError(c, http.StatusNotFound, "Dream not found")
	case errors.Is(err, ErrPlanNotFound):
		RespondError(c, http.StatusNotFound, "Unknown subscription plan")
	case errors.Is(err, ErrEmailAlreadyExists):
		RespondError(c, http.StatusConflict, "An account with this email already exists")
	case errors.Is(err, ErrInvalidCredentials):
		RespondError(c, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, ErrUndoExpired):
		RespondError(c, http.StatusGone, "This dream can no longer be restored")
	case errors.Is(err, ErrConversationNotAppend):
		RespondError(c, http.StatusConflict, "Conversation turns can only be appended")
	case errors.Is(err, ErrInsufficientCredits):
		RespondError(c, http.StatusPaymentRequired, "Not enough credits, please top up or subscribe")
	case errors.Is(err, ErrPaymentNotCompleted):
		RespondError(c, http.StatusBadRequest, "Payment has not completed yet")
	case errors.Is(err, ErrAITimeout):
		RespondError(c, http.StatusGatewayTimeout, "The analysis is taking longer than usual, please try again")
	case errors.Is(err, ErrAIUnavailable), errors.Is(err, ErrAIEmptyReply):
		RespondError(c, http.StatusBadGateway, "Dream analysis is temporarily unavailable")
	case errors.Is(err, ErrAudioTooLarge):
		RespondError(c, http.StatusRequestEntityTooLarge, "Audio recording is too large")
	case errors.Is(err, ErrInvalidInput):
		RespondError(c, http.StatusBadRequest, "Invalid request")
	case errors.Is(err, ErrDatabaseError):
		log.Printf("Database error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	default:
		log.Printf("Unknown error: %v", err)
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}
