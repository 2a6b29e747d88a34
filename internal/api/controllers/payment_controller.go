package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneira/internal/models/request_models"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

type PaymentController struct {
	paymentService services.PaymentService
}

func NewPaymentController(paymentService services.PaymentService) *PaymentController {
	return &PaymentController{
		paymentService: paymentService,
	}
}

// CreatePayment godoc
// @Summary Create a checkout session for a credit bundle
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreatePaymentRequest true "Credit purchase payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/create-payment [post]
func (p *PaymentController) CreatePayment(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkout, err := p.paymentService.CreateCreditCheckout(c.Request.Context(), accountID, req.Amount, req.Price)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout URL created successfully")
}

// CreateSubscription godoc
// @Summary Create a checkout session for a subscription plan
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body request_models.CreateSubscriptionRequest true "Subscription payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/create-subscription [post]
func (p *PaymentController) CreateSubscription(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request payload")
		return
	}

	checkout, err := p.paymentService.CreateSubscriptionCheckout(c.Request.Context(), accountID, req.Plan)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, checkout, "Checkout URL created successfully")
}

// ProcessPayment godoc
// @Summary Confirm a completed checkout session and collect its credits
// @Tags Payments
// @Produce json
// @Param session_id query string true "Checkout session ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /payments/process [get]
func (p *PaymentController) ProcessPayment(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	sessionID := c.Query("session_id")
	if sessionID == "" {
		utils.RespondError(c, http.StatusBadRequest, "session_id is required")
		return
	}

	result, err := p.paymentService.ProcessPayment(c.Request.Context(), accountID, sessionID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, result, "Payment processed")
}

// HandleWebhook receives signed events from the payment provider. It is the
// only unauthenticated mutating route; the signature is the authentication.
func (p *PaymentController) HandleWebhook(c *gin.Context) {
	p.paymentService.HandleWebhook(c)
}
