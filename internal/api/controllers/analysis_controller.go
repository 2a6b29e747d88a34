package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneira/internal/models/request_models"
	"oneira/internal/models/response_models"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

type AnalysisController struct {
	analysisService services.AnalysisServiceInterface
}

func NewAnalysisController(analysisService services.AnalysisServiceInterface) *AnalysisController {
	return &AnalysisController{
		analysisService: analysisService,
	}
}

// Analyze godoc
// @Summary Analyze raw dream text
// @Description Single-shot analysis: {dreamText} in, {analysis} out
// @Tags Analysis
// @Accept json
// @Produce json
// @Param request body request_models.AnalyzeRequest true "Dream text"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /analysis/analyze [post]
func (a *AnalysisController) Analyze(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.AnalyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	analysis, err := a.analysisService.Analyze(c.Request.Context(), accountID, req.DreamText)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.AnalyzeResponse{Analysis: analysis}, "Analysis complete")
}

// StartAnalysis godoc
// @Summary Run the first analysis of a dream
// @Tags Analysis
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /analysis/dreams/{id}/start [post]
func (a *AnalysisController) StartAnalysis(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	turn, err := a.analysisService.StartAnalysis(c.Request.Context(), accountID, dreamID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, turn, "Analysis complete")
}

// SendMessage godoc
// @Summary Continue a dream's analysis conversation
// @Tags Analysis
// @Accept json
// @Produce json
// @Param id path string true "Dream ID"
// @Param request body request_models.SendMessageRequest true "Dreamer message"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /analysis/dreams/{id}/message [post]
func (a *AnalysisController) SendMessage(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	var req request_models.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	turns, err := a.analysisService.SendMessage(c.Request.Context(), accountID, dreamID, req.Text)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, turns, "Message sent")
}
