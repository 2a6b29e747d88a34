package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"oneira/internal/models/request_models"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

type DreamController struct {
	dreamService services.DreamServiceInterface
}

func NewDreamController(dreamService services.DreamServiceInterface) *DreamController {
	return &DreamController{
		dreamService: dreamService,
	}
}

func dreamIDParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid dream id")
		return uuid.Nil, false
	}
	return id, true
}

// Save godoc
// @Summary Save a new dream
// @Tags Dreams
// @Accept json
// @Produce json
// @Param request body request_models.SaveDreamRequest true "Dream payload"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams [post]
func (d *DreamController) Save(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	var req request_models.SaveDreamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	dream, err := d.dreamService.Save(c.Request.Context(), accountID, req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dream, "Dream saved")
}

// List godoc
// @Summary List dreams, newest first
// @Tags Dreams
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams [get]
func (d *DreamController) List(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}

	dreams, err := d.dreamService.List(c.Request.Context(), accountID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dreams, "Dreams fetched")
}

func (d *DreamController) Get(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	dream, err := d.dreamService.Get(c.Request.Context(), accountID, dreamID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dream, "Dream fetched")
}

// Delete godoc
// @Summary Delete a dream
// @Description The dream stays restorable for a short undo window
// @Tags Dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams/{id} [delete]
func (d *DreamController) Delete(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	if err := d.dreamService.Delete(c.Request.Context(), accountID, dreamID); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Dream deleted")
}

// Restore godoc
// @Summary Undo a recent deletion
// @Tags Dreams
// @Produce json
// @Param id path string true "Dream ID"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams/{id}/restore [post]
func (d *DreamController) Restore(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	dream, err := d.dreamService.Restore(c.Request.Context(), accountID, dreamID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, dream, "Dream restored")
}

// UpdateConversation godoc
// @Summary Replace a dream's conversation turns
// @Description Accepts only append-extensions of the stored list
// @Tags Dreams
// @Accept json
// @Produce json
// @Param id path string true "Dream ID"
// @Param request body request_models.UpdateConversationRequest true "Turn list"
// @Success 200 {object} utils.APIResponse
// @Security BearerAuth
// @Router /dreams/{id}/conversation [put]
func (d *DreamController) UpdateConversation(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	var req request_models.UpdateConversationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := d.dreamService.UpdateConversation(c.Request.Context(), accountID, dreamID, req.Turns); err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, nil, "Conversation updated")
}

func (d *DreamController) Related(c *gin.Context) {
	accountID, ok := currentAccountID(c)
	if !ok {
		return
	}
	dreamID, ok := dreamIDParam(c)
	if !ok {
		return
	}

	related, err := d.dreamService.Related(c.Request.Context(), accountID, dreamID)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, related, "Related dreams fetched")
}
