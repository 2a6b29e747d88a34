package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"oneira/internal/models/request_models"
	"oneira/internal/models/response_models"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

type TranscriptionController struct {
	transcriptionService services.TranscriptionServiceInterface
}

func NewTranscriptionController(transcriptionService services.TranscriptionServiceInterface) *TranscriptionController {
	return &TranscriptionController{
		transcriptionService: transcriptionService,
	}
}

// Transcribe godoc
// @Summary Transcribe a recorded dream
// @Description Accepts base64 audio, returns the transcribed text. Decoded
// @Description payloads over 1.5 MiB are rejected with 413.
// @Tags Transcription
// @Accept json
// @Produce json
// @Param request body request_models.TranscribeRequest true "Base64 audio"
// @Success 200 {object} utils.APIResponse
// @Failure 413 {object} utils.APIResponse
// @Security BearerAuth
// @Router /transcriptions [post]
func (t *TranscriptionController) Transcribe(c *gin.Context) {
	if _, ok := currentAccountID(c); !ok {
		return
	}

	var req request_models.TranscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request format")
		return
	}

	text, err := t.transcriptionService.Transcribe(c.Request.Context(), req.Audio)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, response_models.TranscribeResponse{Text: text}, "Transcription complete")
}
