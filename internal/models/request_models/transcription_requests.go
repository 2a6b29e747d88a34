package request_models

type TranscribeRequest struct {
	// Base64-encoded audio, optionally with a data-URL prefix.
	Audio string `json:"audio" binding:"required"`
}
