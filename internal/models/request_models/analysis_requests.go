package request_models

// AnalyzeRequest is the single-shot analysis contract kept from the legacy
// endpoint: raw text in, analysis out.
type AnalyzeRequest struct {
	DreamText string `json:"dreamText" binding:"required,min=1"`
}

type SendMessageRequest struct {
	Text string `json:"text" binding:"required,min=1"`
}
