package response_models

type AnalyzeResponse struct {
	Analysis string `json:"analysis"`
}

type TranscribeResponse struct {
	Text string `json:"text"`
}
