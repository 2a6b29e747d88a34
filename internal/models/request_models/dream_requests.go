package request_models

type SaveDreamRequest struct {
	Content string  `json:"content" binding:"required,min=1"`
	Title   *string `json:"title"`
	// Optional dream date in unix seconds; defaults to now.
	Date int64 `json:"date"`
}

type TurnPayload struct {
	ID        string `json:"id" binding:"required"`
	Role      string `json:"role" binding:"required,oneof=dreamer guide"`
	Text      string `json:"text" binding:"required"`
	Timestamp int64  `json:"timestamp"`
}

// UpdateConversationRequest replaces the whole turn list of one dream.
type UpdateConversationRequest struct {
	Turns []TurnPayload `json:"turns" binding:"required,dive"`
}
