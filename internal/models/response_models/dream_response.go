package response_models

type TurnResponse struct {
	ID        string `json:"id"`
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp int64  `json:"timestamp"`
}

type DreamResponse struct {
	ID            string         `json:"id"`
	Content       string         `json:"content"`
	Title         *string        `json:"title,omitempty"`
	Date          int64          `json:"date"`
	Analyzed      bool           `json:"analyzed"`
	Analysis      *string        `json:"analysis,omitempty"`
	Conversations []TurnResponse `json:"conversations"`
	CreatedAt     int64          `json:"created_at"`
}

type RelatedDreamResponse struct {
	ID         string  `json:"id"`
	Title      *string `json:"title,omitempty"`
	Content    string  `json:"content"`
	Date       int64   `json:"date"`
	Similarity float64 `json:"similarity"`
}
