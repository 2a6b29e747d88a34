package utils

import (
	"context"
	"os"

	"github.com/pgvector/pgvector-go"
)

// AnalysisClientInterface produces one guide reply for a prompt. Implemented
// by the OpenAI and Gemini clients; the provider is picked at wire-up time.
type AnalysisClientInterface interface {
	Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

type EmbeddingClientInterface interface {
	GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error)
}

// TranscriberInterface converts recorded audio into text. Only the OpenAI
// client implements this (whisper).
type TranscriberInterface interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// ResolveAIKey returns the LLM API key, honoring the legacy fallback names
// still present in older deployments.
func ResolveAIKey() string {
	for _, name := range []string{"ONEIRA_AI_KEY", "OPENAI_API_KEY", "GROQ_API_KEY"} {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}
