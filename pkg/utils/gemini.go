package utils

import (
	"context"
	"fmt"
	"hash/fnv"
	"math"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"github.com/pgvector/pgvector-go"
	"google.golang.org/api/option"
)

// GeminiClient is the alternate analysis provider. The free tier has no
// dedicated embedding endpoint, so GetEmbedding falls back to a
// deterministic hash projection; good enough for "related dreams", not for
// production-grade semantic search.
type GeminiClient struct {
	client *genai.Client
	model  string
}

func NewGeminiClient(apiKey, model string) (*GeminiClient, error) {
	if model == "" {
		model = "gemini-1.5-flash"
	}
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiClient{client: client, model: model}, nil
}

func (c *GeminiClient) Complete(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, completionTimeout)
	defer cancel()

	m := c.client.GenerativeModel(c.model)
	m.SetTemperature(0.7)
	m.SetTopP(0.8)
	m.SystemInstruction = &genai.Content{Parts: []genai.Part{genai.Text(systemPrompt)}}

	resp, err := m.GenerateContent(ctx, genai.Text(userPrompt))
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return "", ErrAITimeout
		}
		return "", fmt.Errorf("%w: %v", ErrAIUnavailable, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", ErrAIEmptyReply
	}
	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}

func (c *GeminiClient) GetEmbedding(ctx context.Context, text string) (pgvector.Vector, error) {
	return textToVector(text), nil
}

const embeddingDims = 1536

// textToVector hashes word n-grams into a fixed-size normalized vector.
func textToVector(text string) pgvector.Vector {
	vec := make([]float32, embeddingDims)
	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		h := fnv.New32a()
		h.Write([]byte(word))
		vec[h.Sum32()%embeddingDims] += 1.0
		if i+1 < len(words) {
			h.Reset()
			h.Write([]byte(word + " " + words[i+1]))
			vec[h.Sum32()%embeddingDims] += 0.5
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		scale := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= scale
		}
	}
	return pgvector.NewVector(vec)
}
