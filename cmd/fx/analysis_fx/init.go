// cmd/fx/analysis_fx/init.go
package analysis_fx

import (
	"fmt"
	"log"
	"os"
	"strings"

	"go.uber.org/fx"

	"oneira/internal/api/controllers"
	"oneira/internal/repositories"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

var Module = fx.Provide(
	ProvideAIClients,
	ProvideAnalysisService,
	ProvideAnalysisController)

// AIConfig holds configuration for the analysis provider
type AIConfig struct {
	Provider string
	APIKey   string
	Model    string
}

// ProvideAIClients creates the analysis and embedding clients based on
// environment variables. OpenAI serves both concerns from one client; Gemini
// pairs generation with a local embedding fallback.
func ProvideAIClients() (utils.AnalysisClientInterface, utils.EmbeddingClientInterface, error) {
	config := getAIConfig()

	log.Printf("Initializing %s analysis client with model: %s", config.Provider, config.Model)

	switch strings.ToLower(config.Provider) {
	case "openai":
		client := utils.NewOpenAIClient(config.APIKey, config.Model)
		return client, client, nil
	case "gemini":
		client, err := utils.NewGeminiClient(config.APIKey, config.Model)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create Gemini client: %w", err)
		}
		return client, client, nil
	default:
		return nil, nil, fmt.Errorf("unsupported AI provider: %s. Use 'openai' or 'gemini'", config.Provider)
	}
}

func ProvideAnalysisService(
	dreamRepo repositories.DreamRepository,
	accountRepo repositories.AccountRepository,
	subscriptionRepo repositories.SubscriptionRepository,
	aiClient utils.AnalysisClientInterface,
) services.AnalysisServiceInterface {
	return services.NewAnalysisService(dreamRepo, accountRepo, subscriptionRepo, aiClient)
}

func ProvideAnalysisController(
	analysisService services.AnalysisServiceInterface,
) *controllers.AnalysisController {
	return controllers.NewAnalysisController(analysisService)
}

// getAIConfig reads configuration from environment variables
func getAIConfig() AIConfig {
	provider := getEnvWithDefault("AI_PROVIDER", "openai")

	var apiKey, model string

	switch strings.ToLower(provider) {
	case "openai":
		apiKey = utils.ResolveAIKey()
		model = getEnvWithDefault("AI_MODEL", "gpt-4o")
		if apiKey == "" {
			log.Fatal("an LLM API key is required when using the OpenAI provider")
		}
	case "gemini":
		apiKey = os.Getenv("GEMINI_API_KEY")
		model = getEnvWithDefault("GEMINI_MODEL", "gemini-1.5-flash")
		if apiKey == "" {
			log.Fatal("GEMINI_API_KEY is required when using the Gemini provider")
		}
	}

	return AIConfig{
		Provider: provider,
		APIKey:   apiKey,
		Model:    model,
	}
}

// getEnvWithDefault returns environment variable or default value
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
