package transcription_fx

import (
	"log"
	"os"

	"go.uber.org/fx"

	"oneira/internal/api/controllers"
	"oneira/internal/services"
	"oneira/pkg/utils"
)

var Module = fx.Provide(
	provideTranscriber,
	provideTranscriptionService,
	provideTranscriptionController)

// provideTranscriber always uses whisper, regardless of which provider
// handles analysis.
func provideTranscriber() utils.TranscriberInterface {
	apiKey := utils.ResolveAIKey()
	if apiKey == "" {
		log.Fatal("an LLM API key is required for transcription")
	}
	return utils.NewOpenAIClient(apiKey, os.Getenv("AI_MODEL"))
}

func provideTranscriptionService(transcriber utils.TranscriberInterface) services.TranscriptionServiceInterface {
	return services.NewTranscriptionService(transcriber)
}

func provideTranscriptionController(
	transcriptionService services.TranscriptionServiceInterface,
) *controllers.TranscriptionController {
	return controllers.NewTranscriptionController(transcriptionService)
}
