package main

import (
	"context"
	"log"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/fx"

	"oneira/cmd/fx/account_fx"
	"oneira/cmd/fx/analysis_fx"
	"oneira/cmd/fx/db_fx"
	"oneira/cmd/fx/dream_fx"
	"oneira/cmd/fx/payment_fx"
	"oneira/cmd/fx/transcription_fx"
	"oneira/internal/api/controllers"
	"oneira/pkg/middleware"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment")
	}

	app := fx.New(
		db_fx.Module,
		account_fx.Module,
		dream_fx.Module,
		analysis_fx.Module,
		payment_fx.Module,
		transcription_fx.Module,

		fx.Provide(ProvideRouter),
		fx.Invoke(StartServer),
	)

	app.Run()
}

func StartServer(lc fx.Lifecycle, engine *gin.Engine) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				port := os.Getenv("PORT")
				if port == "" {
					port = "8080"
				}
				log.Printf("Starting HTTP server at :%s", port)
				if err := engine.Run(":" + port); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Println("Stopping HTTP server")
			return nil
		},
	})
}

func ProvideRouter(
	accountController *controllers.AccountController,
	dreamController *controllers.DreamController,
	analysisController *controllers.AnalysisController,
	paymentController *controllers.PaymentController,
	transcriptionController *controllers.TranscriptionController) *gin.Engine {

	r := gin.Default()
	r.Use(gin.Logger())
	r.Use(gin.Recovery())
	r.Use(middleware.TraceIDMiddleware())
	r.Use(middleware.CORSMiddleware())

	RegisterRoutes(r,
		accountController,
		dreamController,
		analysisController,
		paymentController,
		transcriptionController)

	return r
}

func RegisterRoutes(r *gin.Engine,
	accountController *controllers.AccountController,
	dreamController *controllers.DreamController,
	analysisController *controllers.AnalysisController,
	paymentController *controllers.PaymentController,
	transcriptionController *controllers.TranscriptionController) {

	accountGroup := r.Group("/accounts")
	accountGroup.POST("/register", accountController.Register)
	accountGroup.POST("/login", accountController.Login)
	accountGroup.GET("/me", middleware.JWTAuthMiddleware(), accountController.Me)
	accountGroup.POST("/onboarding", middleware.JWTAuthMiddleware(), accountController.CompleteOnboarding)

	dreamGroup := r.Group("/dreams")
	dreamGroup.Use(middleware.JWTAuthMiddleware())
	dreamGroup.POST("", dreamController.Save)
	dreamGroup.GET("", dreamController.List)
	dreamGroup.GET("/:id", dreamController.Get)
	dreamGroup.DELETE("/:id", dreamController.Delete)
	dreamGroup.POST("/:id/restore", dreamController.Restore)
	dreamGroup.PUT("/:id/conversation", dreamController.UpdateConversation)
	dreamGroup.GET("/:id/related", dreamController.Related)

	analysisGroup := r.Group("/analysis")
	analysisGroup.Use(middleware.JWTAuthMiddleware())
	analysisGroup.POST("/analyze", analysisController.Analyze)
	analysisGroup.POST("/dreams/:id/start", analysisController.StartAnalysis)
	analysisGroup.POST("/dreams/:id/message", analysisController.SendMessage)

	paymentGroup := r.Group("/payments")
	paymentGroup.POST("/webhook", paymentController.HandleWebhook)
	paymentGroup.POST("/create-payment", middleware.JWTAuthMiddleware(), paymentController.CreatePayment)
	paymentGroup.POST("/create-subscription", middleware.JWTAuthMiddleware(), paymentController.CreateSubscription)
	paymentGroup.GET("/process", middleware.JWTAuthMiddleware(), paymentController.ProcessPayment)

	transcriptionGroup := r.Group("/transcriptions")
	transcriptionGroup.Use(middleware.JWTAuthMiddleware())
	transcriptionGroup.POST("", transcriptionController.Transcribe)
}
