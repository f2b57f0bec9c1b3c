package main

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ttchat/internal/config"
	"ttchat/internal/infrastructure"
	"ttchat/internal/interfaces"
	httpapi "ttchat/internal/interfaces/http"
	"ttchat/internal/repository"
	"ttchat/internal/usecases"
)

func main() {
	cfg := config.MustLoad()

	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	pgClient, err := infrastructure.NewPostgresClient(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer pgClient.Close()

	// Repositories
	tenantRepo := repository.NewTenantRepository(pgClient.Pool)
	widgetRepo := repository.NewWidgetRepository(pgClient.Pool)
	conversationRepo := repository.NewConversationRepository(pgClient.Pool)
	integrationRepo := repository.NewIntegrationRepository(pgClient.Pool)
	botConfigRepo := repository.NewBotConfigRepository(pgClient.Pool)

	// External collaborators
	broker := infrastructure.NewUppileBroker(cfg.UppileAPI, cfg.UppileToken)
	webhook := infrastructure.NewAutomationWebhook(cfg.AutomationWebhookURL)

	var responder interfaces.Responder
	if cfg.OpenAIAPIKey != "" {
		responder = infrastructure.NewOpenAIResponder(cfg.OpenAIAPIKey)
		logger.Info("responder: openai")
	} else {
		responder = infrastructure.NewCannedResponder(time.Now().UnixNano())
		logger.Info("responder: canned")
	}

	// Usecases
	tokenTTL := time.Duration(cfg.JWTTTLHours) * time.Hour
	authUsecase := usecases.NewAuthUsecase(tenantRepo, botConfigRepo, integrationRepo, cfg.JWTSecret, tokenTTL)
	widgetUsecase := usecases.NewWidgetUsecase(widgetRepo, tenantRepo, cfg.WidgetCDNURL)
	chatService := usecases.NewChatService(widgetRepo, conversationRepo, responder, logger)
	integrationUsecase := usecases.NewIntegrationUsecase(integrationRepo, broker, cfg.APIURL, cfg.ResolverAPIKey, logger)
	activationUsecase := usecases.NewActivationUsecase(botConfigRepo, integrationRepo, webhook, cfg.ClientURL, cfg.APIURL, logger)

	middleware := httpapi.NewMiddleware(authUsecase, tenantRepo, logger)

	r := gin.New()
	r.Use(gin.Recovery())
	httpapi.SetupRoutes(r, httpapi.RouterConfig{
		Auth:              httpapi.NewAuthHandler(authUsecase, logger),
		Widgets:           httpapi.NewWidgetHandler(widgetUsecase, logger),
		Chat:              httpapi.NewChatHandler(chatService, logger),
		Integrations:      httpapi.NewIntegrationHandler(integrationUsecase, cfg.ClientURL, logger),
		Onboarding:        httpapi.NewOnboardingHandler(activationUsecase, logger),
		Public:            httpapi.NewPublicHandler(widgetUsecase, cfg.WidgetCDNURL, logger),
		Middleware:        middleware,
		ChatRatePerSecond: cfg.ChatRatePerSecond,
		ChatRateBurst:     cfg.ChatRateBurst,
	})

	logger.Info("listening", zap.String("port", cfg.Port))
	if err := r.Run("0.0.0.0:" + cfg.Port); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
}
