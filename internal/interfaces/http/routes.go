package http

import (
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	Auth         *AuthHandler
	Widgets      *WidgetHandler
	Chat         *ChatHandler
	Integrations *IntegrationHandler
	Onboarding   *OnboardingHandler
	Public       *PublicHandler
	Middleware   *Middleware

	ChatRatePerSecond float64
	ChatRateBurst     int
}

func SetupRoutes(r *gin.Engine, cfg RouterConfig) {
	r.Use(cfg.Middleware.RequestLogger())
	r.Use(SecurityHeaders())
	r.Use(RequestSizeLimiter(10 << 20))
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-API-Key"},
		ExposeHeaders: []string{"Content-Length"},
	}))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public widget surface.
	r.GET("/widget/:widgetId/config", cfg.Public.WidgetConfig)
	r.GET("/widget.js", cfg.Public.WidgetScript)
	r.POST("/api/v1/widgets/:widgetId/chat",
		cfg.Middleware.RateLimitPerClient(rate.Limit(cfg.ChatRatePerSecond), cfg.ChatRateBurst),
		cfg.Chat.HandleMessage)

	authGroup := r.Group("/api/v1/auth")
	{
		authGroup.POST("/register", cfg.Auth.Register)
		authGroup.POST("/login", cfg.Auth.Login)
		authGroup.GET("/me", cfg.Middleware.AuthRequired(), cfg.Auth.Me)
		authGroup.PUT("/profile", cfg.Middleware.AuthRequired(), cfg.Auth.UpdateProfile)
	}

	widgets := r.Group("/api/v1/widgets")
	widgets.Use(cfg.Middleware.AuthRequired())
	{
		widgets.GET("", cfg.Widgets.List)
		widgets.POST("", cfg.Widgets.Create)
		widgets.GET("/:widgetId", cfg.Widgets.Get)
		widgets.PUT("/:widgetId", cfg.Widgets.Update)
		widgets.DELETE("/:widgetId", cfg.Widgets.Delete)
		widgets.POST("/:widgetId/regenerate-key", cfg.Widgets.RegenerateKey)
		widgets.GET("/:widgetId/embed", cfg.Widgets.Embed)
	}

	integrations := r.Group("/api/integrations")
	{
		// Server-to-server: static shared secret instead of a bearer.
		integrations.GET("/token", cfg.Integrations.ResolveToken)
		// Broker redirects land here without our bearer token.
		integrations.GET("/:provider/callback", cfg.Integrations.Callback)

		integrations.GET("/status", cfg.Middleware.AuthRequired(), cfg.Integrations.Status)
		integrations.GET("/:provider/start", cfg.Middleware.AuthRequired(), cfg.Integrations.Start)
		integrations.DELETE("/:provider", cfg.Middleware.AuthRequired(), cfg.Integrations.Disconnect)
	}

	onboarding := r.Group("/api/onboarding")
	onboarding.Use(cfg.Middleware.AuthRequired())
	{
		onboarding.POST("/save", cfg.Onboarding.Save)
		onboarding.POST("/activate", cfg.Onboarding.Activate)
		onboarding.GET("/config", cfg.Onboarding.GetConfig)
		onboarding.GET("/qr", cfg.Onboarding.ChatLinkQR)
	}
}
