package api

import (
	"github.com/gin-gonic/gin"

	v1 "github.com/flexprice/invoicer/internal/api/v1"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/pyroscope"
	"github.com/flexprice/invoicer/internal/rest/middleware"
	"github.com/flexprice/invoicer/internal/types"
)

type Handlers struct {
	Health   *v1.HealthHandler
	Template *v1.TemplateHandler
	Invoice  *v1.InvoiceHandler
	Client   *v1.ClientHandler
	Profile  *v1.ProfileHandler
}

func NewRouter(
	handlers Handlers,
	cfg *config.Configuration,
	provider auth.Provider,
	limiterCache cache.Cache,
	profiler *pyroscope.Service,
	logger *logger.Logger,
) *gin.Engine {
	if cfg.Deployment.Mode != types.ModeLocal {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CORSMiddleware(cfg.Server.AllowedOrigins),
		middleware.SentryMiddleware(cfg),
		middleware.PyroscopeMiddleware(profiler),
		middleware.LoggingMiddleware(logger),
		middleware.ErrorHandler(),
	)

	router.GET("/health", handlers.Health.Health)

	v1Group := router.Group("/v1")

	// the catalog is public
	templates := v1Group.Group("/templates")
	{
		templates.GET("", handlers.Template.ListTemplates)
		templates.GET("/:id", handlers.Template.GetTemplate)
	}
	v1Group.POST("/branding/validate", handlers.Template.ValidateBranding)

	private := v1Group.Group("/")
	private.Use(
		middleware.AuthenticateMiddleware(provider, logger),
		middleware.SentryScopeMiddleware,
	)
	throttle := middleware.RenderRateLimitMiddleware(cfg.RateLimit, limiterCache)

	invoices := private.Group("/invoices")
	{
		invoices.POST("", handlers.Invoice.CreateInvoice)
		invoices.GET("", handlers.Invoice.ListInvoices)
		invoices.GET("/:id", handlers.Invoice.GetInvoice)
		invoices.DELETE("/:id", handlers.Invoice.DeleteInvoice)
		invoices.GET("/:id/pdf", throttle, handlers.Invoice.GetInvoicePDF)
		invoices.GET("/:id/preview", throttle, handlers.Invoice.GetInvoicePreview)
	}
	private.POST("/previews", throttle, handlers.Invoice.PreviewForm)

	clients := private.Group("/clients")
	{
		clients.POST("", handlers.Client.CreateClient)
		clients.GET("", handlers.Client.ListClients)
		clients.GET("/:id", handlers.Client.GetClient)
		clients.PUT("/:id", handlers.Client.UpdateClient)
		clients.DELETE("/:id", handlers.Client.DeleteClient)
	}

	profile := private.Group("/profile")
	{
		profile.GET("", handlers.Profile.GetProfile)
		profile.PUT("", handlers.Profile.UpsertProfile)
		profile.POST("/logo", handlers.Profile.UploadLogo)
		profile.DELETE("/logo", handlers.Profile.RemoveLogo)
	}

	return router
}
