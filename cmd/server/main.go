package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"

	"github.com/flexprice/invoicer/internal/api"
	v1 "github.com/flexprice/invoicer/internal/api/v1"
	"github.com/flexprice/invoicer/internal/auth"
	"github.com/flexprice/invoicer/internal/cache"
	"github.com/flexprice/invoicer/internal/config"
	"github.com/flexprice/invoicer/internal/logger"
	"github.com/flexprice/invoicer/internal/logo"
	"github.com/flexprice/invoicer/internal/mapper"
	"github.com/flexprice/invoicer/internal/pdf"
	"github.com/flexprice/invoicer/internal/postgres"
	"github.com/flexprice/invoicer/internal/preview"
	"github.com/flexprice/invoicer/internal/pyroscope"
	"github.com/flexprice/invoicer/internal/render"
	"github.com/flexprice/invoicer/internal/repository"
	"github.com/flexprice/invoicer/internal/s3"
	"github.com/flexprice/invoicer/internal/sentry"
	"github.com/flexprice/invoicer/internal/service"
	"github.com/flexprice/invoicer/internal/template"
	"github.com/flexprice/invoicer/internal/types"
	"github.com/flexprice/invoicer/internal/typst"
	"github.com/flexprice/invoicer/internal/validator"
)

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	var opts []fx.Option

	// Core dependencies
	opts = append(opts,
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Cache
			cache.NewInMemoryCache,

			// Auth
			auth.NewProvider,

			// Blob storage
			s3.NewService,

			// Repositories
			repository.NewInvoiceRepository,
			repository.NewClientRepository,
			repository.NewProfileRepository,
			repository.NewSequenceGenerator,

			// Rendering
			template.NewDefaultRegistry,
			mapper.NewMapper,
			provideTypstCompiler,
			pdf.NewGenerator,
			preview.NewRenderer,
			render.OptionsFromConfig,
			render.NewService,
			logo.NewHTTPClient,
			logo.NewResolver,
		),
		sentry.Module(),
		pyroscope.Module(),
		postgres.Module(),
	)

	// Service layer
	opts = append(opts,
		fx.Provide(
			service.NewServiceParams,
			service.NewTemplateService,
			service.NewInvoiceService,
			service.NewClientService,
			service.NewProfileService,
		),
	)

	// API
	opts = append(opts,
		fx.Provide(
			provideHandlers,
			api.NewRouter,
		),
		fx.Invoke(startServer),
	)

	app := fx.New(opts...)
	app.Run()
}

func provideTypstCompiler(cfg *config.Configuration, log *logger.Logger) typst.Compiler {
	return typst.NewCompiler(log, cfg.Typst.BinaryPath, cfg.Typst.FontDir, cfg.Typst.TemplateDir, cfg.Typst.OutputDir)
}

func provideHandlers(
	cfg *config.Configuration,
	logger *logger.Logger,
	templateService service.TemplateService,
	invoiceService service.InvoiceService,
	clientService service.ClientService,
	profileService service.ProfileService,
) api.Handlers {
	return api.Handlers{
		Health:   v1.NewHealthHandler(logger),
		Template: v1.NewTemplateHandler(templateService, logger),
		Invoice:  v1.NewInvoiceHandler(invoiceService, logger),
		Client:   v1.NewClientHandler(clientService, logger),
		Profile:  v1.NewProfileHandler(profileService, cfg, logger),
	}
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	log *logger.Logger,
) {
	mode := cfg.Deployment.Mode
	if mode == "" {
		mode = types.ModeLocal
	}

	switch mode {
	case types.ModeLocal, types.ModeAPI:
		startAPIServer(lc, r, cfg, log)
	case types.ModeAWSLambdaAPI:
		startAWSLambdaAPI(r)
	default:
		log.Fatalf("Unknown deployment mode: %s", mode)
	}
}

func startAPIServer(
	lc fx.Lifecycle,
	r *gin.Engine,
	cfg *config.Configuration,
	log *logger.Logger,
) {
	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting API server", "address", cfg.Server.Address)
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down server")
			return srv.Shutdown(ctx)
		},
	})
}

func startAWSLambdaAPI(r *gin.Engine) {
	ginLambda := ginadapter.New(r)
	lambda.Start(ginLambda.ProxyWithContext)
}
