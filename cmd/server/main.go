package main

import (
	"context"
	"time"

	"github.com/auditflow/auditflow/internal/api"
	v1 "github.com/auditflow/auditflow/internal/api/v1"
	"github.com/auditflow/auditflow/internal/config"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/repository"
	"github.com/auditflow/auditflow/internal/service"
	"github.com/auditflow/auditflow/internal/storage"
	"github.com/auditflow/auditflow/internal/validator"
	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
)

// @title AuditFlow API
// @version 1.0
// @description Audit questionnaire engine
// @BasePath /v1
// @schemes http https

func init() {
	// Set UTC timezone for the entire application
	time.Local = time.UTC
}

func main() {
	app := fx.New(
		fx.Provide(
			// Validator
			validator.NewValidator,

			// Config
			config.NewConfig,

			// Logger
			logger.NewLogger,

			// Postgres
			postgres.NewDB,
			providePostgresClient,

			// File storage
			storage.NewLocalFileStore,

			// Repositories
			repository.NewAuditRepository,
			repository.NewSectionRepository,
			repository.NewQuestionRepository,
			repository.NewResponseRepository,
			repository.NewAttachmentRepository,

			// Services
			service.NewScoringService,
			service.NewSectionTreeService,
			service.NewQuestionService,
			service.NewResponseService,
			service.NewLifecycleService,
			service.NewAuditService,
			service.NewAttachmentService,

			// API
			provideHandlers,
			provideRouter,
		),
		fx.Invoke(startServer),
	)

	app.Run()
}

func providePostgresClient(db *postgres.DB) postgres.IClient {
	return db
}

func provideHandlers(
	logger *logger.Logger,
	auditService service.AuditService,
	lifecycleService service.LifecycleService,
	sectionService service.SectionTreeService,
	questionService service.QuestionService,
	responseService service.ResponseService,
	attachmentService service.AttachmentService,
) api.Handlers {
	return api.Handlers{
		Health:     v1.NewHealthHandler(logger),
		Audit:      v1.NewAuditHandler(auditService, lifecycleService, logger),
		Section:    v1.NewSectionHandler(sectionService, logger),
		Question:   v1.NewQuestionHandler(questionService, logger),
		Response:   v1.NewResponseHandler(responseService, logger),
		Attachment: v1.NewAttachmentHandler(attachmentService, logger),
	}
}

func provideRouter(handlers api.Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	return api.NewRouter(handlers, cfg, logger)
}

func startServer(
	lc fx.Lifecycle,
	cfg *config.Configuration,
	r *gin.Engine,
	db *postgres.DB,
	log *logger.Logger,
) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infof("Starting API server on %s", cfg.Server.Address)
			go func() {
				if err := r.Run(cfg.Server.Address); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("Shutting down server...")
			db.Close()
			return nil
		},
	})
}
