package api

import (
	v1 "github.com/auditflow/auditflow/internal/api/v1"
	"github.com/auditflow/auditflow/internal/config"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/rest/middleware"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handlers struct {
	Health     *v1.HealthHandler
	Audit      *v1.AuditHandler
	Section    *v1.SectionHandler
	Question   *v1.QuestionHandler
	Response   *v1.ResponseHandler
	Attachment *v1.AttachmentHandler
}

func NewRouter(handlers Handlers, cfg *config.Configuration, logger *logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(
		gin.Recovery(),
		middleware.RequestIDMiddleware,
		middleware.CallerContextMiddleware,
		middleware.CORSMiddleware,
		middleware.ErrorHandler(),
	)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.GET("/health", handlers.Health.Health)

	perm := middleware.NewPermissionMiddleware(logger)

	// v1 routes
	v1Group := router.Group("/v1")
	registerV1Routes(v1Group, handlers, perm)

	return router
}

func registerV1Routes(router *gin.RouterGroup, handlers Handlers, perm *middleware.PermissionMiddleware) {
	view := perm.RequirePermission(types.PermissionAuditView)
	edit := perm.RequirePermission(types.PermissionAuditEdit)
	respond := perm.RequirePermission(types.PermissionAuditRespond)
	del := perm.RequirePermission(types.PermissionAuditDelete)
	archive := perm.RequirePermission(types.PermissionAuditArchive)

	// Audit routes
	audits := router.Group("/audits")
	{
		audits.POST("", edit, handlers.Audit.CreateAudit)
		audits.GET("", view, handlers.Audit.ListAudits)
		audits.GET("/:id", view, handlers.Audit.GetAudit)
		audits.PUT("/:id", edit, handlers.Audit.UpdateAudit)
		audits.DELETE("/:id", del, handlers.Audit.DeleteAudit)
		audits.POST("/:id/instantiate", edit, handlers.Audit.InstantiateTemplate)

		// Lifecycle
		audits.POST("/:id/start", respond, handlers.Audit.StartAudit)
		audits.POST("/:id/complete", respond, handlers.Audit.CompleteAudit)
		audits.POST("/:id/archive", archive, handlers.Audit.ArchiveAudit)

		// Structure and progress
		audits.GET("/:id/structure", view, handlers.Section.GetStructure)
		audits.GET("/:id/stats", view, handlers.Response.GetCompletionStats)
		audits.GET("/:id/required", view, handlers.Response.GetRequiredQuestions)

		// Sections
		audits.POST("/:id/sections", edit, handlers.Section.CreateSection)
		audits.PUT("/:id/sections/reorder", edit, handlers.Section.ReorderSections)

		// Attachments
		audits.POST("/:id/attachments", respond, handlers.Attachment.UploadAttachment)
		audits.GET("/:id/attachments", view, handlers.Attachment.ListAttachments)
	}

	// Section routes
	sections := router.Group("/sections")
	{
		sections.PUT("/:id", edit, handlers.Section.UpdateSection)
		sections.DELETE("/:id", edit, handlers.Section.DeleteSection)
		sections.POST("/:id/questions", edit, handlers.Question.CreateQuestion)
		sections.PUT("/:id/questions/reorder", edit, handlers.Question.ReorderQuestions)
	}

	// Question routes
	questions := router.Group("/questions")
	{
		questions.GET("/:id", view, handlers.Question.GetQuestion)
		questions.PUT("/:id", edit, handlers.Question.UpdateQuestion)
		questions.DELETE("/:id", edit, handlers.Question.DeleteQuestion)
		questions.GET("/:id/response", view, handlers.Response.GetResponse)
	}

	// Response routes
	responses := router.Group("/responses")
	{
		responses.POST("", respond, handlers.Response.SaveResponse)
	}

	// Attachment routes
	attachments := router.Group("/attachments")
	{
		attachments.GET("/:id/download", view, handlers.Attachment.DownloadAttachment)
		attachments.DELETE("/:id", del, handlers.Attachment.DeleteAttachment)
	}
}
