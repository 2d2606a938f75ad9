package repository

import (
	"github.com/auditflow/auditflow/internal/domain/attachment"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	postgresRepo "github.com/auditflow/auditflow/internal/repository/postgres"
)

func NewAuditRepository(db *postgres.DB, logger *logger.Logger) audit.Repository {
	return postgresRepo.NewAuditRepository(db, logger)
}

func NewSectionRepository(db *postgres.DB, logger *logger.Logger) section.Repository {
	return postgresRepo.NewSectionRepository(db, logger)
}

func NewQuestionRepository(db *postgres.DB, logger *logger.Logger) question.Repository {
	return postgresRepo.NewQuestionRepository(db, logger)
}

func NewResponseRepository(db *postgres.DB, logger *logger.Logger) response.Repository {
	return postgresRepo.NewResponseRepository(db, logger)
}

func NewAttachmentRepository(db *postgres.DB, logger *logger.Logger) attachment.Repository {
	return postgresRepo.NewAttachmentRepository(db, logger)
}
