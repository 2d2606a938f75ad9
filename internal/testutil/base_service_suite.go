package testutil

import (
	"context"
	"time"

	"github.com/auditflow/auditflow/internal/config"
	"github.com/auditflow/auditflow/internal/domain/attachment"
	"github.com/auditflow/auditflow/internal/domain/audit"
	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/postgres"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/auditflow/auditflow/internal/validator"
	"github.com/stretchr/testify/suite"
)

// Stores holds all the repository interfaces for testing
type Stores struct {
	AuditRepo      audit.Repository
	SectionRepo    section.Repository
	QuestionRepo   question.Repository
	ResponseRepo   response.Repository
	AttachmentRepo attachment.Repository
}

// BaseServiceTestSuite provides common functionality for all service test suites
type BaseServiceTestSuite struct {
	suite.Suite
	ctx       context.Context
	stores    Stores
	fileStore *InMemoryFileStore
	db        postgres.IClient
	logger    *logger.Logger
	config    *config.Configuration
	now       time.Time
}

// SetupSuite is called once before running the tests in the suite
func (s *BaseServiceTestSuite) SetupSuite() {
	validator.NewValidator()

	cfg := &config.Configuration{
		Logging: config.LoggingConfig{
			Level: types.LogLevelInfo,
		},
	}
	var err error
	s.config = cfg
	s.logger, err = logger.NewLogger(cfg)
	if err != nil {
		s.T().Fatalf("failed to create logger: %v", err)
	}
}

// SetupTest is called before each test
func (s *BaseServiceTestSuite) SetupTest() {
	s.setupContext()
	s.setupStores()
	s.now = time.Now().UTC()
}

// TearDownTest is called after each test
func (s *BaseServiceTestSuite) TearDownTest() {
	s.clearStores()
}

func (s *BaseServiceTestSuite) setupContext() {
	s.ctx = SetupContext()
}

func (s *BaseServiceTestSuite) setupStores() {
	sectionStore := NewInMemorySectionStore()
	s.stores = Stores{
		AuditRepo:      NewInMemoryAuditStore(),
		SectionRepo:    sectionStore,
		QuestionRepo:   NewInMemoryQuestionStore(sectionStore),
		ResponseRepo:   NewInMemoryResponseStore(),
		AttachmentRepo: NewInMemoryAttachmentStore(),
	}
	s.fileStore = NewInMemoryFileStore()
	s.db = NewMockPostgresClient(s.logger)
}

func (s *BaseServiceTestSuite) clearStores() {
	s.stores.AuditRepo.(*InMemoryAuditStore).Clear()
	s.stores.SectionRepo.(*InMemorySectionStore).Clear()
	s.stores.QuestionRepo.(*InMemoryQuestionStore).Clear()
	s.stores.ResponseRepo.(*InMemoryResponseStore).Clear()
	s.stores.AttachmentRepo.(*InMemoryAttachmentStore).Clear()
	s.fileStore.Clear()
}

// GetContext returns the test context
func (s *BaseServiceTestSuite) GetContext() context.Context {
	return s.ctx
}

// GetStores returns the test repositories
func (s *BaseServiceTestSuite) GetStores() Stores {
	return s.stores
}

// GetFileStore returns the in-memory file store
func (s *BaseServiceTestSuite) GetFileStore() *InMemoryFileStore {
	return s.fileStore
}

// GetDB returns the mock postgres client
func (s *BaseServiceTestSuite) GetDB() postgres.IClient {
	return s.db
}

// GetLogger returns the test logger
func (s *BaseServiceTestSuite) GetLogger() *logger.Logger {
	return s.logger
}

// GetConfig returns the test configuration
func (s *BaseServiceTestSuite) GetConfig() *config.Configuration {
	return s.config
}

// GetNow returns the current test time
func (s *BaseServiceTestSuite) GetNow() time.Time {
	return s.now
}

// GetUserID returns the user ID installed in the test context
func (s *BaseServiceTestSuite) GetUserID() string {
	return types.GetUserID(s.ctx)
}
