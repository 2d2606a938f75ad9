package service

import (
	"os"
	"testing"

	"github.com/auditflow/auditflow/internal/validator"
)

func TestMain(m *testing.M) {
	validator.NewValidator()
	os.Exit(m.Run())
}
