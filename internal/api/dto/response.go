package dto

import (
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/auditflow/auditflow/internal/validator"
	"github.com/shopspring/decimal"
)

type SaveResponseRequest struct {
	AuditID    string  `json:"audit_id" validate:"required"`
	QuestionID string  `json:"question_id" validate:"required"`
	Value      string  `json:"value" validate:"required"`
	Comments   *string `json:"comments,omitempty"`
}

func (r *SaveResponseRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type AnswerResponse struct {
	*response.Response
}

// CompletionStatsResponse reports how much of an audit is answered and how
// well. ScorePercentage is null when the audit has no scorable content.
type CompletionStatsResponse struct {
	AuditID          string           `json:"audit_id"`
	AnsweredCount    int              `json:"answered_count"`
	TotalQuestions   int              `json:"total_questions"`
	RequiredAnswered int              `json:"required_answered"`
	RequiredTotal    int              `json:"required_total"`
	ScorePercentage  *decimal.Decimal `json:"score_percentage"`
	ScoreBand        *types.ScoreBand `json:"score_band,omitempty"`
}
