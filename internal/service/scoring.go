package service

import (
	"context"
	"strconv"

	"github.com/auditflow/auditflow/internal/domain/question"
	"github.com/auditflow/auditflow/internal/domain/response"
	"github.com/auditflow/auditflow/internal/domain/section"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// ScoringService computes the weighted score percentage for an audit from
// its structure and the respondent's current answers. Scores are always
// computed on read; nothing is cached between requests.
type ScoringService interface {
	// ComputeScore returns the score percentage rounded to two decimal
	// places, or nil when the audit has no scorable content ("N/A").
	ComputeScore(ctx context.Context, auditID, userID string) (*decimal.Decimal, error)
}

type scoringService struct {
	sectionRepo  section.Repository
	questionRepo question.Repository
	responseRepo response.Repository
	logger       *logger.Logger
}

func NewScoringService(
	sectionRepo section.Repository,
	questionRepo question.Repository,
	responseRepo response.Repository,
	logger *logger.Logger,
) ScoringService {
	return &scoringService{
		sectionRepo:  sectionRepo,
		questionRepo: questionRepo,
		responseRepo: responseRepo,
		logger:       logger,
	}
}

func (s *scoringService) ComputeScore(ctx context.Context, auditID, userID string) (*decimal.Decimal, error) {
	sections, err := s.sectionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	if len(sections) == 0 {
		return nil, nil
	}

	questions, err := s.questionRepo.ListByAudit(ctx, auditID)
	if err != nil {
		return nil, err
	}
	questionsBySection := lo.GroupBy(questions, func(q *question.Question) string {
		return q.SectionID
	})

	responses, err := s.responseRepo.ListByAudit(ctx, auditID, userID)
	if err != nil {
		return nil, err
	}
	answers := make(map[string]string, len(responses))
	for _, r := range responses {
		answers[r.QuestionID] = r.Value
	}

	// score% = 100 * Σ(section_raw * section_weight) / Σ(section_max * section_weight)
	totalRaw := decimal.Zero
	totalMax := decimal.Zero
	for _, sec := range sections {
		sectionWeight := decimal.NewFromFloat(sec.Weight)
		sectionRaw := decimal.Zero
		sectionMax := decimal.Zero

		for _, q := range questionsBySection[sec.ID] {
			raw, max, scored := questionContribution(q, answers)
			if !scored {
				continue
			}
			sectionRaw = sectionRaw.Add(raw)
			sectionMax = sectionMax.Add(max)
		}

		totalRaw = totalRaw.Add(sectionRaw.Mul(sectionWeight))
		totalMax = totalMax.Add(sectionMax.Mul(sectionWeight))
	}

	// Zero denominator means no scorable content or all-zero weights;
	// surface as "N/A" rather than dividing.
	if totalMax.IsZero() {
		return nil, nil
	}

	score := totalRaw.Div(totalMax).Mul(decimal.NewFromInt(100)).Round(2)

	s.logger.Debugw("computed audit score",
		"audit_id", auditID,
		"user_id", userID,
		"score", score,
	)

	return &score, nil
}

// questionContribution returns the numerator and denominator contribution of
// one question. A question is excluded entirely (scored=false) when it has
// no answer, is answered "n/a", or its type never carries numeric weight.
func questionContribution(q *question.Question, answers map[string]string) (raw, max decimal.Decimal, scored bool) {
	if !q.Type.IsScorable() {
		return decimal.Zero, decimal.Zero, false
	}

	value, ok := answers[q.ID]
	if !ok || value == "" {
		return decimal.Zero, decimal.Zero, false
	}

	weight := decimal.NewFromFloat(q.Weight)

	switch q.Type {
	case types.QuestionTypeYesNo:
		switch value {
		case types.AnswerNotApplicable:
			return decimal.Zero, decimal.Zero, false
		case types.AnswerYes:
			return weight, weight, true
		default:
			return decimal.Zero, weight, true
		}
	case types.QuestionTypeLikert:
		rating, err := strconv.Atoi(value)
		if err != nil || rating < 1 || rating > types.LikertScaleMax {
			// Out-of-domain values are rejected at save time; a stray one is
			// excluded rather than skewing the score.
			return decimal.Zero, decimal.Zero, false
		}
		raw := decimal.NewFromInt(int64(rating)).
			Div(decimal.NewFromInt(types.LikertScaleMax)).
			Mul(weight)
		return raw, weight, true
	default:
		return decimal.Zero, decimal.Zero, false
	}
}
