package types

import (
	"strconv"

	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/samber/lo"
)

// QuestionType is the closed set of supported question kinds. Both response
// validation and scoring switch exhaustively on this type, so adding a kind
// is a compile-time visible change.
type QuestionType string

const (
	// QuestionTypeYesNo accepts yes, no or the n/a sentinel
	QuestionTypeYesNo QuestionType = "yes_no"
	// QuestionTypeLikert accepts an integer rating from 1 to 5
	QuestionTypeLikert QuestionType = "likert"
	// QuestionTypeText accepts free text; never contributes to the score
	QuestionTypeText QuestionType = "text"
)

const (
	// AnswerYes scores the full question weight
	AnswerYes = "yes"
	// AnswerNo scores zero
	AnswerNo = "no"
	// AnswerNotApplicable excludes the question from both the numerator and
	// the denominator of its section's score
	AnswerNotApplicable = "n/a"

	// LikertScaleMax is the top of the likert rating scale
	LikertScaleMax = 5
)

func (t QuestionType) String() string {
	return string(t)
}

func (t QuestionType) Validate() error {
	allowed := []QuestionType{
		QuestionTypeYesNo,
		QuestionTypeLikert,
		QuestionTypeText,
	}
	if !lo.Contains(allowed, t) {
		return ierr.NewError("invalid question type").
			WithHint("Please provide a valid question type").
			WithReportableDetails(map[string]any{
				"allowed": allowed,
			}).
			Mark(ierr.ErrValidation)
	}
	return nil
}

// IsScorable reports whether answers of this type carry numeric weight
func (t QuestionType) IsScorable() bool {
	return t == QuestionTypeYesNo || t == QuestionTypeLikert
}

// ValidateAnswer checks that value lies in the answer domain of the type
func (t QuestionType) ValidateAnswer(value string) error {
	switch t {
	case QuestionTypeYesNo:
		if value != AnswerYes && value != AnswerNo && value != AnswerNotApplicable {
			return ierr.NewError("answer out of domain for yes_no question").
				WithHintf("Answer must be one of %s, %s or %s", AnswerYes, AnswerNo, AnswerNotApplicable).
				WithReportableDetails(map[string]any{
					"value": value,
				}).
				Mark(ierr.ErrValidation)
		}
		return nil
	case QuestionTypeLikert:
		rating, err := strconv.Atoi(value)
		if err != nil || rating < 1 || rating > LikertScaleMax {
			return ierr.NewError("answer out of domain for likert question").
				WithHintf("Answer must be an integer between 1 and %d", LikertScaleMax).
				WithReportableDetails(map[string]any{
					"value": value,
				}).
				Mark(ierr.ErrValidation)
		}
		return nil
	case QuestionTypeText:
		if value == "" {
			return ierr.NewError("answer must not be empty").
				WithHint("Please provide a non-empty answer").
				Mark(ierr.ErrValidation)
		}
		return nil
	default:
		return t.Validate()
	}
}
