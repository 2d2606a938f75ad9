package dto

import (
	"context"

	"github.com/auditflow/auditflow/internal/domain/question"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/auditflow/auditflow/internal/validator"
	"github.com/lib/pq"
)

type CreateQuestionRequest struct {
	Text     string             `json:"text" validate:"required"`
	HelpText *string            `json:"help_text,omitempty"`
	Type     types.QuestionType `json:"type" validate:"required"`
	Required bool               `json:"required"`
	Options  []string           `json:"options,omitempty"`
	Weight   *float64           `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (r *CreateQuestionRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}
	if err := r.Type.Validate(); err != nil {
		return err
	}
	if r.Weight != nil && *r.Weight < 0 {
		return ierr.NewError("weight must not be negative").
			WithHint("Question weight must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

// ToQuestion builds the domain question; position is assigned by the service
func (r *CreateQuestionRequest) ToQuestion(ctx context.Context, sectionID string) *question.Question {
	weight := 1.0
	if r.Weight != nil {
		weight = *r.Weight
	}
	return &question.Question{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_QUESTION),
		SectionID: sectionID,
		Text:      r.Text,
		HelpText:  r.HelpText,
		Type:      r.Type,
		Required:  r.Required,
		Options:   pq.StringArray(r.Options),
		Weight:    weight,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}

type UpdateQuestionRequest struct {
	Text     *string  `json:"text,omitempty"`
	HelpText *string  `json:"help_text,omitempty"`
	Required *bool    `json:"required,omitempty"`
	Options  []string `json:"options,omitempty"`
	Weight   *float64 `json:"weight,omitempty" validate:"omitempty,gte=0"`
}

func (r *UpdateQuestionRequest) Validate() error {
	if r.Text != nil && *r.Text == "" {
		return ierr.NewError("text must not be empty").
			WithHint("Please provide a non-empty question text").
			Mark(ierr.ErrValidation)
	}
	if r.Weight != nil && *r.Weight < 0 {
		return ierr.NewError("weight must not be negative").
			WithHint("Question weight must be zero or positive").
			Mark(ierr.ErrValidation)
	}
	return nil
}

type ReorderQuestionsRequest struct {
	QuestionIDs []string `json:"question_ids" validate:"required,min=1"`
}

func (r *ReorderQuestionsRequest) Validate() error {
	return validator.ValidateRequest(r)
}

type QuestionResponse struct {
	*question.Question
	// Response carries the requesting user's current answer when the
	// structure is read with responses
	Response *AnswerResponse `json:"response,omitempty"`
}
