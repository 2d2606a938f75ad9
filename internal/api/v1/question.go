package v1

import (
	"net/http"

	"github.com/auditflow/auditflow/internal/api/dto"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/service"
	"github.com/gin-gonic/gin"
)

type QuestionHandler struct {
	service service.QuestionService
	log     *logger.Logger
}

func NewQuestionHandler(service service.QuestionService, log *logger.Logger) *QuestionHandler {
	return &QuestionHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a question
// @Description Append a new question to a section
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param question body dto.CreateQuestionRequest true "Question configuration"
// @Success 201 {object} dto.QuestionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sections/{id}/questions [post]
func (h *QuestionHandler) CreateQuestion(c *gin.Context) {
	var req dto.CreateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateQuestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get a question
// @Description Get a question by ID
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /questions/{id} [get]
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	resp, err := h.service.GetQuestion(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update a question
// @Description Update a question's prompt, requiredness, options or weight. The type is fixed at creation.
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param question body dto.UpdateQuestionRequest true "Fields to update"
// @Success 200 {object} dto.QuestionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /questions/{id} [put]
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	var req dto.UpdateQuestionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateQuestion(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a question
// @Description Delete a question and its responses
// @Tags Questions
// @Produce json
// @Param id path string true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /questions/{id} [delete]
func (h *QuestionHandler) DeleteQuestion(c *gin.Context) {
	if err := h.service.DeleteQuestion(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Reorder questions
// @Description Rewrite question positions within a section from an ordered id list
// @Tags Questions
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param request body dto.ReorderQuestionsRequest true "Ordered question IDs"
// @Success 204 "No Content"
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sections/{id}/questions/reorder [put]
func (h *QuestionHandler) ReorderQuestions(c *gin.Context) {
	var req dto.ReorderQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.ReorderQuestions(c.Request.Context(), c.Param("id"), req); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}
