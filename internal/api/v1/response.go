package v1

import (
	"net/http"

	"github.com/auditflow/auditflow/internal/api/dto"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/service"
	"github.com/auditflow/auditflow/internal/types"
	"github.com/gin-gonic/gin"
)

type ResponseHandler struct {
	service service.ResponseService
	log     *logger.Logger
}

func NewResponseHandler(service service.ResponseService, log *logger.Logger) *ResponseHandler {
	return &ResponseHandler{
		service: service,
		log:     log,
	}
}

// @Summary Save a response
// @Description Save the caller's answer to a question; overwrites any previous answer
// @Tags Responses
// @Accept json
// @Produce json
// @Param response body dto.SaveResponseRequest true "Answer payload"
// @Success 200 {object} dto.AnswerResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /responses [post]
func (h *ResponseHandler) SaveResponse(c *gin.Context) {
	var req dto.SaveResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.SaveResponse(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get the caller's response to a question
// @Description Get the caller's current answer to a question
// @Tags Responses
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} dto.AnswerResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /questions/{id}/response [get]
func (h *ResponseHandler) GetResponse(c *gin.Context) {
	ctx := c.Request.Context()

	resp, err := h.service.GetResponse(ctx, c.Param("id"), types.GetUserID(ctx))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get required questions
// @Description List the audit's required questions
// @Tags Responses
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/required [get]
func (h *ResponseHandler) GetRequiredQuestions(c *gin.Context) {
	resp, err := h.service.GetRequiredQuestions(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Get completion stats
// @Description Get answered counts and the freshly computed weighted score
// @Tags Responses
// @Produce json
// @Param id path string true "Audit ID"
// @Param user_id query string false "Respondent user; defaults to the audit's canonical respondent"
// @Success 200 {object} dto.CompletionStatsResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/stats [get]
func (h *ResponseHandler) GetCompletionStats(c *gin.Context) {
	resp, err := h.service.GetCompletionStats(c.Request.Context(), c.Param("id"), c.Query("user_id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
