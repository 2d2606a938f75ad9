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

type AuditHandler struct {
	service          service.AuditService
	lifecycleService service.LifecycleService
	log              *logger.Logger
}

func NewAuditHandler(
	service service.AuditService,
	lifecycleService service.LifecycleService,
	log *logger.Logger,
) *AuditHandler {
	return &AuditHandler{
		service:          service,
		lifecycleService: lifecycleService,
		log:              log,
	}
}

// @Summary Create a new audit
// @Description Create a new audit or template in draft status
// @Tags Audits
// @Accept json
// @Produce json
// @Param audit body dto.CreateAuditRequest true "Audit configuration"
// @Success 201 {object} dto.AuditResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits [post]
func (h *AuditHandler) CreateAudit(c *gin.Context) {
	var req dto.CreateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateAudit(c.Request.Context(), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Get an audit
// @Description Get an audit by ID
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} dto.AuditResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id} [get]
func (h *AuditHandler) GetAudit(c *gin.Context) {
	resp, err := h.service.GetAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary List audits
// @Description List audits with optional filtering
// @Tags Audits
// @Produce json
// @Param filter query types.AuditFilter false "Filter"
// @Success 200 {object} dto.ListAuditsResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits [get]
func (h *AuditHandler) ListAudits(c *gin.Context) {
	filter := types.NewAuditFilter()
	if err := c.ShouldBindQuery(filter); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid filter parameters").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.ListAudits(c.Request.Context(), filter)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Update an audit
// @Description Update an audit's metadata while it is still editable
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param audit body dto.UpdateAuditRequest true "Fields to update"
// @Success 200 {object} dto.AuditResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id} [put]
func (h *AuditHandler) UpdateAudit(c *gin.Context) {
	var req dto.UpdateAuditRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateAudit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete an audit
// @Description Delete an audit and everything it owns
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 204 "No Content"
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id} [delete]
func (h *AuditHandler) DeleteAudit(c *gin.Context) {
	if err := h.service.DeleteAudit(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Instantiate a template
// @Description Create a fresh draft audit from a template's structure
// @Tags Audits
// @Accept json
// @Produce json
// @Param id path string true "Template ID"
// @Param request body dto.InstantiateTemplateRequest true "Instance overrides"
// @Success 201 {object} dto.AuditResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/instantiate [post]
func (h *AuditHandler) InstantiateTemplate(c *gin.Context) {
	var req dto.InstantiateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.InstantiateFromTemplate(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Start an audit
// @Description Move a draft audit into in_progress
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} dto.AuditResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/start [post]
func (h *AuditHandler) StartAudit(c *gin.Context) {
	resp, err := h.lifecycleService.StartAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Complete an audit
// @Description Close an in_progress audit once every required question is answered
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} dto.CompleteAuditResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/complete [post]
func (h *AuditHandler) CompleteAudit(c *gin.Context) {
	resp, err := h.lifecycleService.CompleteAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Archive an audit
// @Description Force-close an audit from any state; terminal
// @Tags Audits
// @Produce json
// @Param id path string true "Audit ID"
// @Success 200 {object} dto.AuditResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/archive [post]
func (h *AuditHandler) ArchiveAudit(c *gin.Context) {
	resp, err := h.lifecycleService.ArchiveAudit(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
