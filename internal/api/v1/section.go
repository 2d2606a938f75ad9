package v1

import (
	"net/http"

	"github.com/auditflow/auditflow/internal/api/dto"
	ierr "github.com/auditflow/auditflow/internal/errors"
	"github.com/auditflow/auditflow/internal/logger"
	"github.com/auditflow/auditflow/internal/service"
	"github.com/gin-gonic/gin"
)

type SectionHandler struct {
	service service.SectionTreeService
	log     *logger.Logger
}

func NewSectionHandler(service service.SectionTreeService, log *logger.Logger) *SectionHandler {
	return &SectionHandler{
		service: service,
		log:     log,
	}
}

// @Summary Create a section
// @Description Append a new section to an audit
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param section body dto.CreateSectionRequest true "Section configuration"
// @Success 201 {object} dto.SectionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/sections [post]
func (h *SectionHandler) CreateSection(c *gin.Context) {
	var req dto.CreateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.CreateSection(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

// @Summary Update a section
// @Description Update a section's title, description or weight
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path string true "Section ID"
// @Param section body dto.UpdateSectionRequest true "Fields to update"
// @Success 200 {object} dto.SectionResponse
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sections/{id} [put]
func (h *SectionHandler) UpdateSection(c *gin.Context) {
	var req dto.UpdateSectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	resp, err := h.service.UpdateSection(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// @Summary Delete a section
// @Description Delete a section with its questions and their responses
// @Tags Sections
// @Produce json
// @Param id path string true "Section ID"
// @Success 204 "No Content"
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /sections/{id} [delete]
func (h *SectionHandler) DeleteSection(c *gin.Context) {
	if err := h.service.DeleteSection(c.Request.Context(), c.Param("id")); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Reorder sections
// @Description Rewrite section positions from an ordered id list
// @Tags Sections
// @Accept json
// @Produce json
// @Param id path string true "Audit ID"
// @Param request body dto.ReorderSectionsRequest true "Ordered section IDs"
// @Success 204 "No Content"
// @Failure 400 {object} ierr.ErrorResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 409 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/sections/reorder [put]
func (h *SectionHandler) ReorderSections(c *gin.Context) {
	var req dto.ReorderSectionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(ierr.WithError(err).
			WithHint("Invalid request format").
			Mark(ierr.ErrValidation))
		return
	}

	if err := h.service.ReorderSections(c.Request.Context(), c.Param("id"), req); err != nil {
		c.Error(err)
		return
	}

	c.Status(http.StatusNoContent)
}

// @Summary Get audit structure
// @Description Get the nested section and question tree, optionally annotated with the respondent's answers
// @Tags Sections
// @Produce json
// @Param id path string true "Audit ID"
// @Param with_responses query bool false "Annotate questions with current answers"
// @Param user_id query string false "Respondent user; defaults to the audit's canonical respondent"
// @Success 200 {object} dto.StructureResponse
// @Failure 404 {object} ierr.ErrorResponse
// @Failure 500 {object} ierr.ErrorResponse
// @Router /audits/{id}/structure [get]
func (h *SectionHandler) GetStructure(c *gin.Context) {
	ctx := c.Request.Context()
	auditID := c.Param("id")

	var resp *dto.StructureResponse
	var err error
	if c.Query("with_responses") == "true" {
		resp, err = h.service.GetStructureWithResponses(ctx, auditID, c.Query("user_id"))
	} else {
		resp, err = h.service.GetStructure(ctx, auditID)
	}
	if err != nil {
		c.Error(err)
		return
	}

	c.JSON(http.StatusOK, resp)
}
