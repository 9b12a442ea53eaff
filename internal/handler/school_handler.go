package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/service"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// SchoolHandler exposes the cycle-scoped collections: schedule, citations,
// and visit logs.
type SchoolHandler struct {
	service *service.SchoolService
}

// NewSchoolHandler constructs a school handler.
func NewSchoolHandler(svc *service.SchoolService) *SchoolHandler {
	return &SchoolHandler{service: svc}
}

// Cycle godoc
// @Summary Current school cycle
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /cycle [get]
func (h *SchoolHandler) Cycle(c *gin.Context) {
	response.OK(c, gin.H{"cycle": h.service.Cycle()})
}

// GetSchedule godoc
// @Summary Get the timetable grid
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule [get]
func (h *SchoolHandler) GetSchedule(c *gin.Context) {
	response.OK(c, h.service.Schedule())
}

// ReplaceSchedule godoc
// @Summary Replace the timetable grid
// @Tags School
// @Accept json
// @Produce json
// @Param payload body service.ReplaceScheduleRequest true "Schedule payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /schedule [put]
func (h *SchoolHandler) ReplaceSchedule(c *gin.Context) {
	var req service.ReplaceScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid schedule payload"))
		return
	}
	view, err := h.service.ReplaceSchedule(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, view)
}

// ListCitations godoc
// @Summary List citations
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /citations [get]
func (h *SchoolHandler) ListCitations(c *gin.Context) {
	response.OK(c, h.service.ListCitations())
}

// CreateCitation godoc
// @Summary Record a parent citation
// @Tags School
// @Accept json
// @Produce json
// @Param payload body service.CreateCitationRequest true "Citation payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /citations [post]
func (h *SchoolHandler) CreateCitation(c *gin.Context) {
	var req service.CreateCitationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid citation payload"))
		return
	}
	var issuedBy string
	if claims := claimsFromContext(c); claims != nil {
		issuedBy = claims.UserID
	}
	citation, err := h.service.CreateCitation(req, issuedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, citation)
}

// ListMinutas godoc
// @Summary List visit logs
// @Tags School
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /minutas [get]
func (h *SchoolHandler) ListMinutas(c *gin.Context) {
	response.OK(c, h.service.ListMinutas())
}

// CreateMinuta godoc
// @Summary Record a visit log entry
// @Tags School
// @Accept json
// @Produce json
// @Param payload body service.CreateMinutaRequest true "Minuta payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /minutas [post]
func (h *SchoolHandler) CreateMinuta(c *gin.Context) {
	var req service.CreateMinutaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid minuta payload"))
		return
	}
	var recordedBy string
	if claims := claimsFromContext(c); claims != nil {
		recordedBy = claims.UserID
	}
	minuta, err := h.service.CreateMinuta(req, recordedBy)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, minuta)
}
