package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/models"
	"github.com/escolar-mx/secundaria-api/internal/service"
	"github.com/escolar-mx/secundaria-api/pkg/clock"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// deadlineLayouts are the accepted wall-clock formats for deadline input.
// Values without an offset are interpreted in the school's civil timezone.
var deadlineLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04"}

// SetDeadlineRequest carries a wall-clock deadline for one period.
type SetDeadlineRequest struct {
	Deadline string `json:"deadline" binding:"required"`
}

// PeriodHandler exposes period lifecycle endpoints.
type PeriodHandler struct {
	service *service.PeriodService
	clock   *clock.Civil
}

// NewPeriodHandler constructs a period handler.
func NewPeriodHandler(svc *service.PeriodService, clk *clock.Civil) *PeriodHandler {
	return &PeriodHandler{service: svc, clock: clk}
}

// List godoc
// @Summary List evaluation periods
// @Description List the six evaluation periods with their live state
// @Tags Periods
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /periods [get]
func (h *PeriodHandler) List(c *gin.Context) {
	response.OK(c, h.service.List())
}

// Open godoc
// @Summary Open a period
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /periods/{id}/open [post]
func (h *PeriodHandler) Open(c *gin.Context) {
	state, err := h.service.Open(models.PeriodID(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// Close godoc
// @Summary Close a period
// @Description Close a period, dropping any pending deadline
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /periods/{id}/close [post]
func (h *PeriodHandler) Close(c *gin.Context) {
	state, err := h.service.Close(models.PeriodID(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

// SetDeadline godoc
// @Summary Set a closure deadline
// @Description Schedule automatic closure of an open period
// @Tags Periods
// @Accept json
// @Produce json
// @Param id path string true "Period ID"
// @Param payload body handler.SetDeadlineRequest true "Deadline payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{id}/deadline [put]
func (h *PeriodHandler) SetDeadline(c *gin.Context) {
	var req SetDeadlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid deadline payload"))
		return
	}
	deadline, err := h.parseDeadline(req.Deadline)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "unrecognized deadline format"))
		return
	}
	state, svcErr := h.service.SetDeadline(models.PeriodID(c.Param("id")), deadline)
	if svcErr != nil {
		response.Error(c, svcErr)
		return
	}
	response.OK(c, state)
}

// ClearDeadline godoc
// @Summary Clear a closure deadline
// @Tags Periods
// @Produce json
// @Param id path string true "Period ID"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /periods/{id}/deadline [delete]
func (h *PeriodHandler) ClearDeadline(c *gin.Context) {
	state, err := h.service.ClearDeadline(models.PeriodID(c.Param("id")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, state)
}

func (h *PeriodHandler) parseDeadline(raw string) (time.Time, error) {
	var lastErr error
	for _, layout := range deadlineLayouts {
		t, err := time.ParseInLocation(layout, raw, h.clock.Location())
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
