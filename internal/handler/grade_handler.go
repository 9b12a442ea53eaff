package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/service"
	appErrors "github.com/escolar-mx/secundaria-api/pkg/errors"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// GradeHandler exposes grade capture endpoints.
type GradeHandler struct {
	service *service.GradeService
}

// NewGradeHandler constructs a grade handler.
func NewGradeHandler(svc *service.GradeService) *GradeHandler {
	return &GradeHandler{service: svc}
}

// Capture godoc
// @Summary Capture a grade cell
// @Description Write one value into a student's grade sheet; a closed period or a malformed term score is reported as applied=false, not an error
// @Tags Grades
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.CaptureGradeRequest true "Capture payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/grades [put]
func (h *GradeHandler) Capture(c *gin.Context) {
	var req service.CaptureGradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid capture payload"))
		return
	}
	req.StudentID = c.Param("id")

	result, err := h.service.Capture(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
