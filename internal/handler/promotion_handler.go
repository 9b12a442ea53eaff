package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/escolar-mx/secundaria-api/internal/service"
	"github.com/escolar-mx/secundaria-api/pkg/response"
)

// PromotionHandler exposes the end-of-cycle promotion endpoints.
type PromotionHandler struct {
	service *service.PromotionService
}

// NewPromotionHandler constructs a promotion handler.
func NewPromotionHandler(svc *service.PromotionService) *PromotionHandler {
	return &PromotionHandler{service: svc}
}

// Preview godoc
// @Summary Preview cycle promotion
// @Description Report whether promotion is currently allowed and what it would change
// @Tags Promotion
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /promotion/preview [get]
func (h *PromotionHandler) Preview(c *gin.Context) {
	response.OK(c, h.service.Preview())
}

// Promote godoc
// @Summary Run cycle promotion
// @Description Advance and graduate students, clear assignments, purge per-cycle records, and start the next cycle in one transition
// @Tags Promotion
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /promotion [post]
func (h *PromotionHandler) Promote(c *gin.Context) {
	result, err := h.service.Promote()
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, result)
}
