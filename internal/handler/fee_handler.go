package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/middleware"
	"github.com/sekolahku/backoffice-api/internal/service"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
	"github.com/sekolahku/backoffice-api/pkg/response"
)

// FeeHandler exposes promotion fee endpoints.
type FeeHandler struct {
	fees *service.PromotionFeeService
}

// NewFeeHandler constructs FeeHandler.
func NewFeeHandler(fees *service.PromotionFeeService) *FeeHandler {
	return &FeeHandler{fees: fees}
}

// Generate godoc
// @Summary Generate the promotion fee for a student
// @Description Idempotent per student, academic year and grade level; an
// @Description existing fee is returned unchanged.
// @Tags Fees
// @Accept json
// @Produce json
// @Param payload body dto.GeneratePromotionFeesRequest true "Fee generation payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /fees/promotion [post]
func (h *FeeHandler) Generate(c *gin.Context) {
	var req dto.GeneratePromotionFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	fee, created, err := h.fees.Generate(c.Request.Context(), req, middleware.ActorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	if created {
		response.Created(c, fee)
		return
	}
	response.JSON(c, http.StatusOK, fee, nil)
}

// ListByStudent godoc
// @Summary List a student's fees
// @Tags Fees
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/fees [get]
func (h *FeeHandler) ListByStudent(c *gin.Context) {
	fees, err := h.fees.ListByStudent(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, fees, nil)
}
