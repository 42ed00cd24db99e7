package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/middleware"
	"github.com/sekolahku/backoffice-api/internal/models"
	"github.com/sekolahku/backoffice-api/internal/service"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
	"github.com/sekolahku/backoffice-api/pkg/response"
)

// PromotionHandler exposes the grade promotion endpoint.
type PromotionHandler struct {
	promotions *service.PromotionService
	fees       *service.PromotionFeeService
}

// NewPromotionHandler constructs PromotionHandler.
func NewPromotionHandler(promotions *service.PromotionService, fees *service.PromotionFeeService) *PromotionHandler {
	return &PromotionHandler{promotions: promotions, fees: fees}
}

// Promote godoc
// @Summary Promote a student to the next grade
// @Tags Promotions
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body dto.PromoteStudentRequest true "Promotion payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /students/{id}/promote [post]
func (h *PromotionHandler) Promote(c *gin.Context) {
	var req dto.PromoteStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.promotions.Promote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if req.WithFees && !result.Graduated && result.GradeLevel != nil {
		fee, _, err := h.fees.GenerateForPromotion(c.Request.Context(),
			result.Student.ID, result.Student.AcademicYearID, *result.GradeLevel, middleware.ActorID(c))
		if err != nil {
			response.Error(c, err)
			return
		}
		if fee != nil {
			result.Fees = []models.Fee{*fee}
		}
	}

	response.JSON(c, http.StatusOK, result, nil)
}
