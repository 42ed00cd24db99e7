package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/backoffice-api/internal/dto"
	"github.com/sekolahku/backoffice-api/internal/service"
	appErrors "github.com/sekolahku/backoffice-api/pkg/errors"
	"github.com/sekolahku/backoffice-api/pkg/response"
)

// AttendanceHandler exposes the attendance rollup endpoint.
type AttendanceHandler struct {
	rollup *service.AttendanceRollupService
}

// NewAttendanceHandler constructs AttendanceHandler.
func NewAttendanceHandler(rollup *service.AttendanceRollupService) *AttendanceHandler {
	return &AttendanceHandler{rollup: rollup}
}

// Rollup godoc
// @Summary Run the attendance rollup for a date
// @Description Marks every scheduled student and staff member present for
// @Description the day's sessions. Safe to re-run for the same date.
// @Tags Attendance
// @Accept json
// @Produce json
// @Param payload body dto.RollupRequest true "Rollup payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /attendance/rollup [post]
func (h *AttendanceHandler) Rollup(c *gin.Context) {
	var req dto.RollupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	result, err := h.rollup.RollupDate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
