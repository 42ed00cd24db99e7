package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sekolahku/backoffice-api/internal/service"
	"github.com/sekolahku/backoffice-api/pkg/response"
)

// PayrollHandler exposes payroll generation and export endpoints.
type PayrollHandler struct {
	payrolls *service.PayrollService
}

// NewPayrollHandler constructs PayrollHandler.
func NewPayrollHandler(payrolls *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{payrolls: payrolls}
}

// Generate godoc
// @Summary Generate payroll items from salary structures
// @Description Recomputes the full item set and header totals. Finalized
// @Description payrolls are rejected with 409.
// @Tags Payrolls
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /payrolls/{id}/generate [post]
func (h *PayrollHandler) Generate(c *gin.Context) {
	result, err := h.payrolls.Generate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// ListItems godoc
// @Summary List payroll items
// @Tags Payrolls
// @Produce json
// @Param id path string true "Payroll ID"
// @Success 200 {object} response.Envelope
// @Router /payrolls/{id}/items [get]
func (h *PayrollHandler) ListItems(c *gin.Context) {
	items, err := h.payrolls.ListItems(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Export godoc
// @Summary Export a payroll sheet
// @Tags Payrolls
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Payroll ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Router /payrolls/{id}/export [get]
func (h *PayrollHandler) Export(c *gin.Context) {
	format := service.ExportFormat(strings.ToLower(c.DefaultQuery("format", "csv")))
	file, err := h.payrolls.Export(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
