package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/mpopescu/atelier-api/internal/application/service"
	"github.com/mpopescu/atelier-api/internal/presentation/http/dto/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ReportHandler handles financial reporting HTTP requests
type ReportHandler struct {
	reportService *service.ReportService
	exportService *service.ReportExportService
}

// NewReportHandler creates a new report handler
func NewReportHandler(reportService *service.ReportService, exportService *service.ReportExportService) *ReportHandler {
	return &ReportHandler{reportService: reportService, exportService: exportService}
}

// rangeInput reads the shared from/to/tz query params; dates stay as
// strings because the service resolves them in the report timezone.
func rangeInput(c *gin.Context) *service.RangeStatsInput {
	return &service.RangeStatsInput{
		From: c.Query("from"),
		To:   c.Query("to"),
		TZ:   c.Query("tz"),
	}
}

// Summary handles the range report: gross, net, collected and job counts,
// with deltas against the previous period of equal length.
func (h *ReportHandler) Summary(c *gin.Context) {
	result, err := h.reportService.RangeStats(c.Request.Context(), rangeInput(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Report retrieved successfully", result)
}

// Daily handles the per-day breakdown of a range
func (h *ReportHandler) Daily(c *gin.Context) {
	result, err := h.reportService.DailyBreakdown(c.Request.Context(), rangeInput(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Daily breakdown retrieved successfully", result)
}

// Dashboard handles the landing-page stats: today, this week, this month,
// plus open work counts.
func (h *ReportHandler) Dashboard(c *gin.Context) {
	dashboard, err := h.reportService.GetDashboard(c.Request.Context(), c.Query("tz"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Dashboard retrieved successfully", dashboard)
}

// Export handles downloading a range report as an XLSX workbook
func (h *ReportHandler) Export(c *gin.Context) {
	data, fileName, err := h.exportService.ExportRangeXLSX(c.Request.Context(), rangeInput(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.Data(200, xlsxContentType, data)
}
