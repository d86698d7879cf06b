package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"timeclock/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
	export  *service.ExportService
}

func NewReportHandler(reports *service.ReportService, export *service.ExportService) *ReportHandler {
	return &ReportHandler{reports: reports, export: export}
}

// GET /api/admin/dashboard
func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// GET /api/admin/reports?start=&end=&user_id=   defaults to month to date
func (h *ReportHandler) Reports(c *gin.Context) {
	f, ok := h.filter(c)
	if !ok {
		return
	}
	list, err := h.reports.UserReports(c.Request.Context(), f)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// GET /api/admin/export?format=csv|xlsx&start=&end=&user_id=
// Redirects to the uploaded copy when one exists, otherwise streams the file.
func (h *ReportHandler) Export(c *gin.Context) {
	format, err := service.ParseExportFormat(c.Query("format"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	f, ok := h.filter(c)
	if !ok {
		return
	}
	file, err := h.export.Export(c.Request.Context(), f, format)
	if err != nil {
		writeError(c, err)
		return
	}
	if file.URL != "" {
		c.Redirect(http.StatusFound, file.URL)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", file.Name))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

func (h *ReportHandler) filter(c *gin.Context) (service.ReportFilter, bool) {
	start, end, ok := dateRange(c, h.reports.DefaultRange)
	if !ok {
		return service.ReportFilter{}, false
	}
	f := service.ReportFilter{Start: start, End: end}
	if raw := c.Query("user_id"); raw != "" {
		id, err := strconv.Atoi(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
			return service.ReportFilter{}, false
		}
		f.UserID = id
	}
	return f, true
}
