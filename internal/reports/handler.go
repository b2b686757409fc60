package reports

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"procureflow/procurement-portal/procurement-portal-backend/internal/reports/export"
)

// Handler handles HTTP requests for reporting endpoints
type Handler struct {
	service *Service
	logger  *zap.Logger
}

// NewHandler creates a new reports handler
func NewHandler(service *Service, logger *zap.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// RegisterRoutes registers reporting routes
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("/dashboard/summary", h.dashboardSummary)
		reports.GET("/pipeline/export", h.exportPipeline)
		reports.GET("/supplier-risk/export", h.exportSupplierRisk)
	}
}

// dashboardSummary handles GET /api/v1/reports/dashboard/summary
func (h *Handler) dashboardSummary(c *gin.Context) {
	summary, err := h.service.DashboardSummary(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build dashboard summary", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// exportPipeline handles GET /api/v1/reports/pipeline/export?format=csv|excel
func (h *Handler) exportPipeline(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "excel" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format"})
		return
	}

	rows, err := h.service.PipelineReport(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build pipeline report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	columns := []string{"PO Number", "Supplier", "Status", "Progress %", "Amount", "Currency", "Created"}
	filename := "po-pipeline-" + time.Now().Format("20060102")

	switch format {
	case "csv":
		var buf bytes.Buffer
		exporter := export.NewCSVExporter(&buf, export.DefaultCSVOptions())
		if err := exporter.WriteHeader(columns); err != nil {
			h.exportFailed(c, "pipeline", err)
			return
		}
		for _, row := range rows {
			rec := []interface{}{row.PONumber, row.SupplierName, row.StatusLabel, row.Progress, row.Amount, row.Currency, row.CreatedAt}
			if err := exporter.WriteRow(rec); err != nil {
				h.exportFailed(c, "pipeline", err)
				return
			}
		}
		if err := exporter.Flush(); err != nil {
			h.exportFailed(c, "pipeline", err)
			return
		}
		h.sendFile(c, filename+".csv", "text/csv", buf.Bytes())

	case "excel":
		exporter := export.NewExcelExporter(export.DefaultExcelOptions())
		if err := exporter.WriteHeader(columns); err != nil {
			h.exportFailed(c, "pipeline", err)
			return
		}
		data := make([][]interface{}, 0, len(rows))
		for _, row := range rows {
			data = append(data, []interface{}{row.PONumber, row.SupplierName, row.StatusLabel, row.Progress, row.Amount, row.Currency, row.CreatedAt})
		}
		if err := exporter.WriteRows(data); err != nil {
			h.exportFailed(c, "pipeline", err)
			return
		}
		var buf bytes.Buffer
		if err := exporter.WriteTo(&buf); err != nil {
			h.exportFailed(c, "pipeline", err)
			return
		}
		h.sendFile(c, filename+".xlsx", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

// exportSupplierRisk handles GET /api/v1/reports/supplier-risk/export?format=csv|pdf
func (h *Handler) exportSupplierRisk(c *gin.Context) {
	format := c.DefaultQuery("format", "csv")
	if format != "csv" && format != "pdf" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid export format"})
		return
	}

	rows, err := h.service.SupplierRiskReport(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to build supplier risk report", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	columns := []string{"Code", "Name", "Status", "Performance", "On-Time %", "Financial", "Risk Points", "Risk Level"}
	filename := "supplier-risk-" + time.Now().Format("20060102")

	switch format {
	case "csv":
		var buf bytes.Buffer
		exporter := export.NewCSVExporter(&buf, export.DefaultCSVOptions())
		if err := exporter.WriteHeader(columns); err != nil {
			h.exportFailed(c, "supplier risk", err)
			return
		}
		for _, row := range rows {
			rec := []interface{}{row.Code, row.Name, row.StatusLabel, row.PerformanceRating, row.OnTimeDeliveryPct, row.FinancialHealth, row.RiskPoints, row.RiskLevel}
			if err := exporter.WriteRow(rec); err != nil {
				h.exportFailed(c, "supplier risk", err)
				return
			}
		}
		if err := exporter.Flush(); err != nil {
			h.exportFailed(c, "supplier risk", err)
			return
		}
		h.sendFile(c, filename+".csv", "text/csv", buf.Bytes())

	case "pdf":
		table := make([][]string, 0, len(rows))
		for _, row := range rows {
			table = append(table, []string{
				row.Code,
				row.Name,
				row.StatusLabel,
				fmt.Sprintf("%d", row.PerformanceRating),
				fmt.Sprintf("%.1f", row.OnTimeDeliveryPct),
				fmt.Sprintf("%d", row.FinancialHealth),
				fmt.Sprintf("%d", row.RiskPoints),
				row.RiskLevel,
			})
		}
		generator := export.NewPDFGenerator(export.DefaultPDFOptions("Supplier Risk Report"))
		var buf bytes.Buffer
		if err := generator.GenerateReport(&buf, columns, table); err != nil {
			h.exportFailed(c, "supplier risk", err)
			return
		}
		h.sendFile(c, filename+".pdf", "application/pdf", buf.Bytes())
	}
}

func (h *Handler) sendFile(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}

func (h *Handler) exportFailed(c *gin.Context, report string, err error) {
	h.logger.Error("Failed to export report", zap.String("report", report), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
