// internal/api/handlers/report_handler.go
package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/preseasonhq/backoffice/internal/export"
	"github.com/preseasonhq/backoffice/internal/repository"
)

type ReportHandler struct {
	reportService *export.ReportService
}

func NewReportHandler(reportService *export.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// ExportOrderBook writes the order-book CSV and returns where it landed
func (h *ReportHandler) ExportOrderBook(c *gin.Context) {
	filter := repository.OrderFilter{
		SeasonID:   parseOptionalID(c.Query("season_id")),
		BrandID:    parseOptionalID(c.Query("brand_id")),
		LocationID: parseOptionalID(c.Query("location_id")),
		Status:     strings.TrimSpace(c.Query("status")),
	}

	path, err := h.reportService.OrderBookCSV(c.Request.Context(), filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to export order book")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to export order book"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"path": path})
}
