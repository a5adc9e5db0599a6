package handler

import (
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"

	"github.com/jengzang/commutetrackr-go/internal/database"
	"github.com/jengzang/commutetrackr-go/internal/models"
	"github.com/jengzang/commutetrackr-go/internal/repository"
	"github.com/jengzang/commutetrackr-go/internal/service"
	"github.com/jengzang/commutetrackr-go/pkg/response"
)

// AnalysisHandler serves the raw log and the derived duration tables
type AnalysisHandler struct {
	repo     *repository.CommuteRepository
	analysis *service.AnalysisService
	db       *sql.DB
}

// NewAnalysisHandler creates a new analysis handler
func NewAnalysisHandler(repo *repository.CommuteRepository, analysis *service.AnalysisService, db *sql.DB) *AnalysisHandler {
	return &AnalysisHandler{repo: repo, analysis: analysis, db: db}
}

func bindFilter(c *gin.Context) (models.LogFilter, bool) {
	var filter models.LogFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.BadRequest(c, "Invalid query parameters")
		return filter, false
	}
	if err := filter.Validate(); err != nil {
		response.BadRequest(c, "Dates must be YYYY-MM-DD")
		return filter, false
	}
	return filter, true
}

func (h *AnalysisHandler) report(c *gin.Context) (*service.Report, bool) {
	filter, ok := bindFilter(c)
	if !ok {
		return nil, false
	}
	report, err := h.analysis.Run(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, err)
		return nil, false
	}
	return report, true
}

// GetLogs handles GET /api/logs
func (h *AnalysisHandler) GetLogs(c *gin.Context) {
	filter, ok := bindFilter(c)
	if !ok {
		return
	}
	logs, err := h.repo.ListActive(c.Request.Context(), filter)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if logs == nil {
		logs = []models.CommuteLog{}
	}
	response.Fields(c, gin.H{"data": logs, "count": len(logs)})
}

// GetDurations handles GET /api/analysis/durations
func (h *AnalysisHandler) GetDurations(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	response.Success(c, report)
}

// GetTotals handles GET /api/analysis/totals
func (h *AnalysisHandler) GetTotals(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	response.Success(c, gin.H{
		"total":         report.Total,
		"total_display": report.Total.String(),
		"by_activity":   report.Totals,
	})
}

// GetDistributions handles GET /api/analysis/distributions
func (h *AnalysisHandler) GetDistributions(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	response.Success(c, report.Distributions())
}

// GetCalendar handles GET /api/analysis/calendar
func (h *AnalysisHandler) GetCalendar(c *gin.Context) {
	report, ok := h.report(c)
	if !ok {
		return
	}
	response.Success(c, h.analysis.Calendar(report))
}

// DownloadDatabase handles GET /commutetrackr.db
func (h *AnalysisHandler) DownloadDatabase(c *gin.Context) {
	dir, err := os.MkdirTemp("", "commutetrackr-snapshot-")
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer os.RemoveAll(dir)

	path := filepath.Join(dir, "commutetrackr.db")
	if err := database.Snapshot(c.Request.Context(), h.db, path); err != nil {
		response.InternalError(c, err)
		return
	}

	info, err := os.Stat(path)
	if err != nil {
		response.InternalError(c, fmt.Errorf("snapshot missing: %w", err))
		return
	}
	log.Printf("[AnalysisHandler] Serving database snapshot (%d bytes)", info.Size())
	c.FileAttachment(path, "commutetrackr.db")
}
