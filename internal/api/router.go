package api

import (
	"context"
	"database/sql"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jengzang/commutetrackr-go/internal/analysis/commute"
	"github.com/jengzang/commutetrackr-go/internal/auth"
	"github.com/jengzang/commutetrackr-go/internal/config"
	"github.com/jengzang/commutetrackr-go/internal/handler"
	"github.com/jengzang/commutetrackr-go/internal/middleware"
	"github.com/jengzang/commutetrackr-go/internal/repository"
	"github.com/jengzang/commutetrackr-go/internal/service"
)

// DeriverConfig builds the segment chain configuration from cfg
func DeriverConfig(cfg *config.Config) commute.Config {
	dc := commute.DefaultConfig()
	dc.DetourThresholdMinutes = cfg.DetourThresholdMinutes
	dc.AnomalyCeilingMinutes = cfg.AnomalyCeilingMinutes
	return dc
}

// SetupRouter 设置路由
func SetupRouter(cfg *config.Config, db *sql.DB) (*gin.Engine, error) {
	deriver, err := commute.NewDeriver(DeriverConfig(cfg))
	if err != nil {
		return nil, err
	}

	repo := repository.NewCommuteRepository(db)
	commuteService := service.NewCommuteService(repo, cfg.Location())
	analysisService := service.NewAnalysisService(repo, deriver)

	commuteHandler := handler.NewCommuteHandler(commuteService)
	analysisHandler := handler.NewAnalysisHandler(repo, analysisService, db)

	r := gin.New()
	r.Use(middleware.Logger(), gin.Recovery())

	// CORS 中间件
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "database": "disconnected"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "connected"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/commutetrackr.db", analysisHandler.DownloadDatabase)

	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateLimitWindow)
	r.POST("/log_activity", middleware.RateLimit(limiter), commuteHandler.LogActivity)

	api := r.Group("/api")
	{
		api.GET("/today", commuteHandler.Today)
		api.POST("/log_external",
			middleware.RateLimit(limiter),
			middleware.BearerAuth(auth.Config{Secret: cfg.JWTSecret, Issuer: cfg.JWTIssuer}),
			commuteHandler.LogExternal,
		)
		api.GET("/logs", analysisHandler.GetLogs)

		analysis := api.Group("/analysis")
		{
			analysis.GET("/durations", analysisHandler.GetDurations)
			analysis.GET("/totals", analysisHandler.GetTotals)
			analysis.GET("/distributions", analysisHandler.GetDistributions)
			analysis.GET("/calendar", analysisHandler.GetCalendar)
		}
	}

	return r, nil
}
