package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"xcelbot-system/config"
	"xcelbot-system/internal/database"
	"xcelbot-system/internal/database/models"
	"xcelbot-system/internal/gateway/handlers"
	"xcelbot-system/internal/gateway/middleware"
	dashboard "xcelbot-system/internal/services/dashboard/handler"
	ingest "xcelbot-system/internal/services/ingest/handler"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"
)

func main() {
	cfg := config.LoadConfig()
	logger := config.GetLogger()

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.DB.Host, cfg.DB.Port, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.SSLMode)
	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := models.MigrateSalesDB(db); err != nil {
		log.Fatalf("Failed to migrate sales tables: %v", err)
	}
	if err := models.MigrateFinancialDB(db); err != nil {
		log.Fatalf("Failed to migrate financial tables: %v", err)
	}

	redisClient := config.NewRedisClient(cfg.Redis)
	defer redisClient.Close()

	ingestHandler := ingest.NewIngestHandler(db, logger, cfg.Ingest)
	dashboardHandler := dashboard.NewDashboardHandler(db, logger)

	uploadHTTP := handlers.NewUploadHTTPHandler(ingestHandler)
	dashboardHTTP := handlers.NewDashboardHTTPHandler(dashboardHandler)
	authHTTP := handlers.NewAuthHTTPHandler(cfg.Auth)

	r := gin.Default()

	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.Use(middleware.RateLimit(cfg.Server.RateLimit))

	r.GET("/health", healthCheckHandler(db, redisClient))

	public := r.Group("/api/v1")
	{
		auth := public.Group("/auth")
		{
			auth.POST("/token", authHTTP.MintToken)
		}
	}

	protected := r.Group("/api/v1")
	protected.Use(middleware.JWTAuth([]byte(cfg.Auth.JwtSecret)))
	{
		dashboards := protected.Group("/dashboards")
		dashboards.Use(middleware.CacheResponses(redisClient, time.Minute))
		{
			dashboards.GET("/sales", dashboardHTTP.Sales)
			dashboards.GET("/pmix", dashboardHTTP.Pmix)
			dashboards.GET("/financials", dashboardHTTP.Financials)
			dashboards.GET("/companywide", dashboardHTTP.Companywide)
		}

		protected.GET("/filters", dashboardHTTP.Filters)
		protected.POST("/uploads/:dashboard", uploadHTTP.Upload)
		protected.GET("/exports/financials", dashboardHTTP.ExportFinancials)
	}

	port := ":" + cfg.Server.Port
	log.Printf("Starting server on port %s", port)
	if err := r.Run(port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func healthCheckHandler(db *gorm.DB, redisClient *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
		defer cancel()

		status := "healthy"
		httpStatus := http.StatusOK

		dbStatus := "healthy"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "unavailable"
		}
		redisStatus := "healthy"
		if err := redisClient.Ping(ctx).Err(); err != nil {
			redisStatus = "unavailable"
		}

		if dbStatus != "healthy" || redisStatus != "healthy" {
			status = "degraded"
			httpStatus = http.StatusPartialContent
		}

		c.JSON(httpStatus, gin.H{
			"status":    status,
			"database":  dbStatus,
			"redis":     redisStatus,
			"timestamp": time.Now(),
		})
	}
}
