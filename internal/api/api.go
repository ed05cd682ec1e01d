// internal/api/api.go
package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/preseasonhq/backoffice/internal/api/handlers"
	"github.com/preseasonhq/backoffice/internal/api/middleware"
	"github.com/preseasonhq/backoffice/internal/export"
	"github.com/preseasonhq/backoffice/internal/service"
)

type Services struct {
	CatalogService    *service.CatalogService
	SuggestionService *service.SuggestionService
	OrderService      *service.OrderService
	ReportService     *export.ReportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	defaultOrigins := []string{"http://localhost:3000", "http://127.0.0.1:3000"}
	corsConfig := cors.Config{
		AllowOrigins:     defaultOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	apiGroup := router.Group("/api/v1")

	if services != nil {
		if services.CatalogService != nil {
			catalogHandler := handlers.NewCatalogHandler(services.CatalogService)
			catalogGroup := apiGroup.Group("/catalog")
			{
				catalogGroup.GET("/brands", catalogHandler.GetBrands)
				catalogGroup.GET("/seasons", catalogHandler.GetSeasons)
				catalogGroup.GET("/locations", catalogHandler.GetLocations)
				catalogGroup.GET("/products", catalogHandler.SearchProducts)
			}
		}

		if services.SuggestionService != nil {
			suggestionHandler := handlers.NewSuggestionHandler(services.SuggestionService)
			sessionGroup := apiGroup.Group("/suggestions/sessions")
			{
				sessionGroup.POST("", suggestionHandler.OpenSession)
				sessionGroup.PUT("/:session/filter", suggestionHandler.SetFilter)
				sessionGroup.GET("/:session", suggestionHandler.GetSuggestions)
				sessionGroup.DELETE("/:session/suggestions", suggestionHandler.ClearSuggestions)
				sessionGroup.POST("/:session/stock-rules", suggestionHandler.RunStockRules)
				sessionGroup.POST("/:session/velocity", suggestionHandler.RunVelocityTargets)
				sessionGroup.POST("/:session/budget", suggestionHandler.ScaleToBudget)
				sessionGroup.POST("/:session/batch", suggestionHandler.BatchAdjust)
				sessionGroup.POST("/:session/clamp", suggestionHandler.Clamp)
			}
		}

		if services.OrderService != nil {
			orderHandler := handlers.NewOrderHandler(services.OrderService)
			orderGroup := apiGroup.Group("/orders")
			{
				orderGroup.POST("", orderHandler.CreateOrder)
				orderGroup.POST("/planned", orderHandler.CreatePlanned)
				orderGroup.GET("", orderHandler.ListOrders)
				orderGroup.GET("/:id", orderHandler.GetOrder)
				orderGroup.POST("/:id/finalize", orderHandler.FinalizeOrder)
				orderGroup.GET("/:id/items", orderHandler.GetItems)
				orderGroup.POST("/:id/items", orderHandler.AddItem)
				orderGroup.PUT("/:id/items/:item", orderHandler.AdjustItem)
				orderGroup.DELETE("/:id/items/:item", orderHandler.DeleteItem)
			}
		}

		if services.ReportService != nil {
			reportHandler := handlers.NewReportHandler(services.ReportService)
			apiGroup.POST("/reports/order-book", reportHandler.ExportOrderBook)
		}
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
