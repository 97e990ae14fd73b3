package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/babystock/internal/server/handlers"
)

const requestTimeout = 30 * time.Second

// Handlers groups the HTTP handlers mounted by New. Webhook is optional.
type Handlers struct {
	Inventory *handlers.InventoryHandler
	Scan      *handlers.ScanHandler
	Dashboard *handlers.DashboardHandler
	Products  *handlers.ProductHandler
	Children  *handlers.ChildHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, corsOrigins []string, logger *zap.Logger) *gin.Engine {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))
	r.Use(cors.New(corsConfig(corsOrigins)))
	r.Use(timeoutMiddleware(requestTimeout))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		inventory := api.Group("/inventory")
		inventory.GET("", h.Inventory.List)
		inventory.POST("", h.Inventory.Create)
		inventory.GET("/low-stock", h.Inventory.LowStock)
		inventory.GET("/barcode/:barcode", h.Inventory.GetByBarcode)
		inventory.GET("/:id", h.Inventory.Get)
		inventory.PUT("/:id", h.Inventory.Update)
		inventory.POST("/:id/add-stock", h.Inventory.AddStock)
		inventory.POST("/:id/use", h.Inventory.Use)

		api.GET("/dashboard/stats", h.Dashboard.Stats)
		api.GET("/dashboard/categories", h.Dashboard.Categories)
		api.GET("/usage-logs", h.Dashboard.UsageLogs)
		api.GET("/usage-logs/summary", h.Dashboard.UsageSummary)

		api.POST("/products/lookup/:barcode", h.Products.Lookup)

		api.POST("/scan/resolve", h.Scan.Resolve)
		api.POST("/scan/drafts", h.Scan.SubmitDraft)

		children := api.Group("/children")
		children.GET("", h.Children.List)
		children.POST("", h.Children.Create)
		children.GET("/:id", h.Children.Get)
		children.PUT("/:id", h.Children.Update)
		children.DELETE("/:id", h.Children.Delete)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	logger.Info("router initialized", zap.Bool("webhook", h.Webhook != nil))
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", "Authorization"}
	cfg.MaxAge = 12 * time.Hour

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
		cfg.AllowCredentials = true
	}
	return cfg
}

func timeoutMiddleware(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()

		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		}

		switch {
		case status >= http.StatusInternalServerError:
			logger.Error("request completed", fields...)
		case status >= http.StatusBadRequest:
			logger.Warn("request completed", fields...)
		default:
			logger.Info("request completed", fields...)
		}
	}
}
