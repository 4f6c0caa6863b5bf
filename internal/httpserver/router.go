package httpserver

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/coffeeassessoria/sparkboard-automation/internal/handler"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/logger"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/metrics"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/mq"
	"github.com/coffeeassessoria/sparkboard-automation/pkg/trace"
)

// NewRouter wires the automation API. db and consumer may be nil when the
// service runs purely in-memory; readiness then only reports what exists.
func NewRouter(
	ruleHandler *handler.RuleHandler,
	notificationHandler *handler.NotificationHandler,
	log *zap.Logger,
	db *pgxpool.Pool,
	consumer *mq.Consumer,
) *gin.Engine {
	r := gin.Default()

	// Trace id propagation: honor the incoming header or mint a new one.
	r.Use(func(c *gin.Context) {
		traceID := c.GetHeader(trace.HeaderName())
		if traceID == "" {
			traceID = trace.GenerateTraceID()
		}
		c.Request = c.Request.WithContext(trace.WithContext(c.Request.Context(), traceID))
		c.Header(trace.HeaderName(), traceID)
		c.Next()
	})

	// Request logging + latency metrics.
	r.Use(func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		logger.WithTrace(c.Request.Context(), log).Info("HTTP Request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("client_ip", c.ClientIP()),
		)
		metrics.RecordHTTPRequestDuration(c.Request.Method, c.FullPath(), strconv.Itoa(status), latency)
	})

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.HEAD("/healthz", func(c *gin.Context) {
		c.Status(200)
	})

	r.GET("/readyz", func(c *gin.Context) {
		if db != nil {
			ctx, cancel := context.WithTimeout(c, 1*time.Second)
			defer cancel()

			if err := db.Ping(ctx); err != nil {
				c.JSON(500, gin.H{"status": "db_not_ready", "error": err.Error()})
				return
			}
		}

		if consumer != nil && !consumer.IsConnected() {
			c.JSON(500, gin.H{"status": "mq_not_ready"})
			return
		}

		c.JSON(200, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/rules", ruleHandler.ListRules)
	r.POST("/rules", ruleHandler.CreateRule)
	r.PATCH("/rules/:id", ruleHandler.UpdateRule)
	r.DELETE("/rules/:id", ruleHandler.DeleteRule)
	r.POST("/rules/:id/toggle", ruleHandler.ToggleRule)

	r.GET("/notifications", notificationHandler.ListNotifications)
	r.POST("/notifications/:id/read", notificationHandler.MarkAsRead)
	r.DELETE("/notifications/:id", notificationHandler.DeleteNotification)

	return r
}
