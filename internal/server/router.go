package server

import (
	"fmt"
	"time"

	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/middleware"
	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
	"github.com/FACorreiaa/go-ticketing/internal/routes"
)

// SetupRouter configures and returns the Gin router with all middleware and routes
func SetupRouter(cfg *config.Config, logger *zap.Logger) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	r.Use(ginzap.GinzapWithConfig(logger, &ginzap.Config{
		UTC:        true,
		TimeFormat: time.RFC3339,
		Context:    zapContextFunc(),
		SkipPaths:  []string{"/healthz"},
	}))
	r.Use(ginzap.RecoveryWithZap(logger, true))
	r.Use(middleware.OTELGinMiddleware(cfg.Observability.ServiceName))
	r.Use(middleware.RequestMetrics())
	r.Use(middleware.SecurityMiddleware())
	r.Use(session.Middleware(cfg.Session))

	if err := routes.Setup(r, cfg, logger); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}

	return r, nil
}

// zapContextFunc returns the Zap context function for logging. Request
// bodies are not logged since they carry passwords.
func zapContextFunc() ginzap.Fn {
	return func(c *gin.Context) []zapcore.Field {
		fields := []zapcore.Field{}

		if requestID := c.Writer.Header().Get("X-Request-Id"); requestID != "" {
			fields = append(fields, zap.String("request_id", requestID))
		}

		if span := trace.SpanFromContext(c.Request.Context()); span.SpanContext().IsValid() {
			fields = append(fields,
				zap.String("trace_id", span.SpanContext().TraceID().String()),
				zap.String("span_id", span.SpanContext().SpanID().String()),
			)
		}

		if c.GetHeader("HX-Request") == "true" {
			fields = append(fields, zap.Bool("htmx", true))
		}

		return fields
	}
}
