package domain

import (
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ticketing/internal/app/views"
)

type BaseHandler struct {
	Logger *zap.Logger
}

func NewBaseHandler(logger *zap.Logger) *BaseHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BaseHandler{Logger: logger}
}

// IsHTMX reports whether the request came from htmx.
func IsHTMX(c *gin.Context) bool {
	return c.GetHeader("HX-Request") == "true"
}

func (h *BaseHandler) newLayoutData(c *gin.Context, title, activeNav string, content templ.Component) models.LayoutTempl {
	user := session.CurrentUser(c)
	nav := models.OfflineNav
	if user != nil {
		nav = models.MainNav
	}
	return models.LayoutTempl{
		Title:     title,
		Content:   content,
		Nav:       nav,
		ActiveNav: activeNav,
		User:      user,
	}
}

// Render writes a component with the given status.
func (h *BaseHandler) Render(c *gin.Context, status int, component templ.Component) {
	start := time.Now()
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := component.Render(c.Request.Context(), c.Writer); err != nil {
		h.Logger.Error("Failed to render component",
			zap.String("path", c.Request.URL.Path),
			zap.Error(err),
		)
	}
	metrics.Get().TemplateRenderDuration.Record(c.Request.Context(), time.Since(start).Seconds(),
		metric.WithAttributes(attribute.String("path", c.FullPath())))
}

// RenderPage sends only content to htmx and the full layout otherwise.
func (h *BaseHandler) RenderPage(c *gin.Context, title, activeNav string, content templ.Component) {
	h.RenderPageStatus(c, http.StatusOK, title, activeNav, content)
}

func (h *BaseHandler) RenderPageStatus(c *gin.Context, status int, title, activeNav string, content templ.Component) {
	if IsHTMX(c) {
		h.Render(c, status, content)
		return
	}
	h.Render(c, status, views.LayoutPage(h.newLayoutData(c, title, activeNav, content)))
}
