package routes

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/auth"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/dashboard"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/views"
	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
)

const loginURL = "/login"

type AppHandlers struct {
	Auth      *auth.AuthHandlers
	Dashboard *dashboard.Handlers
	Guard     *session.Guard
}

// Setup wires the handlers to the ticket API and registers every route.
// Client options are passed through to the API client.
func Setup(r *gin.Engine, cfg *config.Config, log *zap.Logger, opts ...client.Option) error {
	handlers, err := setupDependencies(cfg, log, opts...)
	if err != nil {
		return err
	}
	setupRouter(r, handlers)
	return nil
}

func setupDependencies(cfg *config.Config, log *zap.Logger, opts ...client.Option) (*AppHandlers, error) {
	opts = append([]client.Option{client.WithTimeout(cfg.API.Timeout)}, opts...)
	api, err := client.New(cfg.API.BaseURL, log.Named("ticket-api"), opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create ticket API client: %w", err)
	}

	format, err := views.NewFormatter(cfg.Dashboard.Currency, cfg.DepartureLocation())
	if err != nil {
		return nil, fmt.Errorf("failed to create formatter: %w", err)
	}

	baseHandler := domain.NewBaseHandler(log)
	guard := session.NewGuard(log.Named("session"), loginURL)
	store := dashboard.NewStore(cfg.Dashboard.ViewStateTTL)

	log.Info("Ticket API configured",
		zap.String("base_url", cfg.API.BaseURL),
		zap.Duration("timeout", cfg.API.Timeout),
		zap.String("departure_timezone", cfg.DepartureLocation().String()),
	)

	return &AppHandlers{
		Auth:      auth.NewAuthHandlers(baseHandler, api, guard),
		Dashboard: dashboard.NewHandlers(baseHandler, api, guard, store, cfg.DepartureLocation(), format),
		Guard:     guard,
	}, nil
}

func setupRouter(r *gin.Engine, h *AppHandlers) {
	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/", dashboard.Home)

	public := r.Group("/")
	public.Use(h.Guard.OptionalSession())
	{
		public.GET("/login", h.Auth.ShowLogin)
		public.POST("/login", h.Auth.Login)
		public.GET("/register", h.Auth.ShowRegister)
		public.POST("/register", h.Auth.Register)
		public.POST("/logout", h.Auth.Logout)
	}

	protected := r.Group("/dashboard")
	protected.Use(h.Guard.RequireSession())
	{
		protected.GET("", h.Dashboard.ShowDashboard)
		protected.GET("/tickets", h.Dashboard.RefreshTickets)
		protected.POST("/tickets", h.Dashboard.CreateTicket)
	}
}
