package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/app/views"
)

const (
	msgLoginRequired    = "Email and password are required"
	msgRegisterRequired = "All required fields must be filled"

	dashboardURL = "/dashboard"
)

// Authenticator exchanges user credentials for an API credential.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (models.AuthResult, error)
	Register(ctx context.Context, email, password, name string) (models.AuthResult, error)
}

type LoginRequest struct {
	Email    string `form:"email"`
	Password string `form:"password"`
}

type RegisterRequest struct {
	Name     string `form:"name"`
	Email    string `form:"email"`
	Password string `form:"password"`
}

type AuthHandlers struct {
	*domain.BaseHandler
	auth  Authenticator
	guard *session.Guard
}

func NewAuthHandlers(base *domain.BaseHandler, auth Authenticator, guard *session.Guard) *AuthHandlers {
	return &AuthHandlers{BaseHandler: base, auth: auth, guard: guard}
}

func (h *AuthHandlers) ShowLogin(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, dashboardURL)
		return
	}
	props := views.AuthFormProps{}
	if c.Query(session.ExpiredParam) != "" {
		props.Error = models.MsgSessionExpired
	}
	h.RenderPage(c, "Log in - "+views.AppName, "Login", views.LoginPage(props))
}

func (h *AuthHandlers) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Logger.Warn("Failed to bind login form", zap.Error(err))
	}
	req.Email = strings.TrimSpace(req.Email)
	props := views.AuthFormProps{Email: req.Email}

	if req.Email == "" || req.Password == "" {
		h.Logger.Warn("Missing email or password")
		props.Error = msgLoginRequired
		h.formError(c, http.StatusBadRequest, "Log in", "Login", "#login-response",
			views.LoginPage(props), "login-error", props.Error)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.Logger.Warn("Login failed",
			zap.String("email", req.Email),
			zap.String("kind", client.Kind(err)),
			zap.Error(err),
		)
		props.Error = models.MsgLoginFailed
		h.formError(c, http.StatusUnauthorized, "Log in", "Login", "#login-response",
			views.LoginPage(props), "login-error", props.Error)
		return
	}

	if err := h.start(c, result); err != nil {
		props.Error = models.MsgLoginFailed
		h.formError(c, http.StatusInternalServerError, "Log in", "Login", "#login-response",
			views.LoginPage(props), "login-error", props.Error)
	}
}

func (h *AuthHandlers) ShowRegister(c *gin.Context) {
	if _, ok := session.Current(c); ok {
		c.Redirect(http.StatusFound, dashboardURL)
		return
	}
	h.RenderPage(c, "Register - "+views.AppName, "Register", views.RegisterPage(views.AuthFormProps{}))
}

func (h *AuthHandlers) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBind(&req); err != nil {
		h.Logger.Warn("Failed to bind registration form", zap.Error(err))
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	props := views.AuthFormProps{Name: req.Name, Email: req.Email}

	if req.Name == "" || req.Email == "" || req.Password == "" {
		props.Error = msgRegisterRequired
		h.formError(c, http.StatusBadRequest, "Register", "Register", "#register-response",
			views.RegisterPage(props), "register-error", props.Error)
		return
	}

	result, err := h.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		h.Logger.Warn("Registration failed",
			zap.String("email", req.Email),
			zap.String("kind", client.Kind(err)),
			zap.Error(err),
		)
		props.Error = models.MsgRegisterFailed
		h.formError(c, http.StatusBadRequest, "Register", "Register", "#register-response",
			views.RegisterPage(props), "register-error", props.Error)
		return
	}

	if err := h.start(c, result); err != nil {
		props.Error = models.MsgRegisterFailed
		h.formError(c, http.StatusInternalServerError, "Register", "Register", "#register-response",
			views.RegisterPage(props), "register-error", props.Error)
	}
}

// Logout ends the session and returns the browser to the login page.
func (h *AuthHandlers) Logout(c *gin.Context) {
	if sess, ok := session.Current(c); ok {
		h.Logger.Info("Logging out", zap.String("user_id", sess.Identity.ID))
	}
	if err := h.guard.Logout(c); err != nil {
		h.Logger.Error("Failed to end session", zap.Error(err))
	}
	if domain.IsHTMX(c) {
		c.Header("HX-Redirect", h.guard.LoginURL())
		c.Status(http.StatusOK)
		return
	}
	c.Redirect(http.StatusSeeOther, h.guard.LoginURL())
}

// start stores the session and sends the browser to the dashboard.
func (h *AuthHandlers) start(c *gin.Context, result models.AuthResult) error {
	if err := h.guard.Save(c, result); err != nil {
		return err
	}
	if domain.IsHTMX(c) {
		c.Header("HX-Redirect", dashboardURL)
		c.Status(http.StatusOK)
		return nil
	}
	c.Redirect(http.StatusSeeOther, dashboardURL)
	return nil
}

// formError answers htmx with a banner swapped into target and full page
// loads with the re-rendered form.
func (h *AuthHandlers) formError(c *gin.Context, status int, title, activeNav, target string, page templ.Component, bannerID, message string) {
	if domain.IsHTMX(c) {
		c.Header("HX-Retarget", target)
		h.Render(c, http.StatusOK, views.Banner(views.BannerProps{ID: bannerID, Type: views.BannerError, Message: message}))
		return
	}
	h.RenderPageStatus(c, status, title+" - "+views.AppName, activeNav, page)
}

var _ Authenticator = (*client.Client)(nil)
