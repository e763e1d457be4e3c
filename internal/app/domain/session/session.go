// Package session keeps the signed-in identity and its credential in the
// browser session and gates protected pages on it.
package session

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
	"github.com/FACorreiaa/go-ticketing/pkg/auth"
)

// Keys in the session store. The credential lives under "token".
const (
	CredentialKey = "token"
	userIDKey     = "user_id"
	userNameKey   = "user_name"
	userEmailKey  = "user_email"
	viewKey       = "view_id"

	contextKey = "session"

	// ExpiredParam is set on the login redirect when the API refused a
	// credential the browser still held.
	ExpiredParam = "expired"
)

// Middleware installs the cookie-backed session store.
func Middleware(cfg config.SessionConfig) gin.HandlerFunc {
	store := cookie.NewStore([]byte(cfg.Secret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.MaxAge,
		HttpOnly: true,
		Secure:   cfg.SecureCookies,
		SameSite: http.SameSiteLaxMode,
	})
	return sessions.Sessions(cfg.Name, store)
}

type Guard struct {
	logger   *zap.Logger
	loginURL string
	now      func() time.Time
}

func NewGuard(logger *zap.Logger, loginURL string) *Guard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Guard{logger: logger, loginURL: loginURL, now: time.Now}
}

func (g *Guard) LoginURL() string { return g.loginURL }

// Load reads the session from the store. A session missing either half,
// or holding an expired credential, is cleared and reported absent.
func (g *Guard) Load(c *gin.Context) (*models.Session, bool) {
	store := sessions.Default(c)

	credential, _ := store.Get(CredentialKey).(string)
	identity := models.User{
		ID:    stringValue(store.Get(userIDKey)),
		Name:  stringValue(store.Get(userNameKey)),
		Email: stringValue(store.Get(userEmailKey)),
	}
	hasIdentity := identity.ID != "" || identity.Email != ""

	switch {
	case credential == "" && !hasIdentity:
		return nil, false
	case credential == "" || !hasIdentity:
		g.logger.Warn("Discarding half-populated session",
			zap.Bool("has_credential", credential != ""),
			zap.Bool("has_identity", hasIdentity),
		)
		g.clear(c)
		return nil, false
	case auth.Expired(credential, g.now()):
		g.logger.Info("Discarding session with expired credential", zap.String("user_id", identity.ID))
		g.clear(c)
		return nil, false
	}

	return &models.Session{Identity: identity, Credential: credential}, true
}

// Save moves the browser into the authenticated state.
func (g *Guard) Save(c *gin.Context, result models.AuthResult) error {
	store := sessions.Default(c)
	store.Set(CredentialKey, result.Token)
	store.Set(userIDKey, result.User.ID)
	store.Set(userNameKey, result.User.Name)
	store.Set(userEmailKey, result.User.Email)
	store.Set(viewKey, uuid.NewString())
	if err := store.Save(); err != nil {
		g.logger.Error("Failed to save session", zap.Error(err))
		return err
	}
	g.logger.Info("Session started",
		zap.String("user_id", result.User.ID),
		zap.String("email", result.User.Email),
	)
	return nil
}

// Logout clears the credential and identity. Navigation is the caller's job.
func (g *Guard) Logout(c *gin.Context) error {
	return g.clear(c)
}

func (g *Guard) clear(c *gin.Context) error {
	store := sessions.Default(c)
	store.Clear()
	store.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := store.Save(); err != nil {
		g.logger.Error("Failed to clear session", zap.Error(err))
		return err
	}
	return nil
}

// RequireSession aborts with a single navigation to the login page when
// no session exists. Otherwise the session is put in the gin context and
// its credential in the request context for outgoing API calls.
func (g *Guard) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := g.Load(c)
		if !ok {
			metrics.Get().SessionRedirectsTotal.Add(c.Request.Context(), 1,
				metric.WithAttributes(attribute.String("reason", "absent")))
			Redirect(c, g.loginURL)
			c.Abort()
			return
		}
		attach(c, sess)
		c.Next()
	}
}

// OptionalSession attaches a session when there is one.
func (g *Guard) OptionalSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		if sess, ok := g.Load(c); ok {
			attach(c, sess)
		}
		c.Next()
	}
}

// Invalidate ends a session the API refused and sends the browser to login.
func (g *Guard) Invalidate(c *gin.Context) {
	if sess, ok := Current(c); ok {
		g.logger.Warn("Ticket API refused credential, ending session",
			zap.String("user_id", sess.Identity.ID))
	}
	_ = g.clear(c)
	c.Set(contextKey, nil)
	metrics.Get().SessionRedirectsTotal.Add(c.Request.Context(), 1,
		metric.WithAttributes(attribute.String("reason", "unauthorized")))
	Redirect(c, g.loginURL+"?"+ExpiredParam+"=1")
	c.Abort()
}

// ViewID returns the id keying this browser's dashboard state, minting
// one when the session has none.
func ViewID(c *gin.Context) string {
	store := sessions.Default(c)
	if id, ok := store.Get(viewKey).(string); ok && id != "" {
		return id
	}
	id := uuid.NewString()
	store.Set(viewKey, id)
	_ = store.Save()
	return id
}

// Current returns the session attached by RequireSession or OptionalSession.
func Current(c *gin.Context) (*models.Session, bool) {
	v, exists := c.Get(contextKey)
	if !exists {
		return nil, false
	}
	sess, ok := v.(*models.Session)
	return sess, ok && sess != nil
}

// CurrentUser is Current narrowed to the identity, for layouts.
func CurrentUser(c *gin.Context) *models.User {
	sess, ok := Current(c)
	if !ok {
		return nil
	}
	user := sess.Identity
	return &user
}

// Redirect navigates the browser, using HX-Redirect for HTMX requests.
func Redirect(c *gin.Context, url string) {
	if c.GetHeader("HX-Request") == "true" {
		c.Header("HX-Redirect", url)
		c.Status(http.StatusUnauthorized)
		return
	}
	c.Redirect(http.StatusFound, url)
}

func attach(c *gin.Context, sess *models.Session) {
	c.Set(contextKey, sess)
	c.Request = c.Request.WithContext(client.WithCredential(c.Request.Context(), sess.Credential))
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
