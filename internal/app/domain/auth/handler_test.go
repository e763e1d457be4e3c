package auth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
)

type MockAuthenticator struct {
	mock.Mock
}

func (m *MockAuthenticator) Login(ctx context.Context, email, password string) (models.AuthResult, error) {
	args := m.Called(ctx, email, password)
	return args.Get(0).(models.AuthResult), args.Error(1)
}

func (m *MockAuthenticator) Register(ctx context.Context, email, password, name string) (models.AuthResult, error) {
	args := m.Called(ctx, email, password, name)
	return args.Get(0).(models.AuthResult), args.Error(1)
}

var ada = models.AuthResult{
	User:  models.User{ID: "u-1", Name: "Ada", Email: "ada@example.com"},
	Token: "cred-123",
}

func setupRouter(t *testing.T) (*gin.Engine, *MockAuthenticator) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	authn := new(MockAuthenticator)
	guard := session.NewGuard(zap.NewNop(), "/login")
	h := NewAuthHandlers(domain.NewBaseHandler(zap.NewNop()), authn, guard)

	r := gin.New()
	r.Use(session.Middleware(config.SessionConfig{Name: "test_session", Secret: "test-secret", MaxAge: 3600}))
	public := r.Group("", guard.OptionalSession())
	public.GET("/login", h.ShowLogin)
	public.POST("/login", h.Login)
	public.GET("/register", h.ShowRegister)
	public.POST("/register", h.Register)
	public.POST("/logout", h.Logout)
	r.GET("/dashboard", guard.RequireSession(), func(c *gin.Context) {
		sess, _ := session.Current(c)
		c.String(http.StatusOK, sess.Credential)
	})
	return r, authn
}

func form(path string, values url.Values, htmx bool, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func serve(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func get(path string, cookies ...*http.Cookie) *http.Request {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	return req
}

func TestLogin(t *testing.T) {
	t.Run("success stores the session and redirects htmx to the dashboard", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Login", mock.Anything, "ada@example.com", "secret").Return(ada, nil).Once()

		w := serve(r, form("/login", url.Values{"email": {" ada@example.com "}, "password": {"secret"}}, true))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("HX-Redirect"))

		dash := serve(r, get("/dashboard", w.Result().Cookies()...))
		assert.Equal(t, http.StatusOK, dash.Code)
		assert.Equal(t, "cred-123", dash.Body.String())
		authn.AssertExpectations(t)
	})

	t.Run("plain form posts get a see-other redirect", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Login", mock.Anything, "ada@example.com", "secret").Return(ada, nil).Once()

		w := serve(r, form("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}, false))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})

	t.Run("missing fields never reach the API", func(t *testing.T) {
		r, authn := setupRouter(t)

		w := serve(r, form("/login", url.Values{"email": {"ada@example.com"}}, true))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "#login-response", w.Header().Get("HX-Retarget"))
		assert.Contains(t, w.Body.String(), msgLoginRequired)
		authn.AssertNotCalled(t, "Login", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("rejected credentials show the fixed message", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Login", mock.Anything, "ada@example.com", "wrong").
			Return(models.AuthResult{}, &client.ServerError{Op: "login", StatusCode: http.StatusUnauthorized, Body: "invalid password"}).Once()

		w := serve(r, form("/login", url.Values{"email": {"ada@example.com"}, "password": {"wrong"}}, false))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, models.MsgLoginFailed, strings.TrimSpace(doc.Find("#login-error").Text()))
		email, _ := doc.Find("#login-form input#email").Attr("value")
		assert.Equal(t, "ada@example.com", email)
		assert.NotContains(t, w.Body.String(), "invalid password")

		dash := serve(r, get("/dashboard", w.Result().Cookies()...))
		assert.Equal(t, http.StatusFound, dash.Code)
	})
}

func TestShowLogin(t *testing.T) {
	t.Run("renders the form", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := serve(r, get("/login"))

		require.Equal(t, http.StatusOK, w.Code)
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, 1, doc.Find("form#login-form").Length())
		assert.Zero(t, doc.Find("#login-error").Length())
	})

	t.Run("explains a forced logout", func(t *testing.T) {
		r, _ := setupRouter(t)
		w := serve(r, get("/login?expired=1"))

		assert.Contains(t, w.Body.String(), models.MsgSessionExpired)
	})

	t.Run("signed-in users go to the dashboard", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Login", mock.Anything, "ada@example.com", "secret").Return(ada, nil).Once()
		login := serve(r, form("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}, true))

		w := serve(r, get("/login", login.Result().Cookies()...))
		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	})
}

func TestRegister(t *testing.T) {
	t.Run("success starts a session", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Register", mock.Anything, "ada@example.com", "secret", "Ada").Return(ada, nil).Once()

		w := serve(r, form("/register", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret"}}, true))

		assert.Equal(t, "/dashboard", w.Header().Get("HX-Redirect"))
		dash := serve(r, get("/dashboard", w.Result().Cookies()...))
		assert.Equal(t, http.StatusOK, dash.Code)
	})

	t.Run("missing name is rejected locally", func(t *testing.T) {
		r, authn := setupRouter(t)

		w := serve(r, form("/register", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}, false))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), msgRegisterRequired)
		authn.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("api failure keeps the typed values", func(t *testing.T) {
		r, authn := setupRouter(t)
		authn.On("Register", mock.Anything, "ada@example.com", "secret", "Ada").
			Return(models.AuthResult{}, &client.NetworkError{Op: "register", Err: errors.New("connection refused")}).Once()

		w := serve(r, form("/register", url.Values{"name": {"Ada"}, "email": {"ada@example.com"}, "password": {"secret"}}, true))

		assert.Equal(t, "#register-response", w.Header().Get("HX-Retarget"))
		doc, err := goquery.NewDocumentFromReader(w.Body)
		require.NoError(t, err)
		assert.Equal(t, models.MsgRegisterFailed, strings.TrimSpace(doc.Find("#register-error").Text()))
	})
}

func TestLogout(t *testing.T) {
	r, authn := setupRouter(t)
	authn.On("Login", mock.Anything, "ada@example.com", "secret").Return(ada, nil).Once()
	login := serve(r, form("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}, true))

	w := serve(r, form("/logout", url.Values{}, true, login.Result().Cookies()...))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "/login", w.Header().Get("HX-Redirect"))

	dash := serve(r, get("/dashboard", w.Result().Cookies()...))
	assert.Equal(t, http.StatusFound, dash.Code)
	assert.Equal(t, "/login", dash.Header().Get("Location"))
}
