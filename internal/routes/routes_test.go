package routes

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/gin-gonic/gin"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/pkg/config"
)

const apiURL = "http://api.test"

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("SESSION_SECRET", "test-secret")
	t.Setenv("API_BASE_URL", apiURL)
	t.Setenv("DEPARTURE_TIMEZONE", "Africa/Lagos")
	cfg, err := config.Load()
	require.NoError(t, err)
	return cfg
}

func setupEngine(t *testing.T) (*gin.Engine, *httpmock.MockTransport) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	cfg := testConfig(t)
	transport := httpmock.NewMockTransport()

	r := gin.New()
	r.Use(session.Middleware(cfg.Session))
	require.NoError(t, Setup(r, cfg, zap.NewNop(), client.WithTransport(transport)))
	return r, transport
}

func send(r http.Handler, req *http.Request, cookies []*http.Cookie) *httptest.ResponseRecorder {
	for _, ck := range cookies {
		req.AddCookie(ck)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func formRequest(path string, values url.Values) *http.Request {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	return req
}

func TestHealthz(t *testing.T) {
	r, _ := setupEngine(t)
	w := send(r, httptest.NewRequest(http.MethodGet, "/healthz", nil), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestSetupRejectsRelativeAPIURL(t *testing.T) {
	cfg := testConfig(t)
	cfg.API.BaseURL = "localhost:3000"
	assert.Error(t, Setup(gin.New(), cfg, zap.NewNop()))
}

func TestTicketingFlow(t *testing.T) {
	r, api := setupEngine(t)

	w := send(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil), nil)
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.Zero(t, api.GetTotalCallCount(), "no API call before login")

	api.RegisterResponder(http.MethodPost, apiURL+"/auth/login",
		httpmock.NewStringResponder(http.StatusOK, `{"token":"cred-123","user":{"id":"u-1","name":"Ada","email":"ada@example.com"}}`))

	login := send(r, formRequest("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}), nil)
	require.Equal(t, "/dashboard", login.Header().Get("HX-Redirect"))
	cookies := login.Result().Cookies()

	listed := `[{"id":"t-1","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5}]`
	var authHeaders []string
	api.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		func(req *http.Request) (*http.Response, error) {
			authHeaders = append(authHeaders, req.Header.Get("Authorization"))
			return httpmock.NewStringResponse(http.StatusOK, listed), nil
		})

	var created map[string]any
	api.RegisterResponder(http.MethodPost, apiURL+"/tickets",
		func(req *http.Request) (*http.Response, error) {
			body, err := io.ReadAll(req.Body)
			if err != nil {
				return nil, err
			}
			if err := json.Unmarshal(body, &created); err != nil {
				return nil, err
			}
			listed = `[{"id":"t-1","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5},` +
				`{"id":"t-2","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5}]`
			return httpmock.NewStringResponse(http.StatusCreated, `{"id":"t-2","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5}`), nil
		})

	page := send(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil), cookies)
	require.Equal(t, http.StatusOK, page.Code)
	doc, err := goquery.NewDocumentFromReader(page.Body)
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Find("#ticket-list li[data-ticket-id]").Length())
	assert.Equal(t, "NRC Ticketing", doc.Find("title").Text())

	w = send(r, formRequest("/dashboard/tickets", url.Values{
		"from":          {"Lagos"},
		"to":            {"Kano"},
		"departureTime": {"2024-05-01T10:00"},
		"price":         {"25.50"},
	}), cookies)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, map[string]any{
		"from":          "Lagos",
		"to":            "Kano",
		"departureTime": "2024-05-01T09:00:00.000Z",
		"price":         25.5,
	}, created)

	doc, err = goquery.NewDocumentFromReader(w.Body)
	require.NoError(t, err)
	assert.Equal(t, 2, doc.Find("#ticket-list li[data-ticket-id]").Length())

	info := api.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+apiURL+"/tickets"])
	assert.Equal(t, 2, info["GET "+apiURL+"/tickets"], "one list on mount, one after create")
	assert.Equal(t, []string{"Bearer cred-123", "Bearer cred-123"}, authHeaders)

	out := send(r, formRequest("/logout", url.Values{}), cookies)
	assert.Equal(t, "/login", out.Header().Get("HX-Redirect"))
	again := send(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil), out.Result().Cookies())
	assert.Equal(t, http.StatusFound, again.Code)
	assert.Equal(t, 2, api.GetCallCountInfo()["GET "+apiURL+"/tickets"])
}

func TestUnauthorizedListEndsSession(t *testing.T) {
	r, api := setupEngine(t)
	api.RegisterResponder(http.MethodPost, apiURL+"/auth/login",
		httpmock.NewStringResponder(http.StatusOK, `{"accessToken":"cred-123","user":{"id":"u-1","email":"ada@example.com"}}`))
	api.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"token revoked"}`))

	login := send(r, formRequest("/login", url.Values{"email": {"ada@example.com"}, "password": {"secret"}}), nil)
	w := send(r, httptest.NewRequest(http.MethodGet, "/dashboard", nil), login.Result().Cookies())

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login?expired=1", w.Header().Get("Location"))
	assert.NotContains(t, w.Body.String(), "token revoked")
}
