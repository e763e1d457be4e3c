package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

const apiURL = "http://api.test"

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, transport http.RoundTripper, tokenFile string, args ...string) result {
	t.Helper()
	var stdout, stderr bytes.Buffer
	full := append([]string{"--api", apiURL, "--token-file", tokenFile}, args...)
	code := run(context.Background(), full, &stdout, &stderr, client.WithTransport(transport))
	return result{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeToken(t *testing.T, path, token string) {
	t.Helper()
	require.NoError(t, saveSession(path, apiURL, models.AuthResult{
		User:  models.User{ID: "u-1", Email: "ada@example.com"},
		Token: token,
	}))
}

func TestLoginStoresCredential(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodPost, apiURL+"/auth/login",
		httpmock.NewStringResponder(http.StatusOK, `{"access_token":"cred-123","user":{"id":"u-1","name":"Ada","email":"ada@example.com"}}`))
	tokenFile := filepath.Join(t.TempDir(), "nested", "session.yaml")

	res := runCLI(t, mock, tokenFile, "login", "--email", "ada@example.com", "--password", "secret")

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Logged in as Ada")

	data, err := os.ReadFile(tokenFile)
	require.NoError(t, err)
	var stored map[string]any
	require.NoError(t, yaml.Unmarshal(data, &stored))
	assert.Equal(t, "cred-123", stored["token"])

	info, err := os.Stat(tokenFile)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestLoginFailureShowsFixedMessage(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodPost, apiURL+"/auth/login",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{"message":"bad password"}`))
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")

	res := runCLI(t, mock, tokenFile, "login", "--email", "ada@example.com", "--password", "nope")

	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, models.MsgLoginFailed)
	assert.NotContains(t, res.stderr, "bad password")
	assert.NoFileExists(t, tokenFile)
}

func TestListWithoutCredential(t *testing.T) {
	mock := httpmock.NewMockTransport()
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")

	res := runCLI(t, mock, tokenFile, "list")

	assert.Equal(t, exitError, res.code)
	assert.Equal(t, "not logged in\n", res.stderr)
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestListRefusesCredentialFromAnotherAPI(t *testing.T) {
	mock := httpmock.NewMockTransport()
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "--api", "http://other.test", "list")

	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "issued by "+apiURL)
	assert.Zero(t, mock.GetTotalCallCount())
	assert.FileExists(t, tokenFile)
}

func TestVerboseLogsGoToStderr(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		httpmock.NewStringResponder(http.StatusInternalServerError, `{"message":"db down"}`))
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "--verbose", "list")

	assert.Equal(t, exitError, res.code)
	assert.Empty(t, res.stdout)
	assert.Contains(t, res.stderr, "db down")
	assert.Contains(t, res.stderr, models.MsgFetchTicketsFailed)
}

func TestList(t *testing.T) {
	mock := httpmock.NewMockTransport()
	var gotAuth string
	mock.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		func(req *http.Request) (*http.Response, error) {
			gotAuth = req.Header.Get("Authorization")
			return httpmock.NewStringResponse(http.StatusOK, `[
				{"id":"t-2","from":"Kano","to":"Abuja","departureTime":"2024-05-02T08:00:00.000Z","price":12},
				{"id":"t-1","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5}
			]`), nil
		})
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "list")

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Equal(t, "Bearer cred-123", gotAuth)
	assert.Less(t, bytes.Index([]byte(res.stdout), []byte("t-2")), bytes.Index([]byte(res.stdout), []byte("t-1")),
		"tickets keep the API order")
	assert.Contains(t, res.stdout, "Abuja")
}

func TestListUnauthorizedRemovesSession(t *testing.T) {
	mock := httpmock.NewMockTransport()
	mock.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		httpmock.NewStringResponder(http.StatusUnauthorized, `{}`))
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "list")

	assert.Equal(t, exitError, res.code)
	assert.Contains(t, res.stderr, "ticketctl login")
	assert.NoFileExists(t, tokenFile)
}

func TestCreateThenList(t *testing.T) {
	mock := httpmock.NewMockTransport()
	var body map[string]any
	mock.RegisterResponder(http.MethodPost, apiURL+"/tickets",
		func(req *http.Request) (*http.Response, error) {
			if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
				return nil, err
			}
			return httpmock.NewStringResponse(http.StatusCreated, `{"id":"t-9","from":"Lagos","to":"Kano"}`), nil
		})
	mock.RegisterResponder(http.MethodGet, apiURL+"/tickets",
		httpmock.NewStringResponder(http.StatusOK, `[{"id":"t-9","from":"Lagos","to":"Kano","departureTime":"2024-05-01T09:00:00.000Z","price":25.5}]`))
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "create",
		"--from", "Lagos", "--to", "Kano", "--departure", "2024-05-01T10:00", "--price", "25.50", "--tz", "Africa/Lagos")

	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Created ticket t-9")
	assert.Equal(t, "2024-05-01T09:00:00.000Z", body["departureTime"])
	assert.Equal(t, 25.5, body["price"])
	info := mock.GetCallCountInfo()
	assert.Equal(t, 1, info["POST "+apiURL+"/tickets"])
	assert.Equal(t, 1, info["GET "+apiURL+"/tickets"])
}

func TestCreateRejectsBadDeparture(t *testing.T) {
	mock := httpmock.NewMockTransport()
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, mock, tokenFile, "create", "--from", "Lagos", "--to", "Kano", "--departure", "tomorrow", "--price", "10")

	assert.Equal(t, exitUsage, res.code)
	assert.Zero(t, mock.GetTotalCallCount())
}

func TestLogout(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")
	writeToken(t, tokenFile, "cred-123")

	res := runCLI(t, httpmock.NewMockTransport(), tokenFile, "logout")
	assert.Equal(t, exitOK, res.code)
	assert.NoFileExists(t, tokenFile)

	res = runCLI(t, httpmock.NewMockTransport(), tokenFile, "logout")
	assert.Equal(t, exitOK, res.code, "logging out twice is fine")
}

func TestUsage(t *testing.T) {
	tokenFile := filepath.Join(t.TempDir(), "session.yaml")

	assert.Equal(t, exitUsage, runCLI(t, httpmock.NewMockTransport(), tokenFile).code)
	assert.Equal(t, exitUsage, runCLI(t, httpmock.NewMockTransport(), tokenFile, "fly").code)
	assert.Equal(t, exitUsage, runCLI(t, httpmock.NewMockTransport(), tokenFile, "login", "--email", "a@b.c").code)
}
