package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MKRNaqeebi/GenAlima/internal/auth"
	"github.com/MKRNaqeebi/GenAlima/internal/config"
	"github.com/MKRNaqeebi/GenAlima/internal/dispatch"
	"github.com/MKRNaqeebi/GenAlima/internal/domain"
	"github.com/MKRNaqeebi/GenAlima/internal/handler"
	"github.com/MKRNaqeebi/GenAlima/internal/metrics"
	"github.com/MKRNaqeebi/GenAlima/internal/policy"
	"github.com/MKRNaqeebi/GenAlima/internal/service"
	"github.com/MKRNaqeebi/GenAlima/tests/helpers"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	ts := httptest.NewServer(newTestEcho(t, &config.Config{
		HTTP: config.HTTP{MetricsPath: "/metrics", CORSOrigins: []string{"http://localhost:5173"}},
	}, zerolog.Nop()))
	t.Cleanup(ts.Close)
	return ts
}

func newTestEcho(t *testing.T, cfg *config.Config, logger zerolog.Logger) *echo.Echo {
	t.Helper()
	db := helpers.NewTestSQLiteStore(t)

	reg := handler.NewRegistry()
	require.NoError(t, handler.RegisterBuiltins(reg, handler.Deps{}))
	helpers.SeedRegistry(t, db, "T1", handler.ModelMock, handler.ConnectorNone)

	engine, err := policy.NewEngine(context.Background(), policy.DefaultPolicy)
	require.NoError(t, err)
	m := metrics.New()
	pipeline := dispatch.New(db, reg, dispatch.Options{Metrics: m}, zerolog.Nop())
	issuer := auth.NewIssuer("test-secret", time.Hour, "genalima")
	svc := service.New(db, pipeline, reg, engine, issuer, service.Options{}, zerolog.Nop())

	return NewServer(Deps{Config: cfg, Service: svc, Issuer: issuer, Users: db, Metrics: m, Logger: logger})
}

func do(t *testing.T, method, url, token, body string) *http.Response {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func login(t *testing.T, base string) string {
	t.Helper()
	resp := do(t, http.MethodPost, base+"/api/v1/users/signup", "", `{"email":"a@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, base+"/api/v1/login/access-token", "", `{"username":"a@example.com","password":"password123"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var tok domain.Token
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tok))
	require.NotEmpty(t, tok.AccessToken)
	return tok.AccessToken
}

func TestServerAuthAndCompletion(t *testing.T) {
	ts := newTestServer(t)

	resp := do(t, http.MethodGet, ts.URL+"/health", "", "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-Id"))

	resp = do(t, http.MethodGet, ts.URL+"/api/v1/users/me", "", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, ts.URL)
	resp = do(t, http.MethodGet, ts.URL+"/api/v1/users/me", token, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = do(t, http.MethodPost, ts.URL+"/api/v1/completions", token, `{"query":"hello","template_id":"T1"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out domain.CompletionResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	require.NotEmpty(t, out.Messages)
	assert.Equal(t, domain.RoleAssistant, out.Messages[0].Role)
}

func TestServerMetrics(t *testing.T) {
	ts := newTestServer(t)
	token := login(t, ts.URL)
	do(t, http.MethodPost, ts.URL+"/api/v1/completions", token, `{"query":"hello","template_id":"T1"}`)

	resp := do(t, http.MethodGet, ts.URL+"/metrics", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `genalima_dispatch_total{outcome="success"} 1`)
	assert.Contains(t, string(body), "genalima_http_requests_total")
}

func TestServerWebsocketRequiresToken(t *testing.T) {
	ts := newTestServer(t)
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/v1/completions/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	token := login(t, ts.URL)
	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?"+auth.QueryTokenParam+"="+token, nil)
	require.NoError(t, err)
	defer conn.Close()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"query":"hello","template_id":"T1"}`)))
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var frame map[string]any
	require.NoError(t, conn.ReadJSON(&frame))
	assert.Equal(t, "messages", frame["type"])
}

func TestServerLogsErrorsAndRecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	e := newTestEcho(t, &config.Config{HTTP: config.HTTP{MetricsPath: "/metrics"}}, zerolog.New(&buf))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nothing-here", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), buf.String())
	assert.Equal(t, "error", entry["level"])
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.NotEmpty(t, entry["error"])

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), `status="404"`)
}

func TestServerCORSFallsBackToFrontendURL(t *testing.T) {
	e := newTestEcho(t, &config.Config{HTTP: config.HTTP{MetricsPath: "/metrics", FrontendURL: "http://app.example.com"}}, zerolog.Nop())

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/users/me", nil)
	req.Header.Set(echo.HeaderOrigin, "http://app.example.com")
	req.Header.Set(echo.HeaderAccessControlRequestMethod, http.MethodGet)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, "http://app.example.com", rec.Header().Get(echo.HeaderAccessControlAllowOrigin))

	req = httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(echo.HeaderOrigin, "http://evil.example.com")
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get(echo.HeaderAccessControlAllowOrigin))
}
