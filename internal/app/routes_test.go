package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/icemedialab/varta/internal/config"
	"github.com/icemedialab/varta/internal/dashboard"
	"github.com/icemedialab/varta/internal/intel"
	"github.com/icemedialab/varta/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	mu  sync.Mutex
	err error
}

func (s *stubGenerator) fail(err error) {
	s.mu.Lock()
	s.err = err
	s.mu.Unlock()
}

func (s *stubGenerator) Generate(_ context.Context, q model.Query) (*model.Document, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	return &model.Document{ExecutiveSummary: model.ExecutiveSummary{Meaning: "about " + q.Keyword}}, nil
}

func newTestApp(t *testing.T, mutate func(*config.Config)) (*App, *stubGenerator, http.Handler) {
	t.Helper()
	cfg := &config.Config{
		Port:                  "0",
		Env:                   "development",
		DBDriver:              config.DriverMemory,
		GeminiModel:           "test-model",
		GenerateRatePerMinute: 100,
	}
	if mutate != nil {
		mutate(cfg)
	}
	require.NoError(t, cfg.Validate())

	gen := &stubGenerator{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	a, err := New(context.Background(), cfg, logger, WithGenerator(gen), WithVersion("v-test"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a, gen, a.routes()
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		if s, ok := body.(string); ok {
			rd = strings.NewReader(s)
		} else {
			b, err := json.Marshal(body)
			require.NoError(t, err)
			rd = bytes.NewReader(b)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.RemoteAddr = "192.0.2.1:5555"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

type errorBody struct {
	Error any `json:"error"`
}

func TestHealth(t *testing.T) {
	_, _, h := newTestApp(t, nil)

	rec := do(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode[map[string]string](t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.Equal(t, "v-test", body["version"])
}

func TestAuthFlow(t *testing.T) {
	_, _, h := newTestApp(t, nil)

	rec := do(t, h, http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/login", map[string]string{"email": "ghost@x.com"})
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, dashboard.MsgEmailNotFound, decode[errorBody](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"email": "Asha@X.com", "fullName": "Asha Rao"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"email": "asha@x.com", "fullName": "Again"})
	require.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, dashboard.MsgEmailRegistered, decode[errorBody](t, rec).Error)

	rec = do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"email": "bad", "fullName": ""})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/auth/login", `{"email": "a@x.com", "password": "x"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[struct {
		State dashboard.State `json:"state"`
	}](t, rec).State
	require.NotNil(t, state.User)
	assert.Equal(t, "asha@x.com", state.User.Email)
	assert.Equal(t, dashboard.ViewHome, state.View)

	rec = do(t, h, http.MethodPost, "/api/auth/logout", nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func register(t *testing.T, h http.Handler, email string) {
	t.Helper()
	rec := do(t, h, http.MethodPost, "/api/auth/register", map[string]string{"email": email, "fullName": "Test User"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
}

func TestReportFlow(t *testing.T) {
	_, gen, h := newTestApp(t, nil)
	register(t, h, "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/reports", map[string]string{"keyword": "chai"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decode[struct {
		Report model.Report `json:"report"`
	}](t, rec).Report
	assert.Equal(t, "/api/reports/"+created.ID, rec.Header().Get("Location"))
	assert.Equal(t, model.DefaultRegion, created.Input.Region)

	rec = do(t, h, http.MethodPost, "/api/reports", map[string]string{"keyword": " "})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	errorCases := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("%w: eof", intel.ErrInvalidFormat), http.StatusBadGateway, dashboard.MsgInvalidFormat},
		{fmt.Errorf("%w: 429", intel.ErrQuotaExhausted), http.StatusTooManyRequests, dashboard.MsgQuotaExhausted},
		{fmt.Errorf("%w: reset", intel.ErrUpstream), http.StatusBadGateway, dashboard.MsgGenerateFailed},
		{intel.ErrMissingAPIKey, http.StatusServiceUnavailable, intel.ErrMissingAPIKey.Error()},
	}
	for _, tc := range errorCases {
		gen.fail(tc.err)
		rec = do(t, h, http.MethodPost, "/api/reports", map[string]string{"keyword": "broken"})
		assert.Equal(t, tc.code, rec.Code)
		assert.Equal(t, tc.msg, decode[errorBody](t, rec).Error)
	}
	gen.fail(nil)

	rec = do(t, h, http.MethodGet, "/api/reports", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	list := decode[struct {
		Reports []model.Report `json:"reports"`
	}](t, rec).Reports
	require.Len(t, list, 1)
	assert.Equal(t, created.ID, list[0].ID)

	rec = do(t, h, http.MethodGet, "/api/reports/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reports/nope", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/reports/"+created.ID+"/markdown", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/markdown; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "# VARTA Intelligence Report: chai")

	rec = do(t, h, http.MethodPost, "/api/reports/clear", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	state := decode[struct {
		State dashboard.State `json:"state"`
	}](t, rec).State
	assert.Nil(t, state.Report)

	rec = do(t, h, http.MethodPost, "/api/reports/"+created.ID+"/open", nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestDirectoryAndProfile(t *testing.T) {
	_, _, h := newTestApp(t, nil)
	register(t, h, "b@x.com")
	register(t, h, "a@x.com")

	rec := do(t, h, http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	users := decode[struct {
		Users []model.User `json:"users"`
	}](t, rec).Users
	assert.Len(t, users, 2)

	rec = do(t, h, http.MethodGet, "/api/users/b@x.com", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/users/zzz@x.com", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/profile", map[string]string{"fullName": "A Rao", "role": "Creative Lead", "department": "Growth"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodGet, "/api/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	user := decode[struct {
		User model.User `json:"user"`
	}](t, rec).User
	assert.Equal(t, model.RoleCreativeLead, user.Role)

	rec = do(t, h, http.MethodPut, "/api/view", map[string]string{"view": "DIRECTORY"})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/view", map[string]string{"view": "EMPLOYEE_PROFILE"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(t, h, http.MethodPut, "/api/view", map[string]string{"view": "SETTINGS"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestCredential(t *testing.T) {
	t.Run("vault disabled", func(t *testing.T) {
		_, _, h := newTestApp(t, nil)
		register(t, h, "a@x.com")

		rec := do(t, h, http.MethodPut, "/api/credential", map[string]string{"apiKey": "alt"})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("vault enabled", func(t *testing.T) {
		a, _, h := newTestApp(t, func(c *config.Config) { c.VaultSecret = "0123456789abcdef-secret" })
		register(t, h, "a@x.com")

		rec := do(t, h, http.MethodPut, "/api/credential", map[string]string{"apiKey": " alt-key "})
		require.Equal(t, http.StatusNoContent, rec.Code)

		key, err := a.Vault().APIKey(context.Background())
		require.NoError(t, err)
		assert.Equal(t, "alt-key", key)

		rec = do(t, h, http.MethodDelete, "/api/credential", nil)
		require.Equal(t, http.StatusNoContent, rec.Code)
		key, err = a.Vault().APIKey(context.Background())
		require.NoError(t, err)
		assert.Empty(t, key)
	})
}

func TestGenerateRateLimited(t *testing.T) {
	_, _, h := newTestApp(t, func(c *config.Config) { c.GenerateRatePerMinute = 1 })
	register(t, h, "a@x.com")

	rec := do(t, h, http.MethodPost, "/api/reports", map[string]string{"keyword": "one"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/reports", map[string]string{"keyword": "two"})
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
}

func TestSeedFirstUser(t *testing.T) {
	a, _, _ := newTestApp(t, func(c *config.Config) {
		c.SeedUserEmail = "owner@x.com"
		c.SeedUserName = "Owner"
	})

	u, err := a.Sessions().FindUser(context.Background(), "owner@x.com")
	require.NoError(t, err)
	assert.Equal(t, "Owner", u.FullName)
}
