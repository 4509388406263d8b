package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/icemedialab/varta/internal/model"
	"github.com/icemedialab/varta/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRestorer struct {
	user *model.User
	err  error
}

func (f fakeRestorer) Restore(context.Context) (*model.User, error) { return f.user, f.err }

func echoUser(w http.ResponseWriter, r *http.Request) {
	u := UserFromContext(r.Context())
	_, _ = w.Write([]byte(u.Email))
}

func TestRequireSession(t *testing.T) {
	tests := []struct {
		name     string
		restorer fakeRestorer
		code     int
		body     string
	}{
		{"signed in", fakeRestorer{user: &model.User{Email: "a@x.com"}}, http.StatusOK, "a@x.com"},
		{"no session", fakeRestorer{err: store.ErrNoSession}, http.StatusUnauthorized, `{"error":"please sign in to continue"}`},
		{"store failure", fakeRestorer{err: errors.New("disk gone")}, http.StatusInternalServerError, "the server encountered a problem"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := RequireSession(tt.restorer)(http.HandlerFunc(echoUser))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/profile", nil))

			assert.Equal(t, tt.code, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}
}

func TestUserFromContext_Empty(t *testing.T) {
	assert.Nil(t, UserFromContext(context.Background()))
}

func TestRateLimit_PerIP(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	h := RateLimit(PerMinute(1), 2)(ok)

	do := func(addr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/reports", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:1111").Code)
	assert.Equal(t, http.StatusNoContent, do("10.0.0.1:2222").Code)

	rec := do("10.0.0.1:3333")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "too many report requests")

	assert.Equal(t, http.StatusNoContent, do("10.0.0.2:1111").Code)
}

func TestIPLimiter_SweepsIdleClients(t *testing.T) {
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	il := newIPLimiter(PerMinute(1), 1)
	il.now = func() time.Time { return clock }
	il.lastSweep = clock

	first := il.get("10.0.0.1")
	il.get("10.0.0.2")
	require.Len(t, il.limiters, 2)

	clock = clock.Add(limiterIdleTTL / 2)
	assert.Same(t, first, il.get("10.0.0.1"))

	clock = clock.Add(limiterIdleTTL)
	il.get("10.0.0.3")
	assert.Len(t, il.limiters, 1)
	assert.Contains(t, il.limiters, "10.0.0.3")
}

func TestSecurityHeaders(t *testing.T) {
	h := SecurityHeaders(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "no-store", rec.Header().Get("Cache-Control"))
}
