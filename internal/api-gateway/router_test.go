package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// echo responde com o nome do upstream e o path recebido
func echo(t *testing.T, name string) string {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(name + " " + r.Method + " " + r.URL.RequestURI()))
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func TestRouterRewritesPaths(t *testing.T) {
	h, err := NewRouter(zap.NewNop(), Targets{
		Odds: echo(t, "odds"),
		Slip: echo(t, "slip"),
	}, nil)
	require.NoError(t, err)

	tests := []struct {
		method, path string
		code         int
		body         string
	}{
		{http.MethodGet, "/api/odds/v1/games?league=nba", http.StatusOK, "odds GET /v1/games?league=nba"},
		{http.MethodGet, "/api/wallet", http.StatusOK, "slip GET /wallet"},
		{http.MethodPost, "/api/wallet", http.StatusMethodNotAllowed, ""},
		{http.MethodGet, "/api/wallet/wallet?userId=victim", http.StatusNotFound, ""},
		{http.MethodPost, "/api/wallet/wallet/debit", http.StatusNotFound, ""},
		{http.MethodGet, "/api/slip", http.StatusOK, "slip GET /slip"},
		{http.MethodPut, "/api/slip/stakes/1:moneyline:home", http.StatusOK, "slip PUT /slip/stakes/1:moneyline:home"},
		{http.MethodPost, "/api/auth/login", http.StatusOK, "slip POST /auth/login"},
		{http.MethodOptions, "/api/slip/place", http.StatusNoContent, ""},
		{http.MethodGet, "/api/bets", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.path, nil))
		assert.Equal(t, tt.code, rec.Code, tt.method+" "+tt.path)
		if tt.body != "" {
			assert.Equal(t, tt.body, rec.Body.String())
		}
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}

func TestRouterUpstreamDown(t *testing.T) {
	h, err := NewRouter(zap.NewNop(), Targets{
		Odds: "http://127.0.0.1:1",
		Slip: "http://127.0.0.1:1",
	}, nil)
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/odds/v1/leagues", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	_, err = NewRouter(zap.NewNop(), Targets{Odds: "::", Slip: "http://y"}, nil)
	assert.Error(t, err)
}

func TestLimiter(t *testing.T) {
	l := NewIPLimiter(1, 2)
	h := l.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	call := func(addr string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/slip", nil)
		req.RemoteAddr = addr
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1000"))
	assert.Equal(t, http.StatusOK, call("10.0.0.1:1001"))
	assert.Equal(t, http.StatusTooManyRequests, call("10.0.0.1:1002"))
	// outro cliente tem o próprio bucket
	assert.Equal(t, http.StatusOK, call("10.0.0.2:1000"))
}

func TestLimiterIgnoresForwardedFor(t *testing.T) {
	h, err := NewRouter(zap.NewNop(), Targets{
		Odds: echo(t, "odds"),
		Slip: echo(t, "slip"),
	}, NewIPLimiter(1, 1))
	require.NoError(t, err)

	call := func(forwarded string) int {
		req := httptest.NewRequest(http.MethodGet, "/api/odds/v1/leagues", nil)
		req.RemoteAddr = "10.0.0.9:4000"
		req.Header.Set("X-Forwarded-For", forwarded)
		req.Header.Set("X-Real-IP", forwarded)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}
	assert.Equal(t, http.StatusOK, call("1.1.1.1"))
	assert.Equal(t, http.StatusTooManyRequests, call("2.2.2.2"))
	assert.Equal(t, http.StatusTooManyRequests, call("3.3.3.3"))
}
