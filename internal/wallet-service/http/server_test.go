package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/radieske/bet-simulator/internal/wallet-service/dto"
	"github.com/radieske/bet-simulator/internal/wallet-service/repo"
)

// memRepo replica as regras do repositório Postgres em memória
type memRepo struct {
	mu       sync.Mutex
	balances map[string]int64
	debits   map[string]bool
}

func newMemRepo() *memRepo {
	return &memRepo{balances: map[string]int64{}, debits: map[string]bool{}}
}

func (m *memRepo) GetOrCreateWallet(_ context.Context, userID string, initial int64) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[userID]; !ok {
		m.balances[userID] = initial
	}
	return "w-" + userID, m.balances[userID], nil
}

func (m *memRepo) Deposit(_ context.Context, userID string, amount int64, _ string) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.balances[userID]; !ok {
		return "", 0, repo.ErrNotFound
	}
	m.balances[userID] += amount
	return "w-" + userID, m.balances[userID], nil
}

func (m *memRepo) Debit(_ context.Context, userID string, amount int64, ref string) (string, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	bal, ok := m.balances[userID]
	if !ok {
		return "", 0, repo.ErrNotFound
	}
	if m.debits[userID+ref] {
		return "w-" + userID, bal, nil
	}
	if bal < amount {
		return "", 0, repo.ErrInsufficientFunds
	}
	m.debits[userID+ref] = true
	m.balances[userID] = bal - amount
	return "w-" + userID, m.balances[userID], nil
}

func do(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, dto.WalletResponse) {
	t.Helper()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
	var resp dto.WalletResponse
	if rec.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	}
	return rec, resp
}

func TestGetWalletCreatesWithInitialBalance(t *testing.T) {
	h := NewServer(zap.NewNop(), newMemRepo(), 100000).Router()

	rec, resp := do(t, h, http.MethodGet, "/wallet?userId=u1", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, int64(100000), resp.BalanceCents)

	rec, _ = do(t, h, http.MethodGet, "/wallet", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeposit(t *testing.T) {
	h := NewServer(zap.NewNop(), newMemRepo(), 1000).Router()

	rec, _ := do(t, h, http.MethodPost, "/wallet/deposit", `{"userId":"u1","amount_cents":500}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	do(t, h, http.MethodGet, "/wallet?userId=u1", "")
	rec, resp := do(t, h, http.MethodPost, "/wallet/deposit", `{"userId":"u1","amount_cents":500}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1500), resp.BalanceCents)

	rec, _ = do(t, h, http.MethodPost, "/wallet/deposit", `{"userId":"u1","amount_cents":0}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec, _ = do(t, h, http.MethodPost, "/wallet/deposit", `{`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDebit(t *testing.T) {
	h := NewServer(zap.NewNop(), newMemRepo(), 10000).Router()
	do(t, h, http.MethodGet, "/wallet?userId=u1", "")

	rec, resp := do(t, h, http.MethodPost, "/wallet/debit", `{"userId":"u1","amount_cents":2500,"external_ref":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7500), resp.BalanceCents)

	// mesmo external_ref não debita duas vezes
	rec, resp = do(t, h, http.MethodPost, "/wallet/debit", `{"userId":"u1","amount_cents":2500,"external_ref":"p1"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7500), resp.BalanceCents)

	rec, _ = do(t, h, http.MethodPost, "/wallet/debit", `{"userId":"u1","amount_cents":9000,"external_ref":"p2"}`)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "insufficient funds")

	rec, _ = do(t, h, http.MethodPost, "/wallet/debit", `{"userId":"u1","amount_cents":100}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = do(t, h, http.MethodPost, "/wallet/debit", `{"userId":"ghost","amount_cents":100,"external_ref":"p3"}`)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWrongMethod(t *testing.T) {
	h := NewServer(zap.NewNop(), newMemRepo(), 0).Router()
	rec, _ := do(t, h, http.MethodGet, "/wallet/debit", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
