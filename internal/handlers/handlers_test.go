package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"social-casino-backend/internal/config"
	"social-casino-backend/internal/handlers"
	"social-casino-backend/internal/services"
)

const testPassword = "password"

type testServer struct {
	handler http.Handler
	store   *services.Store
	ws      *handlers.WebSocketHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	mem := services.NewMemoryService()
	store, err := services.NewStore(mem, services.StoreOptions{
		Logger:        logger,
		DemoPasswords: []string{testPassword},
		PasswordCost:  bcrypt.MinCost,
	})
	require.NoError(t, err)

	ws := handlers.NewWebSocketHandler(mem, logger)
	t.Cleanup(ws.Close)
	store.SetBroadcaster(ws)

	jwtService := services.NewJWTService(&config.Config{JWTSecret: "test-secret", JWTTTL: time.Hour})
	router := handlers.NewRouter(handlers.RouterConfig{
		Logger:     logger,
		Store:      store,
		JWTService: jwtService,
		Limiter:    mem,
		Ingestor:   services.NewIngestor(store, nil, services.DefaultProviders()...),
		WebSocket:  ws,
	})

	return &testServer{handler: router, store: store, ws: ws}
}

func (ts *testServer) request(method, path string, body any, token string) *httptest.ResponseRecorder {
	var reqBody *bytes.Buffer
	if body != nil {
		b, _ := json.Marshal(body)
		reqBody = bytes.NewBuffer(b)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	ts.handler.ServeHTTP(rr, req)
	return rr
}

type authResponse struct {
	Token string `json:"token"`
	User  struct {
		ID         string  `json:"id"`
		GoldCoins  float64 `json:"goldCoins"`
		SweepCoins float64 `json:"sweepCoins"`
	} `json:"user"`
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func (ts *testServer) signup(t *testing.T, email string) authResponse {
	t.Helper()
	rr := ts.request(http.MethodPost, "/auth/signup", map[string]string{"email": email, "name": "Test Player"}, "")
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var resp authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func (ts *testServer) adminToken(t *testing.T) string {
	t.Helper()
	rr := ts.request(http.MethodPost, "/auth/login", map[string]string{"email": services.AdminEmail, "password": testPassword}, "")
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var resp authResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.Token
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sync":"connected"`)
}

func TestSignupAndMe(t *testing.T) {
	ts := newTestServer(t)

	resp := ts.signup(t, "new@example.com")
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, 10000.0, resp.User.GoldCoins)
	assert.Equal(t, 2.0, resp.User.SweepCoins)

	rr := ts.request(http.MethodGet, "/api/me", nil, resp.Token)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "new@example.com")

	rr = ts.request(http.MethodPost, "/auth/signup", map[string]string{"email": "new@example.com", "name": "Again"}, "")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handlers.CodeEmailTaken, decodeError(t, rr).Code)
}

func TestLoginFailures(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodPost, "/auth/login", map[string]string{"email": services.AdminEmail, "password": "nope"}, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, handlers.CodeInvalidCredentials, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/auth/login", map[string]string{"email": "not-an-email"}, "")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/wallet/balance", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = ts.request(http.MethodGet, "/api/wallet/balance", nil, "garbage")
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestLogoutInvalidatesSession(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.signup(t, "leaving@example.com")

	rr := ts.request(http.MethodPost, "/api/logout", nil, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodGet, "/api/wallet/balance", nil, resp.Token)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Equal(t, handlers.CodeLoginRequired, decodeError(t, rr).Code)
}

func TestDailyRewardCooldownCode(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.signup(t, "daily@example.com")

	rr := ts.request(http.MethodPost, "/api/rewards/daily", nil, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/rewards/daily", nil, resp.Token)
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.Equal(t, handlers.CodeCooldownActive, decodeError(t, rr).Code)
}

func TestSpinEndpoint(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.signup(t, "spinner@example.com")

	rr := ts.request(http.MethodPost, "/api/games/game_lucky_sevens/spin", map[string]any{"bet": 100, "currency": "GC"}, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var body struct {
		Success bool `json:"success"`
		Result  struct {
			Bet     float64 `json:"bet"`
			Balance struct {
				GoldCoins float64 `json:"goldCoins"`
			} `json:"balance"`
		} `json:"result"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Equal(t, 100.0, body.Result.Bet)

	rr = ts.request(http.MethodPost, "/api/games/game_lucky_sevens/spin", map[string]any{"bet": 1e9, "currency": "GC"}, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"reason":"INSUFFICIENT_FUNDS"`)
	assert.Contains(t, rr.Body.String(), `"success":false`)

	rr = ts.request(http.MethodPost, "/api/games/game_missing/spin", map[string]any{"bet": 10, "currency": "GC"}, resp.Token)
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = ts.request(http.MethodPost, "/api/games/game_lucky_sevens/spin", map[string]any{"bet": 10, "currency": "BTC"}, resp.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, handlers.CodeInvalidCurrency, decodeError(t, rr).Code)
}

func TestRedemptionRequiresKYCCode(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.signup(t, "redeem@example.com")

	rr := ts.request(http.MethodPost, "/api/redemptions", map[string]any{"amount": 100}, resp.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, handlers.CodeKYCRequired, decodeError(t, rr).Code)

	admin := ts.adminToken(t)
	rr = ts.request(http.MethodPut, "/api/admin/users/"+resp.User.ID+"/status", map[string]string{"status": "ACTIVE", "kycStatus": "VERIFIED"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = ts.request(http.MethodPost, "/api/redemptions", map[string]any{"amount": 10}, resp.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, handlers.CodeBelowMinimum, decodeError(t, rr).Code)

	rr = ts.request(http.MethodPost, "/api/redemptions", map[string]any{"amount": 100}, resp.Token)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)
	assert.Equal(t, handlers.CodeInsufficientFunds, decodeError(t, rr).Code)
}

func TestPurchaseAndTransactions(t *testing.T) {
	ts := newTestServer(t)
	resp := ts.signup(t, "shop@example.com")

	rr := ts.request(http.MethodPost, "/api/wallet/purchase", map[string]any{"packageId": "pkg_starter", "method": "card"}, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"goldCoins":20000`)

	rr = ts.request(http.MethodGet, "/api/wallet/transactions?currency=GC", nil, resp.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	var body struct {
		Transactions []map[string]any `json:"transactions"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Len(t, body.Transactions, 2)

	rr = ts.request(http.MethodGet, "/api/wallet/transactions?currency=EUR", nil, resp.Token)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAdminRoutesRequireAdmin(t *testing.T) {
	ts := newTestServer(t)
	player := ts.signup(t, "player@example.com")

	rr := ts.request(http.MethodGet, "/api/admin/users", nil, player.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = ts.request(http.MethodPost, "/api/admin/users/"+player.User.ID+"/balance", map[string]any{"currency": "GC", "amount": 1000, "reason": "x"}, player.Token)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	admin := ts.adminToken(t)
	rr = ts.request(http.MethodGet, "/api/admin/users", nil, admin)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "player@example.com")
}

func TestAdminConsoleFlow(t *testing.T) {
	ts := newTestServer(t)
	player := ts.signup(t, "target@example.com")
	admin := ts.adminToken(t)

	rr := ts.request(http.MethodPost, "/api/admin/users/"+player.User.ID+"/balance", map[string]any{"currency": "SC", "amount": 25, "reason": "goodwill"}, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"sweepCoins":27`)

	rr = ts.request(http.MethodPatch, "/api/admin/settings", map[string]any{"dailyRewardGC": 5000}, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = ts.request(http.MethodPost, "/api/rewards/daily", nil, player.Token)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"goldCoins":5000`)

	rr = ts.request(http.MethodPost, "/api/admin/emails", map[string]any{"target": "ALL", "subject": "Hi", "body": "Hello"}, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sent":2`)

	rr = ts.request(http.MethodPost, "/api/admin/ingestion", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	rr = ts.request(http.MethodGet, "/api/games/game_cyber_heist", nil, "")
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = ts.request(http.MethodDelete, "/api/admin/games/game_cyber_heist", nil, admin)
	assert.Equal(t, http.StatusNoContent, rr.Code)

	rr = ts.request(http.MethodPost, "/api/admin/alerts/alert_velocity/resolve", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"resolved":true`)

	rr = ts.request(http.MethodGet, "/api/admin/audit", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "ADJUST_BALANCE")

	rr = ts.request(http.MethodPost, "/api/admin/sync", nil, admin)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"sync":"connected"`)
}

func TestPublicCatalog(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.request(http.MethodGet, "/api/games?category=table", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "game_blackjack")
	assert.NotContains(t, rr.Body.String(), "game_lucky_sevens")

	rr = ts.request(http.MethodGet, "/api/catalog", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "pkg_popular")
	assert.Contains(t, rr.Body.String(), "promo_welcome")

	rr = ts.request(http.MethodGet, "/api/jackpots", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"jackpotGC":250000`)

	rr = ts.request(http.MethodGet, "/api/games/game_gold_rush", nil, "")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "comment_1")
	assert.Contains(t, rr.Body.String(), "comment_3")
	assert.NotContains(t, rr.Body.String(), "comment_2")
}
