package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/muhammadfahaddev/PayBridge/config"
	"github.com/muhammadfahaddev/PayBridge/internal/database"
	"github.com/muhammadfahaddev/PayBridge/pkg/provider"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupRouter(t *testing.T, testRoutes bool) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))

	cfg := &config.Config{
		Server: config.ServerConfig{Env: "test", EnableTestRoutes: testRoutes},
		JWT:    config.JWTConfig{Secret: "test-secret", Expiry: time.Hour, Issuer: "paybridge"},
	}
	return Setup(cfg, db, provider.NewStub())
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}, headers map[string]string) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var out map[string]interface{}
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	}
	return w, out
}

func signupMerchant(t *testing.T, r *gin.Engine) (apiKey, token string) {
	t.Helper()
	w, out := doJSON(t, r, http.MethodPost, "/api/v1/auth/signup", gin.H{
		"name":     "Acme",
		"email":    "acme@example.com",
		"password": "secret123",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)
	data := out["data"].(map[string]interface{})
	return data["api_key"].(string), data["token"].(string)
}

func TestHealth(t *testing.T) {
	r := setupRouter(t, true)
	w, out := doJSON(t, r, http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", out["status"])
	assert.Equal(t, "PayBridge API", out["service"])
}

func TestUnknownRouteEnvelope(t *testing.T) {
	r := setupRouter(t, true)
	w, out := doJSON(t, r, http.MethodGet, "/nope", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Equal(t, "Route not found", out["message"])
}

func TestPaymentRoutesRequireAPIKey(t *testing.T) {
	r := setupRouter(t, true)

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 20000, "order_id": "ORD-1",
	}, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, false, out["success"])

	w, _ = doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 20000, "order_id": "ORD-1",
	}, map[string]string{"X-API-Key": "pb_live_00000000_deadbeefdeadbeefdeadbeefdeadbeef"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProfileRequiresBearerToken(t *testing.T) {
	r := setupRouter(t, true)
	_, token := signupMerchant(t, r)

	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/auth/profile", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w, out := doJSON(t, r, http.MethodGet, "/api/v1/auth/profile", nil,
		map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
	data := out["data"].(map[string]interface{})
	assert.Equal(t, "acme@example.com", data["email"])
}

func TestPaymentFlowThroughHTTP(t *testing.T) {
	r := setupRouter(t, true)
	apiKey, _ := signupMerchant(t, r)
	auth := map[string]string{"X-API-Key": apiKey}

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 20000, "currency": "PKR", "order_id": "ORD-1",
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, true, out["success"])
	data := out["data"].(map[string]interface{})
	paymentID := data["payment_id"].(string)
	assert.Equal(t, "requires_payment_method", data["status"])

	w, out = doJSON(t, r, http.MethodPost, "/api/v1/test/confirm-visa", gin.H{
		"payment_id": paymentID,
	}, auth)
	require.Equal(t, http.StatusOK, w.Code)
	data = out["data"].(map[string]interface{})
	assert.Equal(t, "succeeded", data["status"])

	w, out = doJSON(t, r, http.MethodPost, "/api/v1/refunds/create", gin.H{
		"payment_id": paymentID,
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code)
	data = out["data"].(map[string]interface{})
	assert.Equal(t, float64(20000), data["amount"])
	assert.Equal(t, "succeeded", data["status"])
}

func TestListPaymentsInvalidPagingDefaults(t *testing.T) {
	r := setupRouter(t, true)
	apiKey, _ := signupMerchant(t, r)
	auth := map[string]string{"X-API-Key": apiKey}

	w, _ := doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 20000, "currency": "PKR", "order_id": "ORD-1",
	}, auth)
	require.Equal(t, http.StatusCreated, w.Code)

	for _, q := range []string{"limit=0", "page=-1&limit=abc", "page=0&limit=-5"} {
		w, out := doJSON(t, r, http.MethodGet, "/api/v1/payments/?"+q, nil, auth)
		require.Equal(t, http.StatusOK, w.Code, q)
		pg := out["pagination"].(map[string]interface{})
		assert.Equal(t, float64(1), pg["page"], q)
		assert.Equal(t, float64(10), pg["limit"], q)
		assert.Equal(t, float64(1), pg["total"], q)
		assert.Equal(t, float64(1), pg["pages"], q)
	}
}

func TestCreatePaymentValidation(t *testing.T) {
	r := setupRouter(t, true)
	apiKey, _ := signupMerchant(t, r)
	auth := map[string]string{"X-API-Key": apiKey}

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 100, "currency": "PKR", "order_id": "ORD-1",
	}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, false, out["success"])
	assert.Contains(t, out["hint"], "15000")

	w, out = doJSON(t, r, http.MethodPost, "/api/v1/payments/create", gin.H{
		"amount": 20000, "currency": "USD", "order_id": "ORD-1",
	}, auth)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, out["message"], "PKR")
}

func TestTestRoutesDisabled(t *testing.T) {
	r := setupRouter(t, false)
	apiKey, _ := signupMerchant(t, r)

	w, out := doJSON(t, r, http.MethodPost, "/api/v1/test/confirm-visa", gin.H{
		"payment_id": "ignored",
	}, map[string]string{"X-API-Key": apiKey})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "Test routes not available in production", out["message"])
}
