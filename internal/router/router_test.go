// internal/router/router_test.go
package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/pimstack/pim-backend/internal/config"
	"github.com/pimstack/pim-backend/internal/database"
	"github.com/pimstack/pim-backend/internal/models"
	"github.com/pimstack/pim-backend/internal/utils"
)

type testEnv struct {
	router *gin.Engine
	db     *gorm.DB
	token  string
	cfg    *config.Config
}

type testEnvelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Code    int             `json:"code"`
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	utils.SetJWTSecret("test-secret")

	dir := t.TempDir()
	cfg := &config.Config{
		Environment: "test",
		Server: config.ServerConfig{
			Port:      "0",
			PublicDir: filepath.Join(dir, "public"),
		},
		Database: config.DatabaseConfig{
			Type:         "sqlite",
			SQLitePath:   filepath.Join(dir, "test.sqlite"),
			QueryTimeout: 10,
		},
		JWT: config.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenTTL: 1,
		},
		Storage: config.StorageConfig{
			Driver:    "local",
			UploadDir: filepath.Join(dir, "uploads"),
		},
	}

	db, err := gorm.Open(sqlite.Open(cfg.Database.SQLitePath+"?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.RunMigrations(db))

	admin := &models.User{Username: "admin", Role: models.UserRoleAdmin}
	require.NoError(t, admin.SetPassword("admin"))
	require.NoError(t, db.Create(admin).Error)

	r, err := SetupRouter(db, cfg)
	require.NoError(t, err)

	token, err := utils.GenerateJWT(admin.ID, admin.Username, string(admin.Role), 1)
	require.NoError(t, err)

	return &testEnv{router: r, db: db, token: token, cfg: cfg}
}

func (e *testEnv) request(t *testing.T, method, path string, body interface{}, authed bool) (*httptest.ResponseRecorder, *testEnvelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if authed {
		req.Header.Set("Authorization", "Bearer "+e.token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	var env testEnvelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), "body: %s", w.Body.String())
	}
	return w, &env
}

func TestProductLifecycleScenario(t *testing.T) {
	env := setupTestEnv(t)

	// Create a minimal product.
	w, env1 := env.request(t, http.MethodPost, "/api/products",
		map[string]string{"model": "X1", "sku": "SP-1"}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	require.True(t, env1.Success)

	var product models.Product
	require.NoError(t, json.Unmarshal(env1.Data, &product))
	assert.Equal(t, 11, product.Completion)

	// One package content row lifts the score.
	w, _ = env.request(t, http.MethodPost,
		fmt.Sprintf("/api/products/%d/package-contents", product.ID),
		map[string]string{"item": "USB cable"}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envC := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/products/%d/completion", product.ID), nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var completionView struct {
		ProductID  uint `json:"product_id"`
		Completion int  `json:"completion"`
	}
	require.NoError(t, json.Unmarshal(envC.Data, &completionView))
	assert.Equal(t, 17, completionView.Completion)

	// Delete, then the product is gone.
	w, envD := env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/products/%d", product.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	var deleted struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(envD.Data, &deleted))
	assert.Equal(t, product.ID, deleted.ID)

	w, envG := env.request(t, http.MethodGet,
		fmt.Sprintf("/api/products/%d", product.ID), nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.False(t, envG.Success)
	assert.Equal(t, http.StatusNotFound, envG.Code)
	assert.NotEmpty(t, envG.Message)
}

func TestMutationsRequireAuth(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodPost, "/api/products",
		map[string]string{"model": "X1", "sku": "SP-1"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, envBody.Success)
	assert.Equal(t, http.StatusUnauthorized, envBody.Code)

	// Reads stay open.
	w, _ = env.request(t, http.MethodGet, "/api/products", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "wrong"}, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, envBody.Success)

	w, envBody = env.request(t, http.MethodPost, "/api/auth/login",
		map[string]string{"username": "admin", "password": "admin"}, false)
	require.Equal(t, http.StatusOK, w.Code)
	require.True(t, envBody.Success)

	var login struct {
		Token string       `json:"token"`
		User  *models.User `json:"user"`
	}
	require.NoError(t, json.Unmarshal(envBody.Data, &login))
	assert.NotEmpty(t, login.Token)
	require.NotNil(t, login.User)
	assert.Equal(t, "admin", login.User.Username)
}

func TestLogoutEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodPost, "/api/auth/logout", nil, false)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.False(t, envBody.Success)

	w, envBody = env.request(t, http.MethodPost, "/api/auth/logout", nil, true)
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, envBody.Success)
	assert.Equal(t, "Logout successful", envBody.Message)
}

func TestCatalogMutationsRequireAdmin(t *testing.T) {
	env := setupTestEnv(t)

	editorToken, err := utils.GenerateJWT(2, "editor", string(models.UserRoleEditor), 1)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/categories",
		bytes.NewReader([]byte(`{"name":"Gateways"}`)))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+editorToken)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	var envBody testEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envBody))
	assert.False(t, envBody.Success)
	assert.Equal(t, "Admin access required", envBody.Message)

	// The admin token still passes.
	w2, env2 := env.request(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "Gateways"}, true)
	assert.Equal(t, http.StatusCreated, w2.Code)
	assert.True(t, env2.Success)
}

func TestSearchRouteAndWildcard(t *testing.T) {
	env := setupTestEnv(t)

	for _, p := range []map[string]string{
		{"model": "Smartphone X1", "sku": "SP-X1-001"},
		{"model": "Router R5", "sku": "RT-R5-002"},
	} {
		w, _ := env.request(t, http.MethodPost, "/api/products", p, true)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w, envBody := env.request(t, http.MethodGet, "/api/products/search/router", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var results []models.Product
	require.NoError(t, json.Unmarshal(envBody.Data, &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Router R5", results[0].Model)

	// The wildcard returns the same set and order as the plain list.
	w, envList := env.request(t, http.MethodGet, "/api/products", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	w, envStar := env.request(t, http.MethodGet, "/api/products/search/*", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, string(envList.Data), string(envStar.Data))
}

func TestSKUConflictOverHTTP(t *testing.T) {
	env := setupTestEnv(t)

	w, _ := env.request(t, http.MethodPost, "/api/products",
		map[string]string{"model": "X1", "sku": "SP-1"}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	w, envBody := env.request(t, http.MethodPost, "/api/products",
		map[string]string{"model": "X2", "sku": "SP-1"}, true)
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, envBody.Success)
	assert.Equal(t, http.StatusConflict, envBody.Code)
}

func TestMethodNotAllowedEnvelope(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodPatch, "/api/products", nil, true)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	assert.False(t, envBody.Success)
	assert.Equal(t, http.StatusMethodNotAllowed, envBody.Code)
}

func TestStaticOrNotFound(t *testing.T) {
	env := setupTestEnv(t)

	require.NoError(t, os.MkdirAll(env.cfg.Server.PublicDir, 0o755))
	require.NoError(t, os.WriteFile(
		filepath.Join(env.cfg.Server.PublicDir, "index.html"),
		[]byte("<html>pim</html>"), 0o644))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "pim")

	// Unknown non-API path answers with the envelope.
	w2, envBody := env.request(t, http.MethodGet, "/no-such-page", nil, false)
	assert.Equal(t, http.StatusNotFound, w2.Code)
	assert.False(t, envBody.Success)

	// Unknown API path too.
	w3, envAPI := env.request(t, http.MethodGet, "/api/no-such-entity", nil, false)
	assert.Equal(t, http.StatusNotFound, w3.Code)
	assert.False(t, envAPI.Success)
}

func TestCatalogEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodPost, "/api/categories",
		map[string]string{"name": "Smartphones"}, true)
	require.Equal(t, http.StatusCreated, w.Code)

	var category models.Category
	require.NoError(t, json.Unmarshal(envBody.Data, &category))
	require.NotZero(t, category.ID)

	w, envList := env.request(t, http.MethodGet, "/api/categories", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var categories []models.Category
	require.NoError(t, json.Unmarshal(envList.Data, &categories))
	assert.Len(t, categories, 1)

	w, _ = env.request(t, http.MethodDelete,
		fmt.Sprintf("/api/categories/%d", category.ID), nil, true)
	require.Equal(t, http.StatusOK, w.Code)

	w, _ = env.request(t, http.MethodGet,
		fmt.Sprintf("/api/categories/%d", category.ID), nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSystemEndpoints(t *testing.T) {
	env := setupTestEnv(t)

	w, envBody := env.request(t, http.MethodGet, "/api/system/status", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var status struct {
		Status   string `json:"status"`
		Database string `json:"database"`
	}
	require.NoError(t, json.Unmarshal(envBody.Data, &status))
	assert.Equal(t, "ok", status.Status)
	assert.Equal(t, "sqlite", status.Database)

	w, envVer := env.request(t, http.MethodGet, "/api/system/version", nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var version struct {
		Name    string `json:"name"`
		Version string `json:"version"`
	}
	require.NoError(t, json.Unmarshal(envVer.Data, &version))
	assert.Equal(t, "PIM System API", version.Name)
	assert.Equal(t, "1.0.0", version.Version)
}

func TestSapInventoryStub(t *testing.T) {
	env := setupTestEnv(t)

	w, _ := env.request(t, http.MethodGet, "/api/sap/inventory/999", nil, false)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w, envBody := env.request(t, http.MethodPost, "/api/products",
		map[string]string{"model": "X1", "sku": "SP-1"}, true)
	require.Equal(t, http.StatusCreated, w.Code)
	var product models.Product
	require.NoError(t, json.Unmarshal(envBody.Data, &product))

	path := fmt.Sprintf("/api/sap/inventory/%d", product.ID)
	w, envInv := env.request(t, http.MethodGet, path, nil, false)
	require.Equal(t, http.StatusOK, w.Code)

	var first struct {
		Quantity int    `json:"quantity"`
		Location string `json:"location"`
	}
	require.NoError(t, json.Unmarshal(envInv.Data, &first))
	assert.Greater(t, first.Quantity, 0)
	assert.NotEmpty(t, first.Location)

	// Simulated data is stable across calls.
	w, envAgain := env.request(t, http.MethodGet, path, nil, false)
	require.Equal(t, http.StatusOK, w.Code)
	var second struct {
		Quantity int    `json:"quantity"`
		Location string `json:"location"`
	}
	require.NoError(t, json.Unmarshal(envAgain.Data, &second))
	assert.Equal(t, first.Quantity, second.Quantity)
	assert.Equal(t, first.Location, second.Location)
}
