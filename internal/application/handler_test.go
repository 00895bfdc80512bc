// File: internal/application/handler_test.go
package application

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"castlecare_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// stubAuth injects an identity the way the real auth middleware would.
func stubAuth(userID, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID != "" {
			c.Set(common.ExternalUserIDKey, userID)
			c.Set(common.UserRoleKey, role)
		}
		c.Next()
	}
}

func newTestRouter(t *testing.T, userID, role string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc, _ := newTestService(t, false)
	handler := NewHandler(svc, zap.NewNop())

	router := gin.New()
	v1 := router.Group("/api/v1")
	handler.RegisterRoutes(v1, stubAuth(userID, role))
	return router
}

const submitBody = `{
	"account": {"plan": "free"},
	"contact": {"username": "handyman42", "firstName": "Jordan", "lastName": "Reyes",
		"city": "Austin", "state": "TX", "zip": "78701",
		"email": "jordan@example.com", "phone": "5125550142", "dateOfBirth": "1990-03-20"},
	"roles": {"onDemand": ["lawncare"], "warehouse": []}
}`

func TestSubmitEndpoint(t *testing.T) {
	router := newTestRouter(t, "uid-1", common.RoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submitBody))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Application submitted successfully", body["message"])
	assert.True(t, strings.HasPrefix(body["applicationId"], "app-"))
}

func TestSubmitEndpointMissingSections(t *testing.T) {
	router := newTestRouter(t, "uid-1", common.RoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications",
		strings.NewReader(`{"account": {"plan": "free"}}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Missing required fields", body["error"])
}

func TestSubmitEndpointUnauthenticated(t *testing.T) {
	router := newTestRouter(t, "", "")

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submitBody))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Unauthorized", body["error"])
}

func TestGetApplicationEndpoint(t *testing.T) {
	router := newTestRouter(t, "uid-1", common.RoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submitBody))
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications/uid-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var app SubmittedApplication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &app))
	assert.Equal(t, "uid-1", app.ExternalUserID)
	assert.Equal(t, "Jordan", app.Contact.FirstName)
	assert.Equal(t, StatusPending, app.Status)
}

func TestGetApplicationNotFound(t *testing.T) {
	router := newTestRouter(t, "uid-1", common.RoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/uid-1", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusNotFound, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Application not found", body["error"])
}

func TestGetApplicationDeniesOtherUsers(t *testing.T) {
	router := newTestRouter(t, "uid-1", common.RoleWorker)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/applications/uid-2", nil)
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetApplicationAdminCanReadAny(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc, _ := newTestService(t, false)
	handler := NewHandler(svc, zap.NewNop())

	// Seed through the worker's own router, read through the admin's.
	workerRouter := gin.New()
	handler.RegisterRoutes(workerRouter.Group("/api/v1"), stubAuth("uid-1", common.RoleWorker))
	adminRouter := gin.New()
	handler.RegisterRoutes(adminRouter.Group("/api/v1"), stubAuth("admin-9", common.RoleAdmin))

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", strings.NewReader(submitBody))
	workerRouter.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/v1/applications/uid-1", nil)
	adminRouter.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
}
