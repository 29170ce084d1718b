package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medora-health/emr-admin-api/internal/model"
	"github.com/medora-health/emr-admin-api/pkg/access"
	"github.com/medora-health/emr-admin-api/pkg/auth"
)

type fakePermissionSource struct {
	sets  map[uuid.UUID]access.PermissionSet
	calls int
}

func (f *fakePermissionSource) GetPermissionSet(_ context.Context, roleID uuid.UUID) (access.PermissionSet, error) {
	f.calls++
	return f.sets[roleID], nil
}

func setupRouter(t *testing.T, source *fakePermissionSource, req access.Requirement) (*gin.Engine, auth.JWTService) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	jwtSvc := auth.NewJWTService(auth.Config{Secret: "test-secret", RefreshSecret: "test-refresh"})
	m := NewAuthMiddleware(jwtSvc, source, access.NewResolver(model.UserTypeSuperAdmin))

	engine := gin.New()
	engine.GET("/protected", m.Authenticate(), m.RequireAccess(req), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return engine, jwtSvc
}

func doRequest(engine *gin.Engine, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestAuthenticateRejectsBadTokens(t *testing.T) {
	source := &fakePermissionSource{}
	engine, _ := setupRouter(t, source, access.Require(model.ModulePatients, model.OperationRead))

	w := doRequest(engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(engine, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Basic abc")
	w = httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRequireAccessGrantsMatchingRole(t *testing.T) {
	roleID := uuid.New()
	source := &fakePermissionSource{sets: map[uuid.UUID]access.PermissionSet{
		roleID: {{Module: model.ModulePatients, Operation: model.OperationRead}},
	}}
	engine, jwtSvc := setupRouter(t, source, access.Require(model.ModulePatients, model.OperationRead))

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "staff@clinic.test", model.UserTypeStaff, nil, &roleID)
	require.NoError(t, err)

	w := doRequest(engine, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireAccessDeniesMissingGrant(t *testing.T) {
	roleID := uuid.New()
	source := &fakePermissionSource{sets: map[uuid.UUID]access.PermissionSet{
		roleID: {{Module: model.ModulePatients, Operation: model.OperationRead}},
	}}
	engine, jwtSvc := setupRouter(t, source, access.Require(model.ModulePatients, model.OperationDelete))

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "staff@clinic.test", model.UserTypeStaff, nil, &roleID)
	require.NoError(t, err)

	w := doRequest(engine, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireAccessDeniesRolelessUser(t *testing.T) {
	source := &fakePermissionSource{}
	engine, jwtSvc := setupRouter(t, source, access.Require(model.ModulePatients, model.OperationRead))

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "staff@clinic.test", model.UserTypeStaff, nil, nil)
	require.NoError(t, err)

	w := doRequest(engine, token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Zero(t, source.calls)
}

func TestRequireAccessBypassesSuperAdmin(t *testing.T) {
	source := &fakePermissionSource{}
	engine, jwtSvc := setupRouter(t, source, access.Require(model.ModuleAccess, model.OperationDelete))

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "root@clinic.test", model.UserTypeSuperAdmin, nil, nil)
	require.NoError(t, err)

	w := doRequest(engine, token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestPermissionSetCached(t *testing.T) {
	roleID := uuid.New()
	source := &fakePermissionSource{sets: map[uuid.UUID]access.PermissionSet{
		roleID: {{Module: model.ModulePatients, Operation: model.OperationRead}},
	}}
	engine, jwtSvc := setupRouter(t, source, access.Require(model.ModulePatients, model.OperationRead))

	token, err := jwtSvc.GenerateAccessToken(uuid.New(), "staff@clinic.test", model.UserTypeStaff, nil, &roleID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		w := doRequest(engine, token)
		require.Equal(t, http.StatusOK, w.Code)
	}
	assert.Equal(t, 1, source.calls)
}
