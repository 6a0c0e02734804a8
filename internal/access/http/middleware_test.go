package http

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accessDomain "github.com/empirehq/trustcore/internal/access/domain"
)

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// newActorRouter builds a router with ActorMiddleware and a probe route that
// echoes the actor stored in the context.
func newActorRouter(extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)

	router := gin.New()
	handlers := append([]gin.HandlerFunc{ActorMiddleware(newTestLogger())}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		role, _ := GetActorRole(c.Request.Context())
		c.JSON(http.StatusOK, gin.H{"role": role.String()})
	})
	router.GET("/probe", handlers...)
	return router
}

func performRequest(t *testing.T, router *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	request := httptest.NewRequest(http.MethodGet, "/probe", nil)
	for key, value := range headers {
		request.Header.Set(key, value)
	}

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func TestActorMiddleware(t *testing.T) {
	tests := []struct {
		name           string
		headers        map[string]string
		expectedStatus int
		expectedBody   string
	}{
		{
			name:           "valid role",
			headers:        map[string]string{ActorRoleHeader: "operator"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"operator"`,
		},
		{
			name:           "role is case insensitive",
			headers:        map[string]string{ActorRoleHeader: "ADMIN"},
			expectedStatus: http.StatusOK,
			expectedBody:   `"admin"`,
		},
		{
			name:           "missing role header",
			headers:        map[string]string{},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
		{
			name:           "unknown role fails closed",
			headers:        map[string]string{ActorRoleHeader: "superuser"},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "unauthorized",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newActorRouter()
			recorder := performRequest(t, router, tt.headers)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
			assert.Contains(t, recorder.Body.String(), tt.expectedBody)
		})
	}
}

func TestActorMiddleware_ParsesGrants(t *testing.T) {
	gin.SetMode(gin.TestMode)

	var captured []string
	router := gin.New()
	router.GET("/probe", ActorMiddleware(newTestLogger()), func(c *gin.Context) {
		captured, _ = GetActorGrants(c.Request.Context())
		c.Status(http.StatusOK)
	})

	recorder := performRequest(t, router, map[string]string{
		ActorRoleHeader:   "admin",
		ActorGrantsHeader: "cache:clear, reports:*",
	})

	require.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, []string{"cache:clear", "reports:*"}, captured)
}

func TestRequireRole(t *testing.T) {
	guard := accessDomain.GuardSpec{
		Required:    accessDomain.RoleAdmin,
		AuditAction: "cache_clear",
	}

	tests := []struct {
		name           string
		role           string
		expectedStatus int
	}{
		{
			name:           "sufficient role",
			role:           "admin",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "higher role",
			role:           "root",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "insufficient role",
			role:           "operator",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newActorRouter(RequireRole(guard, newTestLogger()))
			recorder := performRequest(t, router, map[string]string{ActorRoleHeader: tt.role})

			assert.Equal(t, tt.expectedStatus, recorder.Code)
		})
	}
}

func TestRequireRole_DenialCarriesGuardStructure(t *testing.T) {
	guard := accessDomain.GuardSpec{
		Required:    accessDomain.RoleAdmin,
		AuditAction: "cache_clear",
	}

	router := newActorRouter(RequireRole(guard, newTestLogger()))
	recorder := performRequest(t, router, map[string]string{ActorRoleHeader: "viewer"})

	require.Equal(t, http.StatusForbidden, recorder.Code)

	body := recorder.Body.String()
	assert.Contains(t, body, `"required_role":"admin"`)
	assert.Contains(t, body, `"actual_role":"viewer"`)
	assert.Contains(t, body, `"audit_action":"cache_clear"`)
}

func TestRequireRole_WithoutActorMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	guard := accessDomain.GuardSpec{Required: accessDomain.RoleViewer}
	router := gin.New()
	router.GET("/probe", RequireRole(guard, newTestLogger()), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	recorder := performRequest(t, router, map[string]string{ActorRoleHeader: "admin"})
	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
}

func TestRequirePermission(t *testing.T) {
	perm := accessDomain.Permission{Resource: "cache", Action: "clear"}

	tests := []struct {
		name           string
		grants         string
		expectedStatus int
	}{
		{
			name:           "exact grant",
			grants:         "cache:clear",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "wildcard action",
			grants:         "cache:*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "full wildcard",
			grants:         "*:*",
			expectedStatus: http.StatusOK,
		},
		{
			name:           "unrelated grant",
			grants:         "reports:read",
			expectedStatus: http.StatusForbidden,
		},
		{
			name:           "no grants header",
			grants:         "",
			expectedStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newActorRouter(RequirePermission(perm, newTestLogger()))

			headers := map[string]string{ActorRoleHeader: "admin"}
			if tt.grants != "" {
				headers[ActorGrantsHeader] = tt.grants
			}
			recorder := performRequest(t, router, headers)

			assert.Equal(t, tt.expectedStatus, recorder.Code)
		})
	}
}
