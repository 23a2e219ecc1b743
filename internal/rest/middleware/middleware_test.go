package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Guyuepp/knowledge-base/domain"
	"github.com/Guyuepp/knowledge-base/internal/auth"
	"github.com/Guyuepp/knowledge-base/internal/rest/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newEngine(tokens *auth.TokenManager) *gin.Engine {
	r := gin.New()
	echo := func(c *gin.Context) {
		actor, ok := middleware.ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"ok": ok, "id": actor.UserID})
	}
	r.GET("/private", middleware.Auth(tokens), echo)
	r.GET("/public", middleware.OptionalAuth(tokens), echo)
	r.GET("/managers", middleware.Auth(tokens), middleware.RequireManager(), echo)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestAuth(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, "kb")
	r := newEngine(tokens)
	token, err := tokens.Issue(domain.User{ID: 5, Role: domain.RoleEmployee, DepartmentID: 1})
	require.NoError(t, err)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/private", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec = do(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":true,"id":5}`, rec.Body.String())

	rec = do(r, httptest.NewRequest(http.MethodGet, "/private?access_token="+token, nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestOptionalAuth(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, "kb")
	r := newEngine(tokens)

	rec := do(r, httptest.NewRequest(http.MethodGet, "/public", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"ok":false,"id":0}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/public", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	rec = do(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireManager(t *testing.T) {
	tokens := auth.NewTokenManager([]byte("secret"), time.Hour, "kb")
	r := newEngine(tokens)

	employee, err := tokens.Issue(domain.User{ID: 1, Role: domain.RoleEmployee, DepartmentID: 1})
	require.NoError(t, err)
	manager, err := tokens.Issue(domain.User{ID: 2, Role: domain.RoleManager, DepartmentID: 1})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/managers", nil)
	req.Header.Set("Authorization", "Bearer "+employee)
	assert.Equal(t, http.StatusForbidden, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/managers", nil)
	req.Header.Set("Authorization", "Bearer "+manager)
	assert.Equal(t, http.StatusOK, do(r, req).Code)
}

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS([]string{"http://localhost:3000"}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/x", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	rec := do(r, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set("Origin", "http://evil.example")
	rec = do(r, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
