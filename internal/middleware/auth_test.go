package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/treffchat/treffchat/internal/auth"
	"github.com/treffchat/treffchat/internal/middleware"
)

const testSecret = "test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.GET("/whoami", mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user_id": middleware.GetUserID(c)})
	})
	return r
}

func bearerFor(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	token, err := auth.GenerateToken(userID, "alice@example.com", testSecret, time.Hour)
	require.NoError(t, err)
	return "Bearer " + token
}

func TestAuthRejectsMissingAndMalformedHeaders(t *testing.T) {
	r := newRouter(middleware.Auth(testSecret))

	for _, header := range []string{"", "Token abc", "Bearer not.a.token"} {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthAcceptsValidToken(t *testing.T) {
	r := newRouter(middleware.Auth(testSecret))
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", bearerFor(t, userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), userID.String())
}

func TestAuthOptionalPassesAnonymousThrough(t *testing.T) {
	r := newRouter(middleware.AuthOptional(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), uuid.Nil.String())
}

func TestAuthOptionalResolvesValidToken(t *testing.T) {
	r := newRouter(middleware.AuthOptional(testSecret))
	userID := uuid.New()

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", bearerFor(t, userID))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), userID.String())
}

func TestAuthOptionalIgnoresBadToken(t *testing.T) {
	r := newRouter(middleware.AuthOptional(testSecret))

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer junk")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), uuid.Nil.String())
}
