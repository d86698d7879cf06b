package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"timeclock/internal/model"
)

func init() { gin.SetMode(gin.TestMode) }

func newRouter(s *Signer) *gin.Engine {
	r := gin.New()
	r.GET("/me", JWTAuth(s), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"uid": UserID(c), "name": c.GetString(CtxUserName)})
	})
	r.GET("/admin", JWTAuth(s), AdminOnly(), func(c *gin.Context) {
		c.Status(http.StatusNoContent)
	})
	return r
}

func get(r http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuth(t *testing.T) {
	s := NewSigner("secret", 8*time.Hour)
	r := newRouter(s)

	worker, err := s.Issue(5, "Ana", model.CategoryWorker)
	require.NoError(t, err)
	admin, err := s.Issue(1, "Root", model.CategoryAdministrator)
	require.NoError(t, err)
	forged, err := NewSigner("other", time.Hour).Issue(1, "Root", model.CategoryAdministrator)
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		token  string
		status int
	}{
		{"no token", "/me", "", http.StatusUnauthorized},
		{"garbage", "/me", "abc", http.StatusUnauthorized},
		{"wrong secret", "/me", forged, http.StatusUnauthorized},
		{"worker", "/me", worker, http.StatusOK},
		{"worker on admin route", "/admin", worker, http.StatusForbidden},
		{"admin on admin route", "/admin", admin, http.StatusNoContent},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(r, tt.path, tt.token)
			assert.Equal(t, tt.status, w.Code)
		})
	}

	w := get(r, "/me", worker)
	assert.JSONEq(t, `{"uid":5,"name":"Ana"}`, w.Body.String())
	assert.Empty(t, w.Header().Get("X-New-Token"))
}

func TestJWTAuth_Renewal(t *testing.T) {
	issued := time.Now()
	s := NewSigner("secret", 8*time.Hour)
	s.Now = func() time.Time { return issued }
	token, err := s.Issue(5, "Ana", model.CategoryWorker)
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(7 * time.Hour) }
	w := get(newRouter(s), "/me", token)
	require.Equal(t, http.StatusOK, w.Code)

	renewed := w.Header().Get("X-New-Token")
	require.NotEmpty(t, renewed)
	claims, err := s.Parse(renewed)
	require.NoError(t, err)
	assert.Equal(t, 5, claims.UserID)
	assert.Equal(t, model.CategoryWorker, claims.Role)
	assert.True(t, claims.Expiry.After(issued.Add(14*time.Hour)))
}

func TestJWTAuth_Expired(t *testing.T) {
	issued := time.Now()
	s := NewSigner("secret", time.Hour)
	s.Now = func() time.Time { return issued }
	token, err := s.Issue(5, "Ana", model.CategoryWorker)
	require.NoError(t, err)

	s.Now = func() time.Time { return issued.Add(2 * time.Hour) }
	assert.Equal(t, http.StatusUnauthorized, get(newRouter(s), "/me", token).Code)
}
