package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"marketplace/internal/config"
	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/usecase/auth"
)

func issueToken(t *testing.T, secret string, user *model.User) string {
	t.Helper()
	token, _, err := auth.NewJWTIssuer(secret, time.Hour).Issue(user, time.Now())
	require.NoError(t, err)
	return token
}

func runAuthed(t *testing.T, cfg config.Config, authz string, extra ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	}
	for i := len(extra) - 1; i >= 0; i-- {
		handler = extra[i](handler)
	}
	handler = middleware.AuthJWT(cfg)(handler)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authz != "" {
		req.Header.Set("Authorization", authz)
	}
	rec := httptest.NewRecorder()
	err := handler(e.NewContext(req, rec))
	require.NoError(t, err)
	return rec
}

func TestAuthJWT(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}
	user := &model.User{ID: 7, Role: model.RoleCustomer}

	t.Run("valid token passes", func(t *testing.T) {
		rec := runAuthed(t, cfg, "Bearer "+issueToken(t, cfg.JWTSecret, user))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing header", func(t *testing.T) {
		rec := runAuthed(t, cfg, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		rec := runAuthed(t, cfg, "Token abc")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		rec := runAuthed(t, cfg, "Bearer "+issueToken(t, "other-secret", user))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		token, _, err := auth.NewJWTIssuer(cfg.JWTSecret, time.Minute).
			Issue(user, time.Now().Add(-time.Hour))
		require.NoError(t, err)

		rec := runAuthed(t, cfg, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestMerchantGuard(t *testing.T) {
	cfg := config.Config{JWTSecret: "test-secret"}

	t.Run("merchant passes", func(t *testing.T) {
		token := issueToken(t, cfg.JWTSecret, &model.User{ID: 1, Role: model.RoleMerchant})
		rec := runAuthed(t, cfg, "Bearer "+token, middleware.MerchantGuard())
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("customer is rejected", func(t *testing.T) {
		token := issueToken(t, cfg.JWTSecret, &model.User{ID: 1, Role: model.RoleCustomer})
		rec := runAuthed(t, cfg, "Bearer "+token, middleware.MerchantGuard())
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
