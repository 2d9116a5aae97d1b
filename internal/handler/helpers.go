package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"

	"marketplace/internal/domain/model"
	"marketplace/internal/middleware"
	"marketplace/internal/repository"
	"marketplace/internal/usecase"
	"marketplace/internal/usecase/auth"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps usecase error kinds to HTTP statuses. Anything unmapped is
// a 500 and gets logged.
func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}

	var insufficient *usecase.InsufficientStockError
	if errors.As(err, &insufficient) {
		return c.JSON(http.StatusConflict, ErrorResponse{Error: insufficient.Error()})
	}

	switch {
	case errors.Is(err, usecase.ErrUnauthorized):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, usecase.ErrNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	case errors.Is(err, usecase.ErrInvalidAttributes):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid attributes"})
	case errors.Is(err, usecase.ErrInvalidQuantity):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid quantity"})
	case errors.Is(err, usecase.ErrOutOfStock):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "out of stock"})
	case errors.Is(err, usecase.ErrNotAvailable):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "product not available"})
	case errors.Is(err, usecase.ErrEmptyCart):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "cart is empty"})
	case errors.Is(err, usecase.ErrInvalidTransition):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "invalid status transition"})
	case errors.Is(err, usecase.ErrStoreUnavailable):
		return c.JSON(http.StatusServiceUnavailable, ErrorResponse{Error: "store unavailable"})
	case errors.Is(err, auth.ErrUsernameTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "username already taken"})
	case errors.Is(err, auth.ErrEmailTaken):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: "email already registered"})
	case errors.Is(err, auth.ErrInvalidInput):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid input"})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "invalid credentials"})
	}

	log.Error().Err(err).Str("path", c.Path()).Msg("unhandled handler error")
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

// currentUser resolves the acting user stored in the context by AuthJWT.
func currentUser(c echo.Context, users repository.UserRepository) (model.User, bool) {
	rawID := c.Get(middleware.CtxUserIDKey)
	userID, ok := rawID.(int64)
	if !ok || userID <= 0 {
		return model.User{}, false
	}

	user, err := users.FindByID(c.Request().Context(), userID)
	if err != nil || user == nil {
		return model.User{}, false
	}
	return *user, true
}
