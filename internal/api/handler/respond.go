package handler

import (
	"errors"
	"net/http"

	"starjar/internal/models"
	"starjar/internal/pkg/limiter"
	"starjar/internal/services"

	"github.com/labstack/echo/v4"
)

// respondData writes the single-item envelope; a service error becomes the
// error envelope with the mapped status.
func respondData[T any](c echo.Context, data *T, err error) error {
	if err != nil {
		return c.JSON(statusOf(err), models.NewEnvelopeError[T](err.Error()))
	}

	return c.JSON(http.StatusOK, models.NewEnvelope(data))
}

func respondList[T any](c echo.Context, data []T, err error) error {
	if err != nil {
		return c.JSON(statusOf(err), models.NewListEnvelopeError[T](err.Error()))
	}

	return c.JSON(http.StatusOK, models.NewListEnvelope(data))
}

func respondNoContent(c echo.Context, err error) error {
	return respondData[struct{}](c, nil, err)
}

// abort is for failures before a typed payload exists (authn, guards, binds).
func abort(c echo.Context, err error) error {
	return respondData[struct{}](c, nil, err)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, services.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrNotAuthenticated), errors.Is(err, services.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, services.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, limiter.ErrRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}
