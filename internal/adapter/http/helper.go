package http

import (
	"errors"
	"log/slog"
	"net/http"

	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/authz"
	"lendingportal-backend/internal/usecase/scoring"

	mw "lendingportal-backend/internal/adapter/middleware"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// fieldErrorer is satisfied by usecase validation errors carrying a
// structured error list.
type fieldErrorer interface {
	error
	Fields() []scoring.FieldError
}

// respondError maps usecase errors onto the response policy: 400 with the
// structured list, 403 generic, 404 generic, everything else a generic 500
// with full detail kept server-side only.
func respondError(c echo.Context, log *slog.Logger, err error) error {
	var fe fieldErrorer
	switch {
	case errors.As(err, &fe):
		details := make([]FieldError, 0, len(fe.Fields()))
		for _, f := range fe.Fields() {
			details = append(details, FieldError{Field: f.Field, Message: f.Message})
		}
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "validation failed", Details: details})
	case errors.Is(err, authz.ErrForbidden):
		return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
	case errors.Is(err, gorm.ErrRecordNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: "not found"})
	default:
		log.Error("request failed", "path", c.Path(), "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}

func requestMeta(c echo.Context) auditlog.RequestMeta {
	return auditlog.RequestMeta{
		UserID:    mw.CallerID(c),
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
	}
}
