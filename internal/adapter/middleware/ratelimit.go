package middleware

import (
	"log/slog"
	"net/http"
	"strconv"

	"lendingportal-backend/internal/config"
	"lendingportal-backend/internal/domain/audit"
	"lendingportal-backend/internal/usecase/auditlog"
	"lendingportal-backend/internal/usecase/limiter"
	"lendingportal-backend/pkg/id"

	"github.com/labstack/echo/v4"
)

// RateLimit gates one endpoint with its fixed budget. The identifier is the
// authenticated user id when available, otherwise a hashed client IP.
// Rejections emit a RATE_LIMIT_EXCEEDED audit entry and a Retry-After hint.
func RateLimit(uc *limiter.Usecase, auditor *auditlog.Recorder, log *slog.Logger, endpoint string, b config.Budget) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			identifier := CallerID(c)
			if identifier == "" {
				identifier = "ip:" + id.HashIdentifier(c.RealIP())
			}

			res := uc.Check(c.Request().Context(), identifier, endpoint, b.MaxRequests, b.Window)

			h := c.Response().Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(b.MaxRequests))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(res.RemainingRequests))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if res.Allowed {
				return next(c)
			}

			retryAfter := int(res.RetryAfter.Seconds())
			if retryAfter < 1 {
				retryAfter = 1
			}
			h.Set("Retry-After", strconv.Itoa(retryAfter))

			meta := auditlog.RequestMeta{
				UserID:    CallerID(c),
				IP:        c.RealIP(),
				UserAgent: c.Request().UserAgent(),
			}
			if err := auditor.Record(c.Request().Context(), meta, audit.ActionRateLimitExceeded, "endpoint", endpoint, map[string]any{
				"current_count": res.CurrentCount,
				"limit":         b.MaxRequests,
			}); err != nil {
				log.Error("rate limit audit write failed", "endpoint", endpoint, "error", err)
			}

			return c.JSON(http.StatusTooManyRequests, map[string]any{
				"error":       "too many requests",
				"retry_after": retryAfter,
			})
		}
	}
}
