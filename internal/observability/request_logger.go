package observability

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"go.uber.org/zap"

	"github.com/myhome/myhome-service/internal/auth"
	apperrors "github.com/myhome/myhome-service/pkg/util/errorutil"
)

// RequestLogger logs every request once it has completed and feeds the request metrics.
// It runs after the authentication gate so the caller identity is known.
func RequestLogger(logger *zap.Logger, metrics *Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		latency := time.Since(start)

		status := c.Response().StatusCode()
		if err != nil {
			status = apperrors.ToDomainError(err).HTTPStatus
		}

		// Ctx strings alias fasthttp buffers reused by the next request; the
		// registry and the log sink both outlive this one.
		route := utils.CopyString(c.Route().Path)
		method := utils.CopyString(c.Method())
		metrics.RecordRequest(route, method, status, latency)

		fields := []zap.Field{
			zap.String("method", method),
			zap.String("path", utils.CopyString(c.Path())),
			zap.String("route", route),
			zap.Int("status", status),
			zap.Duration("latency", latency),
			zap.String("ip", c.IP()),
		}
		if principal, ok := auth.PrincipalFromContext(c); ok {
			fields = append(fields, zap.String("subject", principal.Subject))
		}
		logger.Info("request completed", fields...)
		return err
	}
}
