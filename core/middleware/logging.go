package middleware

import (
	"time"

	"go.uber.org/zap"

	"github.com/miladsoleymani/mqconnect/core"
)

// Logging returns middleware that logs message processing duration and errors.
func Logging(log *zap.Logger) core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) error {
			start := time.Now()
			err := next(c)

			fields := []zap.Field{
				zap.String("service", c.Service()),
				zap.String("destination", c.Destination()),
				zap.ByteString("key", c.Key()),
				zap.Duration("elapsed", time.Since(start)),
			}
			if id := c.Header(core.HeaderMessageID); id != "" {
				fields = append(fields, zap.String("message_id", id))
			}
			if err != nil {
				log.Error("message failed", append(fields, zap.Error(err))...)
			} else {
				log.Debug("message processed", fields...)
			}
			return err
		}
	}
}
