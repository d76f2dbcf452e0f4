package middleware

import (
	"fmt"
	"runtime"

	"go.uber.org/zap"

	"github.com/miladsoleymani/mqconnect/core"
)

// Recovery returns middleware that recovers from panics in handlers,
// logs the stack trace, and returns the panic as an error.
func Recovery(log *zap.Logger) core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					buf := make([]byte, 4096)
					n := runtime.Stack(buf, false)
					log.Error("panic recovered",
						zap.String("destination", c.Destination()),
						zap.Any("panic", r),
						zap.ByteString("stack", buf[:n]),
					)
					err = fmt.Errorf("mqconnect: panic recovered: %v", r)
				}
			}()
			return next(c)
		}
	}
}
