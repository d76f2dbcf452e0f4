package middleware

import (
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/miladsoleymani/mqconnect/core"
)

// Tracing returns middleware that wraps each message in a consumer span.
func Tracing(tracer trace.Tracer) core.MiddlewareFunc {
	return func(next core.HandlerFunc) core.HandlerFunc {
		return func(c core.Context) error {
			attrs := []attribute.KeyValue{
				attribute.String("messaging.destination.name", c.Destination()),
			}
			if id := c.Header(core.HeaderMessageID); id != "" {
				attrs = append(attrs, attribute.String("messaging.message.id", id))
			}
			if id := c.Header(core.HeaderCorrelationID); id != "" {
				attrs = append(attrs, attribute.String("messaging.message.conversation_id", id))
			}

			ctx, span := tracer.Start(c.Context(), "consume "+c.Destination(),
				trace.WithSpanKind(trace.SpanKindConsumer),
				trace.WithAttributes(attrs...),
			)
			defer span.End()
			c.SetContext(ctx)

			err := next(c)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}
