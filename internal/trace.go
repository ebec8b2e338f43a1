package internal

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

const tracerName = "github.com/oscartbeaumont/async-web-client"

// Logging returns a middleware that emits one structured event per
// exchange: method, target, status or failure kind, and elapsed time.
// Body streaming happens after the event fires and is not covered by the
// recorded duration.
func Logging(log zerolog.Logger) Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *PreparedRequest) (*http.Response, error) {
			start := time.Now()
			resp, err := next(ctx, req)
			var ev *zerolog.Event
			if err != nil {
				ev = log.Err(err)
				if kind, ok := http.KindOf(err); ok {
					ev.Stringer("kind", kind)
				}
			} else {
				ev = log.Info().Int("status", resp.StatusCode)
			}
			ev.Str("method", req.Method).
				Str("url", req.U.Redacted()).
				Dur("elapsed", time.Since(start)).
				Msg("exchange")
			return resp, err
		}
	}
}

// Tracing returns a middleware that wraps each exchange in a client span,
// propagates the trace context on the wire and stamps every request with
// an id so server logs can be correlated.
func Tracing() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, req *PreparedRequest) (*http.Response, error) {
			tracer := otel.GetTracerProvider().Tracer(tracerName)
			ctx, span := tracer.Start(ctx, req.Method,
				trace.WithSpanKind(trace.SpanKindClient),
				trace.WithAttributes(
					attribute.String("http.request.method", req.Method),
					attribute.String("url.full", req.U.Redacted()),
					attribute.String("server.address", req.U.Hostname()),
				))
			defer span.End()

			if req.Header.Get("X-Request-Id") == "" {
				req.Header.Set("X-Request-Id", uuid.NewString())
			}
			otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

			resp, err := next(ctx, req)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				return nil, err
			}
			span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))
			if resp.StatusCode >= 400 {
				span.SetStatus(codes.Error, resp.Status)
			}
			return resp, nil
		}
	}
}
