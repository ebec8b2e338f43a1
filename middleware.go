package webclient

import (
	"github.com/rs/zerolog"

	"github.com/oscartbeaumont/async-web-client/internal"
)

// Logging returns a middleware that writes one structured line per
// exchange, carrying the method, redacted URL, elapsed time and either
// the status code or the failure kind.
func Logging(log zerolog.Logger) Middleware { return internal.Logging(log) }

// Tracing returns a middleware that opens a client span per exchange,
// stamps an X-Request-Id header when absent and injects the active trace
// context into the outgoing headers.
func Tracing() Middleware { return internal.Tracing() }
