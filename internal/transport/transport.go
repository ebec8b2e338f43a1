package transport

import (
	"context"

	"github.com/oscartbeaumont/async-web-client/internal/http"
)

// Transport performs one request/response exchange. Implementations own
// connection establishment and message framing end to end. The header
// phase either completes or fails before RoundTrip returns; the response
// body streams afterwards and owns the underlying resource until it
// terminates or is closed.
type Transport interface {
	RoundTrip(ctx context.Context, r *http.PreparedRequest) (*http.Response, error)
}
