// Package throttle provides a client middleware that rate limits
// outbound requests with a token bucket from [golang.org/x/time/rate].
//
// Wrap a client with [New]:
//
//	mw, err := throttle.New(10, 5) // 10 requests per second, bursts of 5
//	cl := &webclient.Client{}
//	cl.Use(mw)
//
// When the bucket is empty, requests block until a token becomes
// available or their context ends.
package throttle

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/oscartbeaumont/async-web-client/internal"
	"github.com/oscartbeaumont/async-web-client/internal/http"
)

// ErrMustNotBeZero rejects non-positive rate or burst configuration.
var ErrMustNotBeZero = errors.New("must be greater than zero")

// New returns a middleware limiting the client to rps requests per second
// with the given burst capacity.
func New(rps float64, burst int) (internal.Middleware, error) {
	return NewWithLogger(zerolog.Nop(), rps, burst)
}

// NewWithLogger is [New] with a logger that records exhaustion and how
// long requests waited for a token.
func NewWithLogger(log zerolog.Logger, rps float64, burst int) (internal.Middleware, error) {
	if rps <= 0 || burst <= 0 {
		return nil, fmt.Errorf("rps[%v] and burst[%d] %w", rps, burst, ErrMustNotBeZero)
	}
	lim := rate.NewLimiter(rate.Limit(rps), burst)

	return func(next internal.Handler) internal.Handler {
		return func(ctx context.Context, req *http.PreparedRequest) (*http.Response, error) {
			// Tokens is advisory, it only decides whether the wait is
			// worth logging. Wait does the actual accounting.
			if lim.Tokens() < 1 {
				log.Debug().Float64("rps", rps).Int("burst", burst).
					Str("url", req.U.Redacted()).Msg("throttle tokens exhausted")
				start := time.Now()
				defer func() {
					log.Debug().Dur("waited", time.Since(start)).Msg("throttle wait complete")
				}()
			}
			// Wait only fails for context reasons: cancellation, an
			// expired deadline, or a deadline too near to ever get a
			// token. All of those are abandonment from the caller side.
			if err := lim.Wait(ctx); err != nil {
				return nil, http.NewError(http.KindCancelled, "throttle", err)
			}
			return next(ctx, req)
		}
	}, nil
}
