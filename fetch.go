package webclient

import (
	"github.com/oscartbeaumont/async-web-client/internal/transport/fetch"
)

// FetchCapability is the interface a host environment implements on
// platforms where the process cannot open sockets. The host owns
// connections, TLS and message framing; the client hands it a
// [FetchRequest] and receives status, headers and an opaque chunk source
// back.
type FetchCapability = fetch.Capability

// FetchRequest is the call shape handed to the host capability.
type FetchRequest = fetch.Request

// FetchResponse is the host's response-started signal. Once it exists the
// header phase of the exchange is complete.
type FetchResponse = fetch.Response

// FetchSource is the host's incremental response payload producer.
type FetchSource = fetch.Source

// ErrFetchConnect wraps host failures to reach the origin at all, so they
// classify as [KindConnect] like socket dial failures do.
var ErrFetchConnect = fetch.ErrConnect

// RegisterFetchCapability installs the process-wide host capability used
// by the fetch transport. Platform glue calls it once at startup.
func RegisterFetchCapability(c FetchCapability) { fetch.SetDefault(c) }
