// package transport contains implementations to requirements on *message syntaxes*
// defined by http related RFCs, plus the two exchange engines built on them.
//
// as of 2022.06, RFCs that were to define HTTP/1.1 (RFC753x) are obsoleted by:
//
//	HTTP Semantics (RFC9110)
//	HTTP Caching (RFC9111) and
//	HTTP/1.1 (RFC9112)
//
// net/http components are reused on the "semantics" part ([net/http.Header],
// [net/url.URL], etc.)
//
// Two transports share one response model. [Socket] frames HTTP/1.1 over a
// dialed connection; [Fetch] hands the whole exchange to a host capability
// and adapts its signals. Both surface failures through the same closed
// kind set, so callers cannot tell the backend apart from error shapes.
package transport
