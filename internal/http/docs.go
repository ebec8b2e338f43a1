// package http contains the request, response and body stream types, which
// are meant to be exported. the types mirror their net/http counterparts
// where the semantics overlap, so that code written against the standard
// library feels familiar here.
//
// the package also contains some type and value aliases from standard
// library to avoid annoying imports
package http

import (
	"net/http"
)

type Header = http.Header

// NoBody is an empty, already-terminated body stream. Reading it always
// reports io.EOF and closing it is a no-op. Transports substitute it for
// responses that are defined to carry no payload (HEAD, 1xx, 204, 304).
var NoBody = http.NoBody
