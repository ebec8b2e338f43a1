package webclient

import (
	"github.com/oscartbeaumont/async-web-client/internal/http"
)

type Header = http.Header
type Request = http.Request
type PreparedRequest = http.PreparedRequest
type Response = http.Response

// NoBody marks a request as deliberately bodyless. Requests carrying
// NoBody are written without any framing headers.
var NoBody = http.NoBody
