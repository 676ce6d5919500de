package client

import (
	"net/http"
	"sync"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

// Response is the outcome of one executed request: the transport-level reply
// regardless of HTTP status code. It is immutable and owned by the caller
// that issued the request; responses are not shared across test cases.
type Response struct {
	StatusCode int
	Headers    http.Header
	// Body is the raw response body, fully read and closed by the executor.
	Body []byte

	parseOnce sync.Once
	parsed    gjson.Result
	parseErr  error
}

// Header returns the value of the named header and whether it was present.
// Lookup uses the canonical header form, matching net/http.
func (r *Response) Header(name string) (string, bool) {
	values := r.Headers.Values(name)
	if len(values) == 0 {
		return "", false
	}
	return values[0], true
}

// JSON parses the body as JSON, lazily and at most once. Repeated calls
// return the same result.
func (r *Response) JSON() (gjson.Result, error) {
	r.parseOnce.Do(func() {
		if !gjson.ValidBytes(r.Body) {
			r.parseErr = errors.New("response: body is not valid JSON")
			return
		}
		r.parsed = gjson.ParseBytes(r.Body)
	})
	return r.parsed, r.parseErr
}
