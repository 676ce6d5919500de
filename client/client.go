// Package client builds and executes HTTP requests against the service
// under test.
//
// The three stages are ordinary values with clear input/output types: a
// Builder accumulates configuration into an immutable Request, an Executor
// performs exactly one network round trip per call, and the resulting
// Response is handed to the 'should'/'must' packages for assertions.
package client

import (
	"bytes"
	"io"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/restprobe/restprobe/rt"
)

// DefaultTimeout bounds each round trip when no timeout is configured.
const DefaultTimeout = 30 * time.Second

// TransportError is returned by Executor.Do on connection failure, DNS
// failure or timeout. Any HTTP status code, including 4xx and 5xx, is a
// successful round trip and produces a Response instead.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return "client: " + e.Method + " " + e.URL + ": " + e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// Executor sends Request descriptors over the network. Each call is exactly
// one attempt; retry policy, if desired, is the caller's responsibility.
type Executor struct {
	Client *http.Client
	// Debug enables request/response logging through logrus.
	Debug bool
}

// NewExecutor returns an executor whose round trips time out after the given
// duration (DefaultTimeout when zero). When debug is set, every round trip
// is logged.
func NewExecutor(timeout time.Duration, debug bool) *Executor {
	if timeout == 0 {
		timeout = DefaultTimeout
	}
	cli := &http.Client{Timeout: timeout}
	if debug {
		cli.Transport = &loggedRoundTripper{wrap: http.DefaultTransport}
	}
	return &Executor{Client: cli, Debug: debug}
}

var validMethods = map[string]bool{
	"GET":    true,
	"POST":   true,
	"PUT":    true,
	"DELETE": true,
	"PATCH":  true,
}

// Do performs one network round trip for the given request and method. The
// response body is fully read before returning, so the Response owns its
// bytes and needs no closing.
func (e *Executor) Do(req Request, method string) (*Response, error) {
	if !validMethods[method] {
		return nil, errors.Errorf("client: unsupported method %q", method)
	}
	var bodyReader io.Reader
	if req.Body != nil {
		bodyReader = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequest(method, req.URL, bodyReader)
	if err != nil {
		return nil, errors.Wrap(err, "client: create request")
	}
	for name, values := range req.Headers {
		httpReq.Header[name] = values
	}
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", ContentTypeJSON)
	}
	if e.Debug {
		logrus.WithFields(logrus.Fields{
			"method": method,
			"url":    req.URL,
		}).Debugf("request body: %s", string(req.Body))
	}

	res, err := e.client().Do(httpReq)
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL, Err: err}
	}
	defer res.Body.Close()
	body, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: req.URL, Err: err}
	}
	if e.Debug {
		logrus.WithFields(logrus.Fields{
			"method": method,
			"url":    req.URL,
			"status": res.StatusCode,
		}).Debugf("response body: %s", string(body))
	}
	return &Response{
		StatusCode: res.StatusCode,
		Headers:    res.Header,
		Body:       body,
	}, nil
}

// MustDo is the same as Do but fails the test on a transport error.
func (e *Executor) MustDo(t rt.TestLike, req Request, method string) *Response {
	t.Helper()
	res, err := e.Do(req, method)
	if err != nil {
		rt.Fatalf(t, "Executor.MustDo %s %s: %s", method, req.URL, err)
	}
	return res
}

func (e *Executor) client() *http.Client {
	if e.Client == nil {
		return &http.Client{Timeout: DefaultTimeout}
	}
	return e.Client
}

// loggedRoundTripper logs every round trip with its status and duration.
type loggedRoundTripper struct {
	wrap http.RoundTripper
}

func (l *loggedRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	res, err := l.wrap.RoundTrip(req)
	entry := logrus.WithFields(logrus.Fields{
		"method":   req.Method,
		"url":      req.URL.String(),
		"duration": time.Since(start).String(),
	})
	if err != nil {
		entry.Debugf("round trip error: %s", err)
	} else {
		entry.Debugf("round trip: %s", res.Status)
	}
	return res, err
}
