package client

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestDoReturnsResponse(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "POST", req.Method)
		assert.Equal(t, ContentTypeJSON, req.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":1001,"name":"doggie"}`))
	})

	req, err := NewBuilder(srv.URL, "/pet").
		WithContentType(ContentTypeJSON).
		WithBody([]byte(`{"id":1001}`)).
		Build()
	require.NoError(t, err)

	exec := NewExecutor(0, false)
	res, err := exec.Do(req, "POST")
	require.NoError(t, err)
	assert.Equal(t, 200, res.StatusCode)
	assert.Equal(t, `{"id":1001,"name":"doggie"}`, string(res.Body))

	value, ok := res.Header("Content-Type")
	require.True(t, ok)
	assert.Equal(t, "application/json", value)
}

// A 4xx or 5xx status is a successful round trip, not a transport error.
func TestDoTreatsErrorStatusAsSuccess(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":1,"type":"error","message":"Pet not found"}`))
	})

	req, err := NewBuilder(srv.URL, "/pet/{id}").WithPathParam("id", 999).Build()
	require.NoError(t, err)

	res, err := NewExecutor(0, false).Do(req, "GET")
	require.NoError(t, err)
	assert.Equal(t, 404, res.StatusCode)
}

func TestDoReportsTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	req, err := NewBuilder(url, "/pet").Build()
	require.NoError(t, err)

	_, err = NewExecutor(0, false).Do(req, "GET")
	require.Error(t, err)
	var transport *TransportError
	assert.True(t, errors.As(err, &transport))
	assert.Equal(t, "GET", transport.Method)
}

func TestDoTimesOut(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, req *http.Request) {
		time.Sleep(500 * time.Millisecond)
	})

	req, err := NewBuilder(srv.URL, "/slow").Build()
	require.NoError(t, err)

	_, err = NewExecutor(50*time.Millisecond, false).Do(req, "GET")
	var transport *TransportError
	assert.True(t, errors.As(err, &transport), "timeout should surface as a TransportError")
}

func TestDoRejectsUnknownMethod(t *testing.T) {
	req, err := NewBuilder("http://localhost", "/pet").Build()
	require.NoError(t, err)
	_, err = NewExecutor(0, false).Do(req, "TRACE")
	assert.Error(t, err)
}

func TestResponseJSONIsLazyAndMemoised(t *testing.T) {
	res := &Response{StatusCode: 200, Body: []byte(`{"id":1001}`)}
	first, err := res.JSON()
	require.NoError(t, err)
	second, err := res.JSON()
	require.NoError(t, err)
	assert.Equal(t, first.Raw, second.Raw)

	bad := &Response{StatusCode: 200, Body: []byte(`nope`)}
	_, err = bad.JSON()
	assert.Error(t, err)
}
