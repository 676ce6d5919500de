package petstore

import (
	"bytes"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func doReq(t *testing.T, method, url string, body []byte) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()
	resBody, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	return res.StatusCode, resBody
}

func TestPetRoundTrip(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	pet := []byte(`{"id":7,"name":"doggie","status":"available"}`)
	status, body := doReq(t, "POST", srv.URL()+"/pet", pet)
	assert.Equal(t, 200, status)
	assert.Equal(t, pet, body, "create echoes the stored document")

	status, body = doReq(t, "GET", srv.URL()+"/pet/7", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "doggie", gjson.GetBytes(body, "name").Str)

	status, body = doReq(t, "DELETE", srv.URL()+"/pet/7", nil)
	assert.Equal(t, 200, status)
	assert.Equal(t, "7", gjson.GetBytes(body, "message").Str)

	status, _ = doReq(t, "GET", srv.URL()+"/pet/7", nil)
	assert.Equal(t, 404, status)
}

func TestUnknownPetHasPetstoreErrorShape(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	status, body := doReq(t, "GET", srv.URL()+"/pet/424242", nil)
	assert.Equal(t, 404, status)
	assert.Equal(t, int64(1), gjson.GetBytes(body, "code").Int())
	assert.Equal(t, "error", gjson.GetBytes(body, "type").Str)
	assert.Equal(t, "Pet not found", gjson.GetBytes(body, "message").Str)

	status, _ = doReq(t, "DELETE", srv.URL()+"/pet/424242", nil)
	assert.Equal(t, 404, status)
}

func TestBadInput(t *testing.T) {
	srv := NewServer()
	defer srv.Close()

	status, _ := doReq(t, "POST", srv.URL()+"/pet", []byte(`not json`))
	assert.Equal(t, 400, status)

	status, _ = doReq(t, "POST", srv.URL()+"/pet", []byte(`{"name":"no id"}`))
	assert.Equal(t, 400, status)

	status, _ = doReq(t, "GET", srv.URL()+"/pet/notanumber", nil)
	assert.Equal(t, 400, status)
}
