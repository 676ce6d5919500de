package should

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restprobe/restprobe/client"
	"github.com/restprobe/restprobe/jsonpath"
	"github.com/restprobe/restprobe/match"
)

func petResponse() *client.Response {
	return &client.Response{
		StatusCode: 200,
		Headers:    http.Header{"Content-Type": []string{"application/json"}},
		Body:       []byte(`{"id":1001,"name":"doggie","status":"available","tags":[{"name":"friendly"}]}`),
	}
}

func TestEvaluateAllPass(t *testing.T) {
	results := Evaluate(petResponse(), []Expectation{
		Expect(StatusCode(), match.Equals(200)),
		Expect(Header("Content-Type"), match.Equals("application/json")),
		Expect(BodyPath("name"), match.Equals("doggie")),
		Expect(BodyPath("id"), match.Equals(1001)),
		Expect(BodyPath("tags[0].name"), match.Equals("friendly")),
	})
	require.Len(t, results, 5)
	assert.True(t, AllPassed(results))
	assert.Empty(t, Failures(results))
}

// Every expectation is evaluated even after an earlier one fails.
func TestEvaluateDoesNotShortCircuit(t *testing.T) {
	results := Evaluate(petResponse(), []Expectation{
		Expect(StatusCode(), match.Equals(404)),
		Expect(BodyPath("name"), match.Equals("doggie")),
		Expect(BodyPath("status"), match.Equals("sold")),
	})
	require.Len(t, results, 3)
	assert.False(t, results[0].Passed)
	assert.True(t, results[1].Passed)
	assert.False(t, results[2].Passed)
	assert.False(t, AllPassed(results))
	assert.Len(t, Failures(results), 2)
}

// A body path that fails to resolve is recorded as a failed result rather
// than aborting the batch.
func TestEvaluateRecordsPathFailures(t *testing.T) {
	results := Evaluate(petResponse(), []Expectation{
		Expect(BodyPath("category.name"), match.Equals("Dogs")),
		Expect(BodyPath("tags[5].name"), match.Equals("friendly")),
		Expect(StatusCode(), match.Equals(200)),
	})
	require.Len(t, results, 3)
	assert.False(t, results[0].Passed)
	assert.True(t, errors.Is(results[0].Err, jsonpath.ErrPathNotFound))
	assert.False(t, results[1].Passed)
	assert.True(t, errors.Is(results[1].Err, jsonpath.ErrIndexOutOfRange))
	assert.True(t, results[2].Passed, "later expectations still evaluated")
}

func TestEvaluateMissingHeader(t *testing.T) {
	results := Evaluate(petResponse(), []Expectation{
		Expect(Header("X-Request-Id"), match.Equals("abc")),
		Expect(Header("X-Request-Id"), match.Not(match.Equals("abc"))),
	})
	require.Len(t, results, 2)
	assert.True(t, results[0].Missing)
	assert.False(t, results[0].Passed)
	assert.True(t, results[1].Passed, "negated matcher passes on a missing header")
}

func TestEvaluateAnyOfStatus(t *testing.T) {
	res := petResponse()
	expectations := []Expectation{
		Expect(StatusCode(), match.AnyOf(match.Equals(200), match.Equals(404))),
	}
	results := Evaluate(res, expectations)
	require.Len(t, results, 1)
	assert.True(t, results[0].Passed)
}

// Evaluating the same expectations against the same response twice yields
// identical results.
func TestEvaluateIsIdempotent(t *testing.T) {
	res := petResponse()
	expectations := []Expectation{
		Expect(StatusCode(), match.Equals(200)),
		Expect(BodyPath("name"), match.Equals("cat")),
		Expect(BodyPath("nope"), match.Equals(1)),
		Expect(Header("X-Missing"), match.Equals("x")),
	}
	first := Evaluate(res, expectations)
	second := Evaluate(res, expectations)
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].Passed, second[i].Passed)
		assert.Equal(t, first[i].Target, second[i].Target)
		assert.Equal(t, first[i].Expected, second[i].Expected)
		assert.Equal(t, first[i].Actual, second[i].Actual)
		assert.Equal(t, first[i].Missing, second[i].Missing)
		assert.Equal(t, first[i].Err == nil, second[i].Err == nil)
	}
}

func TestMatchResponseAggregatesFailures(t *testing.T) {
	err := MatchResponse(petResponse(), match.HTTPResponse{
		StatusCode: 404,
		Headers:    map[string]string{"Content-Type": "text/html"},
		JSON: []match.JSON{
			match.JSONPathEqual("name", "cat"),
			match.JSONPathEqual("status", "available"),
		},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "3 expectation(s) failed")
	assert.Contains(t, err.Error(), "got status 200 want 404")
	assert.Contains(t, err.Error(), "header Content-Type")
	assert.Contains(t, err.Error(), "path 'name'")
}

func TestMatchResponseOK(t *testing.T) {
	err := MatchResponse(petResponse(), match.HTTPResponse{
		StatusCode: 200,
		Headers:    map[string]string{"Content-Type": "application/json"},
		JSON: []match.JSON{
			match.JSONPathEqual("id", 1001),
			match.JSONPathEqual("name", "doggie"),
		},
	})
	assert.NoError(t, err)
}

func TestMatchSuccessAndFailure(t *testing.T) {
	ok := petResponse()
	assert.NoError(t, MatchSuccess(ok))
	assert.Error(t, MatchFailure(ok))

	notFound := &client.Response{StatusCode: 404, Body: []byte(`{}`)}
	assert.Error(t, MatchSuccess(notFound))
	assert.NoError(t, MatchFailure(notFound))
}
