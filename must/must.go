// Package must contains assertions for tests, which fail the test if the assertion fails.
package must

import (
	"github.com/restprobe/restprobe/client"
	"github.com/restprobe/restprobe/match"
	"github.com/restprobe/restprobe/rt"
	"github.com/restprobe/restprobe/should"
)

// NotError will ensure `err` is nil else terminate the test with `msg`.
func NotError(t rt.TestLike, msg string, err error) {
	t.Helper()
	if err != nil {
		rt.Fatalf(t, "must.NotError: %s -> %s", msg, err)
	}
}

// Evaluate checks every expectation against the response and fails the test
// if any of them did not pass, reporting every failed result. The full
// result batch is returned for further inspection.
func Evaluate(t rt.TestLike, res *client.Response, expectations []should.Expectation) []should.AssertionResult {
	t.Helper()
	results := should.Evaluate(res, expectations)
	for _, r := range should.Failures(results) {
		rt.Errorf(t, "must.Evaluate: %s", r)
	}
	return results
}

// MatchResponse performs HTTP-level assertions on the response, terminating
// the test with every mismatch if the response does not match the shape.
func MatchResponse(t rt.TestLike, res *client.Response, m match.HTTPResponse) {
	t.Helper()
	if err := should.MatchResponse(res, m); err != nil {
		rt.Fatalf(t, err.Error())
	}
}

// MatchSuccess consumes the HTTP response and fails the test if the response is non-2xx.
func MatchSuccess(t rt.TestLike, res *client.Response) {
	t.Helper()
	if err := should.MatchSuccess(res); err != nil {
		rt.Fatalf(t, err.Error())
	}
}

// MatchFailure consumes the HTTP response and fails the test if the response is 2xx.
func MatchFailure(t rt.TestLike, res *client.Response) {
	t.Helper()
	if err := should.MatchFailure(res); err != nil {
		rt.Fatalf(t, err.Error())
	}
}

// Equal ensures that got==want else logs an error.
// The 'msg' is displayed with the error to provide extra context.
func Equal[V comparable](t rt.TestLike, got, want V, msg string) {
	t.Helper()
	if got != want {
		rt.Errorf(t, "Equal %s: got '%v' want '%v'", msg, got, want)
	}
}

// NotEqual ensures that got!=want else logs an error.
// The 'msg' is displayed with the error to provide extra context.
func NotEqual[V comparable](t rt.TestLike, got, want V, msg string) {
	t.Helper()
	if got == want {
		rt.Errorf(t, "NotEqual %s: got '%v', want '%v'", msg, got, want)
	}
}
