// Package should contains assertions which return errors or results rather
// than failing tests. If you want a failed assertion to fail the test, use
// the 'must' package.
package should

import (
	"fmt"
	"strings"

	"github.com/restprobe/restprobe/client"
	"github.com/restprobe/restprobe/jsonpath"
	"github.com/restprobe/restprobe/match"
)

// Target selects the part of a Response an Expectation applies to: the
// status code, a named header or a JSON body path.
type Target interface {
	// Describe names the target for diagnostics.
	Describe() string
	// resolve pulls the actual value out of the response. ok is false when
	// the target is absent; err is set when resolution itself failed, e.g.
	// an unresolvable body path.
	resolve(res *client.Response) (actual interface{}, ok bool, err error)
}

// StatusCode targets the response status code.
func StatusCode() Target { return statusTarget{} }

type statusTarget struct{}

func (statusTarget) Describe() string { return "status code" }

func (statusTarget) resolve(res *client.Response) (interface{}, bool, error) {
	return res.StatusCode, true, nil
}

// Header targets a named response header. An absent header resolves to a
// missing actual value, which matchers are still applied to.
func Header(name string) Target { return headerTarget{name: name} }

type headerTarget struct{ name string }

func (h headerTarget) Describe() string { return "header " + h.name }

func (h headerTarget) resolve(res *client.Response) (interface{}, bool, error) {
	value, ok := res.Header(h.name)
	if !ok {
		return nil, false, nil
	}
	return value, true, nil
}

// BodyPath targets the value at a dotted/indexed path in the JSON body, see
// the jsonpath package for the grammar. Resolution failures are recorded as
// failed results rather than aborting the batch.
func BodyPath(path string) Target { return bodyPathTarget{path: path} }

type bodyPathTarget struct{ path string }

func (b bodyPathTarget) Describe() string { return "body path " + b.path }

func (b bodyPathTarget) resolve(res *client.Response) (interface{}, bool, error) {
	body, err := res.JSON()
	if err != nil {
		return nil, false, err
	}
	value, err := jsonpath.Extract(body, b.path)
	if err != nil {
		return nil, false, err
	}
	return value.Value(), true, nil
}

// Expectation is a declarative pairing of a response target and a matcher.
// Expectation lists are built per assertion phase and consumed immediately;
// the same list evaluated twice against the same Response yields identical
// results.
type Expectation struct {
	Target  Target
	Matcher match.Matcher
}

// Expect is shorthand for constructing an Expectation.
func Expect(target Target, matcher match.Matcher) Expectation {
	return Expectation{Target: target, Matcher: matcher}
}

// AssertionResult records the outcome of evaluating one Expectation.
type AssertionResult struct {
	Passed   bool
	Target   string
	Expected string
	// Actual is the resolved value; nil when the target was missing or
	// resolution failed.
	Actual interface{}
	// Missing is true when the target was absent from the response, e.g. a
	// header that was never set.
	Missing bool
	// Err holds a body-path resolution failure, if any.
	Err error
}

func (r AssertionResult) String() string {
	switch {
	case r.Err != nil:
		return fmt.Sprintf("%s: want %s, resolution failed: %s", r.Target, r.Expected, r.Err)
	case r.Missing && !r.Passed:
		return fmt.Sprintf("%s: want %s, target missing", r.Target, r.Expected)
	case !r.Passed:
		return fmt.Sprintf("%s: got '%v' want %s", r.Target, r.Actual, r.Expected)
	default:
		return fmt.Sprintf("%s: ok", r.Target)
	}
}

// Evaluate checks every expectation against the response, in order. All
// expectations are evaluated even after an earlier one fails, so the caller
// sees every mismatch for a response rather than just the first. Resolution
// failures become failed results instead of aborting the batch.
func Evaluate(res *client.Response, expectations []Expectation) []AssertionResult {
	results := make([]AssertionResult, 0, len(expectations))
	for _, exp := range expectations {
		result := AssertionResult{
			Target:   exp.Target.Describe(),
			Expected: exp.Matcher.String(),
		}
		actual, ok, err := exp.Target.resolve(res)
		switch {
		case err != nil:
			result.Err = err
		case !ok:
			// absent target: the matcher still runs against a nil actual,
			// so Not(...) expectations can pass on missing values.
			result.Missing = true
			result.Passed = exp.Matcher.Matches(nil)
		default:
			result.Actual = actual
			result.Passed = exp.Matcher.Matches(actual)
		}
		results = append(results, result)
	}
	return results
}

// AllPassed reports whether every result in the batch passed.
func AllPassed(results []AssertionResult) bool {
	for _, r := range results {
		if !r.Passed {
			return false
		}
	}
	return true
}

// Failures returns the results which did not pass, preserving order.
func Failures(results []AssertionResult) []AssertionResult {
	var failed []AssertionResult
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r)
		}
	}
	return failed
}

// MatchSuccess consumes the HTTP response and fails if the response is non-2xx.
func MatchSuccess(res *client.Response) error {
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return fmt.Errorf("MatchSuccess got status %d instead of a success code", res.StatusCode)
	}
	return nil
}

// MatchFailure consumes the HTTP response and fails if the response is 2xx.
func MatchFailure(res *client.Response) error {
	if res.StatusCode >= 200 && res.StatusCode <= 299 {
		return fmt.Errorf("MatchFailure got status %d instead of a failure code", res.StatusCode)
	}
	return nil
}

// MatchResponse performs HTTP-level assertions on the response against the
// desired shape. Every check in the shape is evaluated and every mismatch is
// reported in the returned error.
func MatchResponse(res *client.Response, m match.HTTPResponse) error {
	var failures []string
	if m.StatusCode != 0 && res.StatusCode != m.StatusCode {
		failures = append(failures, fmt.Sprintf("got status %d want %d", res.StatusCode, m.StatusCode))
	}
	for name, want := range m.Headers {
		got, ok := res.Header(name)
		if !ok {
			failures = append(failures, fmt.Sprintf("header %s missing, want '%s'", name, want))
		} else if got != want {
			failures = append(failures, fmt.Sprintf("header %s got '%s' want '%s'", name, got, want))
		}
	}
	if len(m.JSON) > 0 {
		body, err := res.JSON()
		if err != nil {
			failures = append(failures, err.Error())
		} else {
			for _, jm := range m.JSON {
				if err := jm(body); err != nil {
					failures = append(failures, err.Error())
				}
			}
		}
	}
	if len(failures) > 0 {
		return fmt.Errorf("MatchResponse: %d expectation(s) failed - %s:\n    %s",
			len(failures), string(res.Body), strings.Join(failures, "\n    "))
	}
	return nil
}
