// Package match contains matchers for HTTP and JSON data.
//
// Two kinds of matcher live here. Matcher is a composable boolean predicate
// over a single value (a status code, a header value, a JSON body value),
// built from Equals and the AnyOf/AllOf/Not combinators. JSON is a
// gjson-backed check over a whole response body.
//
// Matchers have no concept of tests and do not fail tests themselves. The
// 'should' package evaluates them into results, and the 'must' package fails
// tests on those results.
package match

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Matcher is a composable predicate over a value. Evaluation always
// terminates with a boolean: comparing across incompatible types yields
// false, never an error. Matchers hold no mutable state and are safe to
// construct once and reuse across many assertions.
type Matcher interface {
	// Matches reports whether actual satisfies the matcher.
	Matches(actual interface{}) bool
	// String describes the expected value for diagnostics.
	String() string
}

// Equals returns a matcher which checks that the actual value is
// structurally equal to want. Both sides are normalized through JSON
// marshalling, so numeric representation differences are ignored (1001 and
// 1001.0 are equal) while string equality stays exact ("1001" is not 1001).
func Equals(want interface{}) Matcher {
	return equalsMatcher{want: want}
}

type equalsMatcher struct {
	want interface{}
}

func (m equalsMatcher) Matches(actual interface{}) bool {
	gotBytes, err := json.Marshal(actual)
	if err != nil {
		return false
	}
	return jsonDeepEqual(gotBytes, m.want)
}

func (m equalsMatcher) String() string {
	return fmt.Sprintf("equals %v", m.want)
}

// AnyOf returns a matcher which accepts a value iff at least one of the
// given matchers accepts it. With no matchers it accepts nothing.
func AnyOf(matchers ...Matcher) Matcher {
	return anyOfMatcher{matchers: matchers}
}

type anyOfMatcher struct {
	matchers []Matcher
}

func (m anyOfMatcher) Matches(actual interface{}) bool {
	for _, sub := range m.matchers {
		if sub.Matches(actual) {
			return true
		}
	}
	return false
}

func (m anyOfMatcher) String() string {
	return "any of [" + describeAll(m.matchers) + "]"
}

// AllOf returns a matcher which accepts a value iff every one of the given
// matchers accepts it. With no matchers it accepts everything.
func AllOf(matchers ...Matcher) Matcher {
	return allOfMatcher{matchers: matchers}
}

type allOfMatcher struct {
	matchers []Matcher
}

func (m allOfMatcher) Matches(actual interface{}) bool {
	for _, sub := range m.matchers {
		if !sub.Matches(actual) {
			return false
		}
	}
	return true
}

func (m allOfMatcher) String() string {
	return "all of [" + describeAll(m.matchers) + "]"
}

// Not returns a matcher which inverts the given matcher.
func Not(matcher Matcher) Matcher {
	return notMatcher{matcher: matcher}
}

type notMatcher struct {
	matcher Matcher
}

func (m notMatcher) Matches(actual interface{}) bool {
	return !m.matcher.Matches(actual)
}

func (m notMatcher) String() string {
	return "not (" + m.matcher.String() + ")"
}

func describeAll(matchers []Matcher) string {
	descs := make([]string, len(matchers))
	for i, m := range matchers {
		descs[i] = m.String()
	}
	return strings.Join(descs, ", ")
}

// jsonDeepEqual compares raw json with a json-serializable value, seeing if they're equal.
// It forces `gotJson` through a JSON parser to ensure keys/whitespace are identical to the marshalled form of `wantValue`.
func jsonDeepEqual(gotJson []byte, wantValue interface{}) bool {
	// marshal what the test gave us
	wantBytes, _ := json.Marshal(wantValue)
	// re-marshal what the network gave us to acount for key ordering
	var gotVal interface{}
	_ = json.Unmarshal(gotJson, &gotVal)
	gotBytes, _ := json.Marshal(gotVal)
	return bytes.Equal(gotBytes, wantBytes)
}
