package match

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/restprobe/restprobe/jsonpath"
)

// JSON will perform some matches on the given JSON body, returning an error on a mis-match.
// It can be assumed that the bytes are valid JSON.
type JSON func(body gjson.Result) error

// JSONPathEqual returns a matcher which will check that `path` resolves and
// its value matches `want`. Paths are dotted/indexed expressions, see the
// jsonpath package for the grammar. `want` is compared type-aware: numeric
// representation differences are ignored.
func JSONPathEqual(path string, want interface{}) JSON {
	return func(body gjson.Result) error {
		res, err := jsonpath.Extract(body, path)
		if err != nil {
			return err
		}
		got := res.Value()
		if !jsonDeepEqual([]byte(res.Raw), want) {
			return fmt.Errorf(
				"path '%s' got '%v' (type %T) want '%v' (type %T)",
				path, got, got, want, want,
			)
		}
		return nil
	}
}

// JSONPathPresent returns a matcher which will check that `path` resolves to
// some value in the JSON body.
func JSONPathPresent(path string) JSON {
	return func(body gjson.Result) error {
		if _, err := jsonpath.Extract(body, path); err != nil {
			return err
		}
		return nil
	}
}

// JSONPathMissing returns a matcher which will check that `forbiddenPath`
// does not resolve in the JSON body.
func JSONPathMissing(forbiddenPath string) JSON {
	return func(body gjson.Result) error {
		if _, err := jsonpath.Extract(body, forbiddenPath); err == nil {
			return fmt.Errorf("path '%s' present", forbiddenPath)
		}
		return nil
	}
}

// JSONPathMatch returns a matcher which resolves `path` and applies the
// value matcher `m` to the result.
func JSONPathMatch(path string, m Matcher) JSON {
	return func(body gjson.Result) error {
		res, err := jsonpath.Extract(body, path)
		if err != nil {
			return err
		}
		if !m.Matches(res.Value()) {
			return fmt.Errorf("path '%s' got '%v' want %s", path, res.Value(), m)
		}
		return nil
	}
}

// JSONArrayEach returns a matcher which will check that `path` is an array then loops over each
// item calling `fn`. If `fn` returns an error, iterating stops and an error is returned.
func JSONArrayEach(path string, fn func(gjson.Result) error) JSON {
	return func(body gjson.Result) error {
		if path != "" {
			res, err := jsonpath.Extract(body, path)
			if err != nil {
				return err
			}
			body = res
		}
		if !body.IsArray() {
			return fmt.Errorf("path '%s' is not an array", path)
		}
		var err error
		body.ForEach(func(_, val gjson.Result) bool {
			err = fn(val)
			return err == nil
		})
		return err
	}
}

// JSONAnyOf takes 1 or more `checkers`, and builds a new checker which accepts a given
// json body iff it's accepted by at least one of the original `checkers`.
func JSONAnyOf(checkers ...JSON) JSON {
	return func(body gjson.Result) error {
		if len(checkers) == 0 {
			return fmt.Errorf("must provide at least one checker to JSONAnyOf")
		}

		errs := make([]error, len(checkers))
		for i, check := range checkers {
			errs[i] = check(body)
			if errs[i] == nil {
				return nil
			}
		}

		builder := strings.Builder{}
		builder.WriteString("all checks failed:")
		for _, err := range errs {
			builder.WriteString("\n    ")
			builder.WriteString(err.Error())
		}
		return fmt.Errorf("%s", builder.String())
	}
}

// HTTPResponse is the desired shape of the HTTP response. Can include any number of JSON matchers.
type HTTPResponse struct {
	StatusCode int
	Headers    map[string]string
	JSON       []JSON
}
