// Package fixtures provides pet test data: the JSON request template with
// token substitution, structured field overrides, and injectable ID sources
// so scenarios stay deterministic.
package fixtures

import (
	"math/rand"
	"os"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/pkg/errors"
	"github.com/tidwall/sjson"
)

// ID bounds for randomly generated pets, wide enough to avoid colliding with
// anything the demo service seeds.
const (
	randomIDMin = 1_000_000
	randomIDMax = 2_000_000_000
)

// Substitute replaces every occurrence of each `{{name}}` token in the
// template with its value. This is literal replace-all, not
// templating-engine interpolation: no escaping, no conditional logic.
func Substitute(template string, params map[string]string) string {
	for name, value := range params {
		template = strings.ReplaceAll(template, "{{"+name+"}}", value)
	}
	return template
}

// LoadTemplate reads a JSON template file, typically holding `{{id}}`,
// `{{name}}` and `{{status}}` tokens for Substitute.
func LoadTemplate(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", errors.Wrapf(err, "fixtures: read template %q", path)
	}
	return string(data), nil
}

// SetField returns body with the value at the given sjson path replaced,
// e.g. SetField(body, "category.name", "Cats"). It is the structured
// alternative to token substitution for bodies that are already valid JSON.
func SetField(body []byte, path string, value interface{}) ([]byte, error) {
	out, err := sjson.SetBytes(body, path, value)
	if err != nil {
		return nil, errors.Wrapf(err, "fixtures: set field %q", path)
	}
	return out, nil
}

// IDSource yields pet IDs for fixtures. Scenarios take an IDSource rather
// than generating IDs inline so runs against the embedded server can use a
// predictable sequence.
type IDSource func() int64

// Sequential returns an IDSource counting up from start. Safe for
// concurrent use.
func Sequential(start int64) IDSource {
	next := start - 1
	return func() int64 {
		return atomic.AddInt64(&next, 1)
	}
}

// Random returns a seeded IDSource yielding IDs in [randomIDMin,
// randomIDMax). The same seed yields the same sequence.
func Random(seed int64) IDSource {
	var mu sync.Mutex
	prng := rand.New(rand.NewSource(seed))
	return func() int64 {
		mu.Lock()
		defer mu.Unlock()
		return randomIDMin + prng.Int63n(randomIDMax-randomIDMin)
	}
}
