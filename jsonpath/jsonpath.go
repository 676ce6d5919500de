// Package jsonpath resolves dotted/indexed path expressions against a parsed
// JSON document.
//
// Path expressions are dot-separated field names with optional bracketed
// integer indices, e.g. `category.name` or `tags[0].name`. Resolution walks
// the document left to right: field segments index into objects and bracket
// segments index into arrays. Failures are reported with distinct error
// values so callers can tell a missing key from an out-of-range index.
package jsonpath

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidPath means the path expression itself is malformed, e.g. it
	// is empty or contains an unterminated bracket.
	ErrInvalidPath = errors.New("jsonpath: invalid path expression")
	// ErrPathNotFound means a field segment named a missing key, or a
	// segment was applied to a value of the wrong kind.
	ErrPathNotFound = errors.New("jsonpath: path not found")
	// ErrIndexOutOfRange means a bracket segment indexed past the end of an
	// array.
	ErrIndexOutOfRange = errors.New("jsonpath: index out of range")
)

// segment is either a field lookup or an array index, never both.
type segment struct {
	field   string
	index   int
	isIndex bool
}

func (s segment) String() string {
	if s.isIndex {
		return "[" + strconv.Itoa(s.index) + "]"
	}
	return s.field
}

// Extract resolves expr against doc, returning the value at that path.
// Returned errors wrap ErrInvalidPath, ErrPathNotFound or ErrIndexOutOfRange
// and can be inspected with errors.Is.
func Extract(doc gjson.Result, expr string) (gjson.Result, error) {
	segs, err := parse(expr)
	if err != nil {
		return gjson.Result{}, err
	}
	cur := doc
	for i, seg := range segs {
		resolved := joinSegments(segs[:i])
		if seg.isIndex {
			if !cur.IsArray() {
				return gjson.Result{}, errors.Wrapf(ErrPathNotFound, "%q: value at %q is not an array", expr, resolved)
			}
			arr := cur.Array()
			if seg.index >= len(arr) {
				return gjson.Result{}, errors.Wrapf(ErrIndexOutOfRange, "%q: index %d beyond %d element(s) at %q", expr, seg.index, len(arr), resolved)
			}
			cur = arr[seg.index]
			continue
		}
		if !cur.IsObject() {
			return gjson.Result{}, errors.Wrapf(ErrPathNotFound, "%q: value at %q is not an object", expr, resolved)
		}
		next := cur.Get(escapeField(seg.field))
		if !next.Exists() {
			return gjson.Result{}, errors.Wrapf(ErrPathNotFound, "%q: key %q missing", expr, seg.field)
		}
		cur = next
	}
	return cur, nil
}

// ExtractBytes is a convenience over Extract for a raw JSON body.
func ExtractBytes(body []byte, expr string) (gjson.Result, error) {
	if !gjson.ValidBytes(body) {
		return gjson.Result{}, errors.Wrapf(ErrPathNotFound, "%q: document is not valid JSON", expr)
	}
	return Extract(gjson.ParseBytes(body), expr)
}

// parse splits expr into field and index segments. `tags[0].name` becomes
// [field:tags, index:0, field:name].
func parse(expr string) ([]segment, error) {
	if expr == "" {
		return nil, errors.Wrap(ErrInvalidPath, "empty expression")
	}
	var segs []segment
	for _, part := range strings.Split(expr, ".") {
		if part == "" {
			return nil, errors.Wrapf(ErrInvalidPath, "%q: empty segment", expr)
		}
		field, indices, err := splitIndices(part)
		if err != nil {
			return nil, errors.Wrapf(err, "%q", expr)
		}
		if field == "" && len(indices) == 0 {
			return nil, errors.Wrapf(ErrInvalidPath, "%q: empty segment", expr)
		}
		if field != "" {
			segs = append(segs, segment{field: field})
		}
		for _, idx := range indices {
			segs = append(segs, segment{index: idx, isIndex: true})
		}
	}
	return segs, nil
}

// splitIndices splits `tags[0][1]` into the field name and its trailing
// bracket indices.
func splitIndices(part string) (string, []int, error) {
	open := strings.IndexByte(part, '[')
	if open == -1 {
		if strings.ContainsRune(part, ']') {
			return "", nil, errors.Wrapf(ErrInvalidPath, "segment %q: unmatched ']'", part)
		}
		return part, nil, nil
	}
	field := part[:open]
	rest := part[open:]
	var indices []int
	for rest != "" {
		if rest[0] != '[' {
			return "", nil, errors.Wrapf(ErrInvalidPath, "segment %q: unexpected %q after index", part, rest)
		}
		end := strings.IndexByte(rest, ']')
		if end == -1 {
			return "", nil, errors.Wrapf(ErrInvalidPath, "segment %q: unterminated bracket", part)
		}
		idx, err := strconv.Atoi(rest[1:end])
		if err != nil || idx < 0 {
			return "", nil, errors.Wrapf(ErrInvalidPath, "segment %q: bad index %q", part, rest[1:end])
		}
		indices = append(indices, idx)
		rest = rest[end+1:]
	}
	return field, indices, nil
}

// joinSegments renders resolved segments back into path syntax, e.g.
// `tags[0].name`.
func joinSegments(segs []segment) string {
	var b strings.Builder
	for i, s := range segs {
		if !s.isIndex && i > 0 {
			b.WriteByte('.')
		}
		b.WriteString(s.String())
	}
	return b.String()
}

// escapeField escapes gjson's special characters so field names are looked
// up literally.
func escapeField(in string) string {
	in = strings.ReplaceAll(in, "\\", `\\`)
	in = strings.ReplaceAll(in, ".", `\.`)
	in = strings.ReplaceAll(in, "*", `\*`)
	in = strings.ReplaceAll(in, "?", `\?`)
	return in
}
