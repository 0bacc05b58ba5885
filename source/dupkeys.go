package source

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/coerce"
)

// CodeDuplicateKey marks a JSON object that repeats a key.
const CodeDuplicateKey = "duplicate_key"

type frame struct {
	object bool
	path   coerce.Path
	keys   map[string]struct{}
	key    string // pending key, set between the key token and its value
	hasKey bool
	index  int
}

// child returns the path of the value about to be read in f.
func (f *frame) child() coerce.Path {
	if f.object {
		return f.path.Key(f.key)
	}
	return f.path.Index(f.index)
}

// done advances f past one value.
func (f *frame) done() {
	if f.object {
		f.hasKey = false
		return
	}
	f.index++
}

// DuplicateKeys scans b and reports every object key that appears twice in
// the same object. Paths are JSON pointers to the object holding the key.
func DuplicateKeys(b []byte) (coerce.Issues, error) {
	dec := gojson.NewDecoder(bytes.NewReader(b))
	dec.UseNumber()
	var (
		stack []*frame
		iss   coerce.Issues
	)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return iss, nil
		}
		if err != nil {
			return iss, fmt.Errorf("source: json: %w", err)
		}
		var top *frame
		if n := len(stack); n > 0 {
			top = stack[n-1]
		}
		if d, ok := tok.(gojson.Delim); ok {
			switch d {
			case '{', '[':
				at := coerce.Path{}
				if top != nil {
					at = top.child()
				}
				stack = append(stack, &frame{object: d == '{', path: at, keys: map[string]struct{}{}})
			case '}', ']':
				stack = stack[:len(stack)-1]
				if n := len(stack); n > 0 {
					stack[n-1].done()
				}
			}
			continue
		}
		if top == nil {
			continue
		}
		if k, ok := tok.(string); ok && top.object && !top.hasKey {
			if _, seen := top.keys[k]; seen {
				iss = append(iss, coerce.Issue{
					Path:    top.path.Pointer(),
					Code:    CodeDuplicateKey,
					Message: fmt.Sprintf("Key %q appears more than once.", k),
				})
			}
			top.keys[k] = struct{}{}
			top.key, top.hasKey = k, true
			continue
		}
		top.done()
	}
}

// JSONStrict is JSON with duplicate object keys rejected. The returned
// error is a coerce.Issues listing each duplicate.
func JSONStrict(b []byte) (any, error) {
	v, err := JSON(b)
	if err != nil {
		return nil, err
	}
	iss, err := DuplicateKeys(b)
	if err != nil {
		return nil, err
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return v, nil
}
