package coerce

import (
	"strconv"
	"strings"
)

// Path is the ordered sequence of object keys and array indexes from the
// root of a validation to the current node. Indexes are stored in decimal.
type Path []string

// Key returns a copy of p extended with an object key.
func (p Path) Key(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Index returns a copy of p extended with an array index.
func (p Path) Index(i int) Path { return p.Key(strconv.Itoa(i)) }

// String joins the segments with "." (for example: a.b.2).
func (p Path) String() string { return strings.Join(p, ".") }

// Pointer renders p as a JSON Pointer (RFC 6901), "/" for the root.
func (p Path) Pointer() string {
	if len(p) == 0 {
		return "/"
	}
	b := &strings.Builder{}
	for _, seg := range p {
		b.WriteByte('/')
		// escape '~' -> '~0', '/' -> '~1' per RFC6901
		b.WriteString(strings.ReplaceAll(strings.ReplaceAll(seg, "~", "~0"), "/", "~1"))
	}
	return b.String()
}

// ParsePointer is the inverse of Pointer.
func ParsePointer(ptr string) Path {
	if ptr == "" || ptr == "/" {
		return Path{}
	}
	parts := strings.Split(strings.TrimPrefix(ptr, "/"), "/")
	out := make(Path, 0, len(parts))
	for _, seg := range parts {
		out = append(out, strings.ReplaceAll(strings.ReplaceAll(seg, "~1", "/"), "~0", "~"))
	}
	return out
}
