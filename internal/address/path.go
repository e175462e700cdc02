package address

import (
	"bytes"
	"encoding/json"
	"fmt"
	"slices"

	"golang.org/x/text/unicode/norm"

	"github.com/stagehand-dev/stagehand/internal/faults"
)

// PropPath identifies one value position inside an object's property tree.
// Each segment names a field of the enclosing compound. The zero-length path
// denotes the object root.
type PropPath []string

// NewPropPath validates segments and builds a path.
// Segments must be non-empty and free of control characters.
func NewPropPath(segments ...string) (PropPath, error) {
	for i, seg := range segments {
		if err := validateID(fmt.Sprintf("path segment %d", i), seg); err != nil {
			return nil, err
		}
	}
	p := make(PropPath, len(segments))
	copy(p, segments)
	return p, nil
}

// Clone returns an independent copy of the path.
func (p PropPath) Clone() PropPath {
	return slices.Clone(p)
}

// Equal reports whether two paths have identical segments.
func (p PropPath) Equal(other PropPath) bool {
	return slices.Equal(p, other)
}

// Encode produces the canonical string form used as a map key.
//
// The encoding is a JSON array of the segments with two deviations from
// encoding/json defaults, so the same logical path always encodes to the
// same bytes:
//   - segments are NFC normalized
//   - HTML characters (<, >, &) are NOT escaped
func (p PropPath) Encode() string {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, seg := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.Write(encodeSegment(seg))
	}
	buf.WriteByte(']')
	return buf.String()
}

// encodeSegment marshals one NFC-normalized segment without HTML escaping.
func encodeSegment(s string) []byte {
	normalized := norm.NFC.String(s)

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	// Encoding a plain string cannot fail.
	_ = enc.Encode(normalized)

	// json.Encoder adds a trailing newline, remove it.
	out := buf.Bytes()
	if n := len(out); n > 0 && out[n-1] == '\n' {
		out = out[:n-1]
	}
	return out
}

// ParsePath decodes the canonical string form back into a PropPath.
// Returns an INVALID_ARGUMENT fault for anything that is not a JSON array
// of non-empty strings.
func ParsePath(encoded string) (PropPath, error) {
	var segments []string
	if err := json.Unmarshal([]byte(encoded), &segments); err != nil {
		return nil, faults.Newf(faults.CodeInvalidArgument, "malformed prop path %q: %v", encoded, err)
	}
	return NewPropPath(segments...)
}
