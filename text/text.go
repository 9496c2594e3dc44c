package text

import (
	"bytes"
	"strings"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/handle"
	"github.com/hupe1980/dci/internal/hash"
)

// rep is a shared byte buffer. Every Text sharing a rep sees the prefix
// b[:n] for its own n. Bytes inside len(b) are never rewritten, so only the
// Text whose view reaches len(b) may extend the buffer in place.
type rep struct {
	handle.RefCounted
	b []byte
}

func newRep(b []byte) *rep {
	r := &rep{b: b}
	r.Retain()
	return r
}

// Text is a copy-on-write byte string. The zero value is empty.
//
// Texts have value semantics under both Copy and plain assignment: a
// mutation through one Text is never observed through another.
type Text struct {
	r *rep
	n int
}

func fromOwned(b []byte) Text {
	if len(b) == 0 {
		return Text{}
	}
	return Text{r: newRep(b), n: len(b)}
}

// New creates a Text from s.
func New(s string) Text {
	if s == "" {
		return Text{}
	}
	return fromOwned([]byte(s))
}

// FromBytes creates a Text from b, truncated to maxLen bytes if maxLen >= 0.
func FromBytes(b []byte, maxLen int) Text {
	if maxLen >= 0 && len(b) > maxLen {
		b = b[:maxLen]
	}
	return fromOwned(bytes.Clone(b))
}

// Copy returns a Text sharing t's buffer.
func (t Text) Copy() Text {
	if t.r != nil {
		t.r.Retain()
	}
	return t
}

// Release drops t's share of the buffer and empties t.
func (t *Text) Release() {
	// A plain assignment shares the buffer without a count of its own.
	if t.r != nil && t.r.RefCount() > 0 {
		t.r.Release()
	}
	*t = Text{}
}

// Shared reports whether t's buffer is shared with another Text.
func (t Text) Shared() bool {
	return t.r != nil && t.r.RefCount() > 1
}

// bytes returns the current content without copying.
func (t Text) bytes() []byte {
	if t.r == nil {
		return nil
	}
	return t.r.b[:t.n]
}

// replace drops t's share of its buffer and takes ownership of b.
func (t *Text) replace(b []byte) {
	t.Release()
	*t = fromOwned(b)
}

// extend appends src to t, in place when t's view ends at the buffer's end.
func (t *Text) extend(src []byte) {
	if t.r == nil || t.n != len(t.r.b) {
		out := make([]byte, 0, t.n+len(src))
		out = append(out, t.bytes()...)
		t.replace(append(out, src...))
		return
	}
	t.r.b = append(t.r.b, src...)
	t.n = len(t.r.b)
}

// Len returns the length in bytes.
func (t Text) Len() int {
	return len(t.bytes())
}

// IsEmpty reports whether t has no content.
func (t Text) IsEmpty() bool {
	return t.Len() == 0
}

// At returns the byte at index i, or 0 if i is out of range.
func (t Text) At(i int) byte {
	b := t.bytes()
	if i < 0 || i >= len(b) {
		return 0
	}
	return b[i]
}

// String returns the content as a Go string.
func (t Text) String() string {
	return string(t.bytes())
}

// Bytes returns a copy of the content.
func (t Text) Bytes() []byte {
	return bytes.Clone(t.bytes())
}

// Sub returns the substring starting at start with at most n bytes. A
// negative n extends to the end. Out-of-range starts yield an empty Text.
func (t Text) Sub(start, n int) Text {
	b := t.bytes()
	if start < 0 || start >= len(b) {
		return Text{}
	}
	b = b[start:]
	return FromBytes(b, n)
}

// Append appends o to t in place.
func (t *Text) Append(o Text) {
	if o.Len() == 0 {
		return
	}
	t.extend(o.bytes())
}

// AppendString appends s to t in place.
func (t *Text) AppendString(s string) {
	if s == "" {
		return
	}
	t.extend([]byte(s))
}

// Concat returns a new Text holding a followed by b.
func Concat(a, b Text) Text {
	out := make([]byte, 0, a.Len()+b.Len())
	out = append(out, a.bytes()...)
	out = append(out, b.bytes()...)
	return fromOwned(out)
}

// ToUpper converts t to upper case in place.
func (t *Text) ToUpper() {
	if t.Len() == 0 {
		return
	}
	t.replace(bytes.ToUpper(t.bytes()))
}

// ToLower converts t to lower case in place.
func (t *Text) ToLower() {
	if t.Len() == 0 {
		return
	}
	t.replace(bytes.ToLower(t.bytes()))
}

// Upper returns an upper-case copy of t.
func (t Text) Upper() Text {
	return New(strings.ToUpper(t.String()))
}

// Lower returns a lower-case copy of t.
func (t Text) Lower() Text {
	return New(strings.ToLower(t.String()))
}

// Compare compares t and o lexicographically by bytes.
func (t Text) Compare(o Text) int {
	return bytes.Compare(t.bytes(), o.bytes())
}

// Equal reports whether t and o have the same content.
func (t Text) Equal(o Text) bool {
	return bytes.Equal(t.bytes(), o.bytes())
}

// Less reports whether t sorts before o.
func (t Text) Less(o Text) bool {
	return t.Compare(o) < 0
}

// Hash returns a deterministic 64-bit hash of the content.
func (t Text) Hash() uint64 {
	return hash.Bytes(t.bytes())
}

// Save persists t.
func (t Text) Save(w *binfmt.Writer) {
	w.PutBytes(t.bytes())
}

// Load reads a Text persisted by Save.
func Load(r *binfmt.Reader) Text {
	return fromOwned(r.Bytes())
}
