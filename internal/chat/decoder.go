package chat

import (
	"errors"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Decoder turns a sequence of byte chunks into text. Bytes of a multi-byte
// character split across chunks are held back until the rest arrives;
// malformed sequences become U+FFFD.
type Decoder struct {
	t       transform.Transformer
	pending []byte
	buf     []byte
}

// NewDecoder creates a UTF-8 stream decoder
func NewDecoder() *Decoder {
	return &Decoder{
		t:   unicode.UTF8.NewDecoder(),
		buf: make([]byte, 4096),
	}
}

// Decode returns the text for chunk plus any bytes held back from earlier
// calls that are now complete.
func (d *Decoder) Decode(chunk []byte) string {
	return d.decode(chunk, false)
}

// Flush returns whatever is still held back, replacing an incomplete
// trailing sequence with U+FFFD, and resets the decoder.
func (d *Decoder) Flush() string {
	out := d.decode(nil, true)
	d.Reset()
	return out
}

// Pending returns the number of bytes held back
func (d *Decoder) Pending() int {
	return len(d.pending)
}

// Reset clears held back bytes
func (d *Decoder) Reset() {
	d.pending = d.pending[:0]
	d.t.Reset()
}

func (d *Decoder) decode(chunk []byte, atEOF bool) string {
	src := make([]byte, 0, len(d.pending)+len(chunk))
	src = append(src, d.pending...)
	src = append(src, chunk...)
	d.pending = d.pending[:0]

	var out strings.Builder
	for {
		nDst, nSrc, err := d.t.Transform(d.buf, src, atEOF)
		out.Write(d.buf[:nDst])
		src = src[nSrc:]

		switch {
		case err == nil:
			return out.String()
		case errors.Is(err, transform.ErrShortDst):
			continue
		case errors.Is(err, transform.ErrShortSrc):
			d.pending = append(d.pending, src...)
			return out.String()
		default:
			// The UTF-8 decoder replaces bad input instead of failing
			d.pending = d.pending[:0]
			return out.String()
		}
	}
}
