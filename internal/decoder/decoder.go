// Package decoder turns a sequence of raw byte chunks into UTF-8 text without
// splitting characters that straddle chunk boundaries.
package decoder

import (
	"errors"
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const initialBufSize = 4096

// DecodeError reports malformed input at a byte offset of the whole stream.
type DecodeError struct {
	Offset int64
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode error at byte %d: %v", e.Offset, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// ErrFinished is returned by Feed after Finish until Reset is called.
var ErrFinished = errors.New("decoder already finished")

// Decoder is a stateful chunk decoder. It is not safe for concurrent use.
type Decoder struct {
	t        transform.Transformer
	pending  []byte
	dst      []byte
	offset   int64
	finished bool
}

// New returns a strict decoder: invalid UTF-8 produces a *DecodeError.
func New() *Decoder {
	return newDecoder(encoding.UTF8Validator)
}

// NewLenient returns a decoder that replaces invalid UTF-8 with U+FFFD.
func NewLenient() *Decoder {
	return newDecoder(unicode.UTF8.NewDecoder())
}

func newDecoder(t transform.Transformer) *Decoder {
	return &Decoder{t: t, dst: make([]byte, initialBufSize)}
}

// Feed decodes chunk together with any partial character left over from the
// previous call. The returned fragment holds only complete characters and may
// be empty when chunk ends mid-character.
func (d *Decoder) Feed(chunk []byte) (string, error) {
	if d.finished {
		return "", ErrFinished
	}
	src := chunk
	if len(d.pending) > 0 {
		src = append(d.pending, chunk...)
	}
	return d.run(src, false)
}

// Finish flushes the undecoded remainder. A strict decoder reports a
// dangling partial character as a *DecodeError.
func (d *Decoder) Finish() (string, error) {
	if d.finished {
		return "", nil
	}
	d.finished = true
	return d.run(d.pending, true)
}

// Reset clears all carried state so the decoder can serve a new stream.
func (d *Decoder) Reset() {
	d.t.Reset()
	d.pending = nil
	d.offset = 0
	d.finished = false
}

func (d *Decoder) run(src []byte, atEOF bool) (string, error) {
	var out []byte
	for {
		nDst, nSrc, err := d.t.Transform(d.dst, src, atEOF)
		out = append(out, d.dst[:nDst]...)
		src = src[nSrc:]
		d.offset += int64(nSrc)

		switch {
		case err == nil:
			d.pending = nil
			return string(out), nil
		case errors.Is(err, transform.ErrShortDst):
			if nDst == 0 && nSrc == 0 {
				d.dst = make([]byte, 2*len(d.dst))
			}
		case errors.Is(err, transform.ErrShortSrc) && !atEOF:
			d.pending = append([]byte(nil), src...)
			return string(out), nil
		default:
			d.pending = nil
			return string(out), &DecodeError{Offset: d.offset, Err: err}
		}
	}
}

// DecodeText decodes a whole document, such as an uploaded file, as UTF-8.
// A leading byte order mark is dropped and invalid sequences become U+FFFD.
func DecodeText(data []byte) (string, error) {
	out, err := unicode.UTF8BOM.NewDecoder().Bytes(data)
	if err != nil {
		return "", &DecodeError{Err: err}
	}
	return string(out), nil
}
