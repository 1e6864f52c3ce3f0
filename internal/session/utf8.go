package session

import (
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// utf8Assembler turns a byte stream of token pieces into text. Incomplete
// sequences wait for the next piece; invalid bytes become U+FFFD.
type utf8Assembler struct {
	t       transform.Transformer
	pending []byte
	buf     []byte
}

func newUTF8Assembler() *utf8Assembler {
	return &utf8Assembler{
		t:   unicode.UTF8.NewDecoder(),
		buf: make([]byte, utf8BufferBytes),
	}
}

// Write appends p and returns the text that is now complete.
func (a *utf8Assembler) Write(p []byte) string {
	a.pending = append(a.pending, p...)
	return a.drain(false)
}

// Flush decodes whatever is left, replacing a truncated tail.
func (a *utf8Assembler) Flush() string {
	s := a.drain(true)
	a.t.Reset()
	return s
}

func (a *utf8Assembler) drain(atEOF bool) string {
	var sb strings.Builder
	for len(a.pending) > 0 {
		nDst, nSrc, err := a.t.Transform(a.buf, a.pending, atEOF)
		sb.Write(a.buf[:nDst])
		a.pending = a.pending[nSrc:]
		if err != transform.ErrShortDst {
			break
		}
	}
	return sb.String()
}
