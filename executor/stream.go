package executor

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newUTF8Reader wraps r with a decoder that holds back multi-byte
// sequences split across reads until they complete and substitutes
// U+FFFD for invalid bytes, so chunk boundaries never corrupt text.
func newUTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.UTF8.NewDecoder())
}
