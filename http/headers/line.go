package headers

import (
	"bytes"
	"errors"

	"github.com/indigo-web/utils/uf"
)

// MaxKeyLength is the default limit for a request header key.
const MaxKeyLength = 63

var (
	ErrMalformed  = errors.New("malformed header line")
	ErrKeyTooLong = errors.New("header key is too long")
)

type Line struct {
	Key, Value string
}

// ParseLine splits a single header line without its line ending into the key and the
// value. The key must be followed by ": " and must not start with a colon or a space.
// Everything past the first ": " is the value, taken verbatim.
//
// Returned strings share the memory with the line.
func ParseLine(line []byte, maxKeyLength int) (Line, error) {
	if len(line) == 0 || line[0] == ':' || line[0] == ' ' {
		return Line{}, ErrMalformed
	}

	colon := bytes.IndexByte(line, ':')
	switch {
	case colon == -1:
		return Line{}, ErrMalformed
	case colon > maxKeyLength:
		return Line{}, ErrKeyTooLong
	case colon+1 >= len(line) || line[colon+1] != ' ':
		return Line{}, ErrMalformed
	}

	return Line{
		Key:   uf.B2S(line[:colon]),
		Value: uf.B2S(line[colon+2:]),
	}, nil
}
