package urldecode

import (
	"bytes"

	"github.com/indigo-web/pushwire/internal/hexconv"
)

// Decode translates %XX escapes and '+' characters of the URI in place and returns the
// shrunk slice, sharing the memory with src. Escape sequences which are truncated or
// contain non-hex digits are left as is.
func Decode(src []byte) []byte {
	i := bytes.IndexAny(src, "%+")
	if i == -1 {
		return src
	}

	w := i

	for ; i < len(src); i++ {
		switch c := src[i]; c {
		case '+':
			src[w] = ' '
		case '%':
			if i+2 < len(src) {
				if char, ok := hexconv.Pair(src[i+1], src[i+2]); ok {
					src[w] = char
					w++
					i += 2
					continue
				}
			}

			src[w] = c
		default:
			src[w] = c
		}

		w++
	}

	return src[:w]
}
