package hexconv

// Halfbyte maps an ASCII hex digit onto its value. Non-hex characters map onto 0,
// so check them with IsHex first.
var Halfbyte = [256]byte{
	'0': 0x0, '1': 0x1, '2': 0x2, '3': 0x3, '4': 0x4,
	'5': 0x5, '6': 0x6, '7': 0x7, '8': 0x8, '9': 0x9,
	'a': 0xa, 'b': 0xb, 'c': 0xc, 'd': 0xd, 'e': 0xe, 'f': 0xf,
	'A': 0xA, 'B': 0xB, 'C': 0xC, 'D': 0xD, 'E': 0xE, 'F': 0xF,
}

var isHex = [256]bool{
	'0': true, '1': true, '2': true, '3': true, '4': true,
	'5': true, '6': true, '7': true, '8': true, '9': true,
	'a': true, 'b': true, 'c': true, 'd': true, 'e': true, 'f': true,
	'A': true, 'B': true, 'C': true, 'D': true, 'E': true, 'F': true,
}

func IsHex(char byte) bool {
	return isHex[char]
}

// Pair decodes two hex digits into a byte. ok is false if any of them isn't a hex digit.
func Pair(hi, lo byte) (c byte, ok bool) {
	return Halfbyte[hi]<<4 | Halfbyte[lo], isHex[hi] && isHex[lo]
}
