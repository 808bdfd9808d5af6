package websocket

const (
	keyLength = 4
	// legacyKeyLength is the amount of raw key bytes following a legacy handshake request.
	legacyKeyLength = 8
)

// Key is the 4-byte masking key along with how much of it is already received.
type Key struct {
	val [keyLength]byte
	pos int
}

// Push appends a byte of the key and reports whether the key is complete.
func (k *Key) Push(b byte) (complete bool) {
	k.val[k.pos] = b
	k.pos++

	return k.pos == keyLength
}

// At returns the key byte masking the i-th byte of the masked sequence.
func (k *Key) At(i int) byte {
	return k.val[i%keyLength]
}

// Bytes returns the key.
func (k *Key) Bytes() [keyLength]byte {
	return k.val
}

func (k *Key) Reset() {
	*k = Key{}
}

// Mask XORs data with the key in place, as if data started at the offset-th byte of the
// masked sequence. Masking is its own inverse.
func Mask(key [keyLength]byte, offset int, data []byte) {
	for i := range data {
		data[i] ^= key[(offset+i)%keyLength]
	}
}
