package buffer

// Buffer holds the bytes received from a connection but not yet consumed by a parser.
// Appending may move the data into a new backing array, so consumers must keep integer
// offsets into Bytes() instead of slices or pointers, and take the slice anew at the
// point of use.
type Buffer struct {
	memory  []byte
	maxSize int
}

func New(initialSize, maxSize int) *Buffer {
	return &Buffer{
		memory:  make([]byte, 0, initialSize),
		maxSize: maxSize,
	}
}

// Append writes data, checking whether the new amount of elements (bytes) doesn't exceed the
// limit, otherwise discarding the data and returning false.
func (b *Buffer) Append(elements []byte) (ok bool) {
	if len(b.memory)+len(elements) > b.maxSize {
		return false
	}

	b.memory = append(b.memory, elements...)
	return true
}

// Bytes returns all the unconsumed data. The returned slice is valid until the next Append,
// Discard or Reset.
func (b *Buffer) Bytes() []byte {
	return b.memory
}

// Len returns the number of buffered bytes.
func (b *Buffer) Len() int {
	return len(b.memory)
}

// Cap returns the capacity of the current backing array.
func (b *Buffer) Cap() int {
	return cap(b.memory)
}

// Discard drops the first n bytes and moves the rest to the beginning. Every offset held
// by a consumer must be decreased by n afterwards.
func (b *Buffer) Discard(n int) {
	if n >= len(b.memory) {
		b.Reset()
		return
	}

	rest := copy(b.memory, b.memory[n:])
	b.memory = b.memory[:rest]
}

// Reset just resets the length, so old values may be overridden by new ones.
func (b *Buffer) Reset() {
	b.memory = b.memory[:0]
}
