package huffman

import "bytes"

// Encode appends the Huffman encoding of literal to buf, one code after
// another, most significant bit first. A final partial byte is padded on
// the low end with 1-bits, mirroring the high bits of the EOS marker so a
// decoder treats the tail as valid padding. Returns the number of bytes
// written, which always equals EncodeSize(literal).
func (t *Tree) Encode(literal string, buf *bytes.Buffer) uint32 {
	var (
		// codes are at most 30 bits, so flushing whole bytes always
		// leaves the accumulator room for the next code
		acc  uint64
		n    uint8 // valid bits in acc
		size uint32
	)
	for i := 0; i < len(literal); i++ {
		code, nbits := t.Code(literal[i])
		acc = acc<<nbits | uint64(code)
		n += nbits
		for n >= 8 {
			n -= 8
			buf.WriteByte(byte(acc >> n))
			size++
		}
	}
	if n > 0 {
		pad := 8 - n
		buf.WriteByte(byte(acc<<pad) | byte(1<<pad-1))
		size++
	}
	return size
}

// EncodeSize returns the number of bytes Encode will write for literal,
// without encoding anything. Works as a dry run, useful for sizing the
// destination buffer or a length prefix up front.
func (t *Tree) EncodeSize(literal string) uint32 {
	var nbits uint64
	for i := 0; i < len(literal); i++ {
		nbits += uint64(t.bits[literal[i]])
	}
	return uint32((nbits + 7) / 8)
}
