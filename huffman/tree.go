// Package huffman implements the Huffman coding used for HTTP header
// compression (RFC 7541, Appendix B).
//
// The traditional Huffman tree is binary, which makes decoding walk the
// input one bit at a time. The tree here is condensed into levels of
// 256-way super nodes so that every traversal step consumes a whole byte
// of input: an 8-bit window indexes directly into the current level, and
// codes shorter than the window are replicated across every entry their
// prefix covers. Lookup cost drops from O(bits) to O(bytes), which is one
// or two steps for most printable characters, at the price of more memory
// and a more laborious one-time build.
package huffman

import (
	"github.com/chronos-tachyon/assert"
)

// EOS is the symbol value of the end-of-stream marker. Its code is never
// inserted into the tree; its all-ones high bits are what the padding after
// the last real symbol mimics.
const EOS = 256

// maxSuperNodes bounds how many super nodes a code table can ever need.
// Codes are at most 30 bits, so a lookup chain is at most four levels deep,
// and the branching actually used by header alphabets stays well below
// this.
const maxSuperNodes = 46

// node is one entry of a super node. A leaf holds a decoded symbol plus how
// many bits of the 8-bit lookup window belong to its code; a branch points
// at the next super node. super == 0 marks a leaf, since no branch ever
// points back at the root. The zero value is an unassigned entry.
type node struct {
	sym   byte
	bits  uint8
	super uint8
}

func (n node) isLeaf() bool { return n.super == 0 }

// superNode is one 256-way level of the condensed tree, indexed by the next
// eight bits of input, most significant bit first.
type superNode struct {
	index [256]node
}

// Tree is an immutable condensed Huffman tree built once from a canonical
// code table. After New returns, nothing mutates the tree: any number of
// goroutines may call Decode, Encode, EncodeSize and Code concurrently.
type Tree struct {
	codes    []uint32
	bits     []uint8
	numNodes uint8
	nodes    [maxSuperNodes]superNode
}

// New builds a condensed tree from parallel code word and bit length
// tables, indexed by symbol value. The tables must cover all 256 byte
// values (entry 256, if present, is the EOS marker and is not inserted) and
// must form a valid prefix code; the caller keeps the slices alive and
// unmodified for the lifetime of the tree. A malformed table is a defect in
// the input, not a runtime condition, and fails the build immediately.
func New(codes []uint32, bits []uint8) *Tree {
	assert.Assertf(len(codes) == len(bits),
		"code table has %d entries, bit length table has %d", len(codes), len(bits))
	assert.Assertf(len(codes) >= 256,
		"code table covers %d symbols, need all 256 byte values", len(codes))

	t := &Tree{codes: codes, bits: bits, numNodes: 1}
	for ch := 0; ch < 256; ch++ {
		t.insert(codes[ch], bits[ch], byte(ch))
	}
	return t
}

// insert walks the code one byte at a time, allocating super nodes for each
// full level the code spans, then fills the leaf range covered by the
// remaining bits: every padding of the unused low bits of the window must
// resolve to this symbol.
func (t *Tree) insert(code uint32, nbits uint8, ch byte) {
	assert.Assertf(nbits >= 1 && nbits <= 30,
		"symbol %d has code length %d, want 1..30", ch, nbits)

	snode := &t.nodes[0]
	for nbits > 8 {
		nbits -= 8
		nd := &snode.index[uint8(code>>nbits)]
		assert.Assertf(nd.bits == 0,
			"code for symbol %d extends through a shorter code", ch)
		if nd.super == 0 {
			assert.Assertf(t.numNodes < maxSuperNodes,
				"super node capacity %d exhausted", maxSuperNodes)
			nd.super = t.numNodes
			t.numNodes++
		}
		snode = &t.nodes[nd.super]
	}

	shift := 8 - nbits
	start := int(uint8(code << shift))
	for i := start; i < start+1<<shift; i++ {
		nd := &snode.index[i]
		assert.Assertf(nd.bits == 0 && nd.super == 0,
			"code for symbol %d overlaps an existing entry", ch)
		nd.sym = ch
		nd.bits = nbits
	}
}

// Code returns the code word and bit length for a symbol. The code is
// aligned to the least significant bit: 'e' in the RFC 7541 table is
// (0x5, 5), the bit pattern 00101.
func (t *Tree) Code(ch byte) (uint32, uint8) {
	return t.codes[ch], t.bits[ch]
}
