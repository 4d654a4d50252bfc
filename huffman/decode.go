package huffman

import "bytes"

// Decode decodes a Huffman bit stream into literal and reports whether the
// stream was well formed: a sequence of codes from the table followed by at
// most seven 1-bits of padding, as if the stream ended with a truncated EOS
// marker. On failure the partial decode already appended to literal is
// meaningless and must be discarded by the caller.
//
// The traversal never reads past buf; the lookup window is topped up with
// synthetic 1-bits once fewer than eight real bits remain, and a symbol is
// never completed out of those synthetic bits.
func (t *Tree) Decode(buf []byte, literal *bytes.Buffer) bool {
	snode := &t.nodes[0]
	// cur holds the bits not yet resolved to a symbol, cbits of them;
	// sbits counts the bits consumed since the last emitted symbol.
	cur, cbits, sbits := uint(0), uint8(0), uint8(0)
	for _, b := range buf {
		cur = cur<<8 | uint(b)
		cbits += 8
		sbits += 8
		for cbits >= 8 {
			nd := snode.index[byte(cur>>(cbits-8))]
			if !nd.isLeaf() {
				cbits -= 8
				snode = &t.nodes[nd.super]
				continue
			}
			if nd.bits == 0 {
				// unassigned entry: the window is not a prefix of any code
				return false
			}
			literal.WriteByte(nd.sym)
			cbits -= nd.bits
			snode = &t.nodes[0]
			sbits = cbits
		}
	}

	// Fewer than eight real bits remain. Top the window up with 1s; codes
	// short enough to fit in the real bits still resolve, anything that
	// would reach into the padding is left to the checks below.
	for cbits > 0 {
		pad := 8 - cbits
		nd := snode.index[byte(cur<<pad)|byte(1<<pad-1)]
		if !nd.isLeaf() || nd.bits == 0 || nd.bits > cbits {
			break
		}
		literal.WriteByte(nd.sym)
		cbits -= nd.bits
		snode = &t.nodes[0]
		sbits = cbits
	}

	if sbits > 7 {
		// either an incomplete code or more than seven bits of padding
		return false
	}
	// whatever was not consumed must be a prefix of the all-ones EOS code
	mask := uint(1)<<cbits - 1
	return cur&mask == mask
}
