package huffman

import (
	"bytes"
	"encoding/hex"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"golang.org/x/net/http2/hpack"
)

type encodeTest struct {
	in     string
	outhex string
}

func TestEncodeVectors(t *testing.T) {
	// examples from RFC 7541 appendix C
	tests := []encodeTest{
		{"www.example.com", "f1e3c2e5f23a6ba0ab90f4ff"},
		{"no-cache", "a8eb10649cbf"},
		{"custom-key", "25a849e95ba97d7f"},
		{"custom-value", "25a849e95bb8e8b4bf"},
		{"302", "6402"},
		{"private", "aec3771a4b"},
		{"Mon, 21 Oct 2013 20:13:21 GMT", "d07abe941054d444a8200595040b8166e082a62d1bff"},
		{"https://www.example.com", "9d29ad171863c78f0b97c8e9ae82ae43d3"},
	}

	tree := HpackTree()
	for _, tt := range tests {
		var buf bytes.Buffer
		n := tree.Encode(tt.in, &buf)
		assert.Equal(t, tt.outhex, hex.EncodeToString(buf.Bytes()))
		assert.Equal(t, uint32(buf.Len()), n)
		assert.Equal(t, n, tree.EncodeSize(tt.in))

		var lit bytes.Buffer
		assert.True(t, tree.Decode(buf.Bytes(), &lit))
		assert.Equal(t, tt.in, lit.String())
	}
}

func TestRoundTrip(t *testing.T) {
	tree := HpackTree()

	all := make([]byte, 256)
	for i := range all {
		all[i] = byte(i)
	}
	samples := []string{"", "e", "Hello, world!", "accept-encoding", string(all)}

	rng := rand.New(rand.NewSource(7))
	for i := 0; i < 500; i++ {
		b := make([]byte, rng.Intn(100))
		for j := range b {
			b[j] = byte(rng.Intn(256))
		}
		samples = append(samples, string(b))
	}

	for _, s := range samples {
		var buf bytes.Buffer
		n := tree.Encode(s, &buf)
		assert.Equal(t, tree.EncodeSize(s), n)
		assert.Equal(t, uint32(buf.Len()), n)

		var lit bytes.Buffer
		assert.True(t, tree.Decode(buf.Bytes(), &lit))
		assert.Equal(t, s, lit.String())
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name string
		in   []byte
	}{
		{"EOS in stream", []byte{0xff, 0xff, 0xff, 0xff}},
		{"truncated long code", []byte{0xff}},
		{"padding bit zero", []byte{0x2e}},     // 'e' followed by 110
		{"padding bits zero", []byte{0x2d}},    // 'e' followed by 101
		{"low padding bit zero", []byte{0x2b}}, // 'e' followed by 011
		{"overlong padding", []byte{0xf8, 0xff}},
	}

	tree := HpackTree()
	for _, tt := range tests {
		var lit bytes.Buffer
		assert.False(t, tree.Decode(tt.in, &lit), tt.name)
	}

	// sanity: the valid single-symbol stream these were corrupted from
	var lit bytes.Buffer
	assert.True(t, tree.Decode([]byte{0x2f}, &lit))
	assert.Equal(t, "e", lit.String())
}

func TestEmptyInput(t *testing.T) {
	tree := HpackTree()

	var buf bytes.Buffer
	assert.Equal(t, uint32(0), tree.Encode("", &buf))
	assert.Equal(t, 0, buf.Len())
	assert.Equal(t, uint32(0), tree.EncodeSize(""))

	var lit bytes.Buffer
	assert.True(t, tree.Decode(nil, &lit))
	assert.Equal(t, 0, lit.Len())
}

func TestCodeLookup(t *testing.T) {
	tree := HpackTree()

	code, nbits := tree.Code('e')
	assert.Equal(t, uint32(0x5), code)
	assert.Equal(t, uint8(5), nbits)

	// every symbol encodes with exactly the code the accessor reports
	for ch := 0; ch < 256; ch++ {
		code, nbits := tree.Code(byte(ch))
		assert.Equal(t, hpackCodes[ch], code)
		assert.Equal(t, hpackCodeLen[ch], nbits)

		var buf bytes.Buffer
		tree.Encode(string([]byte{byte(ch)}), &buf)
		var got uint64
		for _, b := range buf.Bytes() {
			got = got<<8 | uint64(b)
		}
		pad := 8*uint(buf.Len()) - uint(nbits)
		assert.Equal(t, uint64(code), got>>pad)
		assert.Equal(t, uint64(1)<<pad-1, got&(uint64(1)<<pad-1))
	}
}

func TestAgainstNetHpack(t *testing.T) {
	tree := HpackTree()

	rng := rand.New(rand.NewSource(42))
	samples := []string{"", "www.example.com", "no-cache", "curl/8.7.1"}
	for i := 0; i < 200; i++ {
		b := make([]byte, rng.Intn(64))
		for j := range b {
			b[j] = byte(rng.Intn(256))
		}
		samples = append(samples, string(b))
	}

	for _, s := range samples {
		var buf bytes.Buffer
		tree.Encode(s, &buf)
		assert.Equal(t, hpack.AppendHuffmanString(nil, s), buf.Bytes())
		assert.Equal(t, uint32(hpack.HuffmanEncodeLength(s)), tree.EncodeSize(s))

		got, err := hpack.HuffmanDecodeToString(buf.Bytes())
		assert.NoError(t, err)
		assert.Equal(t, s, got)

		var lit bytes.Buffer
		assert.True(t, tree.Decode(hpack.AppendHuffmanString(nil, s), &lit))
		assert.Equal(t, s, lit.String())
	}
}

// newTestTable builds a small canonical table where 'e' has the four bit
// code 0001: one more four bit code, then 194 eight bit and 60 nine bit
// codes filling the space exactly.
func newTestTable() ([]uint32, []uint8) {
	codes := make([]uint32, 257)
	nbits := make([]uint8, 257)
	codes['e'], nbits['e'] = 0x1, 4

	var others []int
	for ch := 0; ch < 256; ch++ {
		if ch != 'e' {
			others = append(others, ch)
		}
	}
	codes[others[0]], nbits[others[0]] = 0x0, 4
	for i, ch := range others[1:195] {
		codes[ch], nbits[ch] = uint32(0x20+i), 8
	}
	for i, ch := range others[195:] {
		codes[ch], nbits[ch] = uint32(0x1c4+i), 9
	}
	codes[EOS], nbits[EOS] = 0x1ff, 9
	return codes, nbits
}

func TestFourBitCodeTable(t *testing.T) {
	tree := New(newTestTable())

	code, nbits := tree.Code('e')
	assert.Equal(t, uint32(0x1), code)
	assert.Equal(t, uint8(4), nbits)

	// code followed by 1-padding fills out exactly one byte
	var buf bytes.Buffer
	assert.Equal(t, uint32(1), tree.Encode("e", &buf))
	assert.Equal(t, []byte{0x1f}, buf.Bytes())

	var lit bytes.Buffer
	assert.True(t, tree.Decode([]byte{0x1f}, &lit))
	assert.Equal(t, "e", lit.String())

	// flipping any padding bit must fail the decode
	for _, corrupt := range []byte{0x1e, 0x1d, 0x1b} {
		var lit bytes.Buffer
		assert.False(t, tree.Decode([]byte{corrupt}, &lit))
	}

	rng := rand.New(rand.NewSource(3))
	for i := 0; i < 100; i++ {
		b := make([]byte, rng.Intn(80))
		for j := range b {
			b[j] = byte(rng.Intn(256))
		}
		s := string(b)

		var buf bytes.Buffer
		n := tree.Encode(s, &buf)
		assert.Equal(t, tree.EncodeSize(s), n)

		var lit bytes.Buffer
		assert.True(t, tree.Decode(buf.Bytes(), &lit))
		assert.Equal(t, s, lit.String())
	}
}

func TestMalformedTablePanics(t *testing.T) {
	codes, nbits := newTestTable()

	// duplicate an existing code: the leaf ranges overlap
	codes['x'], nbits['x'] = codes['e'], nbits['e']
	assert.Panics(t, func() { New(codes, nbits) })

	codes, nbits = newTestTable()
	nbits['x'] = 0
	assert.Panics(t, func() { New(codes, nbits) })

	assert.Panics(t, func() { New(make([]uint32, 10), make([]uint8, 10)) })
}
