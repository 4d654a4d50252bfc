package hpack

import (
	"bytes"
	"errors"

	"github.com/jakegut/gohpack/huffman"
)

// ErrInvalidHuffman is returned when a huffman-coded string literal does
// not decode to a valid sequence of codes followed by 1-padding.
var ErrInvalidHuffman = errors.New("hpack: invalid huffman-encoded string")

// ErrTruncated is returned when a header block ends in the middle of an
// integer or string literal.
var ErrTruncated = errors.New("hpack: truncated header block")

type HPackDecoder struct {
	indexTable *indexTable
}

func Decoder() *HPackDecoder {
	return &HPackDecoder{
		indexTable: NewIndexTable(),
	}
}

func decInt(bs *[]byte, prefix int) (int, error) {
	if len(*bs) == 0 {
		return 0, ErrTruncated
	}
	mask := (1 << prefix) - 1
	i := int((*bs)[0]) & mask
	*bs = (*bs)[1:]
	if i < mask {
		return i, nil
	}

	m := 0
	for len(*bs) > 0 {
		oct := (*bs)[0]
		*bs = (*bs)[1:]
		i += int(oct&127) << m
		m += 7
		if oct&128 != 128 {
			return i, nil
		}
	}
	return 0, ErrTruncated
}

func readStringLiteral(bs *[]byte) (string, error) {
	if len(*bs) == 0 {
		return "", ErrTruncated
	}
	huffEncoded := (*bs)[0]&0x80 != 0
	n, err := decInt(bs, 7)
	if err != nil {
		return "", err
	}
	if n > len(*bs) {
		return "", ErrTruncated
	}
	dec := (*bs)[:n]
	var str string
	if huffEncoded {
		var buf bytes.Buffer
		if !huffman.HpackTree().Decode(dec, &buf) {
			return "", ErrInvalidHuffman
		}
		str = buf.String()
	} else {
		str = string(dec)
	}

	*bs = (*bs)[n:]
	return str, nil
}

func (h *HPackDecoder) readHeaderFieldInternal(bs *[]byte, idx int) (Header, error) {
	if idx > 0 {
		header, err := h.indexTable.Get(idx)
		if err != nil {
			return Header{}, err
		}
		val, err := readStringLiteral(bs)
		if err != nil {
			return Header{}, err
		}
		return Header{
			Name:  header.Name,
			Value: val,
		}, nil
	} else {
		name, err := readStringLiteral(bs)
		if err != nil {
			return Header{}, err
		}
		val, err := readStringLiteral(bs)
		if err != nil {
			return Header{}, err
		}
		return Header{
			Name:  name,
			Value: val,
		}, nil
	}
}

func (h *HPackDecoder) Decode(bs []byte) ([]Header, error) {
	headers := []Header{}
	for len(bs) > 0 {
		field := bs[0]

		indexedHeader := (field & 0x80) != 0
		incrementedIndexed := (field & 0xc0) == 0x40

		woIndexing := (field & 0xf0) == 0
		neverIndexing := (field & 0xf0) == 0x10
		sizeUpdate := (field & 0xe0) == 0x20

		if indexedHeader {
			idx, err := decInt(&bs, 7)
			if err != nil {
				return nil, err
			}
			header, err := h.indexTable.Get(idx)
			if err != nil {
				return nil, err
			}

			headers = append(headers, header)
		} else if incrementedIndexed {
			idx, err := decInt(&bs, 6)
			if err != nil {
				return nil, err
			}
			header, err := h.readHeaderFieldInternal(&bs, idx)
			if err != nil {
				return nil, err
			}
			h.indexTable.Add(header)
			headers = append(headers, header)
		} else if woIndexing || neverIndexing {
			idx, err := decInt(&bs, 4)
			if err != nil {
				return nil, err
			}
			header, err := h.readHeaderFieldInternal(&bs, idx)
			if err != nil {
				return nil, err
			}
			header.neverIndexed = neverIndexing
			headers = append(headers, header)
		} else if sizeUpdate {
			size, err := decInt(&bs, 5)
			if err != nil {
				return nil, err
			}
			h.indexTable.UpdateMaxSize(size)
		}
	}
	return headers, nil
}
