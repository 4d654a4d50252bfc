package hpack

import (
	"errors"
	"strings"
)

type Header struct {
	Name         string
	Value        string
	neverIndexed bool
}

func NewHeader(name, value string) Header {
	return Header{
		Name:  strings.ToLower(name),
		Value: value,
	}
}

func (h Header) Size() int {
	return len(h.Name) + len(h.Value) + 32
}

var staticTable = [...]Header{
	{},
	{Name: ":authority"},
	{Name: ":method", Value: "GET"},
	{Name: ":method", Value: "POST"},
	{Name: ":path", Value: "/"},
	{Name: ":path", Value: "/index.html"},
	{Name: ":scheme", Value: "http"},
	{Name: ":scheme", Value: "https"},
	{Name: ":status", Value: "200"},
	{Name: ":status", Value: "204"},
	{Name: ":status", Value: "206"},
	{Name: ":status", Value: "304"},
	{Name: ":status", Value: "400"},
	{Name: ":status", Value: "404"},
	{Name: ":status", Value: "500"},
	{Name: "accept-charset"},
	{Name: "accept-encoding", Value: "gzip, deflate"},
	{Name: "accept-language"},
	{Name: "accept-ranges"},
	{Name: "accept"},
	{Name: "access-control-allow-origin"},
	{Name: "age"},
	{Name: "allow"},
	{Name: "authorization"},
	{Name: "cache-control"},
	{Name: "content-disposition"},
	{Name: "content-encoding"},
	{Name: "content-language"},
	{Name: "content-length"},
	{Name: "content-location"},
	{Name: "content-range"},
	{Name: "content-type"},
	{Name: "cookie"},
	{Name: "date"},
	{Name: "etag"},
	{Name: "expect"},
	{Name: "expires"},
	{Name: "from"},
	{Name: "host"},
	{Name: "if-match"},
	{Name: "if-modified-since"},
	{Name: "if-none-match"},
	{Name: "if-range"},
	{Name: "if-unmodified-since"},
	{Name: "last-modified"},
	{Name: "link"},
	{Name: "location"},
	{Name: "max-forwards"},
	{Name: "proxy-authenticate"},
	{Name: "proxy-authorization"},
	{Name: "range"},
	{Name: "referer"},
	{Name: "refresh"},
	{Name: "retry-after"},
	{Name: "server"},
	{Name: "set-cookie"},
	{Name: "strict-transport-security"},
	{Name: "transfer-encoding"},
	{Name: "user-agent"},
	{Name: "vary"},
	{Name: "via"},
	{Name: "www-authenticate"},
}

type indexTable struct {
	dynamicTable []Header
	currentSize  int
	maxSize      int
}

func NewIndexTable() *indexTable {
	return &indexTable{
		dynamicTable: make([]Header, 0),
		currentSize:  0,
		maxSize:      4096,
	}
}

var ErrIndexingTable = errors.New("index not in addressable space")

func (i *indexTable) Get(index int) (Header, error) {
	if index <= 0 {
		return Header{}, ErrIndexingTable
	}

	if index < len(staticTable) {
		return staticTable[index], nil
	}
	index -= len(staticTable)
	if index < len(i.dynamicTable) {
		return i.dynamicTable[index], nil
	}

	return Header{}, ErrIndexingTable
}

func (i *indexTable) UpdateMaxSize(size int) {
	i.maxSize = size
	i.reduce()
}

func (i *indexTable) Add(header Header) {
	i.dynamicTable = append([]Header{header}, i.dynamicTable...)
	i.currentSize += header.Size()
	i.reduce()
}

func (i *indexTable) reduce() {
	for i.currentSize > i.maxSize {
		header := i.dynamicTable[len(i.dynamicTable)-1]
		i.dynamicTable = i.dynamicTable[:len(i.dynamicTable)-1]
		i.currentSize -= header.Size()
	}
}
