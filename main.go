package main

import (
	"bytes"
	"encoding/hex"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jakegut/gohpack/huffman"
)

func main() {
	decode := flag.Bool("d", false, "decode hex-encoded huffman input instead of encoding")
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "usage: gohpack [-d] string...")
		os.Exit(2)
	}

	tree := huffman.HpackTree()
	for _, arg := range flag.Args() {
		if *decode {
			bs, err := hex.DecodeString(arg)
			if err != nil {
				log.Fatalf("decoding hex %q: %s", arg, err)
			}
			var lit bytes.Buffer
			if !tree.Decode(bs, &lit) {
				log.Fatalf("invalid huffman stream %q", arg)
			}
			fmt.Println(lit.String())
		} else {
			var buf bytes.Buffer
			n := tree.Encode(arg, &buf)
			fmt.Printf("%s (%d -> %d bytes)\n", hex.EncodeToString(buf.Bytes()), len(arg), n)
		}
	}
}
