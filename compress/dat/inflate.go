// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

// Package dat decompresses dat-file archive records: an LZ77-style stream
// of literals and back-copies driven by two per-block Huffman alphabets,
// framed in 64 KiB container chunks.
package dat

import (
	"errors"

	"github.com/mindstab/gw2-compression/internal/bitstream"
	"github.com/mindstab/gw2-compression/internal/huffman"
)

var (
	ErrInputBufferEmpty  = errors.New("dat: input buffer is empty")
	ErrOutputBufferEmpty = errors.New("dat: output buffer is empty")
)

// Back-copy write sizes indexed by symbol-0x100, and the extra bits ORed
// into each before the constant addition from the header.
var (
	writeSizes = [29]uint16{
		0, 1, 2, 3, 4, 5, 6, 7, 8, 10, 12, 14, 16, 20, 24,
		28, 32, 40, 48, 56, 64, 80, 96, 112, 128, 160, 192, 224, 255,
	}
	writeSizeExtraBits = [29]uint8{
		0, 0, 0, 0, 0, 0, 0, 0, 1, 1, 1, 1, 2, 2, 2,
		2, 3, 3, 3, 3, 4, 4, 4, 4, 5, 5, 5, 5, 0,
	}
)

// Inflate decompresses a dat-file record from input into output, which the
// caller sizes to the expected decompressed length. It returns the number
// of bytes produced; a malformed or truncated stream yields a short count
// rather than an error.
func Inflate(input, output []byte) (int, error) {
	if len(input) == 0 {
		return 0, ErrInputBufferEmpty
	}
	if len(output) == 0 {
		return 0, ErrOutputBufferEmpty
	}

	r := bitstream.NewReader(input, bitstream.SkipChunkFraming)
	n := inflateData(r, output)
	// Trailing container alignment bit.
	r.DropBits(1)
	return n, nil
}

// parseHuffmanTree reads one tree descriptor: a symbol count followed by
// dictionary codes packing (run length, code length) pairs that assign
// code lengths to symbol indices counting down from the top.
func parseHuffmanTree(r *bitstream.Reader, tree *huffman.Tree, builder *huffman.Builder) bool {
	numSymbols := r.ReadBits(16)
	r.DropBits(16)
	if numSymbols > huffman.MaxSymbolValue {
		return false
	}

	builder.Reset()

	remaining := int32(numSymbols) - 1
	for remaining >= 0 {
		code, err := dict.ReadCode(r)
		if err != nil {
			return false
		}
		nbBits := uint8(code & 0x1F)
		count := int32(code>>5) + 1
		if nbBits == 0 {
			remaining -= count
			continue
		}
		for ; count > 0 && remaining >= 0; count-- {
			builder.AddSymbol(uint16(remaining), nbBits)
			remaining--
		}
	}

	return builder.Build(tree)
}

func inflateData(r *bitstream.Reader, output []byte) int {
	outPos := 0

	// 4-bit compression method, unused.
	r.DropBits(4)
	writeSizeConstAdd := int(r.ReadBits(4)) + 1
	r.DropBits(4)

	var symbolTree, copyTree huffman.Tree
	var builder huffman.Builder

	for outPos < len(output) {
		if !parseHuffmanTree(r, &symbolTree, &builder) ||
			!parseHuffmanTree(r, &copyTree, &builder) {
			break
		}

		maxCount := (int(r.ReadBits(4)) + 1) << 12
		r.DropBits(4)

		for readCount := 0; readCount < maxCount && outPos < len(output); readCount++ {
			symbol, err := symbolTree.ReadCode(r)
			if err != nil {
				return outPos
			}

			if symbol < 0x100 {
				output[outPos] = byte(symbol)
				outPos++
				continue
			}

			// Copy mode: the symbol selects the write size.
			symbol -= 0x100
			if int(symbol) >= len(writeSizes) {
				return outPos
			}
			writeSize := int(writeSizes[symbol])
			if extra := writeSizeExtraBits[symbol]; extra > 0 {
				writeSize |= int(r.ReadBits(extra))
				r.DropBits(extra)
			}
			writeSize += writeSizeConstAdd

			code, err := copyTree.ReadCode(r)
			if err != nil {
				return outPos
			}
			quot, rem := int(code)/2, int(code)%2

			var writeOffset int
			switch {
			case quot == 0:
				writeOffset = int(code)
			case quot < 17:
				writeOffset = (1 << (quot - 1)) * (2 + rem)
			default:
				return outPos
			}
			if quot > 1 {
				extra := uint8(quot - 1)
				writeOffset |= int(r.ReadBits(extra))
				r.DropBits(extra)
			}
			writeOffset++

			if writeOffset > outPos {
				return outPos
			}
			// Overlapping copies propagate byte-by-byte, RLE-style.
			for written := 0; written < writeSize && outPos < len(output); written++ {
				output[outPos] = output[outPos-writeOffset]
				outPos++
			}
		}
	}

	return outPos
}
