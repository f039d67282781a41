// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package dat

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/mindstab/gw2-compression/internal/bitstream"
)

type bitWriter struct {
	words []uint32
	cur   uint32
	n     uint8
}

func (w *bitWriter) write(value uint32, bits uint8) {
	for i := int(bits) - 1; i >= 0; i-- {
		w.cur = w.cur<<1 | value>>uint(i)&1
		w.n++
		if w.n == 32 {
			w.words = append(w.words, w.cur)
			w.cur, w.n = 0, 0
		}
	}
}

func (w *bitWriter) bytes() []byte {
	words := w.words
	if w.n > 0 {
		words = append(words, w.cur<<(32-w.n))
	}
	words = append(words, 0)
	out := make([]byte, 4*len(words))
	for i, v := range words {
		binary.LittleEndian.PutUint32(out[4*i:], v)
	}
	return out
}

type dictCode struct {
	value uint32
	bits  uint8
}

// dictCodes replays the canonical code assignment over the dictionary's
// symbol lists.
func dictCodes() map[uint16]dictCode {
	codes := make(map[uint16]dictCode)
	c := uint32(0)
	for bits := 0; bits < 32; bits++ {
		if bits < len(dictSymbols) {
			list := dictSymbols[bits]
			for i := len(list) - 1; i >= 0; i-- {
				codes[list[i]] = dictCode{value: c, bits: uint8(bits)}
				c--
			}
		}
		c = c<<1 + 1
	}
	return codes
}

func (w *bitWriter) writeDictCode(t testing.TB, codes map[uint16]dictCode, symbol uint16) {
	t.Helper()
	c, ok := codes[symbol]
	if !ok {
		t.Fatalf("symbol %#x not in dictionary", symbol)
	}
	w.write(c.value, c.bits)
}

func TestDictionaryRoundTrip(t *testing.T) {
	codes := dictCodes()

	var sequence []uint16
	var w bitWriter
	for _, list := range dictSymbols {
		for _, symbol := range list {
			sequence = append(sequence, symbol)
			c := codes[symbol]
			w.write(c.value, c.bits)
		}
	}

	r := bitstream.NewReader(w.bytes(), bitstream.SkipNone)
	for i, want := range sequence {
		got, err := dict.ReadCode(r)
		if err != nil {
			t.Fatalf("symbol %d (%#x): %v", i, want, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %#x, want %#x", i, got, want)
		}
	}
}

func TestInflateEmptyBuffers(t *testing.T) {
	if _, err := Inflate(nil, make([]byte, 16)); err != ErrInputBufferEmpty {
		t.Fatalf("empty input: got %v", err)
	}
	if _, err := Inflate([]byte{0x00}, nil); err != ErrOutputBufferEmpty {
		t.Fatalf("empty output: got %v", err)
	}
}

// writeSingleBitTree emits a descriptor declaring numSymbols symbols, a
// run of skips, and length-1 codes for the given symbol indices (which
// must be listed in descending order).
func writeSingleBitTree(t testing.TB, w *bitWriter, codes map[uint16]dictCode, numSymbols uint32, symbols ...int) {
	t.Helper()
	w.write(numSymbols, 16)
	remaining := int(numSymbols) - 1
	for _, symbol := range symbols {
		for remaining > symbol {
			gap := remaining - symbol
			switch {
			case gap >= 8:
				w.writeDictCode(t, codes, 0xE0) // skip 8
				remaining -= 8
			case gap >= 3:
				w.writeDictCode(t, codes, 0x40) // skip 3
				remaining -= 3
			case gap == 2:
				w.writeDictCode(t, codes, 0x20) // skip 2
				remaining -= 2
			default:
				w.writeDictCode(t, codes, 0x00) // skip 1
				remaining--
			}
		}
		w.writeDictCode(t, codes, 0x01) // one symbol, one bit
		remaining--
	}
	for remaining >= 0 {
		switch {
		case remaining >= 7:
			w.writeDictCode(t, codes, 0xE0)
			remaining -= 8
		case remaining >= 2:
			w.writeDictCode(t, codes, 0x40)
			remaining -= 3
		default:
			w.writeDictCode(t, codes, 0x00)
			remaining--
		}
	}
}

func TestInflateSingleLiteral(t *testing.T) {
	codes := dictCodes()
	var w bitWriter
	w.write(0, 4) // method
	w.write(0, 4) // write size const add - 1

	writeSingleBitTree(t, &w, codes, 0x42, 0x41) // symbol tree: 'A'
	writeSingleBitTree(t, &w, codes, 1, 0)       // copy tree: offset code 0
	w.write(0, 4)                                // max count

	w.write(1, 1) // the single-symbol code for 'A'

	output := make([]byte, 1)
	n, err := Inflate(w.bytes(), output)
	if err != nil {
		t.Fatal(err)
	}
	if n != 1 || output[0] != 'A' {
		t.Fatalf("got n=%d output=%q", n, output[:n])
	}
}

func TestInflateBackCopy(t *testing.T) {
	codes := dictCodes()
	var w bitWriter
	w.write(0, 4) // method
	w.write(0, 4) // write size const add - 1: sizes are +1

	// Symbol tree: literal 'X' and copy-size symbol 0x103 (3 + 1 bytes).
	writeSingleBitTree(t, &w, codes, 0x104, 0x103, 'X')
	// Copy tree: offset code 0 (distance 1).
	writeSingleBitTree(t, &w, codes, 1, 0)
	w.write(0, 4) // max count

	// 'X' then a copy: with both symbols at one bit, the later-registered
	// 'X' holds the higher code.
	w.write(1, 1) // literal 'X'
	w.write(0, 1) // copy symbol 0x103
	w.write(1, 1) // offset code 0 -> distance 1

	output := make([]byte, 5)
	n, err := Inflate(w.bytes(), output)
	if err != nil {
		t.Fatal(err)
	}
	if n != 5 || !bytes.Equal(output, []byte("XXXXX")) {
		t.Fatalf("got n=%d output=%q", n, output)
	}
}

func TestInflateRepeatable(t *testing.T) {
	// The static dictionary is shared; repeated decodes must agree.
	codes := dictCodes()
	var w bitWriter
	w.write(0, 4)
	w.write(0, 4)
	writeSingleBitTree(t, &w, codes, 0x42, 0x41)
	writeSingleBitTree(t, &w, codes, 1, 0)
	w.write(0, 4)
	w.write(1, 1)
	input := w.bytes()

	first := make([]byte, 1)
	second := make([]byte, 1)
	if _, err := Inflate(input, first); err != nil {
		t.Fatal(err)
	}
	if _, err := Inflate(input, second); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(first, second) {
		t.Fatalf("decodes disagree: %x vs %x", first, second)
	}
}

func TestInflateTruncatedInput(t *testing.T) {
	// Garbage that cannot parse a tree produces no output, not an error.
	n, err := Inflate(make([]byte, 8), make([]byte, 64))
	if err != nil {
		t.Fatal(err)
	}
	if n != 0 {
		t.Fatalf("produced %d bytes from zero input", n)
	}
}

func BenchmarkInflate(b *testing.B) {
	codes := dictCodes()
	var w bitWriter
	w.write(0, 4)
	w.write(0, 4)
	writeSingleBitTree(b, &w, codes, 0x104, 0x103, 'X')
	writeSingleBitTree(b, &w, codes, 1, 0)
	w.write(15, 4) // generous max count
	w.write(1, 1)  // literal 'X'
	for i := 0; i < 512; i++ {
		w.write(0, 1) // copy symbol
		w.write(1, 1) // distance 1
	}
	input := w.bytes()
	output := make([]byte, 1+512*4)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := Inflate(input, output); err != nil {
			b.Fatal(err)
		}
	}
}
