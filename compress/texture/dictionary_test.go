// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "testing"

func TestDictionaryRoundTrip(t *testing.T) {
	// Every run-count symbol decodes back through its canonical code: 0x01
	// is the one-bit code 1, 0x12 the two-bit code 01, and 0x11..0x02 the
	// six-bit codes 0 through 15.
	var sequence []uint16
	var w bitWriter
	w.write(1, 1)
	sequence = append(sequence, 0x01)
	w.write(1, 2)
	sequence = append(sequence, 0x12)
	for symbol := uint16(0x11); symbol >= 0x02; symbol-- {
		w.write(uint32(0x11-symbol), 6)
		sequence = append(sequence, symbol)
	}

	st := newState(w.bytes())
	for i, want := range sequence {
		got, err := dict.ReadCode(st)
		if err != nil {
			t.Fatalf("symbol %d (%#x): %v", i, want, err)
		}
		if got != want {
			t.Fatalf("symbol %d: got %#x, want %#x", i, got, want)
		}
	}
}
