// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "testing"

func FuzzInflate(f *testing.F) {
	f.Add([]byte{0x00, 0x00, 0x00, 0x00, 0x0F, 0x00, 0x00, 0x00})
	f.Add([]byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF})
	fourCCs := []uint32{FourCCDXT1, FourCCDXT5, FourCCDXTA, FourCCDXTL, FourCCDXTN}
	f.Fuzz(func(t *testing.T, input []byte) {
		if len(input) == 0 {
			return
		}
		output := make([]byte, 16*16)
		for _, fourCC := range fourCCs {
			n, err := Inflate(16, 16, fourCC, input, output)
			if err != nil {
				t.Fatal(err)
			}
			if n > len(output) {
				t.Fatalf("reported %d bytes for a %d byte buffer", n, len(output))
			}
		}
	})
}
