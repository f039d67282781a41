// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "github.com/mindstab/gw2-compression/internal/huffman"

// dict decodes the run counts of the block-iterator passes: one symbol at
// one bit, one at two, and 0x11 down to 0x02 at six. Built once at program
// start, immutable afterwards.
var dict = newDict()

func newDict() *huffman.Tree {
	var b huffman.Builder
	b.AddSymbol(0x01, 1)
	b.AddSymbol(0x12, 2)
	for symbol := uint16(0x11); symbol >= 0x02; symbol-- {
		b.AddSymbol(symbol, 6)
	}
	tree := new(huffman.Tree)
	b.Build(tree)
	return tree
}
