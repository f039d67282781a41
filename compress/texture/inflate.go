// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

// Package texture decompresses texture-block payloads: Huffman-tagged runs
// of constant pixel-block colors and alpha plus a literal residue of raw
// block words, targeting the DXT family of block-compressed formats.
package texture

import (
	"encoding/binary"
	"errors"
)

var (
	ErrInputBufferEmpty     = errors.New("texture: input buffer is empty")
	ErrOutputBufferEmpty    = errors.New("texture: output buffer is empty")
	ErrOutputBufferTooSmall = errors.New("texture: output buffer too small")
)

// Inflate decompresses a texture of the given dimensions and FourCC format
// from input into output. output must hold at least one full pixel block
// per 4x4 tile; the number of bytes written, always
// bytesPerPixelBlock * ceil(w/4) * ceil(h/4), is returned.
func Inflate(width, height uint16, fourCC uint32, input, output []byte) (int, error) {
	if len(input) == 0 {
		return 0, ErrInputBufferEmpty
	}
	if len(output) == 0 {
		return 0, ErrOutputBufferEmpty
	}

	format, err := DeduceFormat(fourCC)
	if err != nil {
		return 0, err
	}
	full := newFullFormat(format, width, height)

	outputSize := full.bytesPerPixelBlock * full.nbPixelBlocks
	if len(output) < outputSize {
		return 0, ErrOutputBufferTooSmall
	}

	inflateData(newState(input), full, output[:outputSize])
	return outputSize, nil
}

func inflateData(st *state, full fullFormat, output []byte) {
	// Compressed data size, advisory only.
	st.NeedBits(32)
	st.DropBits(32)

	st.NeedBits(32)
	compressionFlags := st.ReadBits(32)
	st.DropBits(32)

	colorSet := make([]bool, full.nbPixelBlocks)
	alphaSet := make([]bool, full.nbPixelBlocks)

	if compressionFlags&cfDecodeWhiteColor != 0 {
		decodeWhiteColor(st, alphaSet, colorSet, full, output)
	}
	if compressionFlags&cfDecodeConstantAlphaFrom4Bits != 0 {
		decodeConstantAlpha(st, alphaSet, full, output, 4)
	}
	if compressionFlags&cfDecodeConstantAlphaFrom8Bits != 0 {
		decodeConstantAlpha(st, alphaSet, full, output, 8)
	}
	if compressionFlags&cfDecodePlainColor != 0 {
		decodePlainColor(st, colorSet, full, output)
	}

	// A fully buffered word has not been consumed from the stream yet;
	// hand it back before switching to raw word reads.
	if st.bits >= 32 {
		st.pos--
	}

	if (full.Flags&ffAlpha != 0 && full.Flags&ffDeducedAlpha == 0) ||
		full.Flags&ffBiColor != 0 {
		for i := 0; i < len(alphaSet) && st.pos < st.words; i++ {
			if alphaSet[i] {
				continue
			}
			binary.LittleEndian.PutUint32(output[full.bytesPerPixelBlock*i:], st.word(st.pos))
			st.pos++
			if full.bytesPerComponent > 4 {
				if st.pos >= st.words {
					break
				}
				binary.LittleEndian.PutUint32(output[full.bytesPerPixelBlock*i+4:], st.word(st.pos))
				st.pos++
			}
		}
	}

	if full.Flags&ffColor != 0 || full.Flags&ffBiColor != 0 {
		componentOffset := 0
		if full.hasTwoComponents {
			componentOffset = full.bytesPerComponent
		}
		for i := 0; i < len(colorSet) && st.pos < st.words; i++ {
			if colorSet[i] {
				continue
			}
			offset := full.bytesPerPixelBlock*i + componentOffset
			binary.LittleEndian.PutUint32(output[offset:], st.word(st.pos))
			st.pos++
		}
		if full.bytesPerComponent > 4 {
			for i := 0; i < len(colorSet) && st.pos < st.words; i++ {
				if colorSet[i] {
					continue
				}
				offset := full.bytesPerPixelBlock*i + 4 + componentOffset
				binary.LittleEndian.PutUint32(output[offset:], st.word(st.pos))
				st.pos++
			}
		}
	}
}

// decodeWhiteColor fills runs of pixel blocks with opaque white, marking
// both components written.
func decodeWhiteColor(st *state, alphaSet, colorSet []bool, full fullFormat, output []byte) {
	pos := 0
	for pos < full.nbPixelBlocks {
		code, err := dict.ReadCode(st)
		if err != nil {
			return
		}

		st.NeedBits(1)
		value := st.ReadBits(1)
		st.DropBits(1)

		for code > 0 && pos < full.nbPixelBlocks {
			if !colorSet[pos] {
				if value != 0 {
					binary.LittleEndian.PutUint64(output[full.bytesPerPixelBlock*pos:], 0xFFFFFFFFFFFFFFFE)
					alphaSet[pos] = true
					colorSet[pos] = true
				}
				code--
			}
			pos++
		}
		for pos < full.nbPixelBlocks && colorSet[pos] {
			pos++
		}
	}
}

// decodeConstantAlpha fills runs of pixel blocks with a constant alpha
// component read as nbBits bits up front. The per-run isNotNull bit is
// consumed only when the run's value bit is set; otherwise it stays in the
// stream.
func decodeConstantAlpha(st *state, alphaSet []bool, full fullFormat, output []byte, nbBits uint8) {
	st.NeedBits(nbBits)
	alphaByte := st.ReadBits(nbBits)
	st.DropBits(nbBits)

	var alphaValue uint64
	if nbBits == 4 {
		b := alphaByte | alphaByte<<4
		w := b | b<<8
		d := w | w<<16
		alphaValue = uint64(d) | uint64(d)<<32
	} else {
		alphaValue = uint64(alphaByte | alphaByte<<8)
	}

	var pattern, zero [8]byte
	binary.LittleEndian.PutUint64(pattern[:], alphaValue)

	pos := 0
	for pos < full.nbPixelBlocks {
		code, err := dict.ReadCode(st)
		if err != nil {
			return
		}

		st.NeedBits(2)
		value := st.ReadBits(1)
		st.DropBits(1)
		isNotNull := st.ReadBits(1)
		if value != 0 {
			st.DropBits(1)
		}

		component := zero[:]
		if isNotNull != 0 {
			component = pattern[:]
		}

		for code > 0 && pos < full.nbPixelBlocks {
			if !alphaSet[pos] {
				if value != 0 {
					copy(output[full.bytesPerPixelBlock*pos:][:full.bytesPerComponent], component)
					alphaSet[pos] = true
				}
				code--
			}
			pos++
		}
		for pos < full.nbPixelBlocks && alphaSet[pos] {
			pos++
		}
	}
}

// decodePlainColor reads one 24-bit BGR color, folds it into an 8-byte
// approximated DXT block, and fills runs of pixel blocks with it.
func decodePlainColor(st *state, colorSet []bool, full fullFormat, output []byte) {
	st.NeedBits(24)
	blue := st.ReadBits(8)
	st.DropBits(8)
	green := st.ReadBits(8)
	st.DropBits(8)
	red := st.ReadBits(8)
	st.DropBits(8)

	var block [8]byte
	binary.LittleEndian.PutUint64(block[:], packPlainColorBlock(red, green, blue, full.Flags&ffDeducedAlpha != 0))

	componentOffset := 0
	if full.hasTwoComponents {
		componentOffset = full.bytesPerComponent
	}

	pos := 0
	for pos < full.nbPixelBlocks {
		code, err := dict.ReadCode(st)
		if err != nil {
			return
		}

		st.NeedBits(1)
		value := st.ReadBits(1)
		st.DropBits(1)

		for code > 0 && pos < full.nbPixelBlocks {
			if !colorSet[pos] {
				if value != 0 {
					offset := full.bytesPerPixelBlock*pos + componentOffset
					copy(output[offset:][:full.bytesPerComponent], block[:])
					colorSet[pos] = true
				}
				code--
			}
			pos++
		}
		for pos < full.nbPixelBlocks && colorSet[pos] {
			pos++
		}
	}
}
