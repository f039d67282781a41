// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package texture

import "errors"

// ErrUnsupportedFormat reports a FourCC the decoder does not recognise.
var ErrUnsupportedFormat = errors.New("texture: unsupported format")

// Format flags.
const (
	ffColor        uint16 = 0x10
	ffAlpha        uint16 = 0x20
	ffDeducedAlpha uint16 = 0x40
	ffPlain        uint16 = 0x80
	ffBiColor      uint16 = 0x200
)

// Compression flags read from the stream header.
const (
	cfDecodeWhiteColor             = 0x01
	cfDecodeConstantAlphaFrom4Bits = 0x02
	cfDecodeConstantAlphaFrom8Bits = 0x04
	cfDecodePlainColor             = 0x08
)

// Recognised FourCC codes, little-endian.
const (
	FourCCDXT1 = 0x31545844
	FourCCDXT2 = 0x32545844
	FourCCDXT3 = 0x33545844
	FourCCDXT4 = 0x34545844
	FourCCDXT5 = 0x35545844
	FourCCDXTA = 0x41545844
	FourCCDXTL = 0x4C545844
	FourCCDXTN = 0x4E545844
	FourCC3DCX = 0x58434433
)

// Format describes a block-compressed pixel format.
type Format struct {
	Flags           uint16
	PixelSizeInBits uint16
}

// DeduceFormat maps a FourCC to its pixel format.
func DeduceFormat(fourCC uint32) (Format, error) {
	switch fourCC {
	case FourCCDXT1:
		return Format{Flags: ffColor | ffAlpha | ffDeducedAlpha, PixelSizeInBits: 4}, nil
	case FourCCDXT2, FourCCDXT3, FourCCDXT4, FourCCDXT5:
		return Format{Flags: ffColor | ffAlpha | ffPlain, PixelSizeInBits: 8}, nil
	case FourCCDXTA:
		return Format{Flags: ffAlpha | ffPlain, PixelSizeInBits: 4}, nil
	case FourCCDXTL:
		return Format{Flags: ffColor, PixelSizeInBits: 8}, nil
	case FourCCDXTN, FourCC3DCX:
		return Format{Flags: ffBiColor, PixelSizeInBits: 8}, nil
	}
	return Format{}, ErrUnsupportedFormat
}

// fullFormat is a Format with the geometry of a concrete texture.
type fullFormat struct {
	Format

	nbPixelBlocks      int
	bytesPerPixelBlock int
	bytesPerComponent  int
	hasTwoComponents   bool

	width  uint16
	height uint16
}

func newFullFormat(format Format, width, height uint16) fullFormat {
	full := fullFormat{Format: format, width: width, height: height}
	full.nbPixelBlocks = (int(width) + 3) / 4 * ((int(height) + 3) / 4)
	full.bytesPerPixelBlock = int(format.PixelSizeInBits) * 4 * 4 / 8
	full.hasTwoComponents = format.Flags&(ffPlain|ffColor|ffAlpha) == ffPlain|ffColor|ffAlpha ||
		format.Flags&ffBiColor != 0
	full.bytesPerComponent = full.bytesPerPixelBlock
	if full.hasTwoComponents {
		full.bytesPerComponent /= 2
	}
	return full
}
