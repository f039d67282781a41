// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

// Package dxt decodes raw DXT1/DXT3/DXT5 pixel-block data, as produced by
// the texture decompressor, into images.
package dxt

import (
	"encoding/binary"
	"errors"
	"image"
)

// ErrShortData reports input shorter than the block geometry requires.
var ErrShortData = errors.New("dxt: input shorter than block data")

// DecodeDXT1 decodes DXT1 block data (8 bytes per 4x4 tile) into an RGBA
// image, honoring the punch-through transparent mode when c0 <= c1.
func DecodeDXT1(width, height int, data []byte) (*image.RGBA, error) {
	blocksW, blocksH := (width+3)/4, (height+3)/4
	if len(data) < blocksW*blocksH*8 {
		return nil, ErrShortData
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	offset := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			c0 := binary.LittleEndian.Uint16(data[offset:])
			c1 := binary.LittleEndian.Uint16(data[offset+2:])
			indices := binary.LittleEndian.Uint32(data[offset+4:])
			offset += 8

			colors := colorPalette(c0, c1, c0 > c1)
			for p := 0; p < 16; p++ {
				x, y := bx*4+p%4, by*4+p/4
				if x >= width || y >= height {
					continue
				}
				c := colors[(indices>>(2*p))&0x03]
				setPixel(img, x, y, c[0], c[1], c[2], c[3])
			}
		}
	}
	return img, nil
}

// DecodeDXT3 decodes DXT3 block data (16 bytes per 4x4 tile: 4-bit
// explicit alpha followed by a color block).
func DecodeDXT3(width, height int, data []byte) (*image.RGBA, error) {
	blocksW, blocksH := (width+3)/4, (height+3)/4
	if len(data) < blocksW*blocksH*16 {
		return nil, ErrShortData
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	offset := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			alphaBits := binary.LittleEndian.Uint64(data[offset:])
			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += 16

			colors := colorPalette(c0, c1, true)
			for p := 0; p < 16; p++ {
				x, y := bx*4+p%4, by*4+p/4
				if x >= width || y >= height {
					continue
				}
				a := uint8(alphaBits >> (4 * p) & 0x0F)
				a |= a << 4
				c := colors[(indices>>(2*p))&0x03]
				setPixel(img, x, y, c[0], c[1], c[2], a)
			}
		}
	}
	return img, nil
}

// DecodeDXT5 decodes DXT5 block data (16 bytes per 4x4 tile: interpolated
// 3-bit alpha followed by a color block).
func DecodeDXT5(width, height int, data []byte) (*image.RGBA, error) {
	blocksW, blocksH := (width+3)/4, (height+3)/4
	if len(data) < blocksW*blocksH*16 {
		return nil, ErrShortData
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	offset := 0
	for by := 0; by < blocksH; by++ {
		for bx := 0; bx < blocksW; bx++ {
			a0, a1 := data[offset], data[offset+1]
			var alphaBits uint64
			for i := 0; i < 6; i++ {
				alphaBits |= uint64(data[offset+2+i]) << (8 * i)
			}
			c0 := binary.LittleEndian.Uint16(data[offset+8:])
			c1 := binary.LittleEndian.Uint16(data[offset+10:])
			indices := binary.LittleEndian.Uint32(data[offset+12:])
			offset += 16

			alpha := alphaPalette(a0, a1)
			colors := colorPalette(c0, c1, true)
			for p := 0; p < 16; p++ {
				x, y := bx*4+p%4, by*4+p/4
				if x >= width || y >= height {
					continue
				}
				a := alpha[(alphaBits>>(3*p))&0x07]
				c := colors[(indices>>(2*p))&0x03]
				setPixel(img, x, y, c[0], c[1], c[2], a)
			}
		}
	}
	return img, nil
}

// colorPalette expands two RGB-565 endpoints into the four-entry block
// palette. fourColor selects the opaque interpolation mode; otherwise the
// third entry is the midpoint and the fourth is transparent black.
func colorPalette(c0, c1 uint16, fourColor bool) [4][4]uint8 {
	r0, g0, b0 := expand565(c0)
	r1, g1, b1 := expand565(c1)

	var palette [4][4]uint8
	palette[0] = [4]uint8{r0, g0, b0, 255}
	palette[1] = [4]uint8{r1, g1, b1, 255}
	if fourColor {
		palette[2] = [4]uint8{
			uint8((2*int(r0) + int(r1)) / 3),
			uint8((2*int(g0) + int(g1)) / 3),
			uint8((2*int(b0) + int(b1)) / 3),
			255,
		}
		palette[3] = [4]uint8{
			uint8((int(r0) + 2*int(r1)) / 3),
			uint8((int(g0) + 2*int(g1)) / 3),
			uint8((int(b0) + 2*int(b1)) / 3),
			255,
		}
	} else {
		palette[2] = [4]uint8{
			uint8((int(r0) + int(r1)) / 2),
			uint8((int(g0) + int(g1)) / 2),
			uint8((int(b0) + int(b1)) / 2),
			255,
		}
		palette[3] = [4]uint8{0, 0, 0, 0}
	}
	return palette
}

// alphaPalette expands the two DXT5 alpha endpoints into the eight-entry
// interpolation table.
func alphaPalette(a0, a1 uint8) [8]uint8 {
	var palette [8]uint8
	palette[0], palette[1] = a0, a1
	if a0 > a1 {
		for i := 1; i < 7; i++ {
			palette[i+1] = uint8(((7-i)*int(a0) + i*int(a1)) / 7)
		}
	} else {
		for i := 1; i < 5; i++ {
			palette[i+1] = uint8(((5-i)*int(a0) + i*int(a1)) / 5)
		}
		palette[6] = 0
		palette[7] = 255
	}
	return palette
}

func expand565(c uint16) (r, g, b uint8) {
	r = uint8(c >> 11 & 0x1F)
	g = uint8(c >> 5 & 0x3F)
	b = uint8(c & 0x1F)
	r = r<<3 | r>>2
	g = g<<2 | g>>4
	b = b<<3 | b>>2
	return r, g, b
}

func setPixel(img *image.RGBA, x, y int, r, g, b, a uint8) {
	i := img.PixOffset(x, y)
	img.Pix[i+0] = r
	img.Pix[i+1] = g
	img.Pix[i+2] = b
	img.Pix[i+3] = a
}
