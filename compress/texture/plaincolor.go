// Copyright (c) 2024, mindstab.
// SPDX-License-Identifier: BSD-3-Clause

package texture

// packPlainColorBlock approximates an 8-bit-per-channel color as an 8-byte
// DXT color block: two RGB-565 endpoints and sixteen 2-bit interpolation
// indices. The arithmetic reproduces the archive encoder's quantisation,
// including the divisor probes and the DXT1 transparent-endpoint special
// case under deduced alpha.
func packPlainColorBlock(red, green, blue uint32, deducedAlpha bool) uint64 {
	redTemp1 := (red - red>>5) >> 3
	blueTemp1 := (blue - blue>>5) >> 3
	greenTemp1 := (green - green>>6) >> 2

	redTemp2 := redTemp1<<3 + redTemp1>>2
	blueTemp2 := blueTemp1<<3 + blueTemp1>>2
	greenTemp2 := greenTemp1<<2 + greenTemp1>>4

	redDiv, blueDiv, greenDiv := uint32(8), uint32(8), uint32(8)
	if redTemp1&0x11 == 0x11 {
		redDiv = 7
	}
	if blueTemp1&0x11 == 0x11 {
		blueDiv = 7
	}
	if greenTemp1&0x1111 == 0x1111 {
		greenDiv = 7
	}

	compRed := 12 * (red - redTemp2) / redDiv
	compBlue := 12 * (blue - blueTemp2) / blueDiv
	compGreen := 12 * (green - greenTemp2) / greenDiv

	red1, red2 := channelEndpoints(compRed, redTemp1)
	blue1, blue2 := channelEndpoints(compBlue, blueTemp1)
	green1, green2 := channelEndpoints(compGreen, greenTemp1)

	color1 := red1 | (green1|blue1<<6)<<5
	color2 := red2 | (green2|blue2<<6)<<5

	var tv1, tv2 uint32
	tv1, tv2 = accumulateError(tv1, tv2, red1, red2, redTemp1, compRed)
	tv1, tv2 = accumulateError(tv1, tv2, blue1, blue2, blueTemp1, compBlue)
	tv1, tv2 = accumulateError(tv1, tv2, green1, green2, greenTemp1, compGreen)

	if tv2 > 0 {
		tv1 = (tv1 + tv2/2) / tv2
	}

	dxt1Special := deducedAlpha && (tv1 == 5 || tv1 == 6 || tv2 != 0)

	if tv2 > 0 && !dxt1Special {
		if color2 == 0xFFFF {
			tv1 = 12
			color1--
		} else {
			tv1 = 0
			color2++
		}
	}

	if color2 >= color1 {
		color1, color2 = color2, color1
		tv1 = 12 - tv1
	}

	var chosen uint32
	switch {
	case dxt1Special:
		chosen = 2
	case tv1 < 2:
		chosen = 0
	case tv1 < 6:
		chosen = 2
	case tv1 < 10:
		chosen = 3
	default:
		chosen = 1
	}

	// Replicate the chosen 2-bit index across all sixteen texels.
	indices := uint64(chosen | chosen<<2 | (chosen|chosen<<2)<<4)
	indices |= indices << 8
	indices |= indices << 16

	return uint64(color1) | uint64(color2)<<16 | indices<<32
}

// channelEndpoints picks the two quantised endpoint values for one channel
// from its interpolation weight.
func channelEndpoints(comp, temp1 uint32) (uint32, uint32) {
	switch {
	case comp < 2:
		return temp1, temp1
	case comp < 6:
		return temp1, temp1 + 1
	case comp < 10:
		return temp1 + 1, temp1
	default:
		return temp1 + 1, temp1 + 1
	}
}

// accumulateError folds one channel's contribution into the running
// interpolation weight (tv1) and divergent-channel count (tv2).
func accumulateError(tv1, tv2, v1, v2, temp1, comp uint32) (uint32, uint32) {
	if v1 == v2 {
		return tv1, tv2
	}
	if v1 == temp1 {
		tv1 += comp
	} else {
		tv1 += 12 - comp
	}
	return tv1, tv2 + 1
}
