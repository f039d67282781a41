// Package gw2compression provides decoders for the proprietary compressed
// formats of the game's data archive: generic dat-file records
// (compress/dat) and block-compressed texture payloads (compress/texture).
// The library is decode-only; callers supply fully sized output buffers.
package gw2compression

import "github.com/mindstab/gw2-compression/compress/texture"

// SupportedTextureFormat reports whether fourCC names a texture format the
// texture decoder understands (DXT1-5, DXTA, DXTL, DXTN, 3DCX).
func SupportedTextureFormat(fourCC uint32) bool {
	_, err := texture.DeduceFormat(fourCC)
	return err == nil
}
