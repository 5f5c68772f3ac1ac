// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"encoding/binary"
	"fmt"
)

// ToRGBA expands pixels in the (f, t) transfer layout into canonical
// RGBA8888 bytes. dst must hold 4 bytes per pixel and src pixelCount x
// BytesPerPixel(f, t) bytes. Packed 16-bit types are little-endian words.
//
// Sub-byte channels are widened by bit replication so that a full-scale
// channel value maps to 255 exactly.
func ToRGBA(dst, src []byte, f PixelFormat, t PixelType) error {
	bpp := BytesPerPixel(f, t)
	if bpp == 0 {
		return fmt.Errorf("format: unsupported transfer layout %v/%v", f, t)
	}
	n := len(src) / bpp
	if len(dst) < n*4 {
		return fmt.Errorf("format: destination too small: %d < %d", len(dst), n*4)
	}
	switch {
	case f == RGBA8888 && t == UnsignedByte:
		copy(dst[:n*4], src[:n*4])
	case f == RGB888 && t == UnsignedByte:
		for i := 0; i < n; i++ {
			dst[i*4+0] = src[i*3+0]
			dst[i*4+1] = src[i*3+1]
			dst[i*4+2] = src[i*3+2]
			dst[i*4+3] = 0xff
		}
	case f == RGB565 && t == UnsignedShort565:
		for i := 0; i < n; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			dst[i*4+0] = expand5(uint8(v >> 11))
			dst[i*4+1] = expand6(uint8(v >> 5 & 0x3f))
			dst[i*4+2] = expand5(uint8(v & 0x1f))
			dst[i*4+3] = 0xff
		}
	case f == RGBA5551 && t == UnsignedShort5551:
		for i := 0; i < n; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			dst[i*4+0] = expand5(uint8(v >> 11))
			dst[i*4+1] = expand5(uint8(v >> 6 & 0x1f))
			dst[i*4+2] = expand5(uint8(v >> 1 & 0x1f))
			dst[i*4+3] = uint8(v&1) * 0xff
		}
	case f == RGBA4444 && t == UnsignedShort4444:
		for i := 0; i < n; i++ {
			v := binary.LittleEndian.Uint16(src[i*2:])
			dst[i*4+0] = expand4(uint8(v >> 12))
			dst[i*4+1] = expand4(uint8(v >> 8 & 0xf))
			dst[i*4+2] = expand4(uint8(v >> 4 & 0xf))
			dst[i*4+3] = expand4(uint8(v & 0xf))
		}
	default:
		return fmt.Errorf("format: mismatched transfer layout %v/%v", f, t)
	}
	return nil
}

// FromRGBA narrows canonical RGBA8888 bytes into the (f, t) transfer layout.
// src must hold 4 bytes per pixel and dst pixelCount x BytesPerPixel(f, t)
// bytes. Narrowing truncates to the channel's high bits, the same rounding
// the GPU applies on packed-format stores.
func FromRGBA(dst, src []byte, f PixelFormat, t PixelType) error {
	bpp := BytesPerPixel(f, t)
	if bpp == 0 {
		return fmt.Errorf("format: unsupported transfer layout %v/%v", f, t)
	}
	n := len(src) / 4
	if len(dst) < n*bpp {
		return fmt.Errorf("format: destination too small: %d < %d", len(dst), n*bpp)
	}
	switch {
	case f == RGBA8888 && t == UnsignedByte:
		copy(dst[:n*4], src[:n*4])
	case f == RGB888 && t == UnsignedByte:
		for i := 0; i < n; i++ {
			dst[i*3+0] = src[i*4+0]
			dst[i*3+1] = src[i*4+1]
			dst[i*3+2] = src[i*4+2]
		}
	case f == RGB565 && t == UnsignedShort565:
		for i := 0; i < n; i++ {
			v := uint16(src[i*4+0]>>3)<<11 | uint16(src[i*4+1]>>2)<<5 | uint16(src[i*4+2]>>3)
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	case f == RGBA5551 && t == UnsignedShort5551:
		for i := 0; i < n; i++ {
			v := uint16(src[i*4+0]>>3)<<11 | uint16(src[i*4+1]>>3)<<6 |
				uint16(src[i*4+2]>>3)<<1 | uint16(src[i*4+3]>>7)
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	case f == RGBA4444 && t == UnsignedShort4444:
		for i := 0; i < n; i++ {
			v := uint16(src[i*4+0]>>4)<<12 | uint16(src[i*4+1]>>4)<<8 |
				uint16(src[i*4+2]>>4)<<4 | uint16(src[i*4+3]>>4)
			binary.LittleEndian.PutUint16(dst[i*2:], v)
		}
	default:
		return fmt.Errorf("format: mismatched transfer layout %v/%v", f, t)
	}
	return nil
}

// expand5 widens a 5-bit channel to 8 bits by bit replication.
func expand5(v uint8) uint8 { return v<<3 | v>>2 }

// expand6 widens a 6-bit channel to 8 bits by bit replication.
func expand6(v uint8) uint8 { return v<<2 | v>>4 }

// expand4 widens a 4-bit channel to 8 bits by bit replication.
func expand4(v uint8) uint8 { return v<<4 | v }
