// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import "fmt"

// PixelFormat identifies the channel layout of a pixel transfer or of a
// color buffer's internal store. The set is fixed; a buffer's internal
// format never changes after creation.
type PixelFormat uint32

const (
	// RGBA8888 is 8 bits per channel RGBA (4 bytes per pixel).
	// This is the canonical format for readback and the software device's
	// internal store.
	RGBA8888 PixelFormat = iota + 1

	// RGB888 is 8 bits per channel RGB without alpha (3 bytes per pixel).
	RGB888

	// RGB565 is 16-bit packed RGB (5-6-5).
	RGB565

	// RGBA5551 is 16-bit packed RGBA (5-5-5-1).
	RGBA5551

	// RGBA4444 is 16-bit packed RGBA (4-4-4-4).
	RGBA4444
)

// String returns the format name.
func (f PixelFormat) String() string {
	switch f {
	case RGBA8888:
		return "RGBA8888"
	case RGB888:
		return "RGB888"
	case RGB565:
		return "RGB565"
	case RGBA5551:
		return "RGBA5551"
	case RGBA4444:
		return "RGBA4444"
	default:
		return fmt.Sprintf("PixelFormat(%d)", uint32(f))
	}
}

// Valid reports whether f is one of the defined formats.
func (f PixelFormat) Valid() bool {
	return f >= RGBA8888 && f <= RGBA4444
}

// PixelType identifies the component storage of a pixel transfer,
// complementing PixelFormat the way the graphics API's type parameter does.
type PixelType uint32

const (
	// UnsignedByte is one byte per channel.
	UnsignedByte PixelType = iota + 1

	// UnsignedShort565 is one 16-bit word per pixel, packed 5-6-5.
	UnsignedShort565

	// UnsignedShort5551 is one 16-bit word per pixel, packed 5-5-5-1.
	UnsignedShort5551

	// UnsignedShort4444 is one 16-bit word per pixel, packed 4-4-4-4.
	UnsignedShort4444
)

// String returns the type name.
func (t PixelType) String() string {
	switch t {
	case UnsignedByte:
		return "UnsignedByte"
	case UnsignedShort565:
		return "UnsignedShort565"
	case UnsignedShort5551:
		return "UnsignedShort5551"
	case UnsignedShort4444:
		return "UnsignedShort4444"
	default:
		return fmt.Sprintf("PixelType(%d)", uint32(t))
	}
}

// BytesPerPixel returns the byte size of one pixel in the given transfer
// layout, or 0 if the format/type pair is not representable.
//
// Callers size read and update buffers as width x height x BytesPerPixel.
func BytesPerPixel(f PixelFormat, t PixelType) int {
	switch t {
	case UnsignedByte:
		switch f {
		case RGBA8888:
			return 4
		case RGB888:
			return 3
		}
	case UnsignedShort565:
		if f == RGB565 {
			return 2
		}
	case UnsignedShort5551:
		if f == RGBA5551 {
			return 2
		}
	case UnsignedShort4444:
		if f == RGBA4444 {
			return 2
		}
	}
	return 0
}

// TransferType returns the natural PixelType for transfers of format f.
func TransferType(f PixelFormat) PixelType {
	switch f {
	case RGB565:
		return UnsignedShort565
	case RGBA5551:
		return UnsignedShort5551
	case RGBA4444:
		return UnsignedShort4444
	default:
		return UnsignedByte
	}
}
