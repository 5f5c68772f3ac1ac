// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import "fmt"

// Framework identifies the guest's native layout for a color buffer.
//
// A GL-compatible buffer uploads directly into its internal format. The YUV
// variants carry planar or semi-planar luma/chroma data that must pass
// through a converter before the GPU store holds RGB-equivalent pixels.
// The framework format is fixed at buffer creation and never changes.
type Framework uint8

const (
	// FrameworkGLCompatible marks a buffer whose guest layout matches a
	// GPU-native transfer layout. No conversion is performed.
	FrameworkGLCompatible Framework = iota

	// FrameworkYV12 is planar YUV 4:2:0 with plane order Y, V, U and
	// half-resolution chroma planes.
	FrameworkYV12

	// FrameworkYUV420888 is semi-planar YUV 4:2:0: a full-resolution Y
	// plane followed by interleaved V/U samples at half resolution.
	FrameworkYUV420888
)

// String returns the framework format name.
func (f Framework) String() string {
	switch f {
	case FrameworkGLCompatible:
		return "GLCompatible"
	case FrameworkYV12:
		return "YV12"
	case FrameworkYUV420888:
		return "YUV420888"
	default:
		return fmt.Sprintf("Framework(%d)", uint8(f))
	}
}

// RequiresConversion reports whether buffers of this framework format need a
// YUV converter between guest updates and the GPU store.
func (f Framework) RequiresConversion() bool {
	return f == FrameworkYV12 || f == FrameworkYUV420888
}

// FrameSize returns the byte size of one full guest frame of the given
// dimensions in this framework format, or 0 for FrameworkGLCompatible
// (whose size depends on the transfer layout instead).
//
// Odd dimensions round chroma planes up, matching how guests allocate
// 4:2:0 surfaces.
func FrameSize(f Framework, width, height int) int {
	if !f.RequiresConversion() || width <= 0 || height <= 0 {
		return 0
	}
	cw, ch := (width+1)/2, (height+1)/2
	return width*height + 2*cw*ch
}
