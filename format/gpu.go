// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import "github.com/gogpu/gputypes"

// ToGPUFormat maps an internal pixel format to the gputypes texture format a
// GPU device allocates for it.
//
// Packed 16-bit formats have no direct gputypes equivalent; GPU devices store
// them widened to RGBA8Unorm and narrow again on readback, which preserves
// the packed formats' precision exactly.
func ToGPUFormat(f PixelFormat) gputypes.TextureFormat {
	switch f {
	case RGBA8888, RGB888, RGB565, RGBA5551, RGBA4444:
		return gputypes.TextureFormatRGBA8Unorm
	default:
		return gputypes.TextureFormatUndefined
	}
}
