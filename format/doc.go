// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package format describes the pixel layouts a guest color buffer can carry.
//
// Two orthogonal notions live here:
//
//   - PixelFormat / PixelType describe GPU-native transfer layouts, the pair
//     a caller supplies to read and update operations (mirroring the
//     format/type pairs of the underlying graphics API).
//
//   - Framework describes the guest's native layout for the whole buffer.
//     Most buffers are FrameworkGLCompatible and upload directly; planar and
//     semi-planar YUV variants must be converted to an RGB-equivalent layout
//     before the GPU can sample them.
//
// The package also provides byte-level conversion between transfer layouts
// and the canonical RGBA8888 representation used by the software device, and
// the mapping from internal formats to gputypes texture formats used by GPU
// devices.
package format
