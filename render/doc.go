// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package render owns the host-side rendering state for buffer
// virtualization.
//
// A Renderer opens one backend device, implements the context helper that
// color buffers borrow, and maintains the handle registry through which
// external protocol code addresses buffers. It is the allocator side of
// the vrender package: buffers are created, resolved and destroyed here.
package render
