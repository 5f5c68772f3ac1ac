// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package vrender models host-side color buffers for guest graphics
// virtualization.
//
// Every guest graphics allocation with hardware read or write requirements
// is represented on the host by one ColorBuffer that owns the GPU-backed
// pixel store. Guest-side locks read current content through
// ColorBuffer.ReadPixels, unlocks push updates through ColorBuffer.SubUpdate,
// window surfaces flush into buffers through BlitFromCurrentReadBuffer, and
// the display path composites and shows buffers through Draw, Scale and Post.
//
// # Architecture
//
// ColorBuffer is driven by two collaborator contracts:
//
//   - driver.Device abstracts the graphics API (textures, framebuffers,
//     shared images, composition). Implementations live under backend/.
//   - Helper lends the rendering context owned by the larger host subsystem.
//     Every operation wraps itself in a scoped helper context that binds a
//     context only when none is active and releases exactly what it bound.
//
// The render package provides the owning side: a Renderer that opens a
// device, implements Helper, and runs the handle registry external callers
// address buffers through.
//
// # Concurrency
//
// GPU contexts bind to one thread at a time; the host serializes operations
// per context. ColorBuffer performs no internal locking and never holds the
// helper context across calls.
package vrender
