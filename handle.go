// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

// Handle identifies a color buffer across the virtualization boundary.
// Handles are opaque to the guest; the host assigns them at creation and
// resolves them back to buffers in the render package. The zero handle is
// never assigned.
type Handle uint32

// InvalidHandle is the zero Handle. It never refers to a live buffer.
const InvalidHandle Handle = 0

// Valid reports whether h could refer to a live buffer.
func (h Handle) Valid() bool { return h != InvalidHandle }
