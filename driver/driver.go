// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package driver defines the device abstraction color buffers run against.
//
// Device is the core interface that decouples the buffer lifecycle from the
// graphics API that backs it. Implementations live under backend/: a CPU
// reference device used for testing and headless hosts, and a wgpu/hal
// device for real GPUs. Third-party devices register through the backend
// registry.
//
// Resource lifecycle:
//   - Resources are created via Create* methods
//   - Resources must be explicitly destroyed via Destroy* methods
//   - IDs become invalid after destruction and must not be reused
//   - Destroying an ID that was never created is a safe no-op
//
// Context model: every operation other than the context calls themselves
// requires a current context, matching the bind-to-one-thread semantics of
// the underlying graphics API. Devices do not serialize callers; the host
// guarantees at most one thread drives a context at a time.
package driver

import (
	"image"

	"github.com/gogpu/vrender/format"
)

// TextureID is an opaque handle to a device texture.
type TextureID uint64

// FramebufferID is an opaque handle to a device framebuffer object.
type FramebufferID uint64

// ImageID is an opaque handle to a shared image: a device object that lets a
// single backing pixel store be referenced by several texture or renderbuffer
// views without copying.
type ImageID uint64

// InvalidID is the zero value, representing an invalid/null resource.
// Destroying InvalidID is always a no-op.
const InvalidID = 0

// Caps describes what a device can do. Absent capabilities surface as
// failed operations, never as panics.
type Caps struct {
	// SharedImages indicates the device can create shared images from
	// textures and bind them into the current context. Fixed for the
	// device lifetime.
	SharedImages bool

	// Window indicates a host sub-window is currently established for
	// Present to target. The window may appear and disappear as the host
	// UI comes and goes.
	Window bool
}

// DrawOptions controls how Draw composites a texture into the current draw
// target.
type DrawOptions struct {
	// Rotation is the clockwise rotation in degrees. Devices honor quarter
	// turns; other angles round to the nearest quarter turn.
	Rotation float32

	// DX, DY translate the texture in normalized display coordinates,
	// where 1.0 spans the full target.
	DX, DY float32
}

// Device abstracts the graphics API a color buffer allocates against.
//
// All pixel rectangles are in texture coordinates with the origin at the
// top-left; callers validate bounds before issuing operations.
type Device interface {
	// === Context ===

	// HasCurrent reports whether a context is current on the calling thread.
	HasCurrent() bool

	// MakeCurrent binds a context to the calling thread.
	// Fails if the device has no context to offer.
	MakeCurrent() error

	// ReleaseCurrent unbinds the context. Releasing when nothing is bound
	// is a no-op.
	ReleaseCurrent()

	// Caps returns the device capabilities. Stable for the device lifetime.
	Caps() Caps

	// === Textures ===

	// CreateTexture allocates a width x height texture with the given
	// internal format, zero-initialized.
	CreateTexture(width, height int, f format.PixelFormat) (TextureID, error)

	// DestroyTexture releases a texture. No-op for InvalidID.
	DestroyTexture(id TextureID)

	// WriteTexture stores pixels into the sub-rectangle r of a texture.
	// pix holds r.Dx() x r.Dy() pixels in the (f, t) transfer layout.
	// Pixels outside r are untouched.
	WriteTexture(id TextureID, r image.Rectangle, f format.PixelFormat, t format.PixelType, pix []byte) error

	// === Framebuffers ===

	// CreateFramebuffer allocates a framebuffer object with no attachment.
	CreateFramebuffer() (FramebufferID, error)

	// DestroyFramebuffer releases a framebuffer object. No-op for InvalidID.
	DestroyFramebuffer(id FramebufferID)

	// AttachTexture makes tex the color attachment of fb, replacing any
	// previous attachment.
	AttachTexture(fb FramebufferID, tex TextureID) error

	// ReadPixels transfers the sub-rectangle r of fb's attachment into dst
	// in the (f, t) transfer layout. dst must hold r.Dx() x r.Dy() x
	// BytesPerPixel(f, t) bytes.
	ReadPixels(fb FramebufferID, r image.Rectangle, f format.PixelFormat, t format.PixelType, dst []byte) error

	// WritePixels stores canonical RGBA8888 pixels into the sub-rectangle r
	// of fb's attachment. This is the sink format converters render into.
	WritePixels(fb FramebufferID, r image.Rectangle, pix []byte) error

	// === Shared images ===

	// CreateImage creates a shared image backed by tex's pixel store.
	// Fails when Caps().SharedImages is false.
	CreateImage(tex TextureID) (ImageID, error)

	// DestroyImage releases a shared image. The backing texture survives.
	// No-op for InvalidID.
	DestroyImage(id ImageID)

	// BindImageToTexture binds the current context's 2D texture target to
	// the shared image's backing store.
	BindImageToTexture(id ImageID) error

	// BindImageToRenderbuffer binds the current context's renderbuffer
	// target to the shared image's backing store.
	BindImageToRenderbuffer(id ImageID) error

	// === Composition ===

	// Draw composites tex into the current draw target. It has no effect
	// on the host window.
	Draw(tex TextureID, opts DrawOptions) error

	// BlitFromReadBuffer copies the current read surface into dst's
	// attachment, scaling if the sizes differ. Fails when no read surface
	// is bound in the current context.
	BlitFromReadBuffer(dst FramebufferID, width, height int) error

	// Present draws tex to the host sub-window with the given clockwise
	// rotation in degrees and translation in normalized coordinates.
	// This is the only operation with a user-visible side effect.
	Present(tex TextureID, rotation, dx, dy float32) error

	// Viewport returns the dimensions of the current presentation target,
	// or (0, 0) when none exists.
	Viewport() (width, height int)
}
