// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

import (
	"fmt"
	"image"

	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
	"github.com/gogpu/vrender/yuv"
)

// Converter transforms raw guest pixel layouts into device-native content.
// Convert writes RGB-equivalent pixels for the region r into the framebuffer
// fb, reading the raw frame from src. Implementations are per-buffer and
// released with the buffer.
type Converter interface {
	Convert(fb driver.FramebufferID, r image.Rectangle, src []byte) error
	Close()
}

// ColorBuffer is the host-side pixel store for one guest graphics
// allocation. It owns a device texture holding the buffer's current
// content, a framebuffer for rendering into and reading from it, an
// optional shared image for zero-copy consumer binding, and an optional
// converter when the guest's native layout is planar YUV.
//
// Dimensions and formats are fixed at creation. All operations borrow the
// helper's rendering context for their own duration only.
type ColorBuffer struct {
	dev    driver.Device
	helper Helper
	handle Handle

	width          int
	height         int
	internalFormat format.PixelFormat
	frameworkFmt   format.Framework

	tex driver.TextureID
	fbo driver.FramebufferID
	img driver.ImageID

	yuvFBO    driver.FramebufferID
	converter Converter

	resizer *TextureResize // lazy, first Scale

	closed bool
}

// Create allocates a color buffer of width x height pixels on dev.
//
// internal selects the device-native pixel format of the backing texture.
// framework describes the guest's native layout; planar variants get a
// converter and conversion framebuffer, allocated here. sharedImages
// enables the shared image backing the texture, required later by
// BindToTexture and BindToRenderbuffer. handle is the allocator-assigned
// identity; helper must outlive the buffer.
//
// Create binds a helper context for the duration of the allocation. On any
// failure every resource allocated up to that point is released and no
// buffer is returned.
func Create(dev driver.Device, width, height int, internal format.PixelFormat,
	framework format.Framework, sharedImages bool, handle Handle, helper Helper) (*ColorBuffer, error) {

	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("vrender: create %dx%d: %w", width, height, driver.ErrInvalidDimensions)
	}
	if !internal.Valid() {
		return nil, fmt.Errorf("vrender: create: %w", driver.ErrUnsupportedFormat)
	}

	s := bindHelperContext(helper)
	defer s.Release()
	if !s.Ok() {
		return nil, ErrNoHelperContext
	}

	c := &ColorBuffer{
		dev:            dev,
		helper:         helper,
		handle:         handle,
		width:          width,
		height:         height,
		internalFormat: internal,
		frameworkFmt:   framework,
	}

	tex, err := dev.CreateTexture(width, height, internal)
	if err != nil {
		return nil, fmt.Errorf("vrender: create texture: %w", err)
	}
	c.tex = tex

	if sharedImages {
		img, err := dev.CreateImage(tex)
		if err != nil {
			c.rollback()
			return nil, fmt.Errorf("vrender: create shared image: %w", err)
		}
		c.img = img
	}

	fbo, err := dev.CreateFramebuffer()
	if err != nil {
		c.rollback()
		return nil, fmt.Errorf("vrender: create framebuffer: %w", err)
	}
	c.fbo = fbo
	if err := dev.AttachTexture(fbo, tex); err != nil {
		c.rollback()
		return nil, fmt.Errorf("vrender: attach texture: %w", err)
	}

	if framework.RequiresConversion() {
		yuvFBO, err := dev.CreateFramebuffer()
		if err != nil {
			c.rollback()
			return nil, fmt.Errorf("vrender: create conversion framebuffer: %w", err)
		}
		c.yuvFBO = yuvFBO
		if err := dev.AttachTexture(yuvFBO, tex); err != nil {
			c.rollback()
			return nil, fmt.Errorf("vrender: attach conversion framebuffer: %w", err)
		}
		conv, err := yuv.NewConverter(dev, framework, width, height)
		if err != nil {
			c.rollback()
			return nil, fmt.Errorf("vrender: create converter: %w", err)
		}
		c.converter = conv
	}

	Logger().Debug("color buffer created",
		"handle", uint32(handle), "width", width, "height", height,
		"format", internal.String(), "shared", sharedImages)
	return c, nil
}

// rollback releases resources allocated by a partially completed Create.
// The caller already holds a helper context.
func (c *ColorBuffer) rollback() {
	c.releaseResources()
}

// releaseResources frees every device resource the buffer owns. Releasing
// an unallocated resource is a no-op, so partially initialized state is
// safe.
func (c *ColorBuffer) releaseResources() {
	if c.converter != nil {
		c.converter.Close()
		c.converter = nil
	}
	if c.yuvFBO != driver.InvalidID {
		c.dev.DestroyFramebuffer(c.yuvFBO)
		c.yuvFBO = driver.InvalidID
	}
	if c.resizer != nil {
		c.resizer.Release()
		c.resizer = nil
	}
	if c.img != driver.InvalidID {
		c.dev.DestroyImage(c.img)
		c.img = driver.InvalidID
	}
	if c.fbo != driver.InvalidID {
		c.dev.DestroyFramebuffer(c.fbo)
		c.fbo = driver.InvalidID
	}
	if c.tex != driver.InvalidID {
		c.dev.DestroyTexture(c.tex)
		c.tex = driver.InvalidID
	}
}

// Handle returns the allocator-assigned identity of this buffer.
func (c *ColorBuffer) Handle() Handle { return c.handle }

// Width returns the buffer width in pixels.
func (c *ColorBuffer) Width() int { return c.width }

// Height returns the buffer height in pixels.
func (c *ColorBuffer) Height() int { return c.height }

// InternalFormat returns the device-native pixel format of the backing
// texture.
func (c *ColorBuffer) InternalFormat() format.PixelFormat { return c.internalFormat }

// FrameworkFormat returns the guest's native pixel layout.
func (c *ColorBuffer) FrameworkFormat() format.Framework { return c.frameworkFmt }

// Texture returns the backing texture. The buffer retains ownership.
func (c *ColorBuffer) Texture() driver.TextureID { return c.tex }

// checkRegion validates that r lies inside the buffer and has positive
// extent.
func (c *ColorBuffer) checkRegion(r image.Rectangle) error {
	if r.Empty() || r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > c.width || r.Max.Y > c.height {
		return fmt.Errorf("vrender: region %v in %dx%d: %w", r, c.width, c.height, ErrBadRegion)
	}
	return nil
}

// ReadPixels reads the region r of the buffer into dst using the requested
// transfer layout. dst must hold at least r.Dx()*r.Dy()*BytesPerPixel(f, t)
// bytes. No conversion happens beyond what the requested layout implies.
func (c *ColorBuffer) ReadPixels(r image.Rectangle, f format.PixelFormat, t format.PixelType, dst []byte) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.checkRegion(r); err != nil {
		return err
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return ErrNoHelperContext
	}
	return c.dev.ReadPixels(c.fbo, r, f, t, dst)
}

// Readback reads the full buffer extent as RGBA8888 into dst, which must
// hold at least Width*Height*4 bytes.
func (c *ColorBuffer) Readback(dst []byte) error {
	if c.closed {
		return ErrClosed
	}
	if len(dst) < c.width*c.height*4 {
		return fmt.Errorf("vrender: readback: %w", driver.ErrShortBuffer)
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return ErrNoHelperContext
	}
	r := image.Rect(0, 0, c.width, c.height)
	return c.dev.ReadPixels(c.fbo, r, format.RGBA8888, format.UnsignedByte, dst)
}

// SubUpdate writes guest pixel data into the region r of the buffer.
//
// For GPU-compatible framework layouts, pix holds r.Dx()*r.Dy() pixels in
// the transfer layout (f, t) and is uploaded directly into the texture
// sub-rectangle. For planar YUV layouts, pix holds raw planes laid out for
// exactly the region r, sized by format.FrameSize with the rectangle's
// dimensions, and the converter writes RGB-equivalent content into the
// same rectangle; f and t are ignored on that path. Pixels outside r are
// never touched.
func (c *ColorBuffer) SubUpdate(r image.Rectangle, f format.PixelFormat, t format.PixelType, pix []byte) error {
	if c.closed {
		return ErrClosed
	}
	if err := c.checkRegion(r); err != nil {
		return err
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return ErrNoHelperContext
	}
	if c.converter != nil {
		return c.converter.Convert(c.yuvFBO, r, pix)
	}
	if format.BytesPerPixel(f, t) == 0 {
		return fmt.Errorf("vrender: transfer %v/%v: %w", f, t, ErrFormatMismatch)
	}
	return c.dev.WriteTexture(c.tex, r, f, t, pix)
}

// Draw composites the buffer's texture into the currently active draw
// target. It has no display side effect. Draw reports false when no
// context could be bound or the composition failed.
func (c *ColorBuffer) Draw() bool {
	if c.closed {
		return false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return false
	}
	if err := c.helper.TextureDraw().Draw(c.tex); err != nil {
		Logger().Warn("draw failed", "handle", uint32(c.handle), "error", err)
		return false
	}
	return true
}

// Scale returns a texture holding the buffer content scaled to the current
// device viewport, creating the resize helper on first use. The scaled
// texture is cached and regenerated only when the viewport size changes;
// when the buffer already matches the viewport its own texture is
// returned. The returned texture remains owned by the buffer.
func (c *ColorBuffer) Scale() (driver.TextureID, bool) {
	if c.closed {
		return driver.InvalidID, false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return driver.InvalidID, false
	}
	if c.resizer == nil {
		c.resizer = NewTextureResize(c.dev)
	}
	tex, err := c.resizer.Resize(c.tex, c.width, c.height)
	if err != nil {
		Logger().Warn("scale failed", "handle", uint32(c.handle), "error", err)
		return driver.InvalidID, false
	}
	return tex, true
}

// BlitFromCurrentReadBuffer copies the content of the read surface
// currently active in the bound context into this buffer. It reports false
// when no context or no read surface is available.
func (c *ColorBuffer) BlitFromCurrentReadBuffer() bool {
	if c.closed {
		return false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return false
	}
	if err := c.dev.BlitFromReadBuffer(c.fbo, c.width, c.height); err != nil {
		Logger().Warn("blit failed", "handle", uint32(c.handle), "error", err)
		return false
	}
	return true
}

// Post shows the buffer in the host sub-window, scaled to the window
// viewport when sizes differ. rotation is a clockwise angle in degrees;
// dx and dy offset the image in normalized display coordinates. Post
// reports false without side effects when no sub-window or context is
// available; the caller may retry on the next frame.
func (c *ColorBuffer) Post(rotation, dx, dy float32) bool {
	if c.closed {
		return false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return false
	}
	tex := c.tex
	if vw, vh := c.dev.Viewport(); vw > 0 && vh > 0 && (vw != c.width || vh != c.height) {
		if scaled, ok := c.Scale(); ok {
			tex = scaled
		}
	}
	if err := c.helper.TextureDraw().Present(tex, rotation, dx, dy); err != nil {
		Logger().Debug("post skipped", "handle", uint32(c.handle), "error", err)
		return false
	}
	return true
}

// BindToTexture binds the context's 2D texture target to this buffer's
// shared image, aliasing the backing store into the caller's texture
// without a copy. It reports false when the buffer was created without
// shared image support or no context is available.
func (c *ColorBuffer) BindToTexture() bool {
	if c.closed || c.img == driver.InvalidID {
		return false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return false
	}
	if err := c.dev.BindImageToTexture(c.img); err != nil {
		Logger().Warn("bind to texture failed", "handle", uint32(c.handle), "error", err)
		return false
	}
	return true
}

// BindToRenderbuffer binds the context's renderbuffer target to this
// buffer's shared image. It reports false under the same conditions as
// BindToTexture.
func (c *ColorBuffer) BindToRenderbuffer() bool {
	if c.closed || c.img == driver.InvalidID {
		return false
	}
	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		return false
	}
	if err := c.dev.BindImageToRenderbuffer(c.img); err != nil {
		Logger().Warn("bind to renderbuffer failed", "handle", uint32(c.handle), "error", err)
		return false
	}
	return true
}

// Close releases every device resource the buffer owns, binding a helper
// context for the release when none is active. Close is idempotent; after
// it returns no other operation is valid.
func (c *ColorBuffer) Close() {
	if c.closed {
		return
	}
	c.closed = true

	s := bindHelperContext(c.helper)
	defer s.Release()
	if !s.Ok() {
		Logger().Warn("closing without context, device resources leak", "handle", uint32(c.handle))
		return
	}
	c.releaseResources()
	Logger().Debug("color buffer closed", "handle", uint32(c.handle))
}
