// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

import (
	"fmt"
	"image"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

// TextureResize scales textures to the device viewport before display.
// It keeps one cached destination texture sized to the viewport and
// recreates it only when the viewport changes, so steady-state posting
// allocates nothing.
type TextureResize struct {
	dev driver.Device

	tex    driver.TextureID
	width  int
	height int

	// scratch framebuffer for reading back the source texture.
	fb driver.FramebufferID
}

// NewTextureResize creates a resizer for dev. The cached texture is
// allocated lazily on the first Resize that needs scaling.
func NewTextureResize(dev driver.Device) *TextureResize {
	return &TextureResize{dev: dev}
}

// Resize returns a texture holding src scaled to the device viewport.
// When src already matches the viewport size it is returned unchanged.
// Otherwise the cached texture is filled with a bilinear scale of src
// and returned. The returned texture remains owned by the resizer.
func (r *TextureResize) Resize(src driver.TextureID, srcWidth, srcHeight int) (driver.TextureID, error) {
	vw, vh := r.dev.Viewport()
	if vw <= 0 || vh <= 0 {
		return driver.InvalidID, fmt.Errorf("vrender: resize: %w", driver.ErrInvalidDimensions)
	}
	if srcWidth == vw && srcHeight == vh {
		return src, nil
	}

	if r.tex != driver.InvalidID && (r.width != vw || r.height != vh) {
		r.dev.DestroyTexture(r.tex)
		r.tex = driver.InvalidID
	}
	if r.tex == driver.InvalidID {
		tex, err := r.dev.CreateTexture(vw, vh, format.RGBA8888)
		if err != nil {
			return driver.InvalidID, fmt.Errorf("vrender: resize: %w", err)
		}
		r.tex = tex
		r.width = vw
		r.height = vh
		Logger().Debug("resize cache reallocated", "width", vw, "height", vh)
	}

	if r.fb == driver.InvalidID {
		fb, err := r.dev.CreateFramebuffer()
		if err != nil {
			return driver.InvalidID, fmt.Errorf("vrender: resize: %w", err)
		}
		r.fb = fb
	}
	if err := r.dev.AttachTexture(r.fb, src); err != nil {
		return driver.InvalidID, fmt.Errorf("vrender: resize: %w", err)
	}

	srcImg := image.NewRGBA(image.Rect(0, 0, srcWidth, srcHeight))
	rect := image.Rect(0, 0, srcWidth, srcHeight)
	if err := r.dev.ReadPixels(r.fb, rect, format.RGBA8888, format.UnsignedByte, srcImg.Pix); err != nil {
		return driver.InvalidID, fmt.Errorf("vrender: resize: %w", err)
	}

	dstImg := image.NewRGBA(image.Rect(0, 0, vw, vh))
	xdraw.ApproxBiLinear.Scale(dstImg, dstImg.Bounds(), srcImg, srcImg.Bounds(), xdraw.Src, nil)

	dstRect := image.Rect(0, 0, vw, vh)
	if err := r.dev.WriteTexture(r.tex, dstRect, format.RGBA8888, format.UnsignedByte, dstImg.Pix); err != nil {
		return driver.InvalidID, fmt.Errorf("vrender: resize: %w", err)
	}
	return r.tex, nil
}

// Release frees the cached texture and scratch framebuffer. The resizer
// may be reused afterwards; resources are recreated on demand.
func (r *TextureResize) Release() {
	if r.tex != driver.InvalidID {
		r.dev.DestroyTexture(r.tex)
		r.tex = driver.InvalidID
		r.width = 0
		r.height = 0
	}
	if r.fb != driver.InvalidID {
		r.dev.DestroyFramebuffer(r.fb)
		r.fb = driver.InvalidID
	}
}
