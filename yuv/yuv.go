// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package yuv converts planar and semi-planar guest pixel data into the
// RGB-equivalent layout a color buffer's GPU store holds.
//
// The converter implements the conversion contract the buffer core consumes:
// it accepts raw guest planes for a target sub-rectangle and writes converted
// RGBA pixels through the buffer's conversion framebuffer. Color conversion
// uses full-range BT.601 coefficients, the same matrix GL-side converters
// apply when sampling luma/chroma textures.
package yuv

import (
	"fmt"
	"image"
	"image/color"

	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

// Converter transforms one framework format into RGBA for one buffer.
//
// A converter is created per color buffer and sized to it; Convert may be
// called for any sub-rectangle of that buffer. Converters hold no device
// resources beyond scratch memory, so Close only drops the scratch.
type Converter struct {
	dev    driver.Device
	layout format.Framework
	width  int
	height int
	rgba   []byte
}

// NewConverter creates a converter for buffers of the given framework
// format and dimensions. Fails for formats that need no conversion.
func NewConverter(dev driver.Device, f format.Framework, width, height int) (*Converter, error) {
	if !f.RequiresConversion() {
		return nil, fmt.Errorf("yuv: framework format %v needs no conversion", f)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("yuv: invalid dimensions %dx%d", width, height)
	}
	return &Converter{
		dev:    dev,
		layout: f,
		width:  width,
		height: height,
	}, nil
}

// Convert transforms the guest planes in src, laid out for exactly the
// sub-rectangle r, and writes RGBA pixels into fb's attachment at r.
// Pixels outside r are untouched.
func (c *Converter) Convert(fb driver.FramebufferID, r image.Rectangle, src []byte) error {
	if c == nil || c.dev == nil {
		return fmt.Errorf("yuv: converter is closed")
	}
	w, h := r.Dx(), r.Dy()
	if w <= 0 || h <= 0 || r.Max.X > c.width || r.Max.Y > c.height || r.Min.X < 0 || r.Min.Y < 0 {
		return driver.ErrInvalidDimensions
	}
	need := format.FrameSize(c.layout, w, h)
	if len(src) < need {
		return driver.ErrShortBuffer
	}

	if cap(c.rgba) < w*h*4 {
		c.rgba = make([]byte, w*h*4)
	}
	rgba := c.rgba[:w*h*4]

	cw, ch := (w+1)/2, (h+1)/2
	yPlane := src[:w*h]
	chroma := src[w*h : w*h+2*cw*ch]

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			ci := (y/2)*cw + x/2
			var cb, cr byte
			switch c.layout {
			case format.FrameworkYV12:
				// Plane order Y, V, U.
				cr = chroma[ci]
				cb = chroma[cw*ch+ci]
			case format.FrameworkYUV420888:
				// Semi-planar: interleaved V/U pairs.
				cr = chroma[2*ci]
				cb = chroma[2*ci+1]
			}
			rr, gg, bb := color.YCbCrToRGB(yPlane[y*w+x], cb, cr)
			o := (y*w + x) * 4
			rgba[o+0] = rr
			rgba[o+1] = gg
			rgba[o+2] = bb
			rgba[o+3] = 0xff
		}
	}

	return c.dev.WritePixels(fb, r, rgba)
}

// Layout returns the framework format this converter handles.
func (c *Converter) Layout() format.Framework {
	return c.layout
}

// Close releases the converter's scratch memory. Convert fails afterwards.
func (c *Converter) Close() {
	c.dev = nil
	c.rgba = nil
}
