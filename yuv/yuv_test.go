// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package yuv

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/gogpu/vrender/backend/software"
	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

// target builds a software device with an attached framebuffer.
func target(t *testing.T, w, h int) (*software.Device, driver.FramebufferID) {
	t.Helper()
	d := software.New()
	if err := d.MakeCurrent(); err != nil {
		t.Fatalf("MakeCurrent: %v", err)
	}
	tex, err := d.CreateTexture(w, h, format.RGBA8888)
	if err != nil {
		t.Fatalf("CreateTexture: %v", err)
	}
	fb, err := d.CreateFramebuffer()
	if err != nil {
		t.Fatalf("CreateFramebuffer: %v", err)
	}
	if err := d.AttachTexture(fb, tex); err != nil {
		t.Fatalf("AttachTexture: %v", err)
	}
	return d, fb
}

// yv12Solid builds a YV12 frame with uniform Y, Cb, Cr.
func yv12Solid(w, h int, y, cb, cr byte) []byte {
	cw, ch := (w+1)/2, (h+1)/2
	buf := make([]byte, format.FrameSize(format.FrameworkYV12, w, h))
	for i := 0; i < w*h; i++ {
		buf[i] = y
	}
	for i := 0; i < cw*ch; i++ {
		buf[w*h+i] = cr
		buf[w*h+cw*ch+i] = cb
	}
	return buf
}

// nv21Solid builds a semi-planar frame with uniform Y, Cb, Cr.
func nv21Solid(w, h int, y, cb, cr byte) []byte {
	cw, ch := (w+1)/2, (h+1)/2
	buf := make([]byte, format.FrameSize(format.FrameworkYUV420888, w, h))
	for i := 0; i < w*h; i++ {
		buf[i] = y
	}
	for i := 0; i < cw*ch; i++ {
		buf[w*h+2*i] = cr
		buf[w*h+2*i+1] = cb
	}
	return buf
}

// TestNewConverterRejectsGLCompatible checks the format precondition.
func TestNewConverterRejectsGLCompatible(t *testing.T) {
	d := software.New()
	if _, err := NewConverter(d, format.FrameworkGLCompatible, 4, 4); err == nil {
		t.Error("NewConverter(GLCompatible) should fail")
	}
}

// TestConvertMatchesStdlib checks YV12 conversion against the stdlib
// BT.601 transform for a few colors.
func TestConvertMatchesStdlib(t *testing.T) {
	tests := []struct {
		name      string
		y, cb, cr byte
	}{
		{"gray", 128, 128, 128},
		{"reddish", 81, 90, 240},
		{"bluish", 41, 240, 110},
		{"black", 0, 128, 128},
		{"white", 255, 128, 128},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, fb := target(t, 4, 4)
			c, err := NewConverter(d, format.FrameworkYV12, 4, 4)
			if err != nil {
				t.Fatalf("NewConverter: %v", err)
			}
			defer c.Close()

			if err := c.Convert(fb, image.Rect(0, 0, 4, 4), yv12Solid(4, 4, tt.y, tt.cb, tt.cr)); err != nil {
				t.Fatalf("Convert: %v", err)
			}

			got := make([]byte, 4*4*4)
			if err := d.ReadPixels(fb, image.Rect(0, 0, 4, 4), format.RGBA8888, format.UnsignedByte, got); err != nil {
				t.Fatalf("ReadPixels: %v", err)
			}
			wr, wg, wb := color.YCbCrToRGB(tt.y, tt.cb, tt.cr)
			if got[0] != wr || got[1] != wg || got[2] != wb || got[3] != 0xff {
				t.Errorf("pixel = %v, want (%d %d %d 255)", got[:4], wr, wg, wb)
			}
		})
	}
}

// TestConvertSemiPlanar checks the interleaved V/U walk.
func TestConvertSemiPlanar(t *testing.T) {
	d, fb := target(t, 2, 2)
	c, err := NewConverter(d, format.FrameworkYUV420888, 2, 2)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	defer c.Close()

	if err := c.Convert(fb, image.Rect(0, 0, 2, 2), nv21Solid(2, 2, 81, 90, 240)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	got := make([]byte, 2*2*4)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 2, 2), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	wr, wg, wb := color.YCbCrToRGB(81, 90, 240)
	if got[0] != wr || got[1] != wg || got[2] != wb {
		t.Errorf("pixel = %v, want (%d %d %d)", got[:3], wr, wg, wb)
	}
}

// TestConvertSubRectangle checks pixels outside the rect stay untouched.
func TestConvertSubRectangle(t *testing.T) {
	d, fb := target(t, 4, 4)
	c, err := NewConverter(d, format.FrameworkYV12, 4, 4)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	defer c.Close()

	if err := c.Convert(fb, image.Rect(2, 2, 4, 4), yv12Solid(2, 2, 255, 128, 128)); err != nil {
		t.Fatalf("Convert: %v", err)
	}
	got := make([]byte, 4*4*4)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 4, 4), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if got[0] != 0 {
		t.Errorf("outside pixel = %v, want zeroes", got[:4])
	}
	inside := got[(3*4+3)*4:]
	if inside[0] != 0xff || inside[1] != 0xff || inside[2] != 0xff {
		t.Errorf("inside pixel = %v, want white", inside[:4])
	}
}

// TestConvertShortBuffer checks the plane-size validation.
func TestConvertShortBuffer(t *testing.T) {
	d, fb := target(t, 4, 4)
	c, err := NewConverter(d, format.FrameworkYV12, 4, 4)
	if err != nil {
		t.Fatalf("NewConverter: %v", err)
	}
	defer c.Close()

	if err := c.Convert(fb, image.Rect(0, 0, 4, 4), make([]byte, 3)); !errors.Is(err, driver.ErrShortBuffer) {
		t.Errorf("Convert with short buffer: err = %v, want ErrShortBuffer", err)
	}
}
