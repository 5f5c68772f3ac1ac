// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package software

import (
	"bytes"
	"errors"
	"image"
	"testing"

	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

// current returns a device with a bound context.
func current(t *testing.T) *Device {
	t.Helper()
	d := New()
	if err := d.MakeCurrent(); err != nil {
		t.Fatalf("MakeCurrent: %v", err)
	}
	return d
}

// newAttached returns a texture and a framebuffer it is attached to.
func newAttached(t *testing.T, d *Device, w, h int) (driver.TextureID, driver.FramebufferID) {
	t.Helper()
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
	return tex, fb
}

// solid returns n pixels of the given RGBA color.
func solid(n int, r, g, b, a byte) []byte {
	pix := make([]byte, n*4)
	for i := 0; i < n; i++ {
		pix[i*4+0] = r
		pix[i*4+1] = g
		pix[i*4+2] = b
		pix[i*4+3] = a
	}
	return pix
}

// TestOperationsRequireContext checks that GPU-state calls fail unbound.
func TestOperationsRequireContext(t *testing.T) {
	d := New()
	if _, err := d.CreateTexture(4, 4, format.RGBA8888); !errors.Is(err, driver.ErrNoContext) {
		t.Errorf("CreateTexture without context: err = %v, want ErrNoContext", err)
	}
	if _, err := d.CreateFramebuffer(); !errors.Is(err, driver.ErrNoContext) {
		t.Errorf("CreateFramebuffer without context: err = %v, want ErrNoContext", err)
	}
}

// TestWriteReadRoundTrip checks a full-rect upload and readback.
func TestWriteReadRoundTrip(t *testing.T) {
	d := current(t)
	tex, fb := newAttached(t, d, 8, 8)

	pix := solid(64, 10, 20, 30, 40)
	if err := d.WriteTexture(tex, image.Rect(0, 0, 8, 8), format.RGBA8888, format.UnsignedByte, pix); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}

	got := make([]byte, 64*4)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 8, 8), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if !bytes.Equal(got, pix) {
		t.Error("readback differs from upload")
	}
}

// TestSubRectangleIsolation checks that partial writes leave the rest alone.
func TestSubRectangleIsolation(t *testing.T) {
	d := current(t)
	tex, fb := newAttached(t, d, 4, 4)

	inner := solid(4, 0xff, 0, 0, 0xff)
	if err := d.WriteTexture(tex, image.Rect(1, 1, 3, 3), format.RGBA8888, format.UnsignedByte, inner); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}

	got := make([]byte, 4*4*4)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 4, 4), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	// Corner pixel untouched, center pixel red.
	if got[0] != 0 || got[3] != 0 {
		t.Errorf("corner pixel = %v, want zeroes", got[:4])
	}
	center := got[(1*4+1)*4 : (1*4+1)*4+4]
	if center[0] != 0xff || center[3] != 0xff {
		t.Errorf("center pixel = %v, want red", center)
	}
}

// TestPackedReadback checks readback in a packed transfer layout.
func TestPackedReadback(t *testing.T) {
	d := current(t)
	tex, fb := newAttached(t, d, 2, 1)

	if err := d.WriteTexture(tex, image.Rect(0, 0, 2, 1), format.RGBA8888, format.UnsignedByte,
		solid(2, 0xff, 0x00, 0xff, 0xff)); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}
	got := make([]byte, 2*2)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 2, 1), format.RGB565, format.UnsignedShort565, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	// Magenta in 565 little-endian: R=31, G=0, B=31 -> 0xf81f.
	if got[0] != 0x1f || got[1] != 0xf8 {
		t.Errorf("packed pixel = %x %x, want 1f f8", got[0], got[1])
	}
}

// TestSharedImageAliasesStore checks zero-copy sharing through an image.
func TestSharedImageAliasesStore(t *testing.T) {
	d := current(t)
	tex, fb := newAttached(t, d, 2, 2)

	img, err := d.CreateImage(tex)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if err := d.BindImageToTexture(img); err != nil {
		t.Fatalf("BindImageToTexture: %v", err)
	}
	if d.BoundTextureImage() != img {
		t.Error("2D target not bound to image")
	}
	backing, ok := d.ImageStore(img)
	if !ok || backing != tex {
		t.Errorf("ImageStore = %v, %v; want %v, true", backing, ok, tex)
	}

	// Writing through the texture is visible through the framebuffer the
	// image's store backs.
	if err := d.WriteTexture(tex, image.Rect(0, 0, 2, 2), format.RGBA8888, format.UnsignedByte,
		solid(4, 1, 2, 3, 4)); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}
	got := make([]byte, 4*4)
	if err := d.ReadPixels(fb, image.Rect(0, 0, 2, 2), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if got[0] != 1 || got[1] != 2 {
		t.Errorf("shared store pixel = %v", got[:4])
	}
}

// TestReleaseCurrentDropsBindings checks context-scoped binding teardown.
func TestReleaseCurrentDropsBindings(t *testing.T) {
	d := current(t)
	tex, _ := newAttached(t, d, 2, 2)
	img, err := d.CreateImage(tex)
	if err != nil {
		t.Fatalf("CreateImage: %v", err)
	}
	if err := d.BindImageToTexture(img); err != nil {
		t.Fatalf("BindImageToTexture: %v", err)
	}
	d.ReleaseCurrent()
	if d.BoundTextureImage() != driver.InvalidID {
		t.Error("image binding survived context release")
	}
}

// TestBlitFromReadBuffer checks read-surface copies.
func TestBlitFromReadBuffer(t *testing.T) {
	d := current(t)
	srcTex, srcFB := newAttached(t, d, 4, 4)
	_, dstFB := newAttached(t, d, 4, 4)

	if err := d.WriteTexture(srcTex, image.Rect(0, 0, 4, 4), format.RGBA8888, format.UnsignedByte,
		solid(16, 9, 8, 7, 6)); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}

	// No read surface bound yet.
	if err := d.BlitFromReadBuffer(dstFB, 4, 4); !errors.Is(err, driver.ErrNoReadSurface) {
		t.Errorf("blit without read surface: err = %v, want ErrNoReadSurface", err)
	}

	d.SetReadSurface(srcFB)
	if err := d.BlitFromReadBuffer(dstFB, 4, 4); err != nil {
		t.Fatalf("BlitFromReadBuffer: %v", err)
	}
	got := make([]byte, 16*4)
	if err := d.ReadPixels(dstFB, image.Rect(0, 0, 4, 4), format.RGBA8888, format.UnsignedByte, got); err != nil {
		t.Fatalf("ReadPixels: %v", err)
	}
	if got[0] != 9 || got[1] != 8 {
		t.Errorf("blit pixel = %v", got[:4])
	}
}

// TestPresentRequiresWindow checks Present failure and success paths.
func TestPresentRequiresWindow(t *testing.T) {
	d := current(t)
	tex, _ := newAttached(t, d, 2, 2)

	if err := d.Present(tex, 0, 0, 0); !errors.Is(err, driver.ErrNoWindow) {
		t.Errorf("Present without window: err = %v, want ErrNoWindow", err)
	}

	if err := d.CreateWindow(2, 2); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if err := d.WriteTexture(tex, image.Rect(0, 0, 2, 2), format.RGBA8888, format.UnsignedByte,
		solid(4, 0, 0xff, 0, 0xff)); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}
	if err := d.Present(tex, 0, 0, 0); err != nil {
		t.Fatalf("Present: %v", err)
	}
	snap := d.WindowSnapshot()
	if snap == nil {
		t.Fatal("WindowSnapshot returned nil")
	}
	if c := snap.RGBAAt(1, 1); c.G != 0xff {
		t.Errorf("window pixel = %v, want green", c)
	}
}

// TestPresentRotation checks a quarter-turn rotation lands pixels where
// a clockwise turn should.
func TestPresentRotation(t *testing.T) {
	d := current(t)
	tex, _ := newAttached(t, d, 2, 2)
	if err := d.CreateWindow(2, 2); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}

	// Top-left red, everything else black.
	pix := solid(4, 0, 0, 0, 0xff)
	pix[0] = 0xff
	if err := d.WriteTexture(tex, image.Rect(0, 0, 2, 2), format.RGBA8888, format.UnsignedByte, pix); err != nil {
		t.Fatalf("WriteTexture: %v", err)
	}
	if err := d.Present(tex, 90, 0, 0); err != nil {
		t.Fatalf("Present: %v", err)
	}
	snap := d.WindowSnapshot()
	if c := snap.RGBAAt(1, 0); c.R != 0xff {
		t.Errorf("rotated pixel at (1,0) = %v, want red", c)
	}
	if c := snap.RGBAAt(0, 0); c.R != 0 {
		t.Errorf("pixel at (0,0) = %v, want black after rotation", c)
	}
}

// TestViewportTracksWindow checks Viewport reporting.
func TestViewportTracksWindow(t *testing.T) {
	d := current(t)
	if w, h := d.Viewport(); w != 0 || h != 0 {
		t.Errorf("Viewport without window = %dx%d, want 0x0", w, h)
	}
	if err := d.CreateWindow(320, 240); err != nil {
		t.Fatalf("CreateWindow: %v", err)
	}
	if w, h := d.Viewport(); w != 320 || h != 240 {
		t.Errorf("Viewport = %dx%d, want 320x240", w, h)
	}
	if !d.Caps().Window {
		t.Error("Caps().Window = false with a window established")
	}
}

// TestDestroyUnknownIsNoop checks destruction of never-created IDs.
func TestDestroyUnknownIsNoop(t *testing.T) {
	d := current(t)
	d.DestroyTexture(driver.InvalidID)
	d.DestroyFramebuffer(driver.InvalidID)
	d.DestroyImage(driver.InvalidID)
	d.DestroyTexture(12345)
}
