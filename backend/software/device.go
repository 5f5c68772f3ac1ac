// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package software provides a CPU reference implementation of driver.Device.
//
// Textures live in host memory as canonical RGBA8888 and every operation is
// executed synchronously, which makes the device suitable for headless
// hosts and for exercising the full color buffer lifecycle in tests. Import
// for side effects to register it:
//
//	import _ "github.com/gogpu/vrender/backend/software"
package software

import (
	"image"
	"sync"

	xdraw "golang.org/x/image/draw"

	"github.com/gogpu/vrender/backend"
	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

func init() {
	backend.Register(backend.Software, 10, func() (driver.Device, error) {
		return New(), nil
	}, nil)
}

// texture is a CPU pixel store. pix always holds canonical RGBA8888.
type texture struct {
	width, height int
	format        format.PixelFormat
	pix           []byte
}

// framebuffer is an attachment point for one texture.
type framebuffer struct {
	attachment driver.TextureID
}

// window is the emulated host sub-window Present targets.
type window struct {
	width, height int
	pix           []byte
}

// Device is a CPU implementation of driver.Device.
//
// Beyond the driver interface it exposes the host-side controls a window
// system integration would drive: creating the sub-window, choosing the
// current read surface and draw target, and snapshotting what Present drew.
type Device struct {
	mu sync.Mutex

	nextID       uint64
	textures     map[driver.TextureID]*texture
	framebuffers map[driver.FramebufferID]*framebuffer
	images       map[driver.ImageID]driver.TextureID

	current bool
	readFB  driver.FramebufferID
	drawFB  driver.FramebufferID
	win     *window

	bound2D driver.ImageID
	boundRB driver.ImageID
}

var _ driver.Device = (*Device)(nil)

// New creates a software device with no window and no current context.
func New() *Device {
	return &Device{
		textures:     make(map[driver.TextureID]*texture),
		framebuffers: make(map[driver.FramebufferID]*framebuffer),
		images:       make(map[driver.ImageID]driver.TextureID),
	}
}

// === Context ===

// HasCurrent reports whether a context is current.
func (d *Device) HasCurrent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// MakeCurrent binds the device's context.
func (d *Device) MakeCurrent() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = true
	return nil
}

// ReleaseCurrent unbinds the context and drops the context-scoped image
// bindings, as a real context teardown would.
func (d *Device) ReleaseCurrent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = false
	d.bound2D = driver.InvalidID
	d.boundRB = driver.InvalidID
}

// Caps reports shared-image support (always) and whether a sub-window is
// currently established.
func (d *Device) Caps() driver.Caps {
	d.mu.Lock()
	defer d.mu.Unlock()
	return driver.Caps{
		SharedImages: true,
		Window:       d.win != nil,
	}
}

// requireCurrent is the guard every GPU-state operation starts with.
// The caller must hold d.mu.
func (d *Device) requireCurrent() error {
	if !d.current {
		return driver.ErrNoContext
	}
	return nil
}

// === Textures ===

// CreateTexture allocates a zero-initialized texture.
func (d *Device) CreateTexture(width, height int, f format.PixelFormat) (driver.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return driver.InvalidID, err
	}
	if width <= 0 || height <= 0 {
		return driver.InvalidID, driver.ErrInvalidDimensions
	}
	if !f.Valid() {
		return driver.InvalidID, driver.ErrUnsupportedFormat
	}
	d.nextID++
	id := driver.TextureID(d.nextID)
	d.textures[id] = &texture{
		width:  width,
		height: height,
		format: f,
		pix:    make([]byte, width*height*4),
	}
	return id, nil
}

// DestroyTexture releases a texture. No-op for unknown IDs.
func (d *Device) DestroyTexture(id driver.TextureID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.textures, id)
}

// WriteTexture stores pixels into the sub-rectangle r of a texture.
func (d *Device) WriteTexture(id driver.TextureID, r image.Rectangle, f format.PixelFormat, t format.PixelType, pix []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	tex, ok := d.textures[id]
	if !ok {
		return driver.ErrUnknownResource
	}
	return writeRect(tex, r, f, t, pix)
}

// writeRect converts and copies one sub-rectangle into a texture store.
func writeRect(tex *texture, r image.Rectangle, f format.PixelFormat, t format.PixelType, pix []byte) error {
	bpp := format.BytesPerPixel(f, t)
	if bpp == 0 {
		return driver.ErrUnsupportedFormat
	}
	if !r.In(image.Rect(0, 0, tex.width, tex.height)) || r.Empty() {
		return driver.ErrInvalidDimensions
	}
	if len(pix) < r.Dx()*r.Dy()*bpp {
		return driver.ErrShortBuffer
	}
	row := make([]byte, r.Dx()*4)
	for y := 0; y < r.Dy(); y++ {
		src := pix[y*r.Dx()*bpp : (y+1)*r.Dx()*bpp]
		if err := format.ToRGBA(row, src, f, t); err != nil {
			return err
		}
		off := ((r.Min.Y+y)*tex.width + r.Min.X) * 4
		copy(tex.pix[off:off+r.Dx()*4], row)
	}
	return nil
}

// === Framebuffers ===

// CreateFramebuffer allocates an empty framebuffer object.
func (d *Device) CreateFramebuffer() (driver.FramebufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return driver.InvalidID, err
	}
	d.nextID++
	id := driver.FramebufferID(d.nextID)
	d.framebuffers[id] = &framebuffer{}
	return id, nil
}

// DestroyFramebuffer releases a framebuffer object.
func (d *Device) DestroyFramebuffer(id driver.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.framebuffers, id)
	if d.readFB == id {
		d.readFB = driver.InvalidID
	}
	if d.drawFB == id {
		d.drawFB = driver.InvalidID
	}
}

// AttachTexture makes tex the color attachment of fb.
func (d *Device) AttachTexture(fb driver.FramebufferID, tex driver.TextureID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	f, ok := d.framebuffers[fb]
	if !ok {
		return driver.ErrUnknownResource
	}
	if _, ok := d.textures[tex]; !ok {
		return driver.ErrUnknownResource
	}
	f.attachment = tex
	return nil
}

// attachmentLocked resolves a framebuffer to its attached texture.
// The caller must hold d.mu.
func (d *Device) attachmentLocked(fb driver.FramebufferID) (*texture, error) {
	f, ok := d.framebuffers[fb]
	if !ok {
		return nil, driver.ErrUnknownResource
	}
	tex, ok := d.textures[f.attachment]
	if !ok {
		return nil, driver.ErrUnknownResource
	}
	return tex, nil
}

// ReadPixels transfers a sub-rectangle of fb's attachment into dst.
func (d *Device) ReadPixels(fb driver.FramebufferID, r image.Rectangle, f format.PixelFormat, t format.PixelType, dst []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	tex, err := d.attachmentLocked(fb)
	if err != nil {
		return err
	}
	bpp := format.BytesPerPixel(f, t)
	if bpp == 0 {
		return driver.ErrUnsupportedFormat
	}
	if !r.In(image.Rect(0, 0, tex.width, tex.height)) || r.Empty() {
		return driver.ErrInvalidDimensions
	}
	if len(dst) < r.Dx()*r.Dy()*bpp {
		return driver.ErrShortBuffer
	}
	for y := 0; y < r.Dy(); y++ {
		off := ((r.Min.Y+y)*tex.width + r.Min.X) * 4
		row := tex.pix[off : off+r.Dx()*4]
		if err := format.FromRGBA(dst[y*r.Dx()*bpp:(y+1)*r.Dx()*bpp], row, f, t); err != nil {
			return err
		}
	}
	return nil
}

// WritePixels stores canonical RGBA8888 pixels into fb's attachment.
func (d *Device) WritePixels(fb driver.FramebufferID, r image.Rectangle, pix []byte) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	tex, err := d.attachmentLocked(fb)
	if err != nil {
		return err
	}
	return writeRect(tex, r, format.RGBA8888, format.UnsignedByte, pix)
}

// === Shared images ===

// CreateImage creates a shared image aliasing tex's pixel store.
func (d *Device) CreateImage(tex driver.TextureID) (driver.ImageID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return driver.InvalidID, err
	}
	if _, ok := d.textures[tex]; !ok {
		return driver.InvalidID, driver.ErrUnknownResource
	}
	d.nextID++
	id := driver.ImageID(d.nextID)
	d.images[id] = tex
	return id, nil
}

// DestroyImage releases a shared image; the backing texture survives.
func (d *Device) DestroyImage(id driver.ImageID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.images, id)
	if d.bound2D == id {
		d.bound2D = driver.InvalidID
	}
	if d.boundRB == id {
		d.boundRB = driver.InvalidID
	}
}

// BindImageToTexture binds the context's 2D texture target to the image.
func (d *Device) BindImageToTexture(id driver.ImageID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	if _, ok := d.images[id]; !ok {
		return driver.ErrUnknownResource
	}
	d.bound2D = id
	return nil
}

// BindImageToRenderbuffer binds the context's renderbuffer target to the image.
func (d *Device) BindImageToRenderbuffer(id driver.ImageID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	if _, ok := d.images[id]; !ok {
		return driver.ErrUnknownResource
	}
	d.boundRB = id
	return nil
}

// === Composition ===

// Draw composites tex into the current draw target.
func (d *Device) Draw(tex driver.TextureID, opts driver.DrawOptions) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	src, ok := d.textures[tex]
	if !ok {
		return driver.ErrUnknownResource
	}
	dstPix, dw, dh, err := d.drawTargetLocked()
	if err != nil {
		return err
	}
	composite(dstPix, dw, dh, src.pix, src.width, src.height, opts)
	return nil
}

// drawTargetLocked resolves the current draw target's pixel store.
// The caller must hold d.mu.
func (d *Device) drawTargetLocked() ([]byte, int, int, error) {
	if d.drawFB != driver.InvalidID {
		tex, err := d.attachmentLocked(d.drawFB)
		if err != nil {
			return nil, 0, 0, err
		}
		return tex.pix, tex.width, tex.height, nil
	}
	if d.win == nil {
		return nil, 0, 0, driver.ErrNoWindow
	}
	return d.win.pix, d.win.width, d.win.height, nil
}

// BlitFromReadBuffer copies the current read surface into dst's attachment.
func (d *Device) BlitFromReadBuffer(dst driver.FramebufferID, width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	if d.readFB == driver.InvalidID {
		return driver.ErrNoReadSurface
	}
	src, err := d.attachmentLocked(d.readFB)
	if err != nil {
		return err
	}
	dstTex, err := d.attachmentLocked(dst)
	if err != nil {
		return err
	}
	if width <= 0 || height <= 0 || width > dstTex.width || height > dstTex.height {
		return driver.ErrInvalidDimensions
	}
	blit(dstTex.pix, dstTex.width, width, height, src.pix, src.width, src.height)
	return nil
}

// Present draws tex to the emulated sub-window.
func (d *Device) Present(tex driver.TextureID, rotation, dx, dy float32) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	if d.win == nil {
		return driver.ErrNoWindow
	}
	src, ok := d.textures[tex]
	if !ok {
		return driver.ErrUnknownResource
	}
	composite(d.win.pix, d.win.width, d.win.height, src.pix, src.width, src.height,
		driver.DrawOptions{Rotation: rotation, DX: dx, DY: dy})
	return nil
}

// Viewport returns the sub-window dimensions, or (0, 0) without a window.
func (d *Device) Viewport() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win == nil {
		return 0, 0
	}
	return d.win.width, d.win.height
}

// === Host-side controls (window system integration) ===

// CreateWindow establishes the emulated host sub-window Present targets.
// Replaces any existing window.
func (d *Device) CreateWindow(width, height int) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if width <= 0 || height <= 0 {
		return driver.ErrInvalidDimensions
	}
	d.win = &window{width: width, height: height, pix: make([]byte, width*height*4)}
	return nil
}

// DestroyWindow removes the sub-window. Present fails until a new one exists.
func (d *Device) DestroyWindow() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.win = nil
}

// WindowSnapshot returns a copy of the sub-window contents, or nil when no
// window exists.
func (d *Device) WindowSnapshot() *image.RGBA {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.win == nil {
		return nil
	}
	img := image.NewRGBA(image.Rect(0, 0, d.win.width, d.win.height))
	copy(img.Pix, d.win.pix)
	return img
}

// SetReadSurface selects the framebuffer BlitFromReadBuffer copies from.
// InvalidID clears the read surface.
func (d *Device) SetReadSurface(fb driver.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.readFB = fb
}

// SetDrawTarget selects the framebuffer Draw composites into.
// InvalidID restores the window as the draw target.
func (d *Device) SetDrawTarget(fb driver.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.drawFB = fb
}

// BoundTextureImage returns the shared image currently bound to the 2D
// texture target, for introspection in tests.
func (d *Device) BoundTextureImage() driver.ImageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.bound2D
}

// BoundRenderbufferImage returns the shared image currently bound to the
// renderbuffer target, for introspection in tests.
func (d *Device) BoundRenderbufferImage() driver.ImageID {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.boundRB
}

// ImageStore returns the texture backing a shared image, for introspection.
func (d *Device) ImageStore(id driver.ImageID) (driver.TextureID, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	tex, ok := d.images[id]
	return tex, ok
}

// === Pixel plumbing ===

// composite draws src over the full dst target, honoring quarter-turn
// rotation and normalized translation, scaling with a bilinear kernel when
// the sizes differ.
func composite(dst []byte, dw, dh int, src []byte, sw, sh int, opts driver.DrawOptions) {
	rotated, rw, rh := rotateQuarter(src, sw, sh, opts.Rotation)

	srcImg := &image.RGBA{Pix: rotated, Stride: rw * 4, Rect: image.Rect(0, 0, rw, rh)}
	dstImg := &image.RGBA{Pix: dst, Stride: dw * 4, Rect: image.Rect(0, 0, dw, dh)}

	// Translation in normalized coordinates: 1.0 spans the full target.
	ox := int(opts.DX * float32(dw))
	oy := int(opts.DY * float32(dh))
	if rw == dw && rh == dh {
		xdraw.Copy(dstImg, image.Point{X: ox, Y: oy}, srcImg, srcImg.Rect, xdraw.Src, nil)
		return
	}
	target := image.Rect(ox, oy, ox+dw, oy+dh)
	xdraw.ApproxBiLinear.Scale(dstImg, target, srcImg, srcImg.Rect, xdraw.Src, nil)
}

// blit copies src scaled to width x height into the top-left of dst.
func blit(dst []byte, dstStride, width, height int, src []byte, sw, sh int) {
	srcImg := &image.RGBA{Pix: src, Stride: sw * 4, Rect: image.Rect(0, 0, sw, sh)}
	dstImg := &image.RGBA{Pix: dst, Stride: dstStride * 4, Rect: image.Rect(0, 0, dstStride, len(dst)/(dstStride*4))}
	if sw == width && sh == height {
		xdraw.Copy(dstImg, image.Point{}, srcImg, srcImg.Rect, xdraw.Src, nil)
		return
	}
	xdraw.ApproxBiLinear.Scale(dstImg, image.Rect(0, 0, width, height), srcImg, srcImg.Rect, xdraw.Src, nil)
}

// rotateQuarter rotates an RGBA store clockwise by the nearest quarter turn.
func rotateQuarter(src []byte, w, h int, degrees float32) ([]byte, int, int) {
	turns := int(degrees/90+0.5) & 3
	if degrees < 0 {
		turns = (4 - (int(-degrees/90+0.5) & 3)) & 3
	}
	if turns == 0 {
		return src, w, h
	}
	out := make([]byte, len(src))
	ow, oh := w, h
	if turns%2 == 1 {
		ow, oh = h, w
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var nx, ny int
			switch turns {
			case 1:
				nx, ny = h-1-y, x
			case 2:
				nx, ny = w-1-x, h-1-y
			case 3:
				nx, ny = y, w-1-x
			}
			copy(out[(ny*ow+nx)*4:(ny*ow+nx)*4+4], src[(y*w+x)*4:(y*w+x)*4+4])
		}
	}
	return out, ow, oh
}
