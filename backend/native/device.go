// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package native provides a GPU-backed device on top of the wgpu HAL.
//
// Texture storage and uploads run on the real GPU through the Vulkan
// backend. Operations the HAL does not expose yet, texture readback,
// shared image aliasing and window presentation, return typed errors so
// callers can fall back to the software backend.
package native

import (
	"fmt"
	"image"
	"sync"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/wgpu/hal"
	types "github.com/gogpu/gputypes"

	"github.com/gogpu/vrender"
	"github.com/gogpu/vrender/backend"
	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

func init() {
	backend.Register(backend.Native, 100, func() (driver.Device, error) {
		return Open()
	}, Available)
}

// Available reports whether the Vulkan HAL backend can be reached.
func Available() bool {
	_, ok := hal.GetBackend(gputypes.BackendVulkan)
	return ok
}

// texture tracks a HAL texture together with the dimensions the HAL does
// not retain.
type texture struct {
	tex    hal.Texture
	width  int
	height int
}

// Device is a driver.Device backed by a wgpu HAL device.
type Device struct {
	instance hal.Instance
	device   hal.Device
	queue    hal.Queue

	mu           sync.Mutex
	current      bool
	nextID       uint64
	textures     map[driver.TextureID]*texture
	framebuffers map[driver.FramebufferID]driver.TextureID
}

// Open initializes the Vulkan HAL, picks an adapter preferring discrete
// then integrated GPUs, and opens a device on it.
func Open() (*Device, error) {
	gpuBackend, ok := hal.GetBackend(gputypes.BackendVulkan)
	if !ok {
		return nil, ErrNoVulkan
	}
	instance, err := gpuBackend.CreateInstance(&hal.InstanceDescriptor{Flags: 0})
	if err != nil {
		return nil, fmt.Errorf("native: create instance: %w", err)
	}

	adapters := instance.EnumerateAdapters(nil)
	if len(adapters) == 0 {
		return nil, ErrNoGPU
	}
	var selected *hal.ExposedAdapter
	for i := range adapters {
		if adapters[i].Info.DeviceType == gputypes.DeviceTypeDiscreteGPU ||
			adapters[i].Info.DeviceType == gputypes.DeviceTypeIntegratedGPU {
			selected = &adapters[i]
			break
		}
	}
	if selected == nil {
		selected = &adapters[0]
	}

	openDev, err := selected.Adapter.Open(gputypes.Features(0), gputypes.DefaultLimits())
	if err != nil {
		return nil, fmt.Errorf("native: open device: %w", err)
	}

	vrender.Logger().Info("native backend initialized", "adapter", selected.Info.Name)
	return &Device{
		instance:     instance,
		device:       openDev.Device,
		queue:        openDev.Queue,
		textures:     make(map[driver.TextureID]*texture),
		framebuffers: make(map[driver.FramebufferID]driver.TextureID),
	}, nil
}

// HasCurrent reports whether the device is marked current. The HAL has no
// thread-bound context; the flag mirrors the binding discipline callers
// follow.
func (d *Device) HasCurrent() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.current
}

// MakeCurrent marks the device current.
func (d *Device) MakeCurrent() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = true
	return nil
}

// ReleaseCurrent clears the current mark.
func (d *Device) ReleaseCurrent() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.current = false
}

// Caps reports no shared image aliasing and no window; the HAL surface
// exposed here covers texture storage and uploads only.
func (d *Device) Caps() driver.Caps {
	return driver.Caps{SharedImages: false, Window: false}
}

func (d *Device) requireCurrent() error {
	if !d.current {
		return driver.ErrNoContext
	}
	return nil
}

func (d *Device) newID() uint64 {
	d.nextID++
	return d.nextID
}

// CreateTexture allocates a GPU texture for the given format.
func (d *Device) CreateTexture(width, height int, f format.PixelFormat) (driver.TextureID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return driver.InvalidID, err
	}
	if width <= 0 || height <= 0 {
		return driver.InvalidID, driver.ErrInvalidDimensions
	}
	gpuFormat := format.ToGPUFormat(f)
	if gpuFormat == gputypes.TextureFormatUndefined {
		return driver.InvalidID, driver.ErrUnsupportedFormat
	}

	desc := &hal.TextureDescriptor{
		Label: "vrender-colorbuffer",
		Size: hal.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     types.TextureDimension2D,
		Format:        gpuFormat,
		Usage:         types.TextureUsageCopySrc | types.TextureUsageCopyDst | types.TextureUsageTextureBinding,
	}
	tex, err := d.device.CreateTexture(desc)
	if err != nil {
		return driver.InvalidID, fmt.Errorf("native: create texture: %w", err)
	}

	id := driver.TextureID(d.newID())
	d.textures[id] = &texture{tex: tex, width: width, height: height}
	return id, nil
}

// DestroyTexture releases a GPU texture. Unknown ids are ignored.
func (d *Device) DestroyTexture(id driver.TextureID) {
	d.mu.Lock()
	t, ok := d.textures[id]
	if ok {
		delete(d.textures, id)
	}
	d.mu.Unlock()
	if ok {
		d.device.DestroyTexture(t.tex)
	}
}

// WriteTexture uploads pixels into the sub-rectangle r. Non-RGBA transfer
// layouts are widened to RGBA8888 before the upload.
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
	if r.Empty() || r.Min.X < 0 || r.Min.Y < 0 || r.Max.X > tex.width || r.Max.Y > tex.height {
		return driver.ErrInvalidDimensions
	}
	bpp := format.BytesPerPixel(f, t)
	if bpp == 0 {
		return driver.ErrUnsupportedFormat
	}
	n := r.Dx() * r.Dy()
	if len(pix) < n*bpp {
		return driver.ErrShortBuffer
	}

	data := pix
	if f != format.RGBA8888 {
		data = make([]byte, n*4)
		if err := format.ToRGBA(data, pix[:n*bpp], f, t); err != nil {
			return err
		}
	}

	dst := &hal.ImageCopyTexture{
		Texture:  tex.tex,
		MipLevel: 0,
		Origin:   hal.Origin3D{X: uint32(r.Min.X), Y: uint32(r.Min.Y), Z: 0},
		Aspect:   types.TextureAspectAll,
	}
	layout := &hal.ImageDataLayout{
		Offset:       0,
		BytesPerRow:  uint32(4 * r.Dx()),
		RowsPerImage: uint32(r.Dy()),
	}
	size := &hal.Extent3D{
		Width:              uint32(r.Dx()),
		Height:             uint32(r.Dy()),
		DepthOrArrayLayers: 1,
	}
	d.queue.WriteTexture(dst, data, layout, size)
	return nil
}

// CreateFramebuffer allocates an attachment slot. The HAL needs no object
// for it; the slot just records which texture reads and writes resolve to.
func (d *Device) CreateFramebuffer() (driver.FramebufferID, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return driver.InvalidID, err
	}
	id := driver.FramebufferID(d.newID())
	d.framebuffers[id] = driver.InvalidID
	return id, nil
}

// DestroyFramebuffer releases an attachment slot. Unknown ids are ignored.
func (d *Device) DestroyFramebuffer(id driver.FramebufferID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.framebuffers, id)
}

// AttachTexture points a framebuffer at a texture.
func (d *Device) AttachTexture(fb driver.FramebufferID, tex driver.TextureID) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}
	if _, ok := d.framebuffers[fb]; !ok {
		return driver.ErrUnknownResource
	}
	if _, ok := d.textures[tex]; !ok {
		return driver.ErrUnknownResource
	}
	d.framebuffers[fb] = tex
	return nil
}

// ReadPixels is not supported: the HAL exposes no texture-to-buffer copy
// with mapping yet.
func (d *Device) ReadPixels(fb driver.FramebufferID, r image.Rectangle, f format.PixelFormat, t format.PixelType, dst []byte) error {
	return fmt.Errorf("native: texture readback: %w", driver.ErrUnsupported)
}

// WritePixels uploads RGBA pixels into the texture attached to fb.
func (d *Device) WritePixels(fb driver.FramebufferID, r image.Rectangle, pix []byte) error {
	d.mu.Lock()
	tex, ok := d.framebuffers[fb]
	d.mu.Unlock()
	if !ok || tex == driver.InvalidID {
		return driver.ErrUnknownResource
	}
	return d.WriteTexture(tex, r, format.RGBA8888, format.UnsignedByte, pix)
}

// CreateImage is not supported; the HAL exposes no cross-object aliasing.
func (d *Device) CreateImage(tex driver.TextureID) (driver.ImageID, error) {
	return driver.InvalidID, fmt.Errorf("native: shared images: %w", driver.ErrUnsupported)
}

// DestroyImage is a no-op.
func (d *Device) DestroyImage(id driver.ImageID) {}

// BindImageToTexture is not supported.
func (d *Device) BindImageToTexture(id driver.ImageID) error {
	return fmt.Errorf("native: shared images: %w", driver.ErrUnsupported)
}

// BindImageToRenderbuffer is not supported.
func (d *Device) BindImageToRenderbuffer(id driver.ImageID) error {
	return fmt.Errorf("native: shared images: %w", driver.ErrUnsupported)
}

// Draw is not supported without a render pipeline.
func (d *Device) Draw(tex driver.TextureID, opts driver.DrawOptions) error {
	return fmt.Errorf("native: draw: %w", driver.ErrUnsupported)
}

// BlitFromReadBuffer is not supported without a read surface.
func (d *Device) BlitFromReadBuffer(dst driver.FramebufferID, width, height int) error {
	return fmt.Errorf("native: blit: %w", driver.ErrNoReadSurface)
}

// Present is not supported; the backend drives no window.
func (d *Device) Present(tex driver.TextureID, rotation, dx, dy float32) error {
	return fmt.Errorf("native: present: %w", driver.ErrNoWindow)
}

// Viewport reports no window.
func (d *Device) Viewport() (int, int) { return 0, 0 }

// Flush submits an empty command buffer with a fence and blocks until the
// GPU drains all prior work, including queued texture uploads.
func (d *Device) Flush() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.requireCurrent(); err != nil {
		return err
	}

	encoder, err := d.device.CreateCommandEncoder(&hal.CommandEncoderDescriptor{
		Label: "vrender-flush",
	})
	if err != nil {
		return fmt.Errorf("native: create command encoder: %w", err)
	}
	if err := encoder.BeginEncoding("vrender-flush"); err != nil {
		return fmt.Errorf("native: begin encoding: %w", err)
	}
	cmdBuffer, err := encoder.EndEncoding()
	if err != nil {
		return fmt.Errorf("native: end encoding: %w", err)
	}
	defer cmdBuffer.Destroy()

	fence, err := d.device.CreateFence()
	if err != nil {
		return fmt.Errorf("native: create fence: %w", err)
	}
	defer d.device.DestroyFence(fence)

	if err := d.queue.Submit([]hal.CommandBuffer{cmdBuffer}, fence, 1); err != nil {
		return fmt.Errorf("native: submit: %w", err)
	}
	// Timeout 5 seconds.
	if _, err := d.device.Wait(fence, 1, 5_000_000_000); err != nil {
		return fmt.Errorf("native: wait for fence: %w", err)
	}
	return nil
}
