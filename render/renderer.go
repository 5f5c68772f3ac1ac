// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"fmt"
	"sync"

	"github.com/gogpu/vrender"
	"github.com/gogpu/vrender/backend"
	"github.com/gogpu/vrender/driver"
	"github.com/gogpu/vrender/format"
)

// windowManager is implemented by devices that can manage the host
// sub-window Post renders into.
type windowManager interface {
	CreateWindow(width, height int) error
	DestroyWindow()
}

// flusher is implemented by devices whose uploads complete asynchronously
// and must be drained before teardown.
type flusher interface {
	Flush() error
}

// Renderer owns a backend device and the color buffers allocated on it.
//
// Renderer implements vrender.Helper: buffers borrow its device context
// for the duration of each operation. It also runs the handle registry;
// handles are assigned at creation, never reused while the owning buffer
// is registered, and resolved back to buffers by the protocol layer.
//
// Buffer creation and lookup are safe for concurrent use. Operations on
// an individual buffer follow the single-thread-per-context model and are
// serialized by the caller.
type Renderer struct {
	dev  driver.Device
	draw *vrender.TextureDraw

	mu         sync.Mutex
	buffers    map[vrender.Handle]*vrender.ColorBuffer
	nextHandle uint32
}

// New opens the highest-priority available backend and wraps it in a
// Renderer.
func New() (*Renderer, error) {
	dev, err := backend.Open()
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return NewWithDevice(dev), nil
}

// NewWithDevice wraps an already opened device.
func NewWithDevice(dev driver.Device) *Renderer {
	return &Renderer{
		dev:     dev,
		draw:    vrender.NewTextureDraw(dev),
		buffers: make(map[vrender.Handle]*vrender.ColorBuffer),
	}
}

// Device returns the backend device. The renderer retains ownership.
func (r *Renderer) Device() driver.Device { return r.dev }

// === vrender.Helper ===

// SetupContext binds the device context to the calling thread.
func (r *Renderer) SetupContext() bool {
	if err := r.dev.MakeCurrent(); err != nil {
		vrender.Logger().Warn("context bind failed", "error", err)
		return false
	}
	return true
}

// TeardownContext releases the device context.
func (r *Renderer) TeardownContext() {
	r.dev.ReleaseCurrent()
}

// IsBound reports whether the device context is bound on the calling
// thread.
func (r *Renderer) IsBound() bool {
	return r.dev.HasCurrent()
}

// TextureDraw returns the shared texture drawing facility.
func (r *Renderer) TextureDraw() *vrender.TextureDraw { return r.draw }

// === Handle registry ===

// CreateColorBuffer allocates a buffer and registers it under a fresh
// handle. Shared image support follows the device capabilities.
func (r *Renderer) CreateColorBuffer(width, height int, internal format.PixelFormat, framework format.Framework) (vrender.Handle, error) {
	r.mu.Lock()
	r.nextHandle++
	handle := vrender.Handle(r.nextHandle)
	r.mu.Unlock()

	cb, err := vrender.Create(r.dev, width, height, internal, framework,
		r.dev.Caps().SharedImages, handle, r)
	if err != nil {
		return vrender.InvalidHandle, err
	}

	r.mu.Lock()
	r.buffers[handle] = cb
	r.mu.Unlock()
	return handle, nil
}

// ColorBuffer resolves a handle to its buffer. It returns false for
// handles that were never assigned or whose buffer was closed.
func (r *Renderer) ColorBuffer(h vrender.Handle) (*vrender.ColorBuffer, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	cb, ok := r.buffers[h]
	return cb, ok
}

// CloseColorBuffer releases the buffer registered under h and removes it
// from the registry. It reports false for unknown handles.
func (r *Renderer) CloseColorBuffer(h vrender.Handle) bool {
	r.mu.Lock()
	cb, ok := r.buffers[h]
	delete(r.buffers, h)
	r.mu.Unlock()
	if !ok {
		return false
	}
	cb.Close()
	return true
}

// BufferCount returns the number of live registered buffers.
func (r *Renderer) BufferCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.buffers)
}

// Post shows the buffer registered under h in the host sub-window. It
// reports false for unknown handles or when no sub-window is available.
func (r *Renderer) Post(h vrender.Handle, rotation, dx, dy float32) bool {
	cb, ok := r.ColorBuffer(h)
	if !ok {
		return false
	}
	return cb.Post(rotation, dx, dy)
}

// === Sub-window control ===

// CreateSubWindow establishes the visible sub-window Post renders into.
// Devices without window support return driver.ErrUnsupported.
func (r *Renderer) CreateSubWindow(width, height int) error {
	wm, ok := r.dev.(windowManager)
	if !ok {
		return fmt.Errorf("render: sub-window: %w", driver.ErrUnsupported)
	}
	if err := wm.CreateWindow(width, height); err != nil {
		return fmt.Errorf("render: sub-window: %w", err)
	}
	vrender.Logger().Info("sub-window created", "width", width, "height", height)
	return nil
}

// DestroySubWindow removes the sub-window. Safe to call without one.
func (r *Renderer) DestroySubWindow() {
	if wm, ok := r.dev.(windowManager); ok {
		wm.DestroyWindow()
	}
}

// Close releases every registered buffer and the sub-window. Buffers still
// registered at close are logged as leaked by the guest.
func (r *Renderer) Close() {
	r.mu.Lock()
	buffers := r.buffers
	r.buffers = make(map[vrender.Handle]*vrender.ColorBuffer)
	r.mu.Unlock()

	if len(buffers) > 0 {
		vrender.Logger().Warn("closing renderer with live buffers", "count", len(buffers))
	}
	for _, cb := range buffers {
		cb.Close()
	}

	if f, ok := r.dev.(flusher); ok && r.SetupContext() {
		if err := f.Flush(); err != nil {
			vrender.Logger().Warn("flush on close failed", "error", err)
		}
		r.TeardownContext()
	}
	r.DestroySubWindow()
}
