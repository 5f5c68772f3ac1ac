// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package render

import (
	"bytes"
	"image"
	"testing"

	"github.com/gogpu/vrender"
	"github.com/gogpu/vrender/backend/software"
	"github.com/gogpu/vrender/format"
)

func newRenderer(t *testing.T) *Renderer {
	t.Helper()
	r := NewWithDevice(software.New())
	t.Cleanup(r.Close)
	return r
}

func TestNewOpensBackend(t *testing.T) {
	r, err := New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer r.Close()
	if r.Device() == nil {
		t.Fatal("New returned a renderer without a device")
	}
}

func TestHandleAssignment(t *testing.T) {
	r := newRenderer(t)

	h1, err := r.CreateColorBuffer(16, 16, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		t.Fatalf("CreateColorBuffer: %v", err)
	}
	h2, err := r.CreateColorBuffer(16, 16, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		t.Fatalf("CreateColorBuffer: %v", err)
	}

	if !h1.Valid() || !h2.Valid() {
		t.Error("assigned handles must be valid")
	}
	if h1 == h2 {
		t.Errorf("handles must be unique, both are %d", h1)
	}

	cb, ok := r.ColorBuffer(h1)
	if !ok {
		t.Fatal("ColorBuffer lookup failed for a live handle")
	}
	if cb.Handle() != h1 {
		t.Errorf("buffer self-identity = %d, want %d", cb.Handle(), h1)
	}
}

func TestHandleNotReusedAfterClose(t *testing.T) {
	r := newRenderer(t)

	h1, err := r.CreateColorBuffer(8, 8, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		t.Fatalf("CreateColorBuffer: %v", err)
	}
	if !r.CloseColorBuffer(h1) {
		t.Fatal("CloseColorBuffer reported unknown handle")
	}

	h2, err := r.CreateColorBuffer(8, 8, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		t.Fatalf("CreateColorBuffer: %v", err)
	}
	if h2 == h1 {
		t.Error("closed handle was reused")
	}
	if _, ok := r.ColorBuffer(h1); ok {
		t.Error("closed handle still resolves")
	}
}

func TestCloseColorBufferUnknown(t *testing.T) {
	r := newRenderer(t)
	if r.CloseColorBuffer(vrender.Handle(99)) {
		t.Error("CloseColorBuffer should report false for unknown handles")
	}
	if r.CloseColorBuffer(vrender.InvalidHandle) {
		t.Error("CloseColorBuffer should report false for the invalid handle")
	}
}

func TestRendererIsHelper(t *testing.T) {
	r := newRenderer(t)
	var _ vrender.Helper = r

	if r.IsBound() {
		t.Error("fresh renderer should have no bound context")
	}
	if !r.SetupContext() {
		t.Fatal("SetupContext failed")
	}
	if !r.IsBound() {
		t.Error("IsBound should report true after SetupContext")
	}
	r.TeardownContext()
	if r.IsBound() {
		t.Error("IsBound should report false after TeardownContext")
	}
	if r.TextureDraw() == nil {
		t.Error("TextureDraw should be shared, not nil")
	}
}

func TestPostThroughRegistry(t *testing.T) {
	r := newRenderer(t)

	h, err := r.CreateColorBuffer(32, 32, format.RGBA8888, format.FrameworkGLCompatible)
	if err != nil {
		t.Fatalf("CreateColorBuffer: %v", err)
	}
	cb, _ := r.ColorBuffer(h)

	pix := make([]byte, 32*32*4)
	for i := range pix {
		pix[i] = 0x7f
	}
	if err := cb.SubUpdate(image.Rect(0, 0, 32, 32), format.RGBA8888, format.UnsignedByte, pix); err != nil {
		t.Fatalf("SubUpdate: %v", err)
	}

	// No sub-window yet: posting is a deferred no-op.
	if r.Post(h, 0, 0, 0) {
		t.Error("Post without a sub-window should report false")
	}

	if err := r.CreateSubWindow(32, 32); err != nil {
		t.Fatalf("CreateSubWindow: %v", err)
	}
	if !r.Post(h, 0, 0, 0) {
		t.Error("Post with a sub-window should succeed")
	}
	if r.Post(vrender.Handle(1234), 0, 0, 0) {
		t.Error("Post with an unknown handle should report false")
	}

	dev := r.Device().(*software.Device)
	snap := dev.WindowSnapshot()
	if snap == nil {
		t.Fatal("WindowSnapshot returned nil after post")
	}
	if !bytes.Equal(snap.Pix[:4], []byte{0x7f, 0x7f, 0x7f, 0x7f}) {
		t.Errorf("window pixel = %v, want posted color", snap.Pix[:4])
	}
}

func TestCloseReleasesBuffers(t *testing.T) {
	r := NewWithDevice(software.New())
	for i := 0; i < 3; i++ {
		if _, err := r.CreateColorBuffer(8, 8, format.RGBA8888, format.FrameworkGLCompatible); err != nil {
			t.Fatalf("CreateColorBuffer: %v", err)
		}
	}
	if r.BufferCount() != 3 {
		t.Fatalf("BufferCount = %d, want 3", r.BufferCount())
	}
	r.Close()
	if r.BufferCount() != 0 {
		t.Errorf("BufferCount after Close = %d, want 0", r.BufferCount())
	}
}
