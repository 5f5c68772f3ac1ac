// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package gctx

import (
	"errors"
	"fmt"

	"github.com/gogpu/gpucontext"

	"github.com/gogpu/vrender"
)

// Presenter errors.
var (
	// ErrNilProvider is returned when the device provider is nil.
	ErrNilProvider = errors.New("gctx: provider must not be nil")

	// ErrPresenterClosed is returned when operating on a closed Presenter.
	ErrPresenterClosed = errors.New("gctx: presenter is closed")

	// ErrNilBuffer is returned when the color buffer is nil.
	ErrNilBuffer = errors.New("gctx: color buffer must not be nil")

	// ErrInvalidRenderer is returned when the draw context's renderer
	// cannot create textures from RGBA data.
	ErrInvalidRenderer = errors.New("gctx: renderer must implement TextureCreator")
)

// TextureDrawer is the drawing surface a gogpu window exposes per frame.
// It matches the method set of gpucontext.TextureDrawer as returned by
// gogpu.Context.AsTextureDrawer.
type TextureDrawer interface {
	// DrawTexture draws a previously created window texture at (x, y).
	DrawTexture(tex any, x, y float32) error

	// Renderer returns the window's renderer, expected to implement
	// TextureCreator.
	Renderer() any
}

// TextureCreator creates window textures from raw RGBA pixel data.
// This matches the gogpu renderer's texture creation signature.
type TextureCreator interface {
	NewTextureFromRGBA(width, height int, data []byte) (any, error)
}

// textureDestroyer is the interface for destroying textures.
// This matches the gogpu.Texture.Destroy signature.
type textureDestroyer interface {
	Destroy()
}

// Presenter shows color buffers inside a gogpu window.
//
// It owns one window texture, recreated per frame from the buffer's
// readback, and destroys the previous frame's texture only after the new
// upload completed so the GPU never samples freed memory.
//
// Presenter is NOT safe for concurrent use.
type Presenter struct {
	provider gpucontext.DeviceProvider

	texture any // window texture for the frame on screen
	scratch []byte
	closed  bool
}

// New creates a Presenter sharing the host application's GPU device.
// The provider should come from gogpu.App.GPUContextProvider().
func New(provider gpucontext.DeviceProvider) (*Presenter, error) {
	if provider == nil {
		return nil, ErrNilProvider
	}
	return &Presenter{provider: provider}, nil
}

// MustNew is like New but panics on error.
func MustNew(provider gpucontext.DeviceProvider) *Presenter {
	p, err := New(provider)
	if err != nil {
		panic(err)
	}
	return p
}

// Provider returns the device provider the presenter was created with.
func (p *Presenter) Provider() gpucontext.DeviceProvider {
	return p.provider
}

// RenderTo reads cb back and draws it into dc at the window origin.
func (p *Presenter) RenderTo(dc TextureDrawer, cb *vrender.ColorBuffer) error {
	return p.RenderToPosition(dc, cb, 0, 0)
}

// RenderToPosition reads cb back and draws it into dc at (x, y).
//
// The buffer content is captured at call time; later buffer updates do
// not affect the frame already drawn.
func (p *Presenter) RenderToPosition(dc TextureDrawer, cb *vrender.ColorBuffer, x, y float32) error {
	if p.closed {
		return ErrPresenterClosed
	}
	if cb == nil {
		return ErrNilBuffer
	}

	w, h := cb.Width(), cb.Height()
	need := w * h * 4
	if cap(p.scratch) < need {
		p.scratch = make([]byte, need)
	}
	pix := p.scratch[:need]
	if err := cb.Readback(pix); err != nil {
		return fmt.Errorf("gctx: readback: %w", err)
	}

	creator, ok := dc.Renderer().(TextureCreator)
	if !ok {
		return ErrInvalidRenderer
	}
	tex, err := creator.NewTextureFromRGBA(w, h, pix)
	if err != nil {
		return fmt.Errorf("gctx: NewTextureFromRGBA failed: %w", err)
	}

	// The upload above waits for prior GPU work, so the texture from the
	// previous frame is no longer referenced and can be destroyed.
	if p.texture != nil {
		if destroyer, ok := p.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
	}
	p.texture = tex

	return dc.DrawTexture(tex, x, y)
}

// Close releases the presenter's window texture. Close is idempotent.
func (p *Presenter) Close() {
	if p.closed {
		return
	}
	p.closed = true
	if p.texture != nil {
		if destroyer, ok := p.texture.(textureDestroyer); ok {
			destroyer.Destroy()
		}
		p.texture = nil
	}
	p.scratch = nil
}
