// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

import (
	"github.com/gogpu/vrender/driver"
)

// TextureDraw renders device textures onto the current draw target or the
// host window. One instance is shared by all color buffers through the
// Helper; it holds no per-buffer state.
type TextureDraw struct {
	dev driver.Device
}

// NewTextureDraw creates a texture drawing facility for dev.
func NewTextureDraw(dev driver.Device) *TextureDraw {
	return &TextureDraw{dev: dev}
}

// Draw renders tex over the current draw target at identity transform.
func (t *TextureDraw) Draw(tex driver.TextureID) error {
	return t.dev.Draw(tex, driver.DrawOptions{})
}

// Present shows tex in the host window. rotation is a clockwise angle in
// degrees, in quarter turns; dx and dy offset the image in normalized
// display coordinates where 1.0 spans the full window.
func (t *TextureDraw) Present(tex driver.TextureID, rotation, dx, dy float32) error {
	return t.dev.Present(tex, rotation, dx, dy)
}
