// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

// Package gctx bridges virtualized color buffers into gogpu windows.
//
// A host UI that renders with gogpu can show guest buffers without the
// backend's own sub-window: the Presenter reads a buffer back as RGBA,
// uploads it as a window texture, and draws it through the window's
// texture drawer. The data flow is:
//
//	ColorBuffer (GPU) -> Readback (CPU) -> Window texture -> Screen
//
// # Usage
//
//	presenter := gctx.New(app.GPUContextProvider())
//	defer presenter.Close()
//
//	app.OnDraw(func(dc *gogpu.Context) {
//	    cb, _ := renderer.ColorBuffer(handle)
//	    _ = presenter.RenderTo(dc.AsTextureDrawer(), cb)
//	})
//
// # Thread Safety
//
// Presenter is NOT safe for concurrent use. Create one Presenter per
// goroutine, or use external synchronization.
package gctx
