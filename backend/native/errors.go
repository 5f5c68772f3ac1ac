// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package native

import "errors"

// Package errors for the wgpu backend.
var (
	// ErrNoGPU is returned when no GPU adapter is available.
	ErrNoGPU = errors.New("native: no GPU adapter available")

	// ErrNoVulkan is returned when the Vulkan backend is not compiled in
	// or the loader is missing.
	ErrNoVulkan = errors.New("native: vulkan backend not available")
)
