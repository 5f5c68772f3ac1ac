// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

import "errors"

// Sentinel errors returned by ColorBuffer operations. Callers match them
// with errors.Is; most carry additional context via fmt.Errorf wrapping.
var (
	// ErrClosed is returned when an operation is invoked on a ColorBuffer
	// after Close.
	ErrClosed = errors.New("vrender: color buffer is closed")

	// ErrNoHelperContext is returned when the helper cannot lend a bound
	// rendering context for the duration of an operation.
	ErrNoHelperContext = errors.New("vrender: helper context unavailable")

	// ErrBadRegion is returned when an update or read region falls outside
	// the buffer bounds or has non-positive extent.
	ErrBadRegion = errors.New("vrender: region out of bounds")

	// ErrFormatMismatch is returned when the pixel data supplied to an
	// update does not match the buffer's transfer format.
	ErrFormatMismatch = errors.New("vrender: pixel format mismatch")
)
