// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package driver

import "errors"

// Errors shared by device implementations.
var (
	// ErrNoContext is returned when an operation requires a current
	// context and none is bound to the calling thread.
	ErrNoContext = errors.New("driver: no current context")

	// ErrNoWindow is returned by Present and window-sized queries when the
	// host sub-window does not exist yet.
	ErrNoWindow = errors.New("driver: no host sub-window")

	// ErrNoReadSurface is returned by BlitFromReadBuffer when the current
	// context has no read surface bound.
	ErrNoReadSurface = errors.New("driver: no read surface bound")

	// ErrUnknownResource is returned when an ID does not name a live
	// resource on this device.
	ErrUnknownResource = errors.New("driver: unknown resource")

	// ErrInvalidDimensions is returned when a size or sub-rectangle is
	// empty or out of range.
	ErrInvalidDimensions = errors.New("driver: invalid dimensions")

	// ErrUnsupportedFormat is returned for format/type pairs the device
	// cannot transfer.
	ErrUnsupportedFormat = errors.New("driver: unsupported pixel format")

	// ErrShortBuffer is returned when a caller-provided pixel buffer is
	// smaller than the transfer requires.
	ErrShortBuffer = errors.New("driver: pixel buffer too small")

	// ErrUnsupported is returned for operations a device cannot express,
	// such as capabilities the backing API does not offer.
	ErrUnsupported = errors.New("driver: operation not supported by device")
)
