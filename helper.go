// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

// Helper lends ColorBuffer the rendering context owned by the host
// subsystem. ColorBuffer never creates or owns a context itself; every
// operation borrows one through a scoped helper context and returns it
// in the same call.
//
// The render package provides the canonical implementation. Tests supply
// lightweight fakes.
type Helper interface {
	// SetupContext binds the subsystem's rendering context to the calling
	// thread. It reports false when no context can be bound, in which case
	// the operation must not touch the device.
	SetupContext() bool

	// TeardownContext releases the context bound by SetupContext.
	TeardownContext()

	// IsBound reports whether a context is already bound on the calling
	// thread. A scoped helper context skips SetupContext when it is.
	IsBound() bool

	// TextureDraw returns the shared texture drawing facility. The helper
	// retains ownership; callers must not close it.
	TextureDraw() *TextureDraw
}

// scopedHelperContext keeps a helper context bound for the duration of one
// operation. It binds only when the helper reports no context is bound, and
// tears down exactly what it bound. Release is idempotent, so deferred
// releases compose with early explicit ones.
type scopedHelperContext struct {
	helper   Helper
	ok       bool
	didBind  bool
	released bool
}

// bindHelperContext acquires a context scope from helper. Check Ok before
// using the device; call Release (usually deferred) when done.
func bindHelperContext(helper Helper) *scopedHelperContext {
	s := &scopedHelperContext{helper: helper}
	if helper.IsBound() {
		s.ok = true
		return s
	}
	if helper.SetupContext() {
		s.ok = true
		s.didBind = true
	}
	return s
}

// Ok reports whether a context is bound for this scope.
func (s *scopedHelperContext) Ok() bool { return s.ok }

// Release tears down the context if this scope bound it. Calling Release
// more than once is a no-op.
func (s *scopedHelperContext) Release() {
	if s.released {
		return
	}
	s.released = true
	if s.didBind {
		s.helper.TeardownContext()
	}
}
