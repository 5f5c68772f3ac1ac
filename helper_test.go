// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package vrender

import "testing"

// stubHelper tracks context state without a device behind it.
type stubHelper struct {
	bound     bool
	failSetup bool
	setups    int
	teardowns int
}

func (h *stubHelper) SetupContext() bool {
	if h.failSetup {
		return false
	}
	h.bound = true
	h.setups++
	return true
}

func (h *stubHelper) TeardownContext() {
	h.bound = false
	h.teardowns++
}

func (h *stubHelper) IsBound() bool { return h.bound }

func (h *stubHelper) TextureDraw() *TextureDraw { return nil }

func TestScopedContextReleaseIdempotent(t *testing.T) {
	h := &stubHelper{}
	s := bindHelperContext(h)
	if !s.Ok() {
		t.Fatal("bind failed")
	}
	s.Release()
	s.Release()
	if h.teardowns != 1 {
		t.Errorf("teardowns = %d, want 1 after double release", h.teardowns)
	}
}

func TestScopedContextSkipsBoundHelper(t *testing.T) {
	h := &stubHelper{bound: true}
	s := bindHelperContext(h)
	if !s.Ok() {
		t.Fatal("scope over a bound helper should be ok")
	}
	s.Release()
	if h.setups != 0 || h.teardowns != 0 {
		t.Errorf("setups = %d, teardowns = %d, want 0 and 0", h.setups, h.teardowns)
	}
}

func TestScopedContextFailedSetup(t *testing.T) {
	h := &stubHelper{failSetup: true}
	s := bindHelperContext(h)
	if s.Ok() {
		t.Error("scope should report failure when setup fails")
	}
	s.Release()
	if h.teardowns != 0 {
		t.Errorf("teardowns = %d, want 0 after failed setup", h.teardowns)
	}
}
