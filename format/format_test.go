// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package format

import (
	"bytes"
	"testing"
)

// TestBytesPerPixel checks sizing of every supported transfer layout.
func TestBytesPerPixel(t *testing.T) {
	tests := []struct {
		f    PixelFormat
		t    PixelType
		want int
	}{
		{RGBA8888, UnsignedByte, 4},
		{RGB888, UnsignedByte, 3},
		{RGB565, UnsignedShort565, 2},
		{RGBA5551, UnsignedShort5551, 2},
		{RGBA4444, UnsignedShort4444, 2},
		{RGBA8888, UnsignedShort565, 0},
		{RGB565, UnsignedByte, 0},
	}
	for _, tt := range tests {
		if got := BytesPerPixel(tt.f, tt.t); got != tt.want {
			t.Errorf("BytesPerPixel(%v, %v) = %d, want %d", tt.f, tt.t, got, tt.want)
		}
	}
}

// TestTransferType checks the natural type for each format.
func TestTransferType(t *testing.T) {
	for _, f := range []PixelFormat{RGBA8888, RGB888, RGB565, RGBA5551, RGBA4444} {
		typ := TransferType(f)
		if BytesPerPixel(f, typ) == 0 {
			t.Errorf("TransferType(%v) = %v is not a valid pairing", f, typ)
		}
	}
}

// TestConvertRoundTripRGBA checks that RGBA8888 passes through unchanged.
func TestConvertRoundTripRGBA(t *testing.T) {
	src := []byte{1, 2, 3, 4, 250, 251, 252, 253}
	rgba := make([]byte, len(src))
	if err := ToRGBA(rgba, src, RGBA8888, UnsignedByte); err != nil {
		t.Fatalf("ToRGBA: %v", err)
	}
	out := make([]byte, len(src))
	if err := FromRGBA(out, rgba, RGBA8888, UnsignedByte); err != nil {
		t.Fatalf("FromRGBA: %v", err)
	}
	if !bytes.Equal(out, src) {
		t.Errorf("round trip = %v, want %v", out, src)
	}
}

// TestConvertRoundTripPacked checks that packed 16-bit layouts survive a
// narrow-widen-narrow cycle exactly.
func TestConvertRoundTripPacked(t *testing.T) {
	tests := []struct {
		name string
		f    PixelFormat
		typ  PixelType
	}{
		{"565", RGB565, UnsignedShort565},
		{"5551", RGBA5551, UnsignedShort5551},
		{"4444", RGBA4444, UnsignedShort4444},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := []byte{0x5a, 0xa5, 0xff, 0xff, 0x00, 0x00, 0x34, 0x12}
			rgba := make([]byte, 4*4)
			if err := ToRGBA(rgba, src, tt.f, tt.typ); err != nil {
				t.Fatalf("ToRGBA: %v", err)
			}
			out := make([]byte, len(src))
			if err := FromRGBA(out, rgba, tt.f, tt.typ); err != nil {
				t.Fatalf("FromRGBA: %v", err)
			}
			if !bytes.Equal(out, src) {
				t.Errorf("round trip = %x, want %x", out, src)
			}
		})
	}
}

// TestConvertRGB888Alpha checks that expanding RGB sets opaque alpha.
func TestConvertRGB888Alpha(t *testing.T) {
	rgba := make([]byte, 4)
	if err := ToRGBA(rgba, []byte{10, 20, 30}, RGB888, UnsignedByte); err != nil {
		t.Fatalf("ToRGBA: %v", err)
	}
	if rgba[3] != 0xff {
		t.Errorf("alpha = %d, want 255", rgba[3])
	}
}

// TestFrameworkConversion checks which framework formats need a converter.
func TestFrameworkConversion(t *testing.T) {
	if FrameworkGLCompatible.RequiresConversion() {
		t.Error("GLCompatible should not require conversion")
	}
	if !FrameworkYV12.RequiresConversion() {
		t.Error("YV12 should require conversion")
	}
	if !FrameworkYUV420888.RequiresConversion() {
		t.Error("YUV420888 should require conversion")
	}
}

// TestFrameSize checks plane sizing, including odd dimensions.
func TestFrameSize(t *testing.T) {
	tests := []struct {
		f    Framework
		w, h int
		want int
	}{
		{FrameworkYV12, 64, 64, 64*64 + 2*32*32},
		{FrameworkYUV420888, 4, 4, 16 + 2*4},
		{FrameworkYV12, 5, 5, 25 + 2*9},
		{FrameworkGLCompatible, 64, 64, 0},
		{FrameworkYV12, 0, 64, 0},
	}
	for _, tt := range tests {
		if got := FrameSize(tt.f, tt.w, tt.h); got != tt.want {
			t.Errorf("FrameSize(%v, %d, %d) = %d, want %d", tt.f, tt.w, tt.h, got, tt.want)
		}
	}
}
