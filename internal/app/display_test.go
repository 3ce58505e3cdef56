// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"bytes"
	"testing"

	"periph.io/x/devices/v3/ssd1306/image1bit"

	"github.com/relabs-tech/depth_computer/internal/env"
)

func litPixels(img *image1bit.VerticalLSB) int {
	n := 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			if img.BitAt(x, y) == image1bit.On {
				n++
			}
		}
	}
	return n
}

func TestRenderEnv(t *testing.T) {
	waiting := renderEnv(env.Sample{}, false)
	if litPixels(waiting) == 0 {
		t.Fatal("waiting screen is blank")
	}
	data := renderEnv(testSample(), true)
	if litPixels(data) == 0 {
		t.Fatal("sample screen is blank")
	}
	if bytes.Equal(waiting.Pix, data.Pix) {
		t.Error("sample screen equals waiting screen")
	}
	if b := data.Bounds(); b.Dx() != 128 || b.Dy() != 64 {
		t.Errorf("bounds = %v", b)
	}
}

func TestRenderRaw(t *testing.T) {
	a := renderRaw(env.Raw{D1: 4298154, D2: 8077636}, true)
	b := renderRaw(env.Raw{D1: 1, D2: 8077636}, true)
	if bytes.Equal(a.Pix, b.Pix) {
		t.Error("different D1 renders the same frame")
	}
	if litPixels(renderSplash()) == 0 {
		t.Error("splash is blank")
	}
}
