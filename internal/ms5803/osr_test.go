// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import (
	"errors"
	"testing"
	"time"
)

func TestOversamplingTable(t *testing.T) {
	data := []struct {
		samples  int
		osr      Oversampling
		modifier byte
		wait     time.Duration
	}{
		{256, OSR256, 0x00, 1 * time.Millisecond},
		{512, OSR512, 0x02, 2 * time.Millisecond},
		{1024, OSR1024, 0x04, 3 * time.Millisecond},
		{2048, OSR2048, 0x06, 5 * time.Millisecond},
		{4096, OSR4096, 0x08, 10 * time.Millisecond},
	}
	for _, line := range data {
		o, err := ParseOversampling(line.samples)
		if err != nil {
			t.Fatalf("ParseOversampling(%d): %v", line.samples, err)
		}
		if o != line.osr {
			t.Errorf("ParseOversampling(%d) = %s, want %s", line.samples, o, line.osr)
		}
		if o.Samples() != line.samples {
			t.Errorf("%s.Samples() = %d", o, o.Samples())
		}
		if o.Modifier() != line.modifier {
			t.Errorf("%s.Modifier() = 0x%02X, want 0x%02X", o, o.Modifier(), line.modifier)
		}
		if o.ConversionTime() != line.wait {
			t.Errorf("%s.ConversionTime() = %s, want %s", o, o.ConversionTime(), line.wait)
		}
	}
}

func TestParseOversamplingInvalid(t *testing.T) {
	for _, n := range []int{0, 100, 255, 8192, -256} {
		if _, err := ParseOversampling(n); !errors.Is(err, ErrInvalidConfiguration) {
			t.Errorf("ParseOversampling(%d) error = %v, want ErrInvalidConfiguration", n, err)
		}
	}
}

func TestOversamplingString(t *testing.T) {
	if s := OSR4096.String(); s != "OSR4096" {
		t.Errorf("String() = %q", s)
	}
	if s := Oversampling(9).String(); s != "Oversampling(9)" {
		t.Errorf("String() = %q", s)
	}
}

func TestOversamplings(t *testing.T) {
	all := Oversamplings()
	want := []int{256, 512, 1024, 2048, 4096}
	if len(all) != len(want) {
		t.Fatalf("Oversamplings() = %v", all)
	}
	for i, o := range all {
		if o.Samples() != want[i] {
			t.Errorf("Oversamplings()[%d] = %s, want %d samples", i, o, want[i])
		}
	}
}
