// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import "testing"

func TestMS5803CommandMap(t *testing.T) {
	cmds := MS5803CommandMap()
	// reset + 10 conversions + ADC read + 8 PROM words
	if len(cmds) != 20 {
		t.Fatalf("got %d commands, want 20", len(cmds))
	}
	seen := map[byte]bool{}
	for _, c := range cmds {
		if seen[c.Code] {
			t.Errorf("duplicate command %s", c)
		}
		seen[c.Code] = true
	}

	data := []struct {
		code    byte
		name    string
		readLen int
	}{
		{0x1E, "RESET", 0},
		{0x40, "CONVERT_D1_OSR256", 0},
		{0x48, "CONVERT_D1_OSR4096", 0},
		{0x50, "CONVERT_D2_OSR256", 0},
		{0x58, "CONVERT_D2_OSR4096", 0},
		{0x00, "ADC_READ", 3},
		{0xA2, "PROM_READ_1", 2},
		{0xAE, "PROM_READ_7", 2},
	}
	for _, line := range data {
		c, ok := LookupCommand(line.code)
		if !ok {
			t.Errorf("0x%02X missing", line.code)
			continue
		}
		if c.Name != line.name || c.ReadLen != line.readLen {
			t.Errorf("0x%02X = %s (read %d), want %s (read %d)", line.code, c.Name, c.ReadLen, line.name, line.readLen)
		}
	}

	if _, ok := LookupCommand(0x42 | 0x01); ok {
		t.Error("0x43 should not be a command")
	}
}
