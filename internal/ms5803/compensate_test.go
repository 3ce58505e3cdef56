// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import "testing"

// Factory words of a real MS5803-14BA.
var testCal = Calibration{0, 28986, 25092, 14595, 24979, 30347, 20787}

func TestCompensate(t *testing.T) {
	const rawPressure = 4298154
	data := []struct {
		name     string
		rawTemp  uint32
		wantTemp int64
		wantPres int64
	}{
		{"reference", 8077636, 2761, 8486},
		{"dT zero", 30347 << 8, 2000, 9223},
		{"dT minus one", 30347<<8 - 1, 1999, 9223},
		{"first order -15.00", 6356405, -2196, 12680},
		{"first order -15.01", 6356002, -2197, 12681},
	}
	for _, line := range data {
		got := Compensate(line.rawTemp, rawPressure, testCal)
		if got.Temperature != line.wantTemp || got.Pressure != line.wantPres {
			t.Errorf("%s: Compensate(%d, %d) = %+v, want {Temperature:%d Pressure:%d}",
				line.name, line.rawTemp, rawPressure, got, line.wantTemp, line.wantPres)
		}
	}
}

func TestCompensateDeterministic(t *testing.T) {
	first := Compensate(8077636, 4298154, testCal)
	for i := 0; i < 10; i++ {
		if got := Compensate(8077636, 4298154, testCal); got != first {
			t.Fatalf("run %d: %+v != %+v", i, got, first)
		}
	}
}

func TestSecondOrder(t *testing.T) {
	data := []struct {
		name                        string
		temp, dT                    int64
		wantT2, wantOFF2, wantSENS2 int64
	}{
		// 20.00 °C takes the high temperature path: (0²)>>4.
		{"at 20.00", 2000, 0, 0, 0, 0},
		// 19.99 °C takes the low temperature path: 3*1>>1 = 1.
		{"at 19.99", 1999, -1, 0, 1, 0},
		{"above 20", 2765, 308804, 4, 36576, 0},
		// -15.00 °C does not get the extra correction.
		{"at -15.00", -1500, -1412427, 696, 18375000, 7656250},
		// -15.01 °C adds 7*1 to OFF2 and 4*1 to SENS2.
		{"at -15.01", -1501, -1412830, 696, 18385508, 7660629},
	}
	for _, line := range data {
		t2, off2, sens2 := secondOrder(line.temp, line.dT)
		if t2 != line.wantT2 || off2 != line.wantOFF2 || sens2 != line.wantSENS2 {
			t.Errorf("%s: secondOrder(%d, %d) = (%d, %d, %d), want (%d, %d, %d)",
				line.name, line.temp, line.dT, t2, off2, sens2, line.wantT2, line.wantOFF2, line.wantSENS2)
		}
	}
}

func TestSecondOrderNegativeShift(t *testing.T) {
	// -1 * C6 >> 23 must round down to -1, not toward zero.
	c := Compensate(30347<<8-1, 0, testCal)
	if c.Temperature != 1999 {
		t.Fatalf("Temperature = %d, want 1999", c.Temperature)
	}
}
