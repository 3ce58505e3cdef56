// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

func TestNewSample(t *testing.T) {
	r := ms5803.Reading{
		Temperature:     81.698,
		Pressure:        0.8486,
		TemperatureUnit: ms5803.Fahrenheit,
		PressureUnit:    ms5803.Bar,
		Compensated:     ms5803.Compensated{Temperature: 2761, Pressure: 8486},
	}
	ts := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	s := NewSample("MS5803{bus(118)}", r, ms5803.OSR4096, ms5803.OSR256, ts)

	if s.Time != "2026-01-02T03:04:05Z" {
		t.Errorf("Time = %q", s.Time)
	}
	if math.Abs(s.Temperature-27.61) > 1e-9 {
		t.Errorf("Temperature = %v", s.Temperature)
	}
	if s.Pressure != 84860 || math.Abs(s.PressureMbar-848.6) > 1e-9 || math.Abs(s.PressureBar-0.8486) > 1e-9 {
		t.Errorf("Pressure = %v Pa %v mbar %v bar", s.Pressure, s.PressureMbar, s.PressureBar)
	}
	if s.TempUnit != "fahrenheit" || s.PressureUnit != "bar" {
		t.Errorf("units = %q %q", s.TempUnit, s.PressureUnit)
	}
	if s.TempOSR != 4096 || s.PressureOSR != 256 {
		t.Errorf("osr = %d %d", s.TempOSR, s.PressureOSR)
	}

	b, err := json.Marshal(s)
	if err != nil {
		t.Fatal(err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatal(err)
	}
	for _, k := range []string{"temp_c", "pressure_pa", "pressure_mbar", "temp_centi", "pressure_deci"} {
		if _, ok := m[k]; !ok {
			t.Errorf("missing JSON field %q", k)
		}
	}
}

func TestMockSource(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	now := start
	m := &mockSource{start: start, now: func() time.Time { return now }}

	s, err := m.Next()
	if err != nil {
		t.Fatal(err)
	}
	// At t=0 the counts are the bench reference.
	if s.TempCenti != 2761 || s.PressureDeci != 8486 {
		t.Errorf("first sample = %d %d", s.TempCenti, s.PressureDeci)
	}

	now = start.Add(30 * time.Second)
	s2, err := m.Next()
	if err != nil {
		t.Fatal(err)
	}
	if s2.PressureDeci <= s.PressureDeci {
		t.Errorf("pressure did not rise: %d -> %d", s.PressureDeci, s2.PressureDeci)
	}
}
