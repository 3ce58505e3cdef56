// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"math"
	"time"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

// mockCal is the PROM of a bench MS5803-14BA.
var mockCal = ms5803.Calibration{0, 28986, 25092, 14595, 24979, 30347, 20787}

type mockSource struct {
	start time.Time
	now   func() time.Time
}

// NewMockSource creates a mock source whose raw counts drift smoothly and go
// through the real compensation, so the output looks like a slow dive.
func NewMockSource() Source {
	return &mockSource{start: time.Now(), now: time.Now}
}

func (m *mockSource) Next() (Sample, error) {
	t := m.now()
	elapsed := t.Sub(m.start).Seconds()

	d2 := uint32(8077636 + 20000*math.Sin(elapsed*0.1))
	d1 := uint32(4298154 + 400000*(1-math.Cos(elapsed*0.05)))

	c := ms5803.Compensate(d2, d1, mockCal)
	r := ms5803.Reading{
		Temperature:     ms5803.ConvertTemperature(c.Temperature, ms5803.Celsius),
		Pressure:        ms5803.ConvertPressure(c.Pressure, ms5803.Bar),
		TemperatureUnit: ms5803.Celsius,
		PressureUnit:    ms5803.Bar,
		Compensated:     c,
	}
	return NewSample("mock", r, ms5803.OSR4096, ms5803.OSR4096, t), nil
}
