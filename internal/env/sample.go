// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package env

import (
	"time"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

// Sample represents a single environmental measurement (MS5803).
type Sample struct {
	Source string `json:"source"` // device name
	Time   string `json:"time"`   // RFC3339

	Temperature  float64 `json:"temp_c"`        // °C
	Pressure     float64 `json:"pressure_pa"`   // Pa
	PressureMbar float64 `json:"pressure_mbar"` // mbar
	PressureBar  float64 `json:"pressure_bar"`  // bar

	// Same reading in the units configured on the device.
	TempValue     float64 `json:"temp"`
	TempUnit      string  `json:"temp_unit"`
	PressureValue float64 `json:"pressure"`
	PressureUnit  string  `json:"pressure_unit"`

	// Fixed-point output of the compensation.
	TempCenti    int64 `json:"temp_centi"`    // 0.01 °C
	PressureDeci int64 `json:"pressure_deci"` // 0.1 mbar

	TempOSR     int `json:"temp_osr"`
	PressureOSR int `json:"pressure_osr"`
}

// Raw is one pair of ADC counts with the calibration used to compensate it.
type Raw struct {
	Source      string             `json:"source"`
	Time        string             `json:"time"`
	D1          uint32             `json:"d1"` // pressure
	D2          uint32             `json:"d2"` // temperature
	Calibration ms5803.Calibration `json:"calibration"`
}

// NewSample builds a Sample from a driver reading.
func NewSample(source string, r ms5803.Reading, tempOSR, pressureOSR ms5803.Oversampling, t time.Time) Sample {
	c := r.Compensated
	return Sample{
		Source:        source,
		Time:          t.UTC().Format(time.RFC3339),
		Temperature:   float64(c.Temperature) / 100,
		Pressure:      float64(c.Pressure) * 10, // 0.1 mbar = 10 Pa
		PressureMbar:  float64(c.Pressure) / 10,
		PressureBar:   float64(c.Pressure) / 10000,
		TempValue:     r.Temperature,
		TempUnit:      r.TemperatureUnit.String(),
		PressureValue: r.Pressure,
		PressureUnit:  r.PressureUnit.String(),
		TempCenti:     c.Temperature,
		PressureDeci:  c.Pressure,
		TempOSR:       tempOSR.Samples(),
		PressureOSR:   pressureOSR.Samples(),
	}
}

// Source is anything that can provide samples over time: the sensor, a
// mock, a replay file.
type Source interface {
	Next() (Sample, error)
}
