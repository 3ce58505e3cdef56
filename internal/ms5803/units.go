// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import "strconv"

// TemperatureUnit selects how Measure reports temperature. The zero value
// leaves it in hundredths of a degree Celsius.
type TemperatureUnit uint8

const (
	RawTemperature TemperatureUnit = iota
	Celsius
	Fahrenheit
)

// PressureUnit selects how Measure reports pressure. The zero value leaves
// it in tenths of a millibar.
type PressureUnit uint8

const (
	RawPressure PressureUnit = iota
	Pascals
	Bar
)

func (u TemperatureUnit) valid() bool {
	return u <= Fahrenheit
}

func (u PressureUnit) valid() bool {
	return u <= Bar
}

// ParseTemperatureUnit accepts "celsius" or "fahrenheit".
func ParseTemperatureUnit(s string) (TemperatureUnit, error) {
	switch s {
	case "celsius":
		return Celsius, nil
	case "fahrenheit":
		return Fahrenheit, nil
	}
	return RawTemperature, invalidf("temperature unit %q, must be one of [celsius fahrenheit]", s)
}

// ParsePressureUnit accepts "pascals" or "bar".
func ParsePressureUnit(s string) (PressureUnit, error) {
	switch s {
	case "pascals":
		return Pascals, nil
	case "bar":
		return Bar, nil
	}
	return RawPressure, invalidf("pressure unit %q, must be one of [pascals bar]", s)
}

func (u TemperatureUnit) String() string {
	switch u {
	case Celsius:
		return "celsius"
	case Fahrenheit:
		return "fahrenheit"
	case RawTemperature:
		return "raw"
	}
	return "TemperatureUnit(" + strconv.Itoa(int(u)) + ")"
}

func (u PressureUnit) String() string {
	switch u {
	case Pascals:
		return "pascals"
	case Bar:
		return "bar"
	case RawPressure:
		return "raw"
	}
	return "PressureUnit(" + strconv.Itoa(int(u)) + ")"
}

// ConvertTemperature converts hundredths of a degree Celsius to u.
func ConvertTemperature(centi int64, u TemperatureUnit) float64 {
	switch u {
	case Celsius:
		return float64(centi) / 100
	case Fahrenheit:
		return float64(centi)/100*9/5 + 32
	}
	return float64(centi)
}

// ConvertPressure converts tenths of a millibar to u.
//
// "pascals" divides by ten, which keeps compatibility with existing
// deployments of this sensor; the result is numerically in millibar.
func ConvertPressure(deci int64, u PressureUnit) float64 {
	switch u {
	case Pascals:
		return float64(deci) / 10
	case Bar:
		return float64(deci) / 10000
	}
	return float64(deci)
}
