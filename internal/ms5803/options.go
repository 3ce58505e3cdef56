// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

// MeasureOption overrides one stored default for Measure. A parameter that is
// not passed keeps its stored value.
type MeasureOption func(*settings) error

// WithTempOSR sets the temperature oversampling rate from a sample count.
func WithTempOSR(samples int) MeasureOption {
	return func(s *settings) error {
		o, err := ParseOversampling(samples)
		if err != nil {
			return err
		}
		s.tempOSR = o
		return nil
	}
}

// WithPressureOSR sets the pressure oversampling rate from a sample count.
func WithPressureOSR(samples int) MeasureOption {
	return func(s *settings) error {
		o, err := ParseOversampling(samples)
		if err != nil {
			return err
		}
		s.pressureOSR = o
		return nil
	}
}

// WithTempUnit sets the temperature unit, "celsius" or "fahrenheit".
func WithTempUnit(name string) MeasureOption {
	return func(s *settings) error {
		u, err := ParseTemperatureUnit(name)
		if err != nil {
			return err
		}
		s.tempUnit = u
		return nil
	}
}

// WithPressureUnit sets the pressure unit, "pascals" or "bar".
func WithPressureUnit(name string) MeasureOption {
	return func(s *settings) error {
		u, err := ParsePressureUnit(name)
		if err != nil {
			return err
		}
		s.pressureUnit = u
		return nil
	}
}

func (d *Dev) apply(o MeasureOption) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	next := d.cfg
	if err := o(&next); err != nil {
		return err
	}
	d.cfg = next
	return nil
}

// SetTempOSR stores the default temperature oversampling rate.
func (d *Dev) SetTempOSR(samples int) error { return d.apply(WithTempOSR(samples)) }

// SetPressureOSR stores the default pressure oversampling rate.
func (d *Dev) SetPressureOSR(samples int) error { return d.apply(WithPressureOSR(samples)) }

// SetTempUnit stores the default temperature unit.
func (d *Dev) SetTempUnit(name string) error { return d.apply(WithTempUnit(name)) }

// SetPressureUnit stores the default pressure unit.
func (d *Dev) SetPressureUnit(name string) error { return d.apply(WithPressureUnit(name)) }

func (d *Dev) settings() settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cfg
}

func (d *Dev) TempOSR() Oversampling { return d.settings().tempOSR }

func (d *Dev) PressureOSR() Oversampling { return d.settings().pressureOSR }

func (d *Dev) TempUnit() TemperatureUnit { return d.settings().tempUnit }

func (d *Dev) PressureUnit() PressureUnit { return d.settings().pressureUnit }
