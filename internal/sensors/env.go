// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
	"github.com/relabs-tech/depth_computer/internal/ms5803"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// EnvSensor owns one MS5803 session. It is the only caller of the device, so
// conversions never interleave.
type EnvSensor struct {
	dev *ms5803.Dev
	now func() time.Time
}

// NewEnvSensor wraps an opened device.
func NewEnvSensor(dev *ms5803.Dev) *EnvSensor {
	return &EnvSensor{dev: dev, now: time.Now}
}

// Dev returns the underlying device.
func (s *EnvSensor) Dev() *ms5803.Dev {
	return s.dev
}

// ReadEnv measures temperature and pressure with the device defaults.
// A device left needing a reset by an abandoned conversion is reset once
// before measuring again.
func (s *EnvSensor) ReadEnv(ctx context.Context) (env.Sample, error) {
	r, err := s.dev.Measure(ctx)
	if errors.Is(err, ms5803.ErrNeedsReset) {
		log.Printf("%s: resetting after abandoned conversion", s.dev)
		if err := s.dev.Reset(ctx); err != nil {
			return env.Sample{}, fmt.Errorf("%s reset: %w", s.dev, err)
		}
		r, err = s.dev.Measure(ctx)
	}
	if err != nil {
		return env.Sample{}, fmt.Errorf("%s sense: %w", s.dev, err)
	}
	return env.NewSample(s.dev.String(), r, s.dev.TempOSR(), s.dev.PressureOSR(), s.now()), nil
}

// ReadRaw returns uncompensated ADC counts for both channels.
func (s *EnvSensor) ReadRaw(ctx context.Context) (env.Raw, error) {
	d2, err := s.dev.Convert(ctx, ms5803.Temperature, s.dev.TempOSR())
	if err != nil {
		return env.Raw{}, fmt.Errorf("%s temperature: %w", s.dev, err)
	}
	d1, err := s.dev.Convert(ctx, ms5803.Pressure, s.dev.PressureOSR())
	if err != nil {
		return env.Raw{}, fmt.Errorf("%s pressure: %w", s.dev, err)
	}
	return env.Raw{
		Source:      s.dev.String(),
		Time:        s.now().UTC().Format(time.RFC3339),
		D1:          d1,
		D2:          d2,
		Calibration: s.dev.Calibration(),
	}, nil
}

// Reset re-initializes the device and reloads its calibration.
func (s *EnvSensor) Reset(ctx context.Context) error {
	return s.dev.Reset(ctx)
}

var (
	envBus     i2c.BusCloser
	envSensor  *EnvSensor
	envOnce    sync.Once
	envInitErr error
)

// OptsFromConfig maps the MS5803_* config keys to driver options.
func OptsFromConfig(cfg *config.Config) *ms5803.Opts {
	return &ms5803.Opts{
		Address:      cfg.MS5803Addr,
		TempOSR:      cfg.MS5803TempOSR,
		PressureOSR:  cfg.MS5803PressureOSR,
		TempUnit:     cfg.MS5803TempUnit,
		PressureUnit: cfg.MS5803PressureUnit,
		ResetOnInit:  cfg.ResetOnInit,
	}
}

// initEnv opens the I²C bus and the MS5803 once.
func initEnv() {
	envOnce.Do(func() {
		cfg := config.Get()

		// Initialize periph host
		if _, err := host.Init(); err != nil {
			envInitErr = fmt.Errorf("periph host init: %w", err)
			return
		}

		bus, err := i2creg.Open(cfg.I2CBus)
		if err != nil {
			envInitErr = fmt.Errorf("MS5803 I2C open %q: %w", cfg.I2CBus, err)
			return
		}

		dev, err := ms5803.New(bus, OptsFromConfig(cfg))
		if err != nil {
			bus.Close()
			envInitErr = fmt.Errorf("MS5803 init: %w", err)
			return
		}

		envBus = bus
		envSensor = NewEnvSensor(dev)
		log.Printf("%s initialized (temp %s, pressure %s)", dev, cfg.MS5803TempOSR, cfg.MS5803PressureOSR)
		log.Printf("%s calibration: %v", dev, dev.Calibration())
	})
}

// GetEnvSensor returns the shared MS5803 sensor, opening it on first use.
func GetEnvSensor() (*EnvSensor, error) {
	initEnv()
	if envInitErr != nil {
		return nil, envInitErr
	}
	return envSensor, nil
}

// ReadEnv reads the shared MS5803 sensor (temp + pressure).
func ReadEnv(ctx context.Context) (env.Sample, error) {
	s, err := GetEnvSensor()
	if err != nil {
		return env.Sample{}, err
	}
	return s.ReadEnv(ctx)
}

// CloseEnv halts the shared sensor and releases the bus.
func CloseEnv() error {
	if envSensor != nil {
		envSensor.dev.Halt()
	}
	if envBus != nil {
		return envBus.Close()
	}
	return nil
}
