// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import (
	"context"
	"encoding/binary"
	"fmt"
	"log"
	"sync"
	"time"

	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I²C addresses selected by the CSB pin.
const (
	DefaultAddress   uint16 = 0x76
	AlternateAddress uint16 = 0x77
)

// Channel selects which quantity the ADC converts.
type Channel byte

const (
	Pressure    Channel = 0x00
	Temperature Channel = 0x10
)

func (c Channel) String() string {
	if c == Temperature {
		return "temperature"
	}
	return "pressure"
}

// Commands.
const (
	cmdReset   byte = 0x1E
	cmdPROM    byte = 0xA0 // + 2*word
	cmdConvert byte = 0x40 // | channel | OSR modifier
	cmdADCRead byte = 0x00
)

// ResetTime is how long the device needs to reload PROM after a reset.
const ResetTime = 3 * time.Millisecond

// Opts holds the configuration options used when opening the device.
type Opts struct {
	// Address is the I²C address, 0x76 or 0x77.
	Address uint16

	TempOSR      Oversampling
	PressureOSR  Oversampling
	TempUnit     TemperatureUnit
	PressureUnit PressureUnit

	// ResetOnInit sends the reset command before reading PROM.
	ResetOnInit bool
}

// DefaultOpts is the recommended default options.
var DefaultOpts = Opts{
	Address:     DefaultAddress,
	TempOSR:     OSR256,
	PressureOSR: OSR256,
}

// Reading is the result of Measure.
type Reading struct {
	Temperature     float64
	Pressure        float64
	TemperatureUnit TemperatureUnit
	PressureUnit    PressureUnit

	// Compensated holds the same reading before unit conversion.
	Compensated Compensated
}

type settings struct {
	tempOSR      Oversampling
	pressureOSR  Oversampling
	tempUnit     TemperatureUnit
	pressureUnit PressureUnit
}

// Dev is a handle to an initialized MS5803.
//
// One conversion can be in flight per device, so every bus sequence runs
// with mu held.
type Dev struct {
	c    conn.Conn
	name string

	mu         sync.Mutex
	cal        Calibration
	cfg        settings
	needsReset bool
	wait       func(ctx context.Context, d time.Duration) error

	// contMu guards stop and orders SenseContinuous and Halt.
	contMu sync.Mutex
	stop   chan struct{}
	wg     sync.WaitGroup
}

// New returns a handle to an MS5803 on an I²C bus.
//
// The calibration words are read before returning. If that fails no Dev is
// returned.
func New(b i2c.Bus, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	switch opts.Address {
	case DefaultAddress, AlternateAddress:
	default:
		return nil, invalidf("i2c address 0x%02X, must be one of [0x76 0x77]", opts.Address)
	}
	return NewConn(&i2c.Dev{Bus: b, Addr: opts.Address}, opts)
}

// NewConn returns a handle to an MS5803 reachable through c. Opts.Address is
// ignored since c is already bound to the device.
func NewConn(c conn.Conn, opts *Opts) (*Dev, error) {
	if opts == nil {
		opts = &DefaultOpts
	}
	if !opts.TempOSR.valid() || !opts.PressureOSR.valid() {
		return nil, invalidf("oversampling %s/%s", opts.TempOSR, opts.PressureOSR)
	}
	if !opts.TempUnit.valid() {
		return nil, invalidf("temperature unit %s, must be one of [raw celsius fahrenheit]", opts.TempUnit)
	}
	if !opts.PressureUnit.valid() {
		return nil, invalidf("pressure unit %s, must be one of [raw pascals bar]", opts.PressureUnit)
	}
	d := &Dev{
		c:    c,
		name: "MS5803{" + c.String() + "}",
		cfg: settings{
			tempOSR:      opts.TempOSR,
			pressureOSR:  opts.PressureOSR,
			tempUnit:     opts.TempUnit,
			pressureUnit: opts.PressureUnit,
		},
		wait: sleep,
	}
	ctx := context.Background()
	if opts.ResetOnInit {
		if err := d.reset(ctx); err != nil {
			return nil, err
		}
		return d, nil
	}
	if err := d.readCalibration(); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dev) String() string {
	return d.name
}

// Calibration returns the PROM words read at initialization or at the last
// successful Reset.
func (d *Dev) Calibration() Calibration {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cal
}

// Reset sends the reset command, waits ResetTime and reloads calibration.
// It clears a pending ErrNeedsReset condition on success.
func (d *Dev) Reset(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.reset(ctx)
}

func (d *Dev) reset(ctx context.Context) error {
	d.needsReset = true
	if err := d.write(cmdReset); err != nil {
		return err
	}
	if err := d.wait(ctx, ResetTime); err != nil {
		return fmt.Errorf("ms5803: reset: %w", err)
	}
	if err := d.readCalibration(); err != nil {
		return err
	}
	d.needsReset = false
	return nil
}

// Convert runs one ADC conversion and returns the raw 24-bit count.
//
// If ctx is done while waiting for the conversion, the result is abandoned
// and the device must be Reset before further use.
func (d *Dev) Convert(ctx context.Context, ch Channel, osr Oversampling) (uint32, error) {
	if !osr.valid() {
		return 0, invalidf("oversampling %s", osr)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.needsReset {
		return 0, ErrNeedsReset
	}
	return d.convert(ctx, ch, osr)
}

// convert must be called with d.mu held.
func (d *Dev) convert(ctx context.Context, ch Channel, osr Oversampling) (uint32, error) {
	if err := d.write(cmdConvert | byte(ch) | osr.Modifier()); err != nil {
		return 0, err
	}
	if err := d.wait(ctx, osr.ConversionTime()); err != nil {
		d.needsReset = true
		return 0, fmt.Errorf("ms5803: %s conversion abandoned: %w", ch, err)
	}
	var b [3]byte
	if err := d.read(cmdADCRead, b[:]); err != nil {
		return 0, err
	}
	return uint32(b[0])<<16 | uint32(b[1])<<8 | uint32(b[2]), nil
}

// Measure converts temperature then pressure with the stored OSRs and
// returns the compensated reading in the stored units.
//
// Options replace the stored defaults for this and later calls. They are
// all validated before any of them is stored.
func (d *Dev) Measure(ctx context.Context, opts ...MeasureOption) (Reading, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	next := d.cfg
	for _, o := range opts {
		if err := o(&next); err != nil {
			return Reading{}, err
		}
	}
	d.cfg = next

	c, err := d.sense(ctx)
	if err != nil {
		return Reading{}, err
	}
	return Reading{
		Temperature:     ConvertTemperature(c.Temperature, next.tempUnit),
		Pressure:        ConvertPressure(c.Pressure, next.pressureUnit),
		TemperatureUnit: next.tempUnit,
		PressureUnit:    next.pressureUnit,
		Compensated:     c,
	}, nil
}

// sense must be called with d.mu held.
func (d *Dev) sense(ctx context.Context) (Compensated, error) {
	if d.needsReset {
		return Compensated{}, ErrNeedsReset
	}
	if err := ctx.Err(); err != nil {
		return Compensated{}, err
	}
	rawTemp, err := d.convert(ctx, Temperature, d.cfg.tempOSR)
	if err != nil {
		return Compensated{}, err
	}
	rawPressure, err := d.convert(ctx, Pressure, d.cfg.pressureOSR)
	if err != nil {
		return Compensated{}, err
	}
	return Compensate(rawTemp, rawPressure, d.cal), nil
}

// Sense implements physic.SenseEnv. Humidity is not supported.
func (d *Dev) Sense(e *physic.Env) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	c, err := d.sense(context.Background())
	if err != nil {
		return err
	}
	e.Temperature = physic.Temperature(c.Temperature)*10*physic.MilliCelsius + physic.ZeroCelsius
	// 0.1 mbar is 10 Pa.
	e.Pressure = physic.Pressure(c.Pressure) * 10 * physic.Pascal
	return nil
}

// SenseContinuous implements physic.SenseEnv.
func (d *Dev) SenseContinuous(interval time.Duration) (<-chan physic.Env, error) {
	if interval <= 0 {
		return nil, invalidf("sense interval %s", interval)
	}
	d.contMu.Lock()
	defer d.contMu.Unlock()
	d.haltLocked()
	sensing := make(chan physic.Env)
	d.stop = make(chan struct{})
	d.wg.Add(1)
	go func(stop <-chan struct{}) {
		defer d.wg.Done()
		defer close(sensing)
		d.sensingContinuous(interval, sensing, stop)
	}(d.stop)
	return sensing, nil
}

func (d *Dev) sensingContinuous(interval time.Duration, sensing chan<- physic.Env, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		var e physic.Env
		if err := d.Sense(&e); err != nil {
			log.Printf("%s: failed to sense: %v", d, err)
		} else {
			select {
			case sensing <- e:
			case <-stop:
				return
			}
		}
		select {
		case <-stop:
			return
		case <-t.C:
		}
	}
}

// Precision implements physic.SenseEnv.
func (d *Dev) Precision(e *physic.Env) {
	e.Temperature = 10 * physic.MilliKelvin
	e.Pressure = 10 * physic.Pascal
	e.Humidity = 0
}

// Halt stops a running SenseContinuous.
func (d *Dev) Halt() error {
	d.contMu.Lock()
	defer d.contMu.Unlock()
	d.haltLocked()
	return nil
}

// haltLocked must be called with d.contMu held. The sensing goroutine only
// takes d.mu, so waiting for it here cannot deadlock.
func (d *Dev) haltLocked() {
	if d.stop == nil {
		return
	}
	close(d.stop)
	d.stop = nil
	d.wg.Wait()
}

func (d *Dev) readCalibration() error {
	var b [2]byte
	var cal Calibration
	for i := 1; i <= 6; i++ {
		if err := d.read(cmdPROM+byte(2*i), b[:]); err != nil {
			return fmt.Errorf("ms5803: reading calibration word %d: %w", i, err)
		}
		cal[i] = binary.BigEndian.Uint16(b[:])
	}
	d.cal = cal
	return nil
}

func (d *Dev) write(cmd byte) error {
	if err := d.c.Tx([]byte{cmd}, nil); err != nil {
		return &BusError{Op: "write", Cmd: cmd, Err: err}
	}
	return nil
}

func (d *Dev) read(cmd byte, b []byte) error {
	if err := d.c.Tx([]byte{cmd}, b); err != nil {
		return &BusError{Op: "read", Cmd: cmd, Err: err}
	}
	return nil
}

// sleep blocks for at least dur unless ctx is done first.
func sleep(ctx context.Context, dur time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	t := time.NewTimer(dur)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

var _ physic.SenseEnv = &Dev{}
