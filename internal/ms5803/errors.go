// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidConfiguration is returned when an OSR, unit or address is
	// outside its permitted set. Stored settings are left untouched.
	ErrInvalidConfiguration = errors.New("ms5803: invalid configuration")

	// ErrNeedsReset is returned after a conversion was abandoned half way.
	// The conversion register state is unknown until Reset succeeds.
	ErrNeedsReset = errors.New("ms5803: device needs reset")
)

// BusError wraps a failed transaction on the underlying bus.
type BusError struct {
	Op  string // "write" or "read"
	Cmd byte
	Err error
}

func (e *BusError) Error() string {
	return fmt.Sprintf("ms5803: bus %s (cmd 0x%02X): %v", e.Op, e.Cmd, e.Err)
}

func (e *BusError) Unwrap() error {
	return e.Err
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfiguration, fmt.Sprintf(format, args...))
}
