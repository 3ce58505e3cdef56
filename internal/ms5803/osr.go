// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package ms5803

import (
	"strconv"
	"time"
)

// Oversampling selects the ADC resolution. Higher rates are less noisy but
// take longer to convert.
type Oversampling uint8

// Supported oversampling rates. The zero value is OSR256.
const (
	OSR256 Oversampling = iota
	OSR512
	OSR1024
	OSR2048
	OSR4096
)

type osrInfo struct {
	samples  int
	modifier byte          // added to the conversion command
	wait     time.Duration // worst case conversion time
}

var osrTable = [...]osrInfo{
	OSR256:  {256, 0x00, 1 * time.Millisecond},
	OSR512:  {512, 0x02, 2 * time.Millisecond},
	OSR1024: {1024, 0x04, 3 * time.Millisecond},
	OSR2048: {2048, 0x06, 5 * time.Millisecond},
	OSR4096: {4096, 0x08, 10 * time.Millisecond},
}

// ParseOversampling maps a sample count (256, 512, 1024, 2048 or 4096) to
// its Oversampling value.
func ParseOversampling(samples int) (Oversampling, error) {
	for i, info := range osrTable {
		if info.samples == samples {
			return Oversampling(i), nil
		}
	}
	return 0, invalidf("oversampling rate %d, must be one of 256, 512, 1024, 2048, 4096", samples)
}

// Oversamplings lists every supported ratio, lowest first.
func Oversamplings() []Oversampling {
	all := make([]Oversampling, len(osrTable))
	for i := range osrTable {
		all[i] = Oversampling(i)
	}
	return all
}

func (o Oversampling) valid() bool {
	return int(o) < len(osrTable)
}

// Samples returns the number of samples averaged per conversion.
func (o Oversampling) Samples() int {
	return osrTable[o].samples
}

// Modifier returns the byte added to the conversion command.
func (o Oversampling) Modifier() byte {
	return osrTable[o].modifier
}

// ConversionTime returns the minimum wait between starting a conversion
// and reading the ADC.
func (o Oversampling) ConversionTime() time.Duration {
	return osrTable[o].wait
}

func (o Oversampling) String() string {
	if !o.valid() {
		return "Oversampling(" + strconv.Itoa(int(o)) + ")"
	}
	return "OSR" + strconv.Itoa(o.Samples())
}
