// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package sensors

import (
	"fmt"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

// BitField describes a group of bits inside a command byte.
type BitField struct {
	Bits        string `json:"bits"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Values      string `json:"values,omitempty"`
}

// CommandInfo describes one MS5803 command byte.
type CommandInfo struct {
	Code        byte       `json:"code"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Access      string     `json:"access"` // "W" command only, "R" command then read
	ReadLen     int        `json:"read_len,omitempty"`
	BitFields   []BitField `json:"bit_fields,omitempty"`
}

func (c CommandInfo) String() string {
	return fmt.Sprintf("0x%02X %s", c.Code, c.Name)
}

var convertFields = []BitField{
	{Bits: "6", Name: "CONVERT", Description: "Start conversion", Values: "1"},
	{Bits: "4", Name: "CHANNEL", Description: "Quantity to convert", Values: "0=D1 pressure, 1=D2 temperature"},
	{Bits: "3:1", Name: "OSR", Description: "Oversampling ratio", Values: "0=256, 1=512, 2=1024, 3=2048, 4=4096"},
}

// MS5803CommandMap returns metadata for every MS5803 command.
func MS5803CommandMap() []CommandInfo {
	cmds := []CommandInfo{
		{Code: 0x1E, Name: "RESET", Description: "Reset and reload PROM, wait 3 ms", Access: "W"},
	}

	for _, ch := range []ms5803.Channel{ms5803.Pressure, ms5803.Temperature} {
		name, what := "D1", "pressure"
		if ch == ms5803.Temperature {
			name, what = "D2", "temperature"
		}
		for _, osr := range ms5803.Oversamplings() {
			cmds = append(cmds, CommandInfo{
				Code:        0x40 | byte(ch) | osr.Modifier(),
				Name:        fmt.Sprintf("CONVERT_%s_%s", name, osr),
				Description: fmt.Sprintf("Convert %s, ready after %s", what, osr.ConversionTime()),
				Access:      "W",
				BitFields:   convertFields,
			})
		}
	}

	cmds = append(cmds, CommandInfo{
		Code: 0x00, Name: "ADC_READ", Description: "Read last conversion result, 24 bit big endian", Access: "R", ReadLen: 3,
	})

	promDesc := [8]string{
		"Factory data and setup",
		"C1 pressure sensitivity",
		"C2 pressure offset",
		"C3 temperature coefficient of pressure sensitivity",
		"C4 temperature coefficient of pressure offset",
		"C5 reference temperature",
		"C6 temperature coefficient of the temperature",
		"Serial code and CRC",
	}
	for i, desc := range promDesc {
		cmds = append(cmds, CommandInfo{
			Code:        0xA0 + byte(2*i),
			Name:        fmt.Sprintf("PROM_READ_%d", i),
			Description: desc,
			Access:      "R",
			ReadLen:     2,
		})
	}
	return cmds
}

// LookupCommand returns the metadata for code.
func LookupCommand(code byte) (CommandInfo, bool) {
	for _, c := range MS5803CommandMap() {
		if c.Code == code {
			return c, true
		}
	}
	return CommandInfo{}, false
}
