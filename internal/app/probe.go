// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"fmt"
	"log"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
	"github.com/relabs-tech/depth_computer/internal/sensors"
)

// ProbeResult is one raw conversion made by the probe.
type ProbeResult struct {
	Command sensors.CommandInfo
	Channel ms5803.Channel
	OSR     ms5803.Oversampling
	Raw     uint32
}

// RunProbe logs the PROM words and one raw conversion per channel and OSR,
// then a compensated reading. It is meant for bench checks of new wiring.
func RunProbe(ctx context.Context) error {
	s, err := sensors.GetEnvSensor()
	if err != nil {
		return err
	}
	defer sensors.CloseEnv()
	dev := s.Dev()

	cal := dev.Calibration()
	for i := 1; i < len(cal); i++ {
		cmd, _ := sensors.LookupCommand(0xA0 + byte(2*i))
		log.Printf("probe: %-12s = %5d (0x%04X)  %s", cmd.Name, cal[i], cal[i], cmd.Description)
	}

	results, err := probeConversions(ctx, dev)
	for _, r := range results {
		log.Printf("probe: %-20s %-11s raw=%8d", r.Command, r.Channel, r.Raw)
	}
	if err != nil {
		return err
	}

	c := ms5803.Compensate(lastRaw(results, ms5803.Temperature), lastRaw(results, ms5803.Pressure), cal)
	log.Printf("probe: OSR4096 compensated T=%.2f°C P=%.1f mbar", float64(c.Temperature)/100, float64(c.Pressure)/10)
	return nil
}

// probeConversions converts both channels at every OSR, temperature first.
// It stops at the first failure and returns what was read so far.
func probeConversions(ctx context.Context, dev *ms5803.Dev) ([]ProbeResult, error) {
	var results []ProbeResult
	for _, ch := range []ms5803.Channel{ms5803.Temperature, ms5803.Pressure} {
		for _, osr := range ms5803.Oversamplings() {
			raw, err := dev.Convert(ctx, ch, osr)
			if err != nil {
				return results, fmt.Errorf("probe %s %s: %w", ch, osr, err)
			}
			cmd, _ := sensors.LookupCommand(0x40 | byte(ch) | osr.Modifier())
			results = append(results, ProbeResult{Command: cmd, Channel: ch, OSR: osr, Raw: raw})
		}
	}
	return results, nil
}

// lastRaw returns the highest-OSR count for ch.
func lastRaw(results []ProbeResult, ch ms5803.Channel) uint32 {
	var raw uint32
	for _, r := range results {
		if r.Channel == ch {
			raw = r.Raw
		}
	}
	return raw
}
