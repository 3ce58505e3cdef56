// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
)

// formatSample renders one console line for s.
func formatSample(tag string, s env.Sample) string {
	line := fmt.Sprintf("[%s] T=%6.2f°C  P=%8.1f mbar  %7.4f bar", tag, s.Temperature, s.PressureMbar, s.PressureBar)
	if s.TempUnit != "" || s.PressureUnit != "" {
		line += fmt.Sprintf("  (%s %g, %s %g)", s.TempUnit, s.TempValue, s.PressureUnit, s.PressureValue)
	}
	return line
}

// formatRaw renders one console line for r.
func formatRaw(r env.Raw) string {
	return fmt.Sprintf("[RAW] D1=%8d D2=%8d  C=%v", r.D1, r.D2, r.Calibration[1:])
}

// RunConsoleMQTT prints every sample published by the producer until
// interrupted.
func RunConsoleMQTT() error {
	cfg := config.Get()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDConsole)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	if err := subscribeSamples(client, cfg.TopicEnv, "console", func(s env.Sample) {
		fmt.Println(formatSample("ENV", s))
	}); err != nil {
		return err
	}

	if cfg.TopicEnvRaw != "" {
		if err := subscribeRaw(client, cfg.TopicEnvRaw, "console", func(r env.Raw) {
			fmt.Println(formatRaw(r))
		}); err != nil {
			return err
		}
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	log.Println("console: shutting down")
	return nil
}

// RunMockConsole prints samples from the mock source, no hardware or broker
// needed.
func RunMockConsole() error {
	src := env.NewMockSource()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for range ticker.C {
		s, err := src.Next()
		if err != nil {
			return err
		}
		fmt.Println(formatSample("MOCK", s))
	}
	return nil
}
