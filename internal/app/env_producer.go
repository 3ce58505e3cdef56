// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"context"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
	"github.com/relabs-tech/depth_computer/internal/sensors"
)

// envReader is the part of sensors.EnvSensor the producer needs.
type envReader interface {
	ReadEnv(ctx context.Context) (env.Sample, error)
	ReadRaw(ctx context.Context) (env.Raw, error)
}

// RunEnvProducer samples the MS5803 every SAMPLE_INTERVAL and publishes the
// result to MQTT until ctx is done.
func RunEnvProducer(ctx context.Context) error {
	log.Println("starting depth-computer env producer")

	cfg := config.Get()

	sensor, err := sensors.GetEnvSensor()
	if err != nil {
		return err
	}
	defer sensors.CloseEnv()

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDProducer)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	log.Println("connected to MQTT, starting publish loop")

	ticker := time.NewTicker(time.Duration(cfg.SampleInterval) * time.Millisecond)
	defer ticker.Stop()

	logEvery := time.Duration(cfg.ConsoleLogInterval) * time.Millisecond
	var lastLog time.Time

	for {
		var t time.Time
		select {
		case <-ctx.Done():
			log.Println("env producer: shutting down")
			return nil
		case t = <-ticker.C:
		}

		sample, err := produce(ctx, sensor, client, cfg)
		if err != nil {
			log.Printf("env producer: %v", err)
			continue
		}

		if t.Sub(lastLog) >= logEvery {
			lastLog = t
			log.Printf("%s tick: T=%.2f°C P=%.1f mbar (%.4f bar) | %s %g %s %g",
				t.Format(time.RFC3339),
				sample.Temperature, sample.PressureMbar, sample.PressureBar,
				sample.TempUnit, sample.TempValue, sample.PressureUnit, sample.PressureValue,
			)
		}
	}
}

// produce reads one sample (and raw counts when TOPIC_ENV_RAW is set) and
// publishes them.
func produce(ctx context.Context, r envReader, client mqtt.Client, cfg *config.Config) (env.Sample, error) {
	sample, err := r.ReadEnv(ctx)
	if err != nil {
		return env.Sample{}, err
	}
	if err := publishJSON(client, cfg.TopicEnv, sample); err != nil {
		return env.Sample{}, err
	}

	if cfg.TopicEnvRaw != "" {
		raw, err := r.ReadRaw(ctx)
		if err != nil {
			log.Printf("env producer: raw read error: %v", err)
			return sample, nil
		}
		if err := publishJSON(client, cfg.TopicEnvRaw, raw); err != nil {
			log.Printf("env producer: %v", err)
		}
	}
	return sample, nil
}
