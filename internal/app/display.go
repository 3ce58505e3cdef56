// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package app

import (
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/devices/v3/ssd1306/image1bit"
	"periph.io/x/host/v3"

	"github.com/relabs-tech/depth_computer/internal/config"
	"github.com/relabs-tech/depth_computer/internal/env"
)

// DisplayData holds the latest data for display
type DisplayData struct {
	mu sync.RWMutex

	sample     env.Sample
	haveSample bool

	raw     env.Raw
	haveRaw bool
}

func RunDisplay() error {
	cfg := config.Get()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to initialize periph: %w", err)
	}

	bus, err := i2creg.Open(cfg.I2CBus)
	if err != nil {
		return fmt.Errorf("failed to open I2C bus: %w", err)
	}
	defer bus.Close()

	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		return fmt.Errorf("failed to initialize display: %w", err)
	}
	log.Printf("display: initialized at 0x%02X", cfg.DisplayI2CAddr)

	if err := dev.Draw(dev.Bounds(), renderSplash(), image.Point{}); err != nil {
		log.Printf("display: error showing splash: %v", err)
	}

	data := &DisplayData{}

	client, err := connectMQTT(cfg.MQTTBroker, cfg.MQTTClientIDDisplay)
	if err != nil {
		return err
	}
	defer client.Disconnect(250)

	switch cfg.DisplayContent {
	case "env":
		err = subscribeSamples(client, cfg.TopicEnv, "display", func(s env.Sample) {
			data.mu.Lock()
			data.sample = s
			data.haveSample = true
			data.mu.Unlock()
		})
	case "env_raw":
		if cfg.TopicEnvRaw == "" {
			return fmt.Errorf("display content env_raw needs TOPIC_ENV_RAW")
		}
		err = subscribeRaw(client, cfg.TopicEnvRaw, "display", func(r env.Raw) {
			data.mu.Lock()
			data.raw = r
			data.haveRaw = true
			data.mu.Unlock()
		})
	default:
		return fmt.Errorf("unknown display content type: %s", cfg.DisplayContent)
	}
	if err != nil {
		return fmt.Errorf("failed to subscribe for display: %w", err)
	}

	ticker := time.NewTicker(time.Duration(cfg.DisplayUpdateInterval) * time.Millisecond)
	defer ticker.Stop()

	log.Println("display: starting update loop")

	for range ticker.C {
		data.mu.RLock()
		var img *image1bit.VerticalLSB
		if cfg.DisplayContent == "env_raw" {
			img = renderRaw(data.raw, data.haveRaw)
		} else {
			img = renderEnv(data.sample, data.haveSample)
		}
		data.mu.RUnlock()

		if err := dev.Draw(dev.Bounds(), img, image.Point{}); err != nil {
			log.Printf("display: error updating display: %v", err)
		}
	}

	return nil
}

// drawLines draws up to four lines of basicfont text on a blank 128x64 frame.
func drawLines(x int, lines ...string) *image1bit.VerticalLSB {
	img := image1bit.NewVerticalLSB(image.Rect(0, 0, 128, 64))

	drawer := &font.Drawer{
		Dst:  img,
		Src:  &image.Uniform{image1bit.On},
		Face: basicfont.Face7x13,
	}
	for i, l := range lines {
		drawer.Dot = fixed.P(x, 13*(i+1))
		drawer.DrawString(l)
	}
	return img
}

func renderEnv(s env.Sample, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return drawLines(0, "", "Depth", "Waiting...")
	}
	return drawLines(0,
		fmt.Sprintf("T: %6.2f C", s.Temperature),
		fmt.Sprintf("P: %7.1f mb", s.PressureMbar),
		fmt.Sprintf("   %7.4f bar", s.PressureBar),
		fmt.Sprintf("OSR %d/%d", s.TempOSR, s.PressureOSR),
	)
}

func renderRaw(r env.Raw, haveData bool) *image1bit.VerticalLSB {
	if !haveData {
		return drawLines(0, "", "MS5803 raw", "Waiting...")
	}
	return drawLines(0,
		fmt.Sprintf("D1: %8d", r.D1),
		fmt.Sprintf("D2: %8d", r.D2),
		fmt.Sprintf("C1:%5d C2:%5d", r.Calibration[1], r.Calibration[2]),
		fmt.Sprintf("C5:%5d C6:%5d", r.Calibration[5], r.Calibration[6]),
	)
}

func renderSplash() *image1bit.VerticalLSB {
	return drawLines(10, "", "Depth Pi", "MS5803", "starting")
}
