// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package config

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/relabs-tech/depth_computer/internal/ms5803"
)

// SSD1306Addr is the only address the ssd1306 display driver uses.
const SSD1306Addr = 0x3C

// Config holds all application configuration values.
type Config struct {
	// MQTT
	MQTTBroker           string
	MQTTClientIDProducer string
	MQTTClientIDConsole  string
	MQTTClientIDWeb      string
	MQTTClientIDDisplay  string

	// Topics
	TopicEnv    string // compensated samples
	TopicEnvRaw string // raw ADC counts, empty to disable

	// MS5803 Hardware
	I2CBus      string // "" picks the first bus
	MS5803Addr  uint16
	ResetOnInit bool

	// MS5803 Measurement
	MS5803TempOSR      ms5803.Oversampling
	MS5803PressureOSR  ms5803.Oversampling
	MS5803TempUnit     ms5803.TemperatureUnit
	MS5803PressureUnit ms5803.PressureUnit

	// Timing
	SampleInterval     int // milliseconds
	ConsoleLogInterval int // milliseconds

	// Web Server
	WebServerPort int

	// Display
	DisplayI2CAddr        uint16
	DisplayUpdateInterval int    // milliseconds
	DisplayContent        string // what to show: "env", "env_raw"
}

// The loaded configuration is only reachable through InitGlobal and Get.
// configOnce makes repeated InitGlobal calls no-ops; configMu lets any
// number of goroutines call Get while initialization holds the write lock.
var (
	globalConfig *Config
	configOnce   sync.Once
	configMu     sync.RWMutex
)

// Load reads the configuration file and returns a Config struct.
func Load(configPath string) (*Config, error) {
	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	return Parse(file)
}

// Parse reads KEY=VALUE lines from r. Blank lines and lines starting with
// '#' are ignored.
func Parse(r io.Reader) (*Config, error) {
	cfg := &Config{}
	scanner := bufio.NewScanner(r)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		// Parse KEY=VALUE
		parts := strings.SplitN(line, "=", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid config line %d: %q", lineNum, line)
		}

		key := strings.TrimSpace(parts[0])
		value := strings.TrimSpace(parts[1])

		if err := cfg.setValue(key, value); err != nil {
			return nil, fmt.Errorf("config line %d: %w", lineNum, err)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	cfg.applyDefaults()

	// Validate required fields
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// setValue sets a config value based on the key.
func (c *Config) setValue(key, value string) error {
	switch key {
	// MQTT
	case "MQTT_BROKER":
		c.MQTTBroker = value
	case "MQTT_CLIENT_ID_PRODUCER":
		c.MQTTClientIDProducer = value
	case "MQTT_CLIENT_ID_CONSOLE":
		c.MQTTClientIDConsole = value
	case "MQTT_CLIENT_ID_WEB":
		c.MQTTClientIDWeb = value
	case "MQTT_CLIENT_ID_DISPLAY":
		c.MQTTClientIDDisplay = value

	// Topics
	case "TOPIC_ENV":
		c.TopicEnv = value
	case "TOPIC_ENV_RAW":
		c.TopicEnvRaw = value

	// MS5803 Hardware
	case "I2C_BUS":
		c.I2CBus = value
	case "MS5803_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid MS5803_I2C_ADDR %q: %w", value, err)
		}
		if addr != uint64(ms5803.DefaultAddress) && addr != uint64(ms5803.AlternateAddress) {
			return fmt.Errorf("%w: MS5803_I2C_ADDR must be 0x76 or 0x77, got 0x%02X", ms5803.ErrInvalidConfiguration, addr)
		}
		c.MS5803Addr = uint16(addr)
	case "MS5803_RESET_ON_INIT":
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid MS5803_RESET_ON_INIT %q: %w", value, err)
		}
		c.ResetOnInit = b

	// MS5803 Measurement
	case "MS5803_TEMP_OSR":
		osr, err := parseOSR(value)
		if err != nil {
			return fmt.Errorf("MS5803_TEMP_OSR: %w", err)
		}
		c.MS5803TempOSR = osr
	case "MS5803_PRESSURE_OSR":
		osr, err := parseOSR(value)
		if err != nil {
			return fmt.Errorf("MS5803_PRESSURE_OSR: %w", err)
		}
		c.MS5803PressureOSR = osr
	case "MS5803_TEMP_UNIT":
		if value == "" || value == "raw" {
			c.MS5803TempUnit = ms5803.RawTemperature
			break
		}
		u, err := ms5803.ParseTemperatureUnit(value)
		if err != nil {
			return fmt.Errorf("MS5803_TEMP_UNIT: %w", err)
		}
		c.MS5803TempUnit = u
	case "MS5803_PRESSURE_UNIT":
		if value == "" || value == "raw" {
			c.MS5803PressureUnit = ms5803.RawPressure
			break
		}
		u, err := ms5803.ParsePressureUnit(value)
		if err != nil {
			return fmt.Errorf("MS5803_PRESSURE_UNIT: %w", err)
		}
		c.MS5803PressureUnit = u

	// Timing
	case "SAMPLE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid SAMPLE_INTERVAL %q: %w", value, err)
		}
		c.SampleInterval = interval
	case "CONSOLE_LOG_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid CONSOLE_LOG_INTERVAL %q: %w", value, err)
		}
		c.ConsoleLogInterval = interval

	// Web Server
	case "WEB_SERVER_PORT":
		port, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid WEB_SERVER_PORT %q: %w", value, err)
		}
		c.WebServerPort = port

	// Display
	case "DISPLAY_I2C_ADDR":
		addr, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_I2C_ADDR %q: %w", value, err)
		}
		// The ssd1306 driver only talks to 0x3C.
		if addr != SSD1306Addr {
			return fmt.Errorf("%w: DISPLAY_I2C_ADDR must be 0x3C, got 0x%02X", ms5803.ErrInvalidConfiguration, addr)
		}
		c.DisplayI2CAddr = uint16(addr)
	case "DISPLAY_UPDATE_INTERVAL":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid DISPLAY_UPDATE_INTERVAL %q: %w", value, err)
		}
		c.DisplayUpdateInterval = interval
	case "DISPLAY_CONTENT":
		switch value {
		case "env", "env_raw":
		default:
			return fmt.Errorf("DISPLAY_CONTENT must be env or env_raw, got %q", value)
		}
		c.DisplayContent = value

	default:
		return fmt.Errorf("unknown config key: %q", key)
	}

	return nil
}

// parseOSR accepts a sample count such as 4096.
func parseOSR(value string) (ms5803.Oversampling, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid oversampling rate %q: %w", value, err)
	}
	return ms5803.ParseOversampling(n)
}

// applyDefaults fills optional fields that were not set in the file.
func (c *Config) applyDefaults() {
	if c.MS5803Addr == 0 {
		c.MS5803Addr = ms5803.DefaultAddress
	}
	if c.MQTTClientIDProducer == "" {
		c.MQTTClientIDProducer = "ms5803-producer"
	}
	if c.MQTTClientIDConsole == "" {
		c.MQTTClientIDConsole = "ms5803-console"
	}
	if c.MQTTClientIDWeb == "" {
		c.MQTTClientIDWeb = "ms5803-web"
	}
	if c.MQTTClientIDDisplay == "" {
		c.MQTTClientIDDisplay = "ms5803-display"
	}
	if c.TopicEnv == "" {
		c.TopicEnv = "depth/env"
	}
	if c.WebServerPort == 0 {
		c.WebServerPort = 8080
	}
	if c.DisplayI2CAddr == 0 {
		c.DisplayI2CAddr = SSD1306Addr
	}
	if c.DisplayUpdateInterval == 0 {
		c.DisplayUpdateInterval = 500
	}
	if c.DisplayContent == "" {
		c.DisplayContent = "env"
	}
}

// validate checks that all required fields are set.
func (c *Config) validate() error {
	if c.MQTTBroker == "" {
		return fmt.Errorf("MQTT_BROKER is required")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("SAMPLE_INTERVAL is required")
	}
	if c.ConsoleLogInterval <= 0 {
		return fmt.Errorf("CONSOLE_LOG_INTERVAL is required")
	}
	return nil
}

// InitGlobal loads the configuration file once. Later calls return nil
// without reading the file again.
func InitGlobal(configPath string) error {
	var err error
	configOnce.Do(func() {
		configMu.Lock()
		defer configMu.Unlock()
		globalConfig, err = Load(configPath)
	})
	return err
}

// Get returns the global configuration, or nil before InitGlobal.
func Get() *Config {
	configMu.RLock()
	defer configMu.RUnlock()
	return globalConfig
}
