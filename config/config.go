// Package config provides YAML configuration parsing for the glimmer
// server binary.
//
// This package enables running glimmer as a standalone binary with a
// configuration file, as an alternative to the programmatic SDK
// approach.
//
// Example configuration:
//
//	host: 0.0.0.0
//	port: 5000
//	allowed_origin: https://lights-ui.vercel.app
//	brightness: 0.5
//	rotation: 0
//	auto_off: 10s
//	history_size: 10
//	driver: auto
//	spi:
//	  dev: ""
//	  speed_hz: 2500000
package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// minAutoOff is the minimum allowed idle window. Anything shorter
// would power the panel off while a client is still drawing.
const minAutoOff = 1 * time.Second

// maxHistorySize caps the in-memory history; the buffer holds full
// grids and lives for the process lifetime.
const maxHistorySize = 100

// Config is the root configuration structure for glimmer.
//
// It maps directly to the YAML configuration file structure. Use
// [Load] or [Parse] to create a Config from YAML.
type Config struct {
	// Host is the bind address. Defaults to 0.0.0.0.
	Host string `yaml:"host"`

	// Port is the HTTP server port. Defaults to 5000.
	Port int `yaml:"port"`

	// AllowedOrigin is the single frontend origin allowed cross-origin
	// access to the API.
	AllowedOrigin string `yaml:"allowed_origin"`

	// Brightness is the startup brightness in [0, 1].
	// Defaults to 0.5.
	Brightness *float64 `yaml:"brightness"`

	// Rotation is the panel mount rotation: 0, 90, 180 or 270.
	Rotation int `yaml:"rotation"`

	// AutoOff is the idle window after which the display powers off.
	// Accepts duration strings like "10s", "1m". Defaults to 10s.
	AutoOff Duration `yaml:"auto_off"`

	// HistorySize is how many accepted grids are kept in memory.
	// Defaults to 10.
	HistorySize int `yaml:"history_size"`

	// Driver selects the display backend: auto, spi, screen or sim.
	// Defaults to auto.
	Driver string `yaml:"driver"`

	// SPI tunes the SPI port used by the hardware driver.
	SPI SPIConfig `yaml:"spi"`
}

// SPIConfig tunes the SPI port behind the hardware driver.
type SPIConfig struct {
	// Dev is the spireg port name, e.g. "/dev/spidev0.0".
	// Empty selects the first available port.
	Dev string `yaml:"dev"`

	// SpeedHz is the SPI clock for the WS2812 bit encoding.
	// Defaults to 2500000.
	SpeedHz int `yaml:"speed_hz"`
}

// Duration wraps time.Duration for YAML unmarshalling.
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler for Duration.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}

	*d = Duration(parsed)
	return nil
}

// Duration returns the underlying time.Duration value.
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

// Load reads and parses a YAML configuration file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse parses YAML configuration data, applies defaults and validates
// the result.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if cfg.Host == "" {
		cfg.Host = "0.0.0.0"
	}
	if cfg.Port == 0 {
		cfg.Port = 5000
	}
	if cfg.AllowedOrigin == "" {
		cfg.AllowedOrigin = "https://lights-ui.vercel.app"
	}
	if cfg.Brightness == nil {
		b := 0.5
		cfg.Brightness = &b
	}
	if cfg.AutoOff == 0 {
		cfg.AutoOff = Duration(10 * time.Second)
	}
	if cfg.HistorySize == 0 {
		cfg.HistorySize = 10
	}
	if cfg.Driver == "" {
		cfg.Driver = "auto"
	}
	if cfg.SPI.SpeedHz == 0 {
		cfg.SPI.SpeedHz = 2500000
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// validate checks every field against its allowed range.
func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}

	u, err := url.Parse(c.AllowedOrigin)
	if err != nil {
		return fmt.Errorf("invalid allowed_origin: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("allowed_origin scheme must be http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("allowed_origin must include a host")
	}

	if b := *c.Brightness; b < 0 || b > 1 {
		return fmt.Errorf("brightness must be between 0 and 1, got %g", b)
	}

	switch c.Rotation {
	case 0, 90, 180, 270:
	default:
		return fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", c.Rotation)
	}

	if c.AutoOff.Duration() < minAutoOff {
		return fmt.Errorf("auto_off must be at least %s, got %s", minAutoOff, c.AutoOff.Duration())
	}

	if c.HistorySize < 1 || c.HistorySize > maxHistorySize {
		return fmt.Errorf("history_size must be between 1 and %d, got %d", maxHistorySize, c.HistorySize)
	}

	switch c.Driver {
	case "auto", "spi", "screen", "sim":
	default:
		return fmt.Errorf("driver must be auto, spi, screen or sim, got %q", c.Driver)
	}

	if c.SPI.SpeedHz < 1 {
		return fmt.Errorf("spi.speed_hz must be positive, got %d", c.SPI.SpeedHz)
	}

	return nil
}
