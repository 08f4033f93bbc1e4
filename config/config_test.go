package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse([]byte(``))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Host != "0.0.0.0" {
		t.Errorf("Host = %q, want 0.0.0.0", cfg.Host)
	}
	if cfg.Port != 5000 {
		t.Errorf("Port = %v, want 5000", cfg.Port)
	}
	if cfg.AllowedOrigin != "https://lights-ui.vercel.app" {
		t.Errorf("AllowedOrigin = %q, want default frontend origin", cfg.AllowedOrigin)
	}
	if *cfg.Brightness != 0.5 {
		t.Errorf("Brightness = %v, want 0.5", *cfg.Brightness)
	}
	if cfg.AutoOff.Duration() != 10*time.Second {
		t.Errorf("AutoOff = %v, want 10s", cfg.AutoOff.Duration())
	}
	if cfg.HistorySize != 10 {
		t.Errorf("HistorySize = %v, want 10", cfg.HistorySize)
	}
	if cfg.Driver != "auto" {
		t.Errorf("Driver = %q, want auto", cfg.Driver)
	}
	if cfg.SPI.SpeedHz != 2500000 {
		t.Errorf("SPI.SpeedHz = %v, want 2500000", cfg.SPI.SpeedHz)
	}
}

func TestParse_FullConfig(t *testing.T) {
	yaml := `
host: 127.0.0.1
port: 8080
allowed_origin: http://localhost:3000
brightness: 0.8
rotation: 180
auto_off: 30s
history_size: 5
driver: screen
spi:
  dev: /dev/spidev0.0
  speed_hz: 3200000
`
	cfg, err := Parse([]byte(yaml))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if cfg.Host != "127.0.0.1" {
		t.Errorf("Host = %q, want 127.0.0.1", cfg.Host)
	}
	if cfg.Port != 8080 {
		t.Errorf("Port = %v, want 8080", cfg.Port)
	}
	if cfg.Rotation != 180 {
		t.Errorf("Rotation = %v, want 180", cfg.Rotation)
	}
	if cfg.AutoOff.Duration() != 30*time.Second {
		t.Errorf("AutoOff = %v, want 30s", cfg.AutoOff.Duration())
	}
	if cfg.HistorySize != 5 {
		t.Errorf("HistorySize = %v, want 5", cfg.HistorySize)
	}
	if cfg.Driver != "screen" {
		t.Errorf("Driver = %q, want screen", cfg.Driver)
	}
	if cfg.SPI.Dev != "/dev/spidev0.0" {
		t.Errorf("SPI.Dev = %q, want /dev/spidev0.0", cfg.SPI.Dev)
	}
	if cfg.SPI.SpeedHz != 3200000 {
		t.Errorf("SPI.SpeedHz = %v, want 3200000", cfg.SPI.SpeedHz)
	}
}

func TestParse_BrightnessZeroIsExplicit(t *testing.T) {
	cfg, err := Parse([]byte(`brightness: 0.0`))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if *cfg.Brightness != 0 {
		t.Errorf("Brightness = %v, want explicit 0", *cfg.Brightness)
	}
}

func TestParse_ValidationErrors(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"port too large", "port: 99999", "port must be between"},
		{"negative port", "port: -1", "port must be between"},
		{"bad origin scheme", "allowed_origin: ftp://example.com", "scheme must be http or https"},
		{"origin without host", "allowed_origin: https://", "must include a host"},
		{"brightness too high", "brightness: 1.5", "brightness must be between 0 and 1"},
		{"brightness negative", "brightness: -0.1", "brightness must be between 0 and 1"},
		{"bad rotation", "rotation: 45", "rotation must be 0, 90, 180 or 270"},
		{"auto_off too short", "auto_off: 500ms", "auto_off must be at least"},
		{"history too large", "history_size: 500", "history_size must be between"},
		{"negative history", "history_size: -3", "history_size must be between"},
		{"unknown driver", "driver: hologram", "driver must be"},
		{"negative spi speed", "spi:\n  speed_hz: -5", "speed_hz must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			if err == nil {
				t.Fatal("Parse() expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Parse() error = %q, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte(`port: [not a port`))
	if err == nil {
		t.Fatal("Parse() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to parse YAML") {
		t.Errorf("Parse() error = %q, want YAML parse failure", err)
	}
}

func TestParse_InvalidDuration(t *testing.T) {
	_, err := Parse([]byte(`auto_off: soonish`))
	if err == nil {
		t.Fatal("Parse() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "invalid duration") {
		t.Errorf("Parse() error = %q, want invalid duration", err)
	}
}

func TestLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := "port: 9000\ndriver: sim\n"
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %v, want 9000", cfg.Port)
	}
	if cfg.Driver != "sim" {
		t.Errorf("Driver = %q, want sim", cfg.Driver)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load("/nonexistent/glimmer.yaml")
	if err == nil {
		t.Fatal("Load() expected error, got nil")
	}
	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("Load() error = %q, want read failure", err)
	}
}
