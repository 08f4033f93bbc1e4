package glimmer

import (
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/jrowley/glimmer/internal/display"
)

// gcfg holds mutable state during Glimmer construction.
type gcfg struct {
	host        string
	port        int
	origin      string
	brightness  float64
	rotation    int
	autoOff     time.Duration
	historySize int
	driver      string
	spiDev      string
	spiSpeedHz  int
	logger      *slog.Logger
}

// Option is a function that configures a [Glimmer] instance during
// construction.
//
// Option implements the functional options pattern. Options return an
// error if validation fails.
type Option func(*gcfg) error

// WithHost sets the bind host for the HTTP server.
//
// Defaults to 0.0.0.0 (all interfaces) so the panel is reachable from
// other devices on the network.
func WithHost(host string) Option {
	return func(cfg *gcfg) error {
		if host == "" {
			return errors.New("host cannot be empty")
		}
		cfg.host = host
		return nil
	}
}

// WithPort sets the HTTP port for the API server.
//
// Defaults to 5000 if not specified.
//
// Returns an error if the port is outside the valid range (1-65535).
func WithPort(port int) Option {
	return func(cfg *gcfg) error {
		if port < 1 || port > 65535 {
			return errors.New("port must be between 1 and 65535")
		}
		cfg.port = port
		return nil
	}
}

// WithAllowedOrigin sets the single origin allowed cross-origin access
// to the API. Requests from any other origin receive no CORS headers.
//
// Returns an error if the origin is not an absolute http(s) URL.
func WithAllowedOrigin(origin string) Option {
	return func(cfg *gcfg) error {
		u, err := url.Parse(origin)
		if err != nil {
			return fmt.Errorf("invalid allowed origin: %w", err)
		}
		if u.Scheme != "http" && u.Scheme != "https" {
			return errors.New("allowed origin scheme must be http or https")
		}
		if u.Host == "" {
			return errors.New("allowed origin must include a host")
		}
		cfg.origin = origin
		return nil
	}
}

// WithBrightness sets the brightness applied to the display at
// startup. Defaults to 0.5.
//
// Returns an error if the value is outside [0, 1].
func WithBrightness(b float64) Option {
	return func(cfg *gcfg) error {
		if b < 0 || b > 1 {
			return errors.New("brightness must be between 0 and 1")
		}
		cfg.brightness = b
		return nil
	}
}

// WithRotation sets the panel mount rotation in degrees.
//
// Returns an error unless the rotation is 0, 90, 180 or 270.
func WithRotation(degrees int) Option {
	return func(cfg *gcfg) error {
		switch degrees {
		case 0, 90, 180, 270:
			cfg.rotation = degrees
			return nil
		default:
			return fmt.Errorf("rotation must be 0, 90, 180 or 270, got %d", degrees)
		}
	}
}

// WithAutoOff sets the idle window after which the display powers off
// if no new write arrives. Defaults to 10 seconds.
//
// Returns an error if the duration is zero or negative.
func WithAutoOff(d time.Duration) Option {
	return func(cfg *gcfg) error {
		if d <= 0 {
			return errors.New("auto-off window must be positive")
		}
		cfg.autoOff = d
		return nil
	}
}

// WithHistorySize sets how many accepted full-grid writes are kept in
// memory. Defaults to 10.
//
// Returns an error if the value is zero or negative.
func WithHistorySize(n int) Option {
	return func(cfg *gcfg) error {
		if n <= 0 {
			return errors.New("history size must be positive")
		}
		cfg.historySize = n
		return nil
	}
}

// WithDriver selects the display driver: "auto", "spi", "screen" or
// "sim". Defaults to "auto", which tries the SPI panel and falls back
// to the simulation sink.
func WithDriver(driver string) Option {
	return func(cfg *gcfg) error {
		for _, d := range display.Drivers {
			if driver == d {
				cfg.driver = driver
				return nil
			}
		}
		return fmt.Errorf("unknown display driver %q", driver)
	}
}

// WithSPI tunes the SPI port used by the hardware driver. An empty dev
// selects the first available port.
//
// Returns an error if the clock speed is zero or negative.
func WithSPI(dev string, speedHz int) Option {
	return func(cfg *gcfg) error {
		if speedHz <= 0 {
			return errors.New("SPI speed must be positive")
		}
		cfg.spiDev = dev
		cfg.spiSpeedHz = speedHz
		return nil
	}
}

// WithLogger sets a custom [slog.Logger] for the Glimmer instance.
//
// If not specified, [slog.Default] is used.
//
// Returns an error if the logger is nil.
func WithLogger(logger *slog.Logger) Option {
	return func(cfg *gcfg) error {
		if logger == nil {
			return errors.New("logger cannot be nil")
		}
		cfg.logger = logger
		return nil
	}
}
