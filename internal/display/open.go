package display

import (
	"fmt"
	"log/slog"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/devices/v3/nrzled"
	"periph.io/x/extra/devices/screen"
	"periph.io/x/host/v3"

	"github.com/jrowley/glimmer/internal/matrix"
)

// Config selects and tunes the sink implementation.
type Config struct {
	// Driver is one of [Drivers]. Empty means DriverAuto.
	Driver string

	// SPIDev is the spireg port name. Empty selects the first
	// available port.
	SPIDev string

	// SpeedHz is the SPI clock for the WS2812 bit encoding.
	SpeedHz int

	// Rotation is the panel mount rotation: 0, 90, 180 or 270.
	Rotation int

	Logger *slog.Logger
}

// Open builds the configured [Sink].
//
// Driver selection happens exactly once, here; the returned sink is
// used unconditionally for the process lifetime. DriverAuto tries the
// SPI panel and degrades to the simulation sink when no port is found.
func Open(cfg Config) (Sink, error) {
	switch cfg.Driver {
	case "", DriverAuto:
		s, err := openSPI(cfg)
		if err != nil {
			cfg.Logger.Warn("no SPI display found, running in simulation mode", "error", err)
			return NewSimulation(cfg.Logger), nil
		}
		return s, nil
	case DriverSPI:
		return openSPI(cfg)
	case DriverScreen:
		return newDrawerSink(screen.New(matrix.Width*matrix.Height), nil, false, cfg.Rotation, cfg.Logger), nil
	case DriverSim:
		return NewSimulation(cfg.Logger), nil
	default:
		return nil, fmt.Errorf("unknown display driver %q", cfg.Driver)
	}
}

// openSPI initializes the host, opens the SPI port and wraps the
// WS2812 strip device.
func openSPI(cfg Config) (Sink, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init host: %w", err)
	}

	port, err := spireg.Open(cfg.SPIDev)
	if err != nil {
		return nil, fmt.Errorf("open SPI port: %w", err)
	}

	dev, err := nrzled.NewSPI(port, &nrzled.Opts{
		NumPixels: matrix.Width * matrix.Height,
		Channels:  3,
		Freq:      physic.Frequency(cfg.SpeedHz) * physic.Hertz,
	})
	if err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("init LED strip: %w", err)
	}

	cfg.Logger.Info("SPI display initialized",
		"port", port.String(),
		"pixels", matrix.Width*matrix.Height,
	)
	return newDrawerSink(dev, port, true, cfg.Rotation, cfg.Logger), nil
}
