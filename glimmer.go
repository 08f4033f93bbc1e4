package glimmer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jrowley/glimmer/internal/autooff"
	"github.com/jrowley/glimmer/internal/display"
	"github.com/jrowley/glimmer/internal/history"
	"github.com/jrowley/glimmer/internal/server"
)

const (
	defaultHost        = "0.0.0.0"
	defaultPort        = 5000
	defaultOrigin      = "https://lights-ui.vercel.app"
	defaultBrightness  = 0.5
	defaultAutoOff     = 10 * time.Second
	defaultHistorySize = 10
	defaultSPISpeedHz  = 2500000
)

// Glimmer is the main orchestrator for the LED matrix API.
//
// Glimmer wires the display sink, the history ring, the auto-off
// scheduler and the HTTP server together. It is created with [New]
// using functional options and started with [Glimmer.Start].
//
// The typical lifecycle is:
//
//	g, err := glimmer.New(glimmer.WithPort(5000))
//	if err != nil {
//	    slog.Error("failed to create glimmer", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer cancel()
//
//	g.Start(ctx) // blocks until context cancelled
type Glimmer struct {
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

// New creates a new [Glimmer] instance with the given options.
//
// All options have sensible defaults:
//   - Bind address: 0.0.0.0:5000
//   - Auto-off window: 10 seconds
//   - History capacity: 10 entries
//   - Brightness: 0.5
//   - Driver: auto (SPI panel, falling back to simulation)
//
// Returns an error if any option is invalid.
func New(opts ...Option) (*Glimmer, error) {
	cfg := &gcfg{
		host:        defaultHost,
		port:        defaultPort,
		origin:      defaultOrigin,
		brightness:  defaultBrightness,
		autoOff:     defaultAutoOff,
		historySize: defaultHistorySize,
		driver:      display.DriverAuto,
		spiSpeedHz:  defaultSPISpeedHz,
	}

	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Glimmer{
		host:        cfg.host,
		port:        cfg.port,
		origin:      cfg.origin,
		brightness:  cfg.brightness,
		rotation:    cfg.rotation,
		autoOff:     cfg.autoOff,
		historySize: cfg.historySize,
		driver:      cfg.driver,
		spiDev:      cfg.spiDev,
		spiSpeedHz:  cfg.spiSpeedHz,
		logger:      logger,
	}, nil
}

// Start opens the display sink and serves the HTTP API.
//
// Start is a blocking call that runs until the provided context is
// cancelled. On shutdown it cancels any pending auto-off timer and
// closes the sink. Returns an error if the display or the HTTP server
// fails to start.
func (g *Glimmer) Start(ctx context.Context) error {
	g.logger.Info("glimmer starting",
		"addr", fmt.Sprintf("%s:%d", g.host, g.port),
		"driver", g.driver,
	)

	if ctx.Err() != nil {
		return nil
	}

	sink, err := display.Open(display.Config{
		Driver:   g.driver,
		SPIDev:   g.spiDev,
		SpeedHz:  g.spiSpeedHz,
		Rotation: g.rotation,
		Logger:   g.logger,
	})
	if err != nil {
		return fmt.Errorf("failed to open display: %w", err)
	}

	if err := sink.SetBrightness(g.brightness); err != nil {
		_ = sink.Close()
		return fmt.Errorf("failed to set initial brightness: %w", err)
	}

	ring := history.NewRing(g.historySize)
	scheduler := autooff.New(g.autoOff, func() {
		if err := sink.PowerOff(); err != nil {
			g.logger.Error("auto-off power off failed", "error", err)
		}
	}, g.logger)

	httpServer := server.New(server.Config{
		Sink:          sink,
		History:       ring,
		AutoOff:       scheduler,
		Host:          g.host,
		Port:          g.port,
		AllowedOrigin: g.origin,
		Logger:        g.logger,
	})
	if err := httpServer.Start(ctx); err != nil {
		_ = sink.Close()
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	g.logger.Info("glimmer ready",
		"hardware_available", sink.Hardware(),
		"allowed_origin", g.origin,
		"auto_off", g.autoOff.String(),
	)

	<-ctx.Done()

	scheduler.Cancel()
	if err := sink.Close(); err != nil {
		g.logger.Error("failed to close display", "error", err)
	}
	g.logger.Info("glimmer stopped")
	return nil
}

// Port returns the configured HTTP port.
func (g *Glimmer) Port() int {
	return g.port
}

// AutoOffWindow returns the configured idle window after which the
// display powers off.
func (g *Glimmer) AutoOffWindow() time.Duration {
	return g.autoOff
}

// HistorySize returns the configured history capacity.
func (g *Glimmer) HistorySize() int {
	return g.historySize
}
