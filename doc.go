// Package glimmer provides an HTTP API for driving an 8x8 WS2812 LED
// matrix: set the whole grid, set a single pixel, adjust brightness,
// clear the display, and review a short history of recent grids.
//
// Glimmer is designed as an SDK-first library with a thin CLI on top.
// The display is written through an abstract sink selected once at
// startup: the real panel over SPI, an ANSI terminal preview, or a
// log-only simulation when no hardware is attached.
//
// # Quick Start
//
// Create an instance and start it with graceful shutdown:
//
//	g, err := glimmer.New(glimmer.WithPort(5000))
//	if err != nil {
//	    slog.Error("failed to create glimmer", "error", err)
//	    os.Exit(1)
//	}
//
//	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
//	defer stop()
//
//	g.Start(ctx) // blocks until context cancelled
//
// # Configuration
//
// Glimmer uses the functional options pattern:
//
//	g, err := glimmer.New(
//	    glimmer.WithPort(5000),
//	    glimmer.WithDriver("sim"),
//	    glimmer.WithBrightness(0.5),
//	    glimmer.WithAutoOff(10 * time.Second),
//	)
//
// # Behavior
//
// Every accepted pixel or grid write rearms a single auto-off timer;
// if no further write arrives within the idle window, the display is
// powered off. An explicit clear cancels the timer and powers off
// immediately. Full-grid writes (and only those) are recorded in a
// bounded in-memory history, newest first.
//
// # Architecture
//
// Glimmer consists of several internal packages (under internal/):
//
//   - internal/matrix: grid types and request validation
//   - internal/history: bounded newest-first ring of accepted grids
//   - internal/autooff: single-slot cancellable power-off timer
//   - internal/display: sink abstraction over the physical panel
//   - internal/server: HTTP surface with CORS and panic recovery
//
// The internal packages are not part of the public API and may change
// without notice.
package glimmer
