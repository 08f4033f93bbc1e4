package display

import (
	"log/slog"
	"math"
	"sync/atomic"

	"github.com/jrowley/glimmer/internal/matrix"
)

// Simulation is a no-op [Sink] that logs what a real display would do.
//
// It is the fallback when no SPI port is found and the explicit choice
// for headless development and tests. It never fails.
type Simulation struct {
	logger     *slog.Logger
	brightness atomic.Uint64 // float64 bits
}

// NewSimulation creates a simulation sink logging through logger.
func NewSimulation(logger *slog.Logger) *Simulation {
	s := &Simulation{logger: logger}
	s.brightness.Store(math.Float64bits(1))
	return s
}

// SetPixel logs the staged pixel at debug level.
func (s *Simulation) SetPixel(x, y int, c matrix.Color) {
	s.logger.Debug("simulation: set pixel",
		"x", x, "y", y, "r", c.R, "g", c.G, "b", c.B)
}

// Render logs the frame push at debug level.
func (s *Simulation) Render() error {
	s.logger.Debug("simulation: display updated")
	return nil
}

// PowerOff logs the display clear.
func (s *Simulation) PowerOff() error {
	s.logger.Info("simulation: display cleared")
	return nil
}

// SetBrightness stores the factor so log output reflects it.
func (s *Simulation) SetBrightness(b float64) error {
	s.brightness.Store(math.Float64bits(b))
	s.logger.Debug("simulation: brightness set", "brightness", b)
	return nil
}

// Hardware reports false: no physical device is attached.
func (s *Simulation) Hardware() bool { return false }

// Close is a no-op.
func (s *Simulation) Close() error { return nil }
