package display

import "github.com/jrowley/glimmer/internal/matrix"

// Supported driver names for [Open].
const (
	DriverAuto   = "auto"
	DriverSPI    = "spi"
	DriverScreen = "screen"
	DriverSim    = "sim"
)

// Drivers lists the valid driver names, for config validation.
var Drivers = []string{DriverAuto, DriverSPI, DriverScreen, DriverSim}

// Sink is the display capability the core requires.
//
// All methods must be safe to call when no physical device is attached
// and must not panic for valid inputs. The core never retries a failed
// call; a failure surfaces as an internal error on the triggering
// request and leaves history and scheduler state untouched.
type Sink interface {
	// SetPixel stages one pixel. Coordinates are validated by the
	// caller; (0, 0) is the top-left corner.
	SetPixel(x, y int, c matrix.Color)

	// Render pushes the staged frame to the device.
	Render() error

	// PowerOff turns all LEDs off and discards the staged frame.
	// Idempotent.
	PowerOff() error

	// SetBrightness stores the global brightness factor in [0, 1].
	// The factor is applied at render time.
	SetBrightness(b float64) error

	// Hardware reports whether a physical device is attached.
	Hardware() bool

	// Close releases the underlying device. The sink must not be used
	// after Close.
	Close() error
}
