package display

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"log/slog"
	"math"
	"sync"
	"sync/atomic"

	pdisplay "periph.io/x/conn/v3/display"

	"github.com/jrowley/glimmer/internal/matrix"
)

// drawerSink renders the 8x8 frame through a periph.io display.Drawer:
// either the WS2812 strip behind an SPI port or the ANSI terminal
// preview. Both expose the panel as a 64x1 strip, so each render
// flattens the frame through the configured rotation and the
// serpentine row wiring before drawing.
type drawerSink struct {
	drawer   pdisplay.Drawer
	closer   io.Closer // underlying port, nil for the terminal preview
	hardware bool
	rotation int
	logger   *slog.Logger

	mu    sync.Mutex
	frame matrix.Grid

	brightness atomic.Uint64 // float64 bits
}

func newDrawerSink(d pdisplay.Drawer, closer io.Closer, hardware bool, rotation int, logger *slog.Logger) *drawerSink {
	s := &drawerSink{
		drawer:   d,
		closer:   closer,
		hardware: hardware,
		rotation: rotation,
		logger:   logger,
	}
	s.brightness.Store(math.Float64bits(1))
	return s
}

// SetPixel stages one pixel in the framebuffer.
func (d *drawerSink) SetPixel(x, y int, c matrix.Color) {
	d.mu.Lock()
	d.frame[y][x] = c
	d.mu.Unlock()
}

// Render flattens the staged frame to the strip and draws it.
func (d *drawerSink) Render() error {
	d.mu.Lock()
	frame := d.frame
	d.mu.Unlock()

	scale := math.Float64frombits(d.brightness.Load())

	img := image.NewNRGBA(image.Rect(0, 0, matrix.Width*matrix.Height, 1))
	for y := 0; y < matrix.Height; y++ {
		for x := 0; x < matrix.Width; x++ {
			c := frame[y][x]
			px, py := rotate(x, y, d.rotation)
			img.SetNRGBA(stripIndex(px, py), 0, color.NRGBA{
				R: scaleComponent(c.R, scale),
				G: scaleComponent(c.G, scale),
				B: scaleComponent(c.B, scale),
				A: 0xFF,
			})
		}
	}

	if err := d.drawer.Draw(d.drawer.Bounds(), img, image.Point{}); err != nil {
		return fmt.Errorf("draw frame: %w", err)
	}
	return nil
}

// PowerOff discards the staged frame and halts the drawer, turning all
// LEDs off. Halting an already-halted drawer is a no-op, so PowerOff
// is idempotent.
func (d *drawerSink) PowerOff() error {
	d.mu.Lock()
	d.frame = matrix.Grid{}
	d.mu.Unlock()

	if err := d.drawer.Halt(); err != nil {
		return fmt.Errorf("halt display: %w", err)
	}
	return nil
}

// SetBrightness stores the render-time scale factor.
func (d *drawerSink) SetBrightness(b float64) error {
	d.brightness.Store(math.Float64bits(b))
	return nil
}

// Hardware reports whether a physical device backs the drawer.
func (d *drawerSink) Hardware() bool { return d.hardware }

// Close halts the drawer and releases the underlying port.
func (d *drawerSink) Close() error {
	if err := d.drawer.Halt(); err != nil {
		d.logger.Warn("halt on close failed", "error", err)
	}
	if d.closer != nil {
		return d.closer.Close()
	}
	return nil
}

// scaleComponent applies the brightness factor to one channel.
func scaleComponent(v uint8, scale float64) uint8 {
	return uint8(math.Round(float64(v) * scale))
}

// stripIndex maps panel coordinates to a position on the LED strip.
// Rows are wired as a single serpentine run: even rows left to right,
// odd rows right to left.
func stripIndex(x, y int) int {
	if y%2 == 1 {
		x = matrix.Width - 1 - x
	}
	return y*matrix.Width + x
}

// rotate maps panel coordinates through the mount rotation. The panel
// is square, so every quarter turn keeps coordinates in range.
func rotate(x, y, rotation int) (int, int) {
	switch rotation {
	case 90:
		return matrix.Height - 1 - y, x
	case 180:
		return matrix.Width - 1 - x, matrix.Height - 1 - y
	case 270:
		return y, matrix.Width - 1 - x
	default:
		return x, y
	}
}
