// Package display abstracts the physical LED panel behind the Sink
// capability the rest of the service writes to.
//
// Three implementations exist: the real WS2812 panel driven over SPI,
// an ANSI terminal preview, and a log-only simulation. The driver is
// selected once at startup; nothing branches on hardware availability
// per request.
package display
