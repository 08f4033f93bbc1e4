// Package server exposes the HTTP surface for driving the LED panel.
//
// The handlers are a thin shell: they decode and validate request
// bodies, call into the display sink, the history ring and the
// auto-off scheduler, and translate the results to JSON responses.
// Cross-origin access is pinned to a single configured frontend
// origin.
package server
