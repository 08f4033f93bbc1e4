// Package autooff arms a single deferred power-off that turns the
// display off after an idle period.
//
// At most one power-off is ever pending. Every accepted write rearms
// the timer for a fresh full window; an explicit clear cancels it.
// All transitions are guarded by one mutex so concurrent writes cannot
// race two timers into existence.
package autooff
