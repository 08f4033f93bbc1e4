// Package matrix defines the fixed 8x8 color grid the API drives and
// the validation applied to client-supplied colors and grids.
//
// Validation is pure: the same input always produces the same result,
// so the rules are tested without the display or the network. A grid
// either validates completely or not at all; no partial grid is ever
// returned.
package matrix
