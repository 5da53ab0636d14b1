// Package textutil provides small string helpers for filesystem-safe names
// and compact terminal display.
package textutil
