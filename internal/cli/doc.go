// Package cli wires the cobra command tree for the gyst binary.
//
// Commands set the package-level exitCode instead of returning errors for
// runtime failures, so cobra's usage output stays reserved for actual
// usage mistakes.
package cli
