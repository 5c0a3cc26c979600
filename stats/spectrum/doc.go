// Package spectrum computes statistics of an integrated power spectrum
// against its channel frequency axis.
//
// Power values are linear (not dB). The frequency axis may be ascending or
// descending, matching the sign of the filterbank channel spacing.
package spectrum
