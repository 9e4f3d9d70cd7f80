// Package distance provides Hamming distance calculations for binary
// feature descriptors.
//
// Distances are bit counts. Hamming compares two fixed-width descriptors
// word by word using the POPCNT-backed math/bits routines.
//
// # Usage
//
//	d := distance.Hamming(&a, &b) // 0..256
package distance
