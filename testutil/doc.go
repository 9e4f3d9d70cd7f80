// Package testutil provides testing utilities for orbmatch.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded RNG for reproducible descriptors, helpers that build
// reference templates with a known confidence against a query, and a
// brute-force confidence oracle.
//
// # Random Descriptors
//
//	rng := testutil.NewRNG(seed)
//	query := rng.Collection(20)
//
// # Templates With Known Confidence
//
//	tmpl := rng.Template(query, 12)            // exactly 12 good matches
//	conf := testutil.Confidence(query, tmpl, 0.75)
package testutil
