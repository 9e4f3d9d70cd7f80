// Package catalog holds the per-category reference sets the matcher
// compares queries against.
//
// # Lifecycle
//
// A Cache is created with the fixed set of known categories, all
// Unloaded. The first EnsureLoaded call for a category loads it through a
// Loader; later calls return the same immutable ReferenceSet. There is no
// refresh or eviction path.
//
//	Unloaded -> Loading -> Loaded
//	                   \-> LoadFailed   (artifact missing or malformed)
//	                   \-> Unloaded     (transient error, retried on next use)
//
// # Concurrency
//
// Concurrent first-use calls for the same category share a single load, so
// the artifact is read exactly once. Loads for different categories run
// independently. A load runs detached from the caller that started it:
// a waiter whose context is canceled stops waiting, but the load continues
// for everyone else, and a partially built set is never published.
package catalog
