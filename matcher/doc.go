// Package matcher ranks the templates of a category against a query
// descriptor collection.
//
// For every template, each query descriptor is compared against all of the
// template's descriptors by Hamming distance (brute force, k=2). The query
// descriptor counts as a good match when its nearest distance is below
// Ratio times its second-nearest distance. A template's confidence is the
// number of good matches; templates below Threshold are dropped, the rest
// are sorted by confidence (stable over enumeration order) and truncated
// to TopN.
//
// With EarlyExit the enumeration stops at the first template reaching the
// threshold. This is a fast path, and the result need not contain the
// globally best template.
package matcher
