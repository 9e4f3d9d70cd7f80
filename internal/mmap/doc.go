// Package mmap provides read-only memory-mapped file access.
//
// Catalog artifacts on local disk are mapped rather than read so that a cold
// category load does not double-buffer large artifacts through the kernel
// page cache and the Go heap before decoding.
//
// # Usage
//
//	m, err := mmap.Open("weapon/main.json")
//	if err != nil { ... }
//	defer m.Close()
//
//	data := m.Bytes()
//
// # Platform Support
//
//   - Unix (Linux, macOS, BSD): mmap(2) with madvise(2) for access hints
//   - Windows: CreateFileMapping/MapViewOfFile (advice is a no-op)
//
// # Thread Safety
//
// A Mapping is safe for concurrent reads. Close is idempotent, but callers
// must not touch Bytes() after Close returns.
package mmap
