// Package fs abstracts the file operations used to publish artifacts into
// a local directory, so tests can inject write failures.
//
//   - [LocalFS]: production implementation backed by the os package
//   - [FaultyFS]: wrapper that fails writes, syncs, closes or renames
//
// Production code uses fs.Default:
//
//	f, err := fs.Default.CreateTemp(dir, ".tmp-*")
//
// Tests wrap it:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule("main.json", fs.Fault{FailOnSync: true})
package fs
