// Package fs provides filesystem abstractions for testability and fault injection.
//
// The package defines two key interfaces:
//
//   - [File]: an open file with write and sync capabilities
//   - [FileSystem]: filesystem operations (open, remove, rename, list)
//
// # Implementations
//
//   - [LocalFS]: production implementation using the os package
//   - [FaultyFS]: test utility that injects write, sync and close failures
//
// The local blob store writes cache blobs through a FileSystem. Tests inject
// a FaultyFS to check that failed writes never leave a visible blob:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".ifcb", fs.Fault{FailAfterBytes: 1024})
//	store := blobstore.NewLocalStore(dir, func(o *blobstore.LocalOptions) { o.FS = ffs })
//
// Operations take no context.Context: local filesystem calls are not
// interruptible at the syscall level.
package fs
