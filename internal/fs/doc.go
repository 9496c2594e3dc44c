// Package fs abstracts the filesystem calls made by the local blob store so
// tests can inject failures.
//
//   - [LocalFS] forwards to the os package and is the default.
//   - [FaultyFS] wraps another FileSystem and fails writes, syncs or renames
//     of files whose name matches a rule.
//
// Usage:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".tmp-", fs.Fault{FailOnSync: true})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
//
// Operations take no context.Context: they are short syscalls that cannot be
// interrupted.
package fs
