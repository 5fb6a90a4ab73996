// Package fs abstracts the file operations of blobstore.LocalStore.
//
// Production code uses fs.Default (LocalFS). Tests wrap it in a FaultyFS
// to make writes, syncs or renames of selected files fail:
//
//	ffs := fs.NewFaultyFS(nil)
//	ffs.AddRule(".csv", fs.Fault{FailAfterBytes: 16})
//	store := blobstore.NewLocalStore(dir, blobstore.WithFileSystem(ffs))
package fs
