// Package store keeps named tables in a blobstore.BlobStore.
//
// Each table is written as one binfmt stream named name+suffix (".dci" by
// default) plus a small msgpack catalog entry (name+suffix+".meta") that
// describes the table without decoding it.
//
//	s := store.New(blobstore.NewLocalStore("data"),
//	    store.WithCompression(binfmt.CompressionZSTD),
//	    store.WithController(resource.NewController(resource.Config{MaxWorkers: 4})),
//	)
//	if err := s.Save(ctx, "orders", tbl); err != nil { ... }
//	tbl, err := s.Load(ctx, "orders")
//
// A Store is safe for concurrent use. Tables are not: a table must not be
// modified while it is being saved.
package store
