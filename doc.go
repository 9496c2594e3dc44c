// Package dci is an embeddable engine for variant-typed tabular data.
//
// A Table holds named, typed columns (Variables) described by field
// definitions (FieldDefs). In record-based mode every column has one entry
// per record and rows are addressed through Record views. Values are scalar
// variants; vectors and text are shared copy-on-write.
//
// # Quick Start
//
//	tbl := dci.NewTable(table.WithName("orders"), table.WithRecordBased(true))
//	col, _ := tbl.AddColumn("qty", 0)
//	tbl.FieldDefs().At(col).SetDataType(dci.TypeInt)
//	tbl.ReDim(3, 1)
//	tbl.SetValue(1, col, dci.Int(7))
//
// # Persistence
//
// Tables encode to a versioned binary stream (package binfmt) with optional
// LZ4 or ZSTD compression and a CRC32C trailer:
//
//	err := dci.SaveTableFile("orders.dci", tbl)
//	tbl, err := dci.LoadTableFile("orders.dci")
//
// Package store keeps many named tables in a blobstore.BlobStore (memory,
// local directory or bbolt file) with a msgpack catalog, bounded concurrency
// and metrics. Package export converts tables to JSON, CSV and YAML schemas.
//
// # Errors
//
// Operations return errors classified by diag.Kind; the same failures are
// pushed to the table's diag.Reporter. Use errors.Is with the sentinel
// errors of each package and diag.KindOf to classify.
//
// # Concurrency
//
// Tables, vectors and collections are not safe for concurrent use. A Store
// is safe for concurrent use.
package dci
