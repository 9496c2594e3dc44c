// Package export converts tables to and from interchange formats.
//
// JSON documents carry the full table: schema, metadata, attributes and
// every cell, so ReadJSON(WriteJSON(t)) reproduces t. CSV carries one row
// per record with cells rendered by the table's formatter. YAML schemas
// describe the columns without any cells.
//
//	if err := export.WriteJSON(w, tbl, export.WithIndent("", "  ")); err != nil { ... }
//	tbl, err := export.ReadCSV(r, export.WithColumnType("qty", value.TypeInt))
package export
