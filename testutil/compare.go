package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dci/table"
)

// AssertTablesEqual checks that got has the schema, metadata and cells of
// want.
func AssertTablesEqual(t testing.TB, want, got *table.Table) {
	t.Helper()
	require.NotNil(t, got)
	assert.Equal(t, want.Name(), got.Name())
	assert.Equal(t, want.Description(), got.Description())
	assert.Equal(t, want.IsRecordBased(), got.IsRecordBased())
	assert.Equal(t, want.RecordCount(), got.RecordCount())
	assert.Equal(t, attributes(&want.Object), attributes(&got.Object))
	require.Equal(t, want.ColumnCount(), got.ColumnCount())

	for i, wfd := range want.FieldDefs().All() {
		gfd := got.FieldDefs().At(i)
		assert.Equal(t, wfd.Name(), gfd.Name())
		assert.Equal(t, wfd.Description(), gfd.Description())
		assert.Equal(t, wfd.DataType(), gfd.DataType(), "type of %q", wfd.Name())
		assert.True(t, wfd.DefaultValue().Equal(gfd.DefaultValue()), "default of %q", wfd.Name())
		assert.True(t, wfd.MinValue().Equal(gfd.MinValue()), "min of %q", wfd.Name())
		assert.True(t, wfd.MaxValue().Equal(gfd.MaxValue()), "max of %q", wfd.Name())
		wa, ga := wfd.AllowedValues(), gfd.AllowedValues()
		assert.True(t, wa.Equal(&ga), "allowed values of %q", wfd.Name())
		assert.Equal(t, attributes(&wfd.Object), attributes(&gfd.Object))

		wv, gv := want.Variables().At(i).Values(), got.Variables().At(i).Values()
		assert.True(t, wv.Equal(&gv), "cells of %q", wfd.Name())
	}

	if got.IsRecordBased() {
		AssertRecordInvariant(t, got)
	}
}

// AssertRecordInvariant checks that every column of a record-based table has
// one entry per record and that records are numbered 1..n.
func AssertRecordInvariant(t testing.TB, tbl *table.Table) {
	t.Helper()
	require.True(t, tbl.IsRecordBased())
	assert.Equal(t, tbl.RecordCount(), tbl.Records().Count())
	for _, v := range tbl.Variables().All() {
		assert.Equal(t, tbl.RecordCount(), v.Len(), "column %q", v.Name())
	}
	for i, r := range tbl.Records().All() {
		assert.Equal(t, i, r.Index())
	}
}

func attributes(o *table.Object) map[string]string {
	m := make(map[string]string)
	for _, a := range o.Attributes().All() {
		m[a.Name()] = a.Value()
	}
	return m
}
