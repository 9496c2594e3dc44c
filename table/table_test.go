package table

import (
	"math"
	"testing"

	"github.com/hupe1980/dci/collection"
	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTable(t *testing.T, opts ...Option) (*Table, *diag.Latch) {
	t.Helper()
	latch := diag.NewLatch()
	return New(append([]Option{WithReporter(latch)}, opts...)...), latch
}

func setType(t *testing.T, tbl *Table, col int, dt value.DataType) {
	t.Helper()
	fd := tbl.FieldDef(col)
	defer fd.Release()
	require.True(t, fd.IsBound())
	require.NoError(t, fd.Get().SetDataType(dt))
}

func assertRecordInvariant(t *testing.T, tbl *Table) {
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

func TestReDimRecordBasedScenario(t *testing.T) {
	tbl, latch := newTestTable(t)

	require.NoError(t, tbl.ReDim(0, 2))
	assert.Equal(t, 2, tbl.ColumnCount())
	assert.Equal(t, value.TypeVoid, tbl.Variables().At(1).DataType())
	assert.Equal(t, 0, tbl.Variables().At(2).Len())

	setType(t, tbl, 1, value.TypeInt)
	for i, x := range []int64{1, 2, 3} {
		require.NoError(t, tbl.SetValue(i+1, 1, value.Int(x)))
	}
	assert.Equal(t, 3, tbl.Variables().At(1).Len())

	err := tbl.SetRecordBased(true)
	require.ErrorIs(t, err, ErrLengthMismatch)
	assert.False(t, tbl.IsRecordBased())
	assert.Equal(t, diag.KindBadArg, latch.Kind())
	assert.Equal(t, "Table", latch.Source())

	col2 := tbl.Column(2)
	require.NoError(t, col2.Get().ReDim(3))
	col2.Release()

	require.NoError(t, tbl.SetRecordBased(true))
	assert.Equal(t, 3, tbl.RecordCount())
	assertRecordInvariant(t, tbl)
	assert.Equal(t, int64(2), tbl.Value(2, 1).AsInt())
}

func TestReDimRows(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(2, 2))
	assertRecordInvariant(t, tbl)

	setType(t, tbl, 1, value.TypeDouble)
	fd := tbl.FieldDef(1)
	require.NoError(t, fd.Get().SetDefaultValue(value.Double(-1)))
	fd.Release()

	// Existing rows were reset by the type change; new rows get the default.
	require.NoError(t, tbl.ReDim(4, 3))
	assertRecordInvariant(t, tbl)
	assert.Equal(t, 0.0, tbl.Value(2, 1).AsDouble())
	assert.Equal(t, value.TypeDouble, tbl.Value(2, 1).Type())
	assert.Equal(t, -1.0, tbl.Value(3, 1).AsDouble())
	assert.Equal(t, -1.0, tbl.Value(4, 1).AsDouble())
	assert.True(t, tbl.Value(4, 3).IsVoid())

	require.NoError(t, tbl.ReDim(1, 1))
	assertRecordInvariant(t, tbl)
	assert.Equal(t, 1, tbl.ColumnCount())

	require.NoError(t, tbl.ReDim(0, 0))
	assert.Equal(t, 0, tbl.RecordCount())
	assert.Equal(t, 0, tbl.ColumnCount())

	require.ErrorIs(t, tbl.ReDim(-1, 0), ErrIndexOutOfRange)
}

func TestReDimIgnoresRowsWhenNotRecordBased(t *testing.T) {
	tbl, _ := newTestTable(t)
	require.NoError(t, tbl.ReDim(10, 1))
	assert.Equal(t, 0, tbl.RecordCount())
	assert.Equal(t, 0, tbl.Records().Count())
	assert.Equal(t, 0, tbl.Variables().At(1).Len())
}

func TestReDimColumnShrinkReferenced(t *testing.T) {
	tbl, latch := newTestTable(t)
	require.NoError(t, tbl.ReDim(0, 3))

	h := tbl.Column(3)
	err := tbl.ReDim(0, 1)
	require.ErrorIs(t, err, ErrReferenced)
	assert.Equal(t, 3, tbl.ColumnCount())
	assert.Equal(t, diag.KindError, latch.Kind())

	// A handle to a surviving column does not block.
	h1 := tbl.FieldDef(1)
	h.Release()
	require.NoError(t, tbl.ReDim(0, 1))
	assert.Equal(t, 1, tbl.ColumnCount())
	h1.Release()
}

func TestSetRecordBasedOff(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(3, 1))
	rec := tbl.Record(2)
	defer rec.Release()

	require.NoError(t, tbl.SetRecordBased(false))
	assert.Equal(t, 0, tbl.RecordCount())
	assert.Equal(t, 0, tbl.Records().Count())
	assert.Equal(t, 3, tbl.Variables().At(1).Len())
	assert.True(t, rec.Get().IsStale())
	assert.False(t, tbl.Record(1).IsBound())

	// Column length is free again.
	col := tbl.Column(1)
	require.NoError(t, col.Get().ReDim(5))
	col.Release()
	require.NoError(t, tbl.SetRecordBased(true))
	assert.Equal(t, 5, tbl.RecordCount())
}

func TestColumns(t *testing.T) {
	tbl, latch := newTestTable(t)

	idx, err := tbl.AddColumn("time", 0)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)
	idx, err = tbl.AddColumn("conc", 0)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	idx, err = tbl.AddColumn("id", 1)
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	assert.Equal(t, 2, tbl.ColumnIndex("time"))
	assert.Equal(t, "conc", tbl.FieldDefs().KeyOf(3))
	assert.Equal(t, "conc", tbl.Variables().At(3).Name())

	_, err = tbl.AddColumn("time", 0)
	require.ErrorIs(t, err, collection.ErrDuplicateKey)
	assert.Equal(t, diag.KindBadArg, latch.Kind())
	assert.Equal(t, 3, tbl.ColumnCount())

	// Field definitions and variables stay aligned.
	for i, fd := range tbl.FieldDefs().All() {
		assert.Same(t, fd.Variable(), tbl.Variables().At(i))
		assert.Same(t, fd, tbl.Variables().At(i).FieldDef())
		assert.Same(t, tbl, fd.Table())
	}

	h := tbl.ColumnByKey("id")
	require.ErrorIs(t, tbl.RemoveColumnByKey("id"), ErrReferenced)
	v := h.Get()
	h.Release()
	require.NoError(t, tbl.RemoveColumnByKey("id"))
	assert.Nil(t, v.Table())
	assert.Equal(t, 1, tbl.ColumnIndex("time"))
	require.ErrorIs(t, tbl.RemoveColumn(5), ErrIndexOutOfRange)
	require.ErrorIs(t, tbl.RemoveColumnByKey("id"), collection.ErrKeyNotFound)
}

func TestAddColumnRecordBased(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(4, 0))
	_, err := tbl.AddColumn("x", 0)
	require.NoError(t, err)
	assertRecordInvariant(t, tbl)
}

func TestRenameColumn(t *testing.T) {
	tbl, _ := newTestTable(t)
	_, _ = tbl.AddColumn("a", 0)
	_, _ = tbl.AddColumn("b", 0)

	fd := tbl.FieldDefByKey("a")
	defer fd.Release()
	require.NoError(t, fd.Get().SetName("alpha"))
	assert.Equal(t, 1, tbl.ColumnIndex("alpha"))
	assert.Equal(t, 0, tbl.ColumnIndex("a"))
	assert.Equal(t, "alpha", tbl.Variables().At(1).Name())

	require.ErrorIs(t, fd.Get().SetName("b"), collection.ErrDuplicateKey)
	assert.Equal(t, "alpha", fd.Get().Name())
	assert.Equal(t, 1, tbl.ColumnIndex("alpha"))
}

func TestRecords(t *testing.T) {
	tbl, latch := newTestTable(t, WithRecordBased(true))
	_, _ = tbl.AddColumn("n", 0)
	setType(t, tbl, 1, value.TypeInt)
	fd := tbl.FieldDef(1)
	require.NoError(t, fd.Get().SetDefaultValue(value.Int(-1)))
	fd.Release()

	for range 3 {
		_, err := tbl.AddRecord(0)
		require.NoError(t, err)
	}
	for i := 1; i <= 3; i++ {
		require.NoError(t, tbl.SetValue(i, 1, value.Int(int64(i*10))))
	}

	idx, err := tbl.AddRecord(2)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
	assertRecordInvariant(t, tbl)
	assert.Equal(t, []int64{10, -1, 20, 30}, intColumn(tbl, 1))

	third := tbl.Record(3)
	defer third.Release()
	second := tbl.Record(2)
	defer second.Release()

	require.NoError(t, tbl.RemoveRecord(2))
	assertRecordInvariant(t, tbl)
	assert.Equal(t, []int64{10, 20, 30}, intColumn(tbl, 1))
	assert.Equal(t, 2, third.Get().Index())
	assert.Equal(t, int64(20), third.Get().Value(1).AsInt())

	// The removed row's record is stale.
	latch.Clear()
	assert.True(t, second.Get().IsStale())
	assert.Equal(t, 0, second.Get().Index())
	assert.Nil(t, second.Get().Table())
	assert.True(t, second.Get().Value(1).IsVoid())
	assert.Equal(t, diag.KindBadArg, latch.Kind())
	assert.Equal(t, "Record", latch.Source())
	require.ErrorIs(t, second.Get().SetValue(1, value.Int(1)), ErrStaleRecord)
	v := second.Get().Values()
	assert.Equal(t, 0, v.Len())
	assert.Nil(t, second.Get().ValuesAsString())

	require.ErrorIs(t, tbl.RemoveRecord(0), ErrIndexOutOfRange)
	require.ErrorIs(t, tbl.RemoveRecord(4), ErrIndexOutOfRange)
}

func TestRecordStaleAfterReDimShrink(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(3, 1))
	last := tbl.Record(3)
	defer last.Release()

	require.NoError(t, tbl.ReDim(2, 1))
	assert.True(t, last.Get().IsStale())

	// Growing again creates a fresh record for row 3.
	require.NoError(t, tbl.ReDim(3, 1))
	assert.True(t, last.Get().IsStale())
	fresh := tbl.Record(3)
	assert.False(t, fresh.Get().IsStale())
	fresh.Release()
}

func TestRowOperationsNeedRecordBased(t *testing.T) {
	tbl, _ := newTestTable(t)
	_, err := tbl.AddRecord(0)
	require.ErrorIs(t, err, ErrNotRecordBased)
	require.ErrorIs(t, tbl.RemoveRecord(1), ErrNotRecordBased)
}

func TestTableCellAccess(t *testing.T) {
	tbl, latch := newTestTable(t)
	_, _ = tbl.AddColumn("s", 0)
	setType(t, tbl, 1, value.TypeString)

	require.NoError(t, tbl.SetValueByKey(1, "s", value.String("x")))
	assert.Equal(t, "x", tbl.ValueByKey(1, "s").AsString())
	assert.True(t, tbl.Value(1, 9).IsVoid())
	assert.Equal(t, "", tbl.ValueAsString(1, 9))
	assert.Equal(t, "", tbl.Value(5, 1).AsString())

	require.ErrorIs(t, tbl.SetValue(1, 9, value.Int(1)), ErrIndexOutOfRange)
	require.ErrorIs(t, tbl.SetValueByKey(1, "nope", value.Int(1)), collection.ErrKeyNotFound)

	err := tbl.SetValue(1, 1, value.Int(1))
	require.ErrorIs(t, err, ErrTypeMismatch)
	assert.Equal(t, "Variable s", latch.Source())
	assert.Equal(t, diag.KindBadArg, latch.Kind())
	assert.Equal(t, "x", tbl.Value(1, 1).AsString())
}

func TestClear(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(2, 2))
	r := tbl.Record(1)
	require.ErrorIs(t, tbl.Clear(), ErrReferenced)
	r.Release()
	require.NoError(t, tbl.Clear())
	assert.Equal(t, 0, tbl.ColumnCount())
	assert.Equal(t, 0, tbl.RecordCount())
	assert.True(t, tbl.IsRecordBased())
}

func TestStaleRecordAcrossIDBoundary(t *testing.T) {
	tbl, _ := newTestTable(t, WithRecordBased(true))
	require.NoError(t, tbl.ReDim(1, 1))
	held := tbl.Record(1)
	defer held.Release()
	require.NoError(t, tbl.ReDim(0, 1))
	require.True(t, held.Get().IsStale())

	tests := []struct {
		name   string
		nextID uint64
	}{
		{"32-bit limit", math.MaxUint32},
		{"past 32 bits", math.MaxUint32 + 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl.nextID = tt.nextID
			require.NoError(t, tbl.ReDim(2, 1))
			assertRecordInvariant(t, tbl)

			assert.True(t, held.Get().IsStale())
			assert.Equal(t, 0, held.Get().Index())
			require.ErrorIs(t, held.Get().SetValue(1, value.Int(1)), ErrStaleRecord)

			rec := tbl.Record(2)
			defer rec.Release()
			assert.False(t, rec.Get().IsStale())
			assert.Equal(t, 2, rec.Get().Index())
			assert.Equal(t, tt.nextID+1, rec.Get().id)

			require.NoError(t, tbl.ReDim(0, 1))
		})
	}
}

func intColumn(tbl *Table, col int) []int64 {
	v := tbl.Variables().At(col).Values()
	defer v.Release()
	ints, _ := vector.As[int64](&v)
	return ints.Slice()
}
