package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/format"
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/testutil"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

func setType(t *testing.T, tbl *table.Table, col int, dt value.DataType) *table.FieldDef {
	t.Helper()
	fd := tbl.FieldDefs().At(col)
	require.NotNil(t, fd)
	require.NoError(t, fd.SetDataType(dt))
	return fd
}

func setAllowed(t *testing.T, fd *table.FieldDef, names ...string) {
	t.Helper()
	vals := make([]value.Value, len(names))
	for i, n := range names {
		vals[i] = value.String(n)
	}
	list, err := vector.FromValues(value.TypeString, vals...)
	require.NoError(t, err)
	defer list.Release()
	require.NoError(t, fd.SetAllowedValues(list))
}

// fruitTable has columns id (Int), name (String), level (Enumeration) and
// price (Double) with two records.
func fruitTable(t *testing.T) *table.Table {
	t.Helper()
	tbl := table.New(table.WithName("fruit"), table.WithRecordBased(true))
	for _, name := range []string{"id", "name", "level", "price"} {
		_, err := tbl.AddColumn(name, 0)
		require.NoError(t, err)
	}
	id := setType(t, tbl, 1, value.TypeInt)
	require.NoError(t, id.SetMinValue(value.Int(1)))
	require.NoError(t, id.SetMaxValue(value.Int(100)))
	require.NoError(t, id.SetAttribute("unit", "n"))
	setType(t, tbl, 2, value.TypeString)
	setAllowed(t, setType(t, tbl, 3, value.TypeEnumeration), "low", "medium", "high")
	setType(t, tbl, 4, value.TypeDouble)
	tbl.SetDescription("fruit prices")
	require.NoError(t, tbl.SetAttribute("source", "market"))

	require.NoError(t, tbl.ReDim(2, 4))
	rows := [][]value.Value{
		{value.Int(1), value.String("apple"), value.Int(0), value.Double(2.5)},
		{value.Int(2), value.String("b,c"), value.Int(2), value.Double(10)},
	}
	for r, row := range rows {
		for c, v := range row {
			require.NoError(t, tbl.SetValue(r+1, c+1, v))
		}
	}
	return tbl
}

func TestJSONRoundTrip(t *testing.T) {
	src, err := testutil.NewRNG(11).Table(testutil.TableSpec{
		Name:        "random",
		Records:     25,
		Types:       testutil.AllTypes,
		MissingRate: 0.1,
	})
	require.NoError(t, err)
	src.SetDescription("round trip")
	require.NoError(t, src.SetAttribute("k", "v"))
	require.NoError(t, src.SetValue(1, 2, value.Double(value.NaN())))
	require.NoError(t, src.SetValue(2, 2, value.Double(value.NegInf())))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, src))

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	testutil.AssertTablesEqual(t, src, got)
}

func TestJSONFruit(t *testing.T) {
	src := fruitTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, src, WithIndent("", "  ")))
	assert.Contains(t, buf.String(), "\n  \"columns\"")

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	testutil.AssertTablesEqual(t, src, got)
	assert.Equal(t, "high", got.ValueAsString(2, 3))
}

func TestJSONNotRecordBased(t *testing.T) {
	src := table.New(table.WithName("ragged"))
	_, err := src.AddColumn("a", 0)
	require.NoError(t, err)
	_, err = src.AddColumn("b", 0)
	require.NoError(t, err)
	setType(t, src, 1, value.TypeInt)
	setType(t, src, 2, value.TypeValue)
	require.NoError(t, src.SetValue(3, 1, value.Int(7)))
	require.NoError(t, src.SetValue(1, 2, value.String("x")))

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, src))
	assert.Contains(t, buf.String(), `{"type":"String","value":"x"}`)

	got, err := ReadJSON(&buf)
	require.NoError(t, err)
	assert.False(t, got.IsRecordBased())
	assert.Equal(t, 3, got.Variables().At(1).Len())
	assert.Equal(t, 1, got.Variables().At(2).Len())
	testutil.AssertTablesEqual(t, src, got)
}

func TestJSONTableOptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, fruitTable(t)))

	latch := diag.NewLatch()
	got, err := ReadJSON(&buf, WithTableOptions(table.WithName("renamed"), table.WithReporter(latch)))
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Name())
	assert.Same(t, latch, got.Reporter())
}

func TestReadJSONErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  error
	}{
		{"syntax", `{"columns":`, ErrFormat},
		{"unknown type", `{"columns":[{"name":"a","type":"Decimal","values":[]}]}`, ErrUnknownType},
		{"bad cell", `{"columns":[{"name":"a","type":"Int","values":["x"]}]}`, ErrFormat},
		{"bad tag", `{"columns":[{"name":"a","type":"Value","values":[{"type":"Enumeration","value":1}]}]}`, ErrUnknownType},
		{"bad double", `{"columns":[{"name":"a","type":"Double","values":["many"]}]}`, ErrFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadJSON(strings.NewReader(tt.input))
			require.ErrorIs(t, err, tt.want)
			assert.Equal(t, diag.KindBadArg, diag.KindOf(err))
		})
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fruitTable(t)))

	want := "id,name,level,price\n1,apple,low,2.5\n2,\"b,c\",high,10\n"
	assert.Equal(t, want, buf.String())
}

func TestReadCSV(t *testing.T) {
	input := "id,name,level,price\n1,apple,low,2.5\n2,\"b,c\",high,10\n3,kiwi,low,NaN\n"

	got, err := ReadCSV(strings.NewReader(input),
		WithColumnType("id", value.TypeInt),
		WithColumnType("level", value.TypeEnumeration),
		WithColumnType("price", value.TypeDouble),
		WithTableOptions(table.WithName("csv")),
	)
	require.NoError(t, err)

	assert.Equal(t, "csv", got.Name())
	testutil.AssertRecordInvariant(t, got)
	assert.Equal(t, 3, got.RecordCount())
	assert.Equal(t, int64(2), got.Value(2, 1).AsInt())
	assert.Equal(t, "b,c", got.Value(2, 2).AsString())
	assert.Equal(t, int64(1), got.Value(2, 3).AsInt())
	assert.Equal(t, "high", got.ValueAsString(2, 3))
	assert.Equal(t, int64(0), got.Value(3, 3).AsInt())
	assert.True(t, value.IsNaN(got.Value(3, 4).AsDouble()))

	level := got.FieldDefs().At(3)
	allowed := level.AllowedValues()
	assert.Equal(t, []string{"low", "high"}, format.Strings(format.Default(), &allowed))
}

func TestCSVOptions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, fruitTable(t), WithHeader(false), WithComma(';')))
	assert.Equal(t, "1;apple;low;2.5\n2;b,c;high;10\n", buf.String())

	got, err := ReadCSV(&buf, WithHeader(false), WithComma(';'))
	require.NoError(t, err)
	assert.Equal(t, 2, got.RecordCount())
	assert.Equal(t, 1, got.ColumnIndex("column1"))
	assert.Equal(t, value.TypeString, got.FieldDefs().At(4).DataType())
	assert.Equal(t, "10", got.Value(2, 4).AsString())
}

func TestWriteCSVNotRecordBased(t *testing.T) {
	tbl := table.New()
	_, err := tbl.AddColumn("a", 0)
	require.NoError(t, err)
	_, err = tbl.AddColumn("b", 0)
	require.NoError(t, err)
	setType(t, tbl, 1, value.TypeInt)
	setType(t, tbl, 2, value.TypeString)
	require.NoError(t, tbl.SetValue(2, 1, value.Int(5)))
	require.NoError(t, tbl.SetValue(1, 2, value.String("x")))

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, tbl))
	assert.Equal(t, "a,b\n0,x\n5,\n", buf.String())
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader("id\nx\n"), WithColumnType("id", value.TypeInt))
	require.ErrorIs(t, err, format.ErrParse)

	_, err = ReadCSV(strings.NewReader("a,b\n1\n"))
	require.ErrorIs(t, err, ErrFormat)

	got, err := ReadCSV(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, 0, got.ColumnCount())
}

func TestSchemaRoundTrip(t *testing.T) {
	src := fruitTable(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSchema(&buf, src))
	out := buf.String()
	assert.Contains(t, out, "name: fruit")
	assert.Contains(t, out, "type: Enumeration")
	assert.Contains(t, out, "- medium")

	got, err := ReadSchema(&buf)
	require.NoError(t, err)
	assert.Equal(t, "fruit", got.Name())
	assert.Equal(t, "fruit prices", got.Description())
	assert.True(t, got.IsRecordBased())
	assert.Equal(t, 0, got.RecordCount())
	require.Equal(t, 4, got.ColumnCount())

	for i, want := range src.FieldDefs().All() {
		fd := got.FieldDefs().At(i)
		assert.Equal(t, want.Name(), fd.Name())
		assert.Equal(t, want.DataType(), fd.DataType())
		assert.True(t, want.MinValue().Equal(fd.MinValue()), want.Name())
		assert.True(t, want.MaxValue().Equal(fd.MaxValue()), want.Name())
		wa, ga := want.AllowedValues(), fd.AllowedValues()
		assert.True(t, wa.Equal(&ga), want.Name())
	}
	unit, ok := got.FieldDefs().At(1).Attribute("unit")
	assert.True(t, ok)
	assert.Equal(t, "n", unit)
}

func TestReadSchemaErrors(t *testing.T) {
	_, err := ReadSchema(strings.NewReader("columns: ["))
	require.ErrorIs(t, err, ErrFormat)

	_, err = ReadSchema(strings.NewReader("columns:\n  - name: a\n    type: Money\n"))
	require.ErrorIs(t, err, ErrUnknownType)
}
