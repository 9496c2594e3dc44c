package format

import (
	"math"
	"testing"
	"time"

	"github.com/hupe1980/dci/diag"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormat(t *testing.T) {
	f := New(WithDateLayout(time.DateOnly))
	tests := []struct {
		name string
		v    value.Value
		dt   value.DataType
		want string
	}{
		{"void", value.Void(), value.TypeVoid, ""},
		{"byte", value.Byte(7), value.TypeByte, "7"},
		{"int", value.Int(-12), value.TypeInt, "-12"},
		{"double", value.Double(0.1), value.TypeDouble, "0.1"},
		{"nan", value.Double(math.NaN()), value.TypeDouble, "NaN"},
		{"inf", value.Double(math.Inf(-1)), value.TypeDouble, "-Inf"},
		{"string", value.String("mg"), value.TypeString, "mg"},
		{"datetime", value.Double(45000), value.TypeDateTime, "2023-03-15"},
		{"value int", value.Int(3), value.TypeValue, "3"},
		{"enum as int", value.Int(1), value.TypeEnumeration, "1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, f.Format(tt.v, tt.dt))
		})
	}

	assert.Equal(t, "1.50", New(WithFloatFormat('f', 2)).Format(value.Double(1.5), value.TypeDouble))
}

func TestParse(t *testing.T) {
	f := New(WithDateLayout(time.DateOnly))
	tests := []struct {
		name string
		s    string
		dt   value.DataType
		want value.Value
	}{
		{"void", "", value.TypeVoid, value.Void()},
		{"byte", "255", value.TypeByte, value.Byte(255)},
		{"int", " 42 ", value.TypeInt, value.Int(42)},
		{"enum", "2", value.TypeEnumeration, value.Int(2)},
		{"double", "1e-3", value.TypeDouble, value.Double(0.001)},
		{"nan", "NaN", value.TypeDouble, value.Double(math.NaN())},
		{"string keeps spaces", " a ", value.TypeString, value.String(" a ")},
		{"datetime layout", "2023-03-15", value.TypeDateTime, value.Double(45000)},
		{"datetime days", "45000.5", value.TypeDateTime, value.Double(45000.5)},
		{"value int", "5", value.TypeValue, value.Int(5)},
		{"value double", "5.5", value.TypeValue, value.Double(5.5)},
		{"value text", "abc", value.TypeValue, value.String("abc")},
		{"value empty", "", value.TypeValue, value.Void()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := f.Parse(tt.s, tt.dt)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "%#v != %#v", tt.want, got)
		})
	}

	for _, bad := range []struct {
		s  string
		dt value.DataType
	}{
		{"256", value.TypeByte},
		{"x", value.TypeInt},
		{"x", value.TypeDouble},
		{"x", value.TypeVoid},
		{"yesterday", value.TypeDateTime},
		{"1", value.DataType(77)},
	} {
		_, err := f.Parse(bad.s, bad.dt)
		require.ErrorIs(t, err, ErrParse, "%q as %v", bad.s, bad.dt)
		assert.Equal(t, diag.KindBadArg, diag.KindOf(err))
	}
}

func TestDateTimeConversion(t *testing.T) {
	ts := time.Date(2024, time.February, 29, 18, 0, 0, 0, time.UTC)
	days := FromTime(ts)
	assert.InDelta(t, 45351.75, days, 1e-9)
	assert.True(t, ts.Equal(ToTime(days)))

	before := time.Date(1899, time.December, 29, 6, 0, 0, 0, time.UTC)
	assert.True(t, before.Equal(ToTime(FromTime(before))))
	assert.Equal(t, 0.0, FromTime(oleEpoch))
}

func TestVectorStrings(t *testing.T) {
	v, err := ParseStrings(Default(), []string{"1", "2", "3"}, value.TypeInt)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, Strings(Default(), &v))

	_, err = ParseStrings(Default(), []string{"1", "b"}, value.TypeInt)
	require.ErrorIs(t, err, ErrParse)
}

func TestEnum(t *testing.T) {
	allowed, err := vector.FromValues(value.TypeString, value.String("male"), value.String("female"))
	require.NoError(t, err)

	assert.Equal(t, "female", FormatEnum(1, &allowed))
	assert.Equal(t, "5", FormatEnum(5, &allowed))
	assert.Equal(t, "0", FormatEnum(0, nil))

	i, err := ParseEnum("female", &allowed)
	require.NoError(t, err)
	assert.Equal(t, int64(1), i)

	i, err = ParseEnum("0", &allowed)
	require.NoError(t, err)
	assert.Equal(t, int64(0), i)

	_, err = ParseEnum("other", &allowed)
	require.ErrorIs(t, err, ErrParse)
}
