package export

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/goccy/go-json"

	"github.com/hupe1980/dci/value"
)

var null = json.RawMessage("null")

// taggedCell carries the tag of a cell in a Value column.
type taggedCell struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// encodeCell renders v as stored in a column or vector of type dt. Cells of
// Value columns are wrapped with their tag; non-finite doubles are strings.
func encodeCell(v value.Value, dt value.DataType) (json.RawMessage, error) {
	if dt == value.TypeValue && !v.IsVoid() {
		inner, err := encodeCell(v, v.Type())
		if err != nil {
			return nil, err
		}
		return json.Marshal(taggedCell{Type: v.Type().String(), Value: inner})
	}
	switch v.Type() {
	case value.TypeVoid:
		return null, nil
	case value.TypeByte:
		return strconv.AppendUint(nil, uint64(v.AsByte()), 10), nil
	case value.TypeInt:
		return strconv.AppendInt(nil, v.AsInt(), 10), nil
	case value.TypeDouble:
		d := v.AsDouble()
		switch {
		case value.IsNaN(d):
			return json.RawMessage(`"NaN"`), nil
		case d == value.Inf():
			return json.RawMessage(`"Inf"`), nil
		case d == value.NegInf():
			return json.RawMessage(`"-Inf"`), nil
		}
		return strconv.AppendFloat(nil, d, 'g', -1, 64), nil
	case value.TypeString:
		return json.Marshal(v.AsString())
	default:
		return nil, fmt.Errorf("%w: cell tag %v", ErrUnknownType, v.Type())
	}
}

// decodeCell is the inverse of encodeCell. null decodes to the zero value
// of dt's storage.
func decodeCell(raw json.RawMessage, dt value.DataType) (value.Value, error) {
	if len(raw) == 0 || bytes.Equal(raw, null) {
		return value.Zero(dt.Storage()), nil
	}
	var (
		v   value.Value
		err error
	)
	switch dt.Storage() {
	case value.TypeByte:
		var u uint8
		err = json.Unmarshal(raw, &u)
		v = value.Byte(u)
	case value.TypeInt:
		var i int64
		err = json.Unmarshal(raw, &i)
		v = value.Int(i)
	case value.TypeDouble:
		v, err = decodeDouble(raw)
	case value.TypeString:
		var s string
		err = json.Unmarshal(raw, &s)
		v = value.String(s)
	case value.TypeValue:
		var tc taggedCell
		if err = json.Unmarshal(raw, &tc); err == nil {
			tag, ok := value.ParseDataType(tc.Type)
			if !ok || !tag.IsScalarTag() {
				return value.Void(), fmt.Errorf("%w: cell tag %q", ErrUnknownType, tc.Type)
			}
			return decodeCell(tc.Value, tag)
		}
	case value.TypeVoid:
		err = fmt.Errorf("void column holds %s", raw)
	}
	if err != nil {
		return value.Void(), fmt.Errorf("%w: %v cell: %v", ErrFormat, dt, err)
	}
	return v, nil
}

func decodeDouble(raw json.RawMessage) (value.Value, error) {
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return value.Void(), err
		}
		switch s {
		case "NaN":
			return value.Double(value.NaN()), nil
		case "Inf":
			return value.Double(value.Inf()), nil
		case "-Inf":
			return value.Double(value.NegInf()), nil
		}
		return value.Void(), fmt.Errorf("invalid number %q", s)
	}
	var d float64
	if err := json.Unmarshal(raw, &d); err != nil {
		return value.Void(), err
	}
	return value.Double(d), nil
}
