package export

import (
	"fmt"
	"io"
	"maps"
	"slices"

	"github.com/goccy/go-json"

	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// Document is the JSON form of a table.
type Document struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	RecordBased bool              `json:"recordBased"`
	Records     int               `json:"records"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Columns     []ColumnDocument  `json:"columns"`
}

// ColumnDocument is the JSON form of one column. Default, Min, Max, Allowed
// and Values hold cells encoded for the column type.
type ColumnDocument struct {
	Name        string            `json:"name,omitempty"`
	Description string            `json:"description,omitempty"`
	Type        string            `json:"type"`
	Default     json.RawMessage   `json:"default,omitempty"`
	Min         json.RawMessage   `json:"min,omitempty"`
	Max         json.RawMessage   `json:"max,omitempty"`
	Allowed     []json.RawMessage `json:"allowed,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	Values      []json.RawMessage `json:"values"`
}

// WriteJSON writes t as a JSON Document.
func WriteJSON(w io.Writer, t *table.Table, optFns ...Option) error {
	opts := applyOptions(optFns)
	doc, err := NewDocument(t)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(w)
	enc.SetIndent(opts.prefix, opts.indent)
	return enc.Encode(doc)
}

// ReadJSON reads a table written by WriteJSON.
func ReadJSON(r io.Reader, optFns ...Option) (*table.Table, error) {
	opts := applyOptions(optFns)
	var doc Document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return doc.Table(opts.tableOpts...)
}

// NewDocument converts t.
func NewDocument(t *table.Table) (*Document, error) {
	doc := &Document{
		Name:        t.Name(),
		Description: t.Description(),
		RecordBased: t.IsRecordBased(),
		Records:     t.RecordCount(),
		Attributes:  attributes(&t.Object),
		Columns:     make([]ColumnDocument, 0, t.ColumnCount()),
	}
	for i, fd := range t.FieldDefs().All() {
		col, err := newColumnDocument(fd, t.Variables().At(i))
		if err != nil {
			return nil, fmt.Errorf("column %q: %w", fd.Name(), err)
		}
		doc.Columns = append(doc.Columns, col)
	}
	return doc, nil
}

func newColumnDocument(fd *table.FieldDef, v *table.Variable) (ColumnDocument, error) {
	dt := fd.DataType()
	col := ColumnDocument{
		Name:        fd.Name(),
		Description: fd.Description(),
		Type:        dt.String(),
		Attributes:  attributes(&fd.Object),
	}

	var err error
	if col.Default, err = encodeCell(fd.DefaultValue(), dt); err != nil {
		return col, err
	}
	if col.Min, err = encodeCell(fd.MinValue(), dt); err != nil {
		return col, err
	}
	if col.Max, err = encodeCell(fd.MaxValue(), dt); err != nil {
		return col, err
	}

	allowed := fd.AllowedValues()
	defer allowed.Release()
	if col.Allowed, err = encodeVector(&allowed); err != nil {
		return col, err
	}

	values := v.Values()
	defer values.Release()
	if col.Values, err = encodeVector(&values); err != nil {
		return col, err
	}
	if col.Values == nil {
		col.Values = []json.RawMessage{}
	}
	return col, nil
}

func encodeVector(v *vector.Vector) ([]json.RawMessage, error) {
	if v.Len() == 0 {
		return nil, nil
	}
	out := make([]json.RawMessage, v.Len())
	for i := range out {
		raw, err := encodeCell(v.At(i), v.Type())
		if err != nil {
			return nil, err
		}
		out[i] = raw
	}
	return out, nil
}

// Table builds a new table from d. opts configure the table; its name is set
// to d.Name unless an option overrides it.
func (d *Document) Table(opts ...table.Option) (*table.Table, error) {
	t := table.New(append([]table.Option{table.WithName(d.Name)}, opts...)...)
	t.SetDescription(d.Description)
	if err := setAttributes(&t.Object, d.Attributes); err != nil {
		return nil, err
	}
	for i, col := range d.Columns {
		if _, err := t.AddColumn(col.Name, 0); err != nil {
			return nil, err
		}
		if err := col.apply(t.FieldDefs().At(i+1), t.Variables().At(i+1)); err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
	}
	if d.RecordBased {
		if err := t.SetRecordBased(true); err != nil {
			return nil, err
		}
		if err := t.ReDim(d.Records, t.ColumnCount()); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (c *ColumnDocument) apply(fd *table.FieldDef, v *table.Variable) error {
	dt, ok := value.ParseDataType(c.Type)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownType, c.Type)
	}
	if err := fd.SetDataType(dt); err != nil {
		return err
	}
	fd.SetDescription(c.Description)
	if err := setAttributes(&fd.Object, c.Attributes); err != nil {
		return err
	}

	meta := []struct {
		raw json.RawMessage
		set func(value.Value) error
	}{
		{c.Default, fd.SetDefaultValue},
		{c.Min, fd.SetMinValue},
		{c.Max, fd.SetMaxValue},
	}
	for _, m := range meta {
		val, err := decodeCell(m.raw, dt)
		if err != nil {
			return err
		}
		if err := m.set(val); err != nil {
			return err
		}
	}

	allowed := fd.AllowedValues()
	defer allowed.Release()
	if len(c.Allowed) > 0 {
		vals, err := decodeCells(c.Allowed, allowed.Type())
		if err != nil {
			return err
		}
		list, err := vector.FromValues(allowed.Type(), vals...)
		if err != nil {
			return err
		}
		defer list.Release()
		if err := fd.SetAllowedValues(list); err != nil {
			return err
		}
	}

	vals, err := decodeCells(c.Values, dt)
	if err != nil {
		return err
	}
	for row, val := range vals {
		if err := v.SetValue(row+1, val); err != nil {
			return err
		}
	}
	return nil
}

func decodeCells(raws []json.RawMessage, dt value.DataType) ([]value.Value, error) {
	vals := make([]value.Value, len(raws))
	for i, raw := range raws {
		val, err := decodeCell(raw, dt)
		if err != nil {
			return nil, fmt.Errorf("cell %d: %w", i+1, err)
		}
		vals[i] = val
	}
	return vals, nil
}

func attributes(o *table.Object) map[string]string {
	if o.Attributes().Count() == 0 {
		return nil
	}
	m := make(map[string]string, o.Attributes().Count())
	for _, a := range o.Attributes().All() {
		m[a.Name()] = a.Value()
	}
	return m
}

func setAttributes(o *table.Object, attrs map[string]string) error {
	for _, name := range slices.Sorted(maps.Keys(attrs)) {
		if err := o.SetAttribute(name, attrs[name]); err != nil {
			return err
		}
	}
	return nil
}
