package export

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/dci/format"
	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
)

// Schema is the YAML description of a table's columns.
type Schema struct {
	Name        string            `yaml:"name,omitempty"`
	Description string            `yaml:"description,omitempty"`
	RecordBased bool              `yaml:"recordBased"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
	Columns     []SchemaColumn    `yaml:"columns"`
}

// SchemaColumn describes one column. Default, Min, Max and Allowed are
// rendered by the table's formatter.
type SchemaColumn struct {
	Name        string            `yaml:"name"`
	Type        string            `yaml:"type"`
	Description string            `yaml:"description,omitempty"`
	Default     string            `yaml:"default,omitempty"`
	Min         string            `yaml:"min,omitempty"`
	Max         string            `yaml:"max,omitempty"`
	Allowed     []string          `yaml:"allowed,omitempty"`
	Attributes  map[string]string `yaml:"attributes,omitempty"`
}

// NewSchema describes t.
func NewSchema(t *table.Table) *Schema {
	f := t.Formatter()
	s := &Schema{
		Name:        t.Name(),
		Description: t.Description(),
		RecordBased: t.IsRecordBased(),
		Attributes:  attributes(&t.Object),
		Columns:     make([]SchemaColumn, 0, t.ColumnCount()),
	}
	for _, fd := range t.FieldDefs().All() {
		dt := fd.DataType()
		allowed := fd.AllowedValues()
		s.Columns = append(s.Columns, SchemaColumn{
			Name:        fd.Name(),
			Type:        dt.String(),
			Description: fd.Description(),
			Default:     f.Format(fd.DefaultValue(), dt),
			Min:         f.Format(fd.MinValue(), dt),
			Max:         f.Format(fd.MaxValue(), dt),
			Allowed:     format.Strings(f, &allowed),
			Attributes:  attributes(&fd.Object),
		})
		allowed.Release()
	}
	return s
}

// WriteSchema writes the schema of t as YAML.
func WriteSchema(w io.Writer, t *table.Table) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewSchema(t)); err != nil {
		return err
	}
	return enc.Close()
}

// ReadSchema reads a YAML schema and returns an empty table with its columns.
func ReadSchema(r io.Reader, optFns ...Option) (*table.Table, error) {
	opts := applyOptions(optFns)
	var s Schema
	if err := yaml.NewDecoder(r).Decode(&s); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	return s.Table(opts.tableOpts...)
}

// Table builds an empty table with the columns of s.
func (s *Schema) Table(opts ...table.Option) (*table.Table, error) {
	t := table.New(append([]table.Option{table.WithName(s.Name)}, opts...)...)
	t.SetDescription(s.Description)
	if err := setAttributes(&t.Object, s.Attributes); err != nil {
		return nil, err
	}
	if err := t.SetRecordBased(s.RecordBased); err != nil {
		return nil, err
	}
	for i, col := range s.Columns {
		if _, err := t.AddColumn(col.Name, 0); err != nil {
			return nil, err
		}
		if err := col.apply(t.FieldDefs().At(i+1), t.Formatter()); err != nil {
			return nil, fmt.Errorf("column %q: %w", col.Name, err)
		}
	}
	return t, nil
}

func (c *SchemaColumn) apply(fd *table.FieldDef, f format.Formatter) error {
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
		s   string
		set func(value.Value) error
	}{
		{c.Default, fd.SetDefaultValue},
		{c.Min, fd.SetMinValue},
		{c.Max, fd.SetMaxValue},
	}
	for _, m := range meta {
		if m.s == "" {
			continue
		}
		val, err := f.Parse(m.s, dt)
		if err != nil {
			return err
		}
		if err := m.set(val); err != nil {
			return err
		}
	}

	if len(c.Allowed) == 0 {
		return nil
	}
	allowed := fd.AllowedValues()
	defer allowed.Release()
	list, err := format.ParseStrings(f, c.Allowed, allowed.Type())
	if err != nil {
		return err
	}
	defer list.Release()
	return fd.SetAllowedValues(list)
}
