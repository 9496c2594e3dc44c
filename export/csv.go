package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/hupe1980/dci/table"
	"github.com/hupe1980/dci/value"
	"github.com/hupe1980/dci/vector"
)

// WriteCSV writes one row per record, cells rendered by the table's
// formatter. Columns of a table that is not record-based may differ in
// length; missing cells are empty.
func WriteCSV(w io.Writer, t *table.Table, optFns ...Option) error {
	opts := applyOptions(optFns)
	cw := csv.NewWriter(w)
	cw.Comma = opts.comma

	cols := t.ColumnCount()
	row := make([]string, cols)
	if opts.header {
		for i, fd := range t.FieldDefs().All() {
			row[i-1] = fd.Name()
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	rows := t.RecordCount()
	if !t.IsRecordBased() {
		for _, v := range t.Variables().All() {
			rows = max(rows, v.Len())
		}
	}
	for r := 1; r <= rows; r++ {
		for i, v := range t.Variables().All() {
			row[i-1] = ""
			if r <= v.Len() {
				row[i-1] = v.ValueAsString(r)
			}
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads a record-based table from CSV. Without a header the columns
// are named column1, column2 and so on.
func ReadCSV(r io.Reader, optFns ...Option) (*table.Table, error) {
	opts := applyOptions(optFns)
	cr := csv.NewReader(r)
	cr.Comma = opts.comma
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}

	var names []string
	switch {
	case opts.header && len(rows) > 0:
		names, rows = rows[0], rows[1:]
	case len(rows) > 0:
		names = make([]string, len(rows[0]))
		for i := range names {
			names[i] = fmt.Sprintf("column%d", i+1)
		}
	}

	t := table.New(append([]table.Option{table.WithRecordBased(true)}, opts.tableOpts...)...)
	if !t.IsRecordBased() {
		if err := t.SetRecordBased(true); err != nil {
			return nil, err
		}
	}
	for i, name := range names {
		if _, err := t.AddColumn(name, 0); err != nil {
			return nil, err
		}
		dt, ok := opts.columnTypes[name]
		if !ok {
			dt = value.TypeString
		}
		fd := t.FieldDefs().At(i + 1)
		if err := fd.SetDataType(dt); err != nil {
			return nil, err
		}
		if dt == value.TypeEnumeration {
			if err := collectAllowed(fd, rows, i); err != nil {
				return nil, err
			}
		}
	}

	if err := t.ReDim(len(rows), len(names)); err != nil {
		return nil, err
	}
	for r, row := range rows {
		for c, cell := range row {
			if err := t.Variables().At(c+1).SetValueAsString(r+1, cell); err != nil {
				return nil, fmt.Errorf("row %d, column %q: %w", r+1, names[c], err)
			}
		}
	}
	return t, nil
}

func collectAllowed(fd *table.FieldDef, rows [][]string, col int) error {
	seen := make(map[string]bool)
	var vals []value.Value
	for _, row := range rows {
		if s := row[col]; !seen[s] {
			seen[s] = true
			vals = append(vals, value.String(s))
		}
	}
	list, err := vector.FromValues(value.TypeString, vals...)
	if err != nil {
		return err
	}
	defer list.Release()
	return fd.SetAllowedValues(list)
}
