package table

import (
	"context"
	"fmt"
	"io"

	"github.com/hupe1980/dci/binfmt"
	"github.com/hupe1980/dci/vector"
)

// Save writes the table to w: object data, mode, record count and every
// column as its definition followed by its data.
func (t *Table) Save(w *binfmt.Writer) {
	t.Object.save(w)
	w.PutBool(t.recordBased)
	w.PutLen(t.RecordCount())
	w.PutLen(t.ColumnCount())
	for i, fd := range t.fieldDefs.All() {
		fd.save(w)
		t.variables.At(i).values.Save(w)
	}
}

// Load replaces t's content with a table read from r. Like AssignFrom it
// fails while parts of t are referenced outside the table. On error t is
// unchanged.
func (t *Table) Load(r *binfmt.Reader) error {
	if t.referenced() {
		return t.report(t, fmt.Errorf("%w: cannot load into %q", ErrReferenced, t.name))
	}
	tmp := newWithOptions(t.opts)
	if err := tmp.load(r); err != nil {
		tmp.clear()
		return t.report(t, err)
	}
	err := t.assign(tmp, true)
	tmp.clear()
	return t.report(t, err)
}

func (t *Table) load(r *binfmt.Reader) error {
	t.recordBased, t.recordCount = false, 0
	t.Object.load(r)
	recordBased := r.Bool()
	recordCount := r.Len(0)
	columns := r.Len(2)
	if err := r.Err(); err != nil {
		return err
	}
	if recordCount > vector.MaxLen {
		return fmt.Errorf("%w: %d records", binfmt.ErrCorrupt, recordCount)
	}

	for i := 1; i <= columns; i++ {
		idx, err := t.insertColumn("", 0)
		if err != nil {
			return err
		}
		fd, v := t.fieldDefs.At(idx), t.variables.At(idx)
		if err := fd.load(r); err != nil {
			return err
		}
		if fd.name != "" {
			if err := t.renameColumn(fd, fd.name); err != nil {
				return fmt.Errorf("%w: column %d: %v", binfmt.ErrCorrupt, i, err)
			}
		}

		vals, err := vector.Load(r)
		if err != nil {
			return err
		}
		if vals.Type() != fd.dataType {
			vals.Release()
			return fmt.Errorf("%w: column %q holds %v data for a %v field", binfmt.ErrCorrupt, fd.name, vals.Type(), fd.dataType)
		}
		if recordBased && vals.Len() != recordCount {
			vals.Release()
			return fmt.Errorf("%w: column %q holds %d values for %d records", binfmt.ErrCorrupt, fd.name, vals.Len(), recordCount)
		}
		v.values.Release()
		v.values = vals
	}

	if recordBased {
		t.recordBased = true
		t.recordCount = 0
		t.appendRecords(recordCount)
	}
	return nil
}

// Encode writes t as a framed binary stream.
func (t *Table) Encode(w io.Writer, opts ...binfmt.WriterOption) error {
	bw := binfmt.NewWriter(w, opts...)
	t.Save(bw)
	err := bw.Close()
	t.opts.logger.LogSave(context.Background(), t.name, t.RecordCount(), t.ColumnCount(), err)
	return t.report(t, err)
}

// Decode reads a table written by Encode. A non-empty WithName replaces the
// persisted name.
func Decode(r io.Reader, optFns ...Option) (*Table, error) {
	t := New(optFns...)
	br, err := binfmt.NewReader(r)
	if err == nil {
		err = t.Load(br)
		if err == nil && t.opts.name != "" {
			t.name = t.opts.name
		}
	} else {
		_ = t.report(t, err)
	}
	t.opts.logger.LogLoad(context.Background(), t.name, t.RecordCount(), t.ColumnCount(), err)
	if err != nil {
		return nil, err
	}
	return t, nil
}
