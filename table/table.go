// Package table moves records between row, column and record layouts under a
// single Struct schema.
package table

import (
	"errors"
	"fmt"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/cast"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/infer"
	"github.com/reoring/goshape/value"
)

// Table is a Struct schema used as a column layout. Column order follows the
// field order of the schema.
type Table struct {
	schema dtype.Type
}

// New returns a table for schema, which must be a Struct.
func New(schema dtype.Type) (*Table, error) {
	if schema.Kind() != dtype.KindStruct {
		return nil, &goshape.NormalizationError{Path: "/", Message: fmt.Sprintf("table schema must be a struct, got %s", schema)}
	}
	return &Table{schema: schema}, nil
}

// Infer builds a table from the unified schema of records.
func Infer(records []any) (*Table, error) {
	schema, err := infer.RecordSchema(records)
	if err != nil {
		return nil, err
	}
	return New(schema)
}

func (t *Table) Schema() dtype.Type { return t.schema }

// Columns returns the column names.
func (t *Table) Columns() []string {
	fields := t.schema.Fields()
	out := make([]string, len(fields))
	for i, f := range fields {
		out[i] = f.Name
	}
	return out
}

// Union returns a table whose schema is the promotion of both schemas.
func (t *Table) Union(o *Table) (*Table, error) {
	s, err := cast.Promote(t.schema, o.schema)
	if err != nil {
		return nil, err
	}
	return New(s)
}

// ToRows lays records out as rows in column order. Missing fields are nil.
func (t *Table) ToRows(records []any) ([][]any, error) {
	cols := t.Columns()
	rows := make([][]any, len(records))
	for i, r := range records {
		m, err := record(r, i)
		if err != nil {
			return nil, err
		}
		row := make([]any, len(cols))
		for j, c := range cols {
			row[j], _ = m.Get(c)
		}
		rows[i] = row
	}
	return rows, nil
}

// ToColumns lays records out as a mapping from column name to values.
func (t *Table) ToColumns(records []any) (*value.Map, error) {
	rows, err := t.ToRows(records)
	if err != nil {
		return nil, err
	}
	cols := t.Columns()
	out := value.NewMap(len(cols))
	for j, c := range cols {
		vals := make([]any, len(rows))
		for i, row := range rows {
			vals[i] = row[j]
		}
		out.Set(c, vals)
	}
	return out, nil
}

// FromRows builds records from rows in column order, casting every cell to
// its column type.
func (t *Table) FromRows(rows [][]any) ([]any, error) {
	cols := t.Columns()
	out := make([]any, len(rows))
	for i, row := range rows {
		if len(row) != len(cols) {
			return nil, &goshape.NormalizationError{
				Path:    goshape.Root().Index(i).String(),
				Message: fmt.Sprintf("row has %d cells, want %d", len(row), len(cols)),
			}
		}
		m := value.NewMap(len(cols))
		for j, c := range cols {
			m.Set(c, row[j])
		}
		r, err := t.cast(m, i)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// FromColumns builds records from a column mapping. Every column must be a
// sequence of the same length; columns absent from cols are null.
func (t *Table) FromColumns(cols *value.Map) ([]any, error) {
	n := -1
	var err error
	cols.Range(func(k string, v any) bool {
		seq, ok := v.([]any)
		if !ok {
			err = &goshape.NormalizationError{Path: goshape.Root().Field(k).String(), Message: "column is not a sequence", Value: v}
			return false
		}
		if n >= 0 && len(seq) != n {
			err = &goshape.NormalizationError{Path: goshape.Root().Field(k).String(), Message: fmt.Sprintf("column has %d values, want %d", len(seq), n)}
			return false
		}
		n = len(seq)
		return true
	})
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return []any{}, nil
	}
	names := t.Columns()
	rows := make([][]any, n)
	for i := range rows {
		row := make([]any, len(names))
		for j, c := range names {
			if v, ok := cols.Get(c); ok {
				row[j] = v.([]any)[i]
			}
		}
		rows[i] = row
	}
	return t.FromRows(rows)
}

// Column extracts one column of records, typed by the schema.
func (t *Table) Column(records []any, name string) (*Column, error) {
	ft, ok := t.schema.Field(name)
	if !ok {
		return nil, &goshape.NormalizationError{Path: goshape.Root().Field(name).String(), Message: "no such column"}
	}
	vals := make([]any, len(records))
	for i, r := range records {
		m, err := record(r, i)
		if err != nil {
			return nil, err
		}
		vals[i], _ = m.Get(name)
	}
	return NewColumn(ft, vals)
}

func (t *Table) cast(m *value.Map, row int) (any, error) {
	r, err := cast.Cast(m, t.schema)
	if err != nil {
		return nil, prefixRow(err, row)
	}
	return r, nil
}

func record(r any, i int) (*value.Map, error) {
	m, ok := r.(*value.Map)
	if !ok {
		return nil, &goshape.NormalizationError{Path: goshape.Root().Index(i).String(), Message: "record is not a mapping", Value: r}
	}
	return m, nil
}

// prefixRow moves a cast failure path under the row index.
func prefixRow(err error, row int) error {
	var ce *goshape.CastError
	if !errors.As(err, &ce) {
		return err
	}
	cp := *ce
	p := goshape.Root().Index(row).String()
	if ce.Path != "" && ce.Path != "/" {
		p += ce.Path
	}
	cp.Path = p
	return &cp
}
