package codec

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/infer"
	"github.com/reoring/goshape/normalize"
	"github.com/reoring/goshape/table"
	"github.com/reoring/goshape/value"
)

// CSVFormat reads and writes comma-separated records with a header row.
//
// Encode writes one column per field of the unified record schema, in
// first-seen order; null cells are empty and nested values are written as
// JSON text. Decode keys every row by the header. With TypedText the cells
// are cast to the inferred column types, otherwise every cell stays a
// string. A single mapping encodes as one row and decodes as a sequence of
// one record.
type CSVFormat struct {
	opt goshape.Options
}

// CSV returns the CSV adapter for opt.
func CSV(opt goshape.Options) *CSVFormat { return &CSVFormat{opt: opt} }

func (f *CSVFormat) Name() string         { return "CSV" }
func (f *CSVFormat) Extensions() []string { return []string{".csv"} }

func (f *CSVFormat) Encode(ctx context.Context, data any) ([]byte, dtype.Type, error) {
	v, schema, err := prepare(ctx, data)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	records, err := normalize.Container(v)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	tb, err := table.Infer(records)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	rows, err := tb.ToRows(records)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}

	var buf bytes.Buffer
	cols := tb.Columns()
	if len(cols) == 0 {
		return buf.Bytes(), schema, nil
	}
	w := csv.NewWriter(&buf)
	if err := w.Write(cols); err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	cells := make([]string, len(cols))
	for _, row := range rows {
		for i, c := range row {
			cells[i] = ""
			if c != nil {
				cells[i] = value.FormatText(c)
			}
		}
		if err := w.Write(cells); err != nil {
			return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	return buf.Bytes(), schema, nil
}

func (f *CSVFormat) Decode(ctx context.Context, text []byte) (any, dtype.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	records, err := readCSV(text)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	v, schema, err := finish(records, f.opt)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	if !f.opt.TypedText {
		return v, schema, nil
	}
	v, err = typedRecords(v.([]any), schema.Elem())
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	return v, infer.InferSchema(v), nil
}

func readCSV(text []byte) ([]any, error) {
	r := csv.NewReader(bytes.NewReader(text))
	rows, err := r.ReadAll()
	if err != nil {
		pe := &goshape.ParseError{Path: "/", Offset: -1, Cause: err}
		var ce *csv.ParseError
		if errors.As(err, &ce) {
			pe.Line = ce.Line
		}
		return nil, pe
	}
	if len(rows) == 0 {
		return []any{}, nil
	}
	header := rows[0]
	seen := make(map[string]bool, len(header))
	for _, h := range header {
		if seen[h] {
			return nil, &goshape.ParseError{Path: "/", Line: 1, Offset: -1, Message: fmt.Sprintf("duplicate column %q", h)}
		}
		seen[h] = true
	}
	out := make([]any, 0, len(rows)-1)
	for _, row := range rows[1:] {
		m := value.NewMap(len(header))
		for i, h := range header {
			m.Set(h, row[i])
		}
		out = append(out, m)
	}
	return out, nil
}

// typedRecords casts string cells to the column types inferred from them.
func typedRecords(records []any, schema dtype.Type) ([]any, error) {
	if schema.Kind() != dtype.KindStruct {
		return records, nil
	}
	tb, err := table.New(schema)
	if err != nil {
		return nil, err
	}
	rows, err := tb.ToRows(records)
	if err != nil {
		return nil, err
	}
	return tb.FromRows(rows)
}
