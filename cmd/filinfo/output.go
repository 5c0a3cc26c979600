package main

import (
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
	"text/tabwriter"

	"gonum.org/v1/gonum/mat"
)

// row is a label/value pair for key-value output.
type row struct {
	key   string
	value any
}

func (a *app) formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', a.cfg.Precision, 64)
}

func (a *app) writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// writeRows prints rows as an aligned two-column table or as a JSON object.
func (a *app) writeRows(w io.Writer, rows []row) error {
	if a.cfg.Format == formatJSON {
		obj := make(map[string]any, len(rows))
		for _, r := range rows {
			if f, ok := r.value.(float64); ok {
				obj[r.key] = jsonFloat(f)
				continue
			}
			obj[r.key] = r.value
		}
		return a.writeJSON(w, obj)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		val := fmt.Sprint(r.value)
		if f, ok := r.value.(float64); ok {
			val = a.formatFloat(f)
		}
		if _, err := fmt.Fprintf(tw, "%s\t%s\n", r.key, val); err != nil {
			return err
		}
	}
	return tw.Flush()
}

// writeVector prints one value per line, or a JSON array.
func (a *app) writeVector(w io.Writer, values []float64) error {
	if a.cfg.Format == formatJSON {
		return a.writeJSON(w, jsonFloats(values))
	}
	for _, v := range values {
		if _, err := fmt.Fprintln(w, a.formatFloat(v)); err != nil {
			return err
		}
	}
	return nil
}

// writeMatrix prints m row by row, tab separated, or as a JSON object with
// its shape and nested rows.
func (a *app) writeMatrix(w io.Writer, m *mat.Dense) error {
	if m.IsEmpty() {
		if a.cfg.Format == formatJSON {
			return a.writeJSON(w, map[string]any{"rows": 0, "cols": 0, "data": [][]any{}})
		}
		return nil
	}

	rows, cols := m.Dims()
	if a.cfg.Format == formatJSON {
		data := make([][]any, rows)
		for i := range data {
			data[i] = jsonFloats(m.RawRowView(i))
		}
		return a.writeJSON(w, map[string]any{"rows": rows, "cols": cols, "data": data})
	}

	buf := make([]byte, 0, cols*(a.cfg.Precision+8))
	for i := 0; i < rows; i++ {
		buf = buf[:0]
		for j, v := range m.RawRowView(i) {
			if j > 0 {
				buf = append(buf, '\t')
			}
			buf = strconv.AppendFloat(buf, v, 'f', a.cfg.Precision, 64)
		}
		buf = append(buf, '\n')
		if _, err := w.Write(buf); err != nil {
			return err
		}
	}
	return nil
}

// jsonFloat maps non-finite values, which JSON cannot represent, to null.
func jsonFloat(v float64) any {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return v
}

func jsonFloats(values []float64) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = jsonFloat(v)
	}
	return out
}
