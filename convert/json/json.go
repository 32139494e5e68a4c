// Package json is a boundary converter between tabular.TabularData and a
// row-oriented JSON array of objects, using goccy/go-json in place of
// encoding/json for the faster marshal/unmarshal path the rest of the
// example pack reaches for at its JSON boundaries.
package json

import (
	"sort"

	"github.com/goccy/go-json"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/tabular"
)

// Read parses a JSON array of flat objects (`[{"col": "value", ...}, ...]`)
// into TabularData. The column set is the union of keys seen: keys are
// added in the order of the first row that contains them, and keys first
// seen in the same row are added in sorted order (the key order of the JSON
// text itself is not preserved). A row missing a key yields an empty cell
// for that column, mirroring the CSV converter's short-row handling.
func Read(data []byte) (tabular.TabularData, error) {
	var rows []map[string]string
	if err := json.Unmarshal(data, &rows); err != nil {
		return tabular.TabularData{}, &alserrors.JsonParseError{Cause: err}
	}

	var order []string
	seen := map[string]bool{}
	for _, row := range rows {
		keys := make([]string, 0, len(row))
		for k := range row {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			if !seen[k] {
				seen[k] = true
				order = append(order, k)
			}
		}
	}

	cols := make([]tabular.Column, len(order))
	for i, name := range order {
		cols[i] = tabular.Column{Name: name, Values: make([]tabular.Value, len(rows))}
	}
	for r, row := range rows {
		for i, name := range order {
			cols[i].Values[r] = tabular.String(row[name])
		}
	}

	return tabular.TabularData{Columns: cols}, nil
}

// Write renders td as a JSON array of flat objects, one per row. Each object
// is marshaled from a map, so its keys come out in sorted order rather than
// in column order.
func Write(td tabular.TabularData) ([]byte, error) {
	rowCount := td.RowCount()
	rows := make([]map[string]string, rowCount)
	for r := 0; r < rowCount; r++ {
		row := make(map[string]string, len(td.Columns))
		for _, col := range td.Columns {
			row[col.Name] = col.Values[r].String
		}
		rows[r] = row
	}

	out, err := json.Marshal(rows)
	if err != nil {
		return nil, &alserrors.JsonParseError{Cause: err}
	}
	return out, nil
}
