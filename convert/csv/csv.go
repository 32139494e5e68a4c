// Package csv is a boundary converter between tabular.TabularData and CSV
// text. It is not part of the core codec: the core commits only to the
// canonical string form (§4.7), and this package's job is to translate
// that to and from the encoding/csv convention the way a CLI or library
// caller actually receives/produces tables. All cells round-trip as
// strings; type inference is the caller's concern (tabular.Column's
// InferredKind is informational only).
package csv

import (
	"encoding/csv"
	"io"
	"strings"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/tabular"
)

// Read parses r as a CSV document whose first row is the header.
func Read(r io.Reader) (tabular.TabularData, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		if pe, ok := err.(*csv.ParseError); ok {
			return tabular.TabularData{}, &alserrors.CsvParseError{Line: pe.Line, Column: pe.Column, Message: pe.Err.Error()}
		}
		return tabular.TabularData{}, &alserrors.IoError{Cause: err}
	}
	if len(records) == 0 {
		return tabular.TabularData{}, nil
	}

	header := records[0]
	cols := make([]tabular.Column, len(header))
	for i, name := range header {
		cols[i] = tabular.Column{Name: name}
	}

	for _, row := range records[1:] {
		for i := range cols {
			var cell string
			if i < len(row) {
				cell = row[i]
			}
			cols[i].Values = append(cols[i].Values, tabular.String(cell))
		}
	}

	return tabular.TabularData{Columns: cols}, nil
}

// ReadString is a convenience wrapper around Read for in-memory CSV text.
func ReadString(s string) (tabular.TabularData, error) {
	return Read(strings.NewReader(s))
}

// Write renders td as CSV text: a header row of column names followed by
// one row per cell position, every cell taken verbatim as its string form.
func Write(w io.Writer, td tabular.TabularData) error {
	cw := csv.NewWriter(w)

	header := make([]string, len(td.Columns))
	for i, col := range td.Columns {
		header[i] = col.Name
	}
	if err := cw.Write(header); err != nil {
		return &alserrors.IoError{Cause: err}
	}

	rowCount := td.RowCount()
	for r := 0; r < rowCount; r++ {
		row := make([]string, len(td.Columns))
		for c, col := range td.Columns {
			row[c] = col.Values[r].String
		}
		if err := cw.Write(row); err != nil {
			return &alserrors.IoError{Cause: err}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return &alserrors.IoError{Cause: err}
	}
	return nil
}

// WriteString renders td as CSV text and returns it as a string.
func WriteString(td tabular.TabularData) (string, error) {
	var b strings.Builder
	if err := Write(&b, td); err != nil {
		return "", err
	}
	return b.String(), nil
}
