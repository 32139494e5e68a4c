package operator

import "github.com/k0kubun/alsdef/alserrors"

// Format distinguishes the two document flavors the wire grammar supports.
type Format int

const (
	FormatALS Format = iota
	FormatCTX
)

func (f Format) String() string {
	if f == FormatCTX {
		return "ctx"
	}
	return "als"
}

// DefaultDictionaryName is the only dictionary key DictRef ever consults.
const DefaultDictionaryName = "default"

// ColumnStream is an ordered sequence of operators whose expansion is the
// concatenation of its operators' expansions, in order.
type ColumnStream struct {
	Operators []Operator
}

func (c ColumnStream) ExpandedCount() int {
	total := 0
	for _, op := range c.Operators {
		total += op.ExpandedCount()
	}
	return total
}

func (c ColumnStream) Expand(dict []string) ([]string, error) {
	out := make([]string, 0, c.ExpandedCount())
	for _, op := range c.Operators {
		vals, err := op.Expand(dict)
		if err != nil {
			return nil, err
		}
		out = append(out, vals...)
	}
	return out, nil
}

// Document is the full ALS artifact: a version, a format tag, the
// dictionaries referenced by DictRef, the column schema, and one stream per
// schema column.
type Document struct {
	Version      int
	Format       Format
	Dictionaries map[string][]string
	Schema       []string
	Streams      []ColumnStream
}

// DefaultDictionary returns the "default" dictionary, or nil if absent.
func (d *Document) DefaultDictionary() []string {
	return d.Dictionaries[DefaultDictionaryName]
}

// Validate checks the document invariants that don't require expansion:
// schema and stream counts agree. RowCount additionally checks that every
// stream expands to the same length.
func (d *Document) Validate() error {
	if len(d.Schema) != 0 && len(d.Schema) != len(d.Streams) {
		return &alserrors.ColumnMismatch{Schema: len(d.Schema), Data: len(d.Streams)}
	}
	return nil
}

// RowCount expands nothing — it only needs ExpandedCount — but does verify
// every stream agrees, which is the document invariant that actually needs
// checking cheaply before a full expand.
func (d *Document) RowCount() (int, error) {
	if err := d.Validate(); err != nil {
		return 0, err
	}
	if len(d.Streams) == 0 {
		return 0, nil
	}
	want := d.Streams[0].ExpandedCount()
	for i := 1; i < len(d.Streams); i++ {
		if got := d.Streams[i].ExpandedCount(); got != want {
			return 0, &alserrors.ColumnMismatch{Schema: want, Data: got}
		}
	}
	return want, nil
}

// Expand materializes every column stream against the default dictionary
// and returns the result in column-major order — one []string per column,
// each of length RowCount(). Callers that want rows should transpose.
func (d *Document) Expand() ([][]string, error) {
	if _, err := d.RowCount(); err != nil {
		return nil, err
	}
	dict := d.DefaultDictionary()
	cols := make([][]string, len(d.Streams))
	for i, stream := range d.Streams {
		vals, err := stream.Expand(dict)
		if err != nil {
			return nil, err
		}
		cols[i] = vals
	}
	return cols, nil
}

// ExpandRows is Expand, transposed into row-major order.
func (d *Document) ExpandRows() ([][]string, error) {
	cols, err := d.Expand()
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		return nil, nil
	}
	rowCount := len(cols[0])
	rows := make([][]string, rowCount)
	for r := 0; r < rowCount; r++ {
		row := make([]string, len(cols))
		for c := range cols {
			row[c] = cols[c][r]
		}
		rows[r] = row
	}
	return rows, nil
}
