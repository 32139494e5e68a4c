// Package compress implements the compressor and decompressor of §4.6/4.7:
// dictionary build, per-column pattern race, document assembly, the CTX
// fallback safety net, and the inverse expansion path. Column work fans out
// to a worker pool via golang.org/x/sync/errgroup when the column/row
// volume clears parallel_threshold, per the concurrency policy of §5.
package compress

import (
	"strconv"

	"golang.org/x/sync/errgroup"

	"github.com/k0kubun/alsdef/alserrors"
	"github.com/k0kubun/alsdef/als"
	"github.com/k0kubun/alsdef/config"
	"github.com/k0kubun/alsdef/dictionary"
	"github.com/k0kubun/alsdef/escape"
	"github.com/k0kubun/alsdef/operator"
	"github.com/k0kubun/alsdef/pattern"
	"github.com/k0kubun/alsdef/stats"
	"github.com/k0kubun/alsdef/tabular"
)

// ParallelThreshold is the column_count * row_count volume above which
// column work fans out to a worker pool instead of running sequentially
// (§5's default of 1000; below it the goroutine overhead dominates).
const ParallelThreshold = 1000

// Compress turns a TabularData into canonical ALS (or CTX, on fallback)
// text. counters may be nil, in which case no statistics are collected.
func Compress(td tabular.TabularData, cfg config.Config, counters *stats.Counters) (string, error) {
	rowCount := td.RowCount()
	for _, col := range td.Columns {
		if len(col.Values) != rowCount {
			return "", &alserrors.ColumnMismatch{Schema: rowCount, Data: len(col.Values)}
		}
	}

	dict := dictionary.Build(dictionary.StringTokens(td), cfg.MaxDictionaryEntries)
	dictIndex := make(map[string]int, len(dict))
	for i, v := range dict {
		dictIndex[v] = i
	}

	schema := make([]string, len(td.Columns))
	for i, col := range td.Columns {
		schema[i] = col.Name
	}

	streams, cellCounts, patternTypes, err := buildStreams(td, cfg, dictIndex, counters)
	if err != nil {
		return "", err
	}

	dictionaries := map[string][]string{}
	if len(dict) > 0 {
		dictionaries[operator.DefaultDictionaryName] = dict
	}
	doc := &operator.Document{
		Version:      1,
		Format:       operator.FormatALS,
		Dictionaries: dictionaries,
		Schema:       schema,
		Streams:      streams,
	}

	serialized, err := als.Serialize(doc)
	if err != nil {
		return "", err
	}

	rawEstimate := rawCellsEstimate(td)
	ratio := 0.0
	if len(serialized) > 0 {
		ratio = float64(rawEstimate) / float64(len(serialized))
	}

	if ratio < cfg.CtxFallbackThreshold {
		ctxDoc := buildCtxDocument(td, schema)
		serialized, err = als.Serialize(ctxDoc)
		if err != nil {
			return "", err
		}
	}

	if counters != nil {
		counters.InputBytes.Add(int64(rawEstimate))
		counters.OutputBytes.Add(int64(len(serialized)))
		counters.ColumnsTotal.Add(int64(len(td.Columns)))
		for i := range cellCounts {
			if patternTypes[i] != pattern.TypeNone {
				counters.RecordPattern(patternTypes[i])
			}
		}
	}

	return serialized, nil
}

// buildStreams runs §4.6 step 2 for every column: pattern detection first,
// falling back to per-cell DictRef/Raw encoding.
func buildStreams(td tabular.TabularData, cfg config.Config, dictIndex map[string]int, counters *stats.Counters) ([]operator.ColumnStream, []int, []pattern.Type, error) {
	n := len(td.Columns)
	streams := make([]operator.ColumnStream, n)
	cellCounts := make([]int, n)
	patternTypes := make([]pattern.Type, n)

	rowCount := td.RowCount()
	build := func(i int) error {
		col := td.Columns[i]
		stream, shrankKind, inputBytes, outputBytes, err := buildColumnStream(col, cfg, dictIndex, counters)
		if err != nil {
			return err
		}
		streams[i] = stream
		cellCounts[i] = len(col.Values)
		patternTypes[i] = shrankKind
		if counters != nil {
			counters.RecordColumn(stats.ColumnReport{
				Name:        col.Name,
				Index:       i,
				InputBytes:  int64(inputBytes),
				OutputBytes: int64(outputBytes),
				PatternType: shrankKind,
				RowCount:    len(col.Values),
				Shrank:      outputBytes < inputBytes,
			})
		}
		return nil
	}

	if n >= 2 && n*rowCount >= ParallelThreshold {
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error { return build(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, nil, nil, err
		}
		return streams, cellCounts, patternTypes, nil
	}

	for i := 0; i < n; i++ {
		if err := build(i); err != nil {
			return nil, nil, nil, err
		}
	}
	return streams, cellCounts, patternTypes, nil
}

// buildColumnStream returns the column's stream alongside its raw-estimate
// input size and its encoded output size, both in the same byte-accounting
// style rawCellsEstimate uses (cell lengths plus inter-cell separators),
// so the two are comparable for the report's shrink/grow verdict.
func buildColumnStream(col tabular.Column, cfg config.Config, dictIndex map[string]int, counters *stats.Counters) (operator.ColumnStream, pattern.Type, int, int, error) {
	cells := make([]string, len(col.Values))
	inputBytes := 0
	for i, v := range col.Values {
		cells[i] = v.Canonical()
		if i > 0 {
			inputBytes++
		}
		inputBytes += len(cells[i])
	}

	if res, ok := pattern.Detect(cells, cfg.MinPatternLength); ok {
		return operator.ColumnStream{Operators: []operator.Operator{res.Operator}}, res.PatternType, inputBytes, res.EstimatedCompressed, nil
	}

	ops := make([]operator.Operator, len(cells))
	outputBytes := 0
	for i, c := range cells {
		if i > 0 {
			outputBytes++
		}
		if idx, found := dictIndex[c]; found {
			ops[i] = &operator.DictRef{Index: idx}
			outputBytes += 1 + len(strconv.Itoa(idx))
			if counters != nil {
				counters.DictRefsUsed.Inc()
			}
		} else {
			ops[i] = operator.NewRaw(c)
			outputBytes += len(c)
			if counters != nil {
				counters.RawValues.Inc()
			}
		}
	}
	return operator.ColumnStream{Operators: ops}, pattern.TypeNone, inputBytes, outputBytes, nil
}

// buildCtxDocument rebuilds the document with no dictionary and every cell
// as a flat Raw operator, per §4.6 step 4's unconditional safety net.
func buildCtxDocument(td tabular.TabularData, schema []string) *operator.Document {
	streams := make([]operator.ColumnStream, len(td.Columns))
	for i, col := range td.Columns {
		ops := make([]operator.Operator, len(col.Values))
		for j, v := range col.Values {
			ops[j] = operator.NewRaw(v.Canonical())
		}
		streams[i] = operator.ColumnStream{Operators: ops}
	}
	return &operator.Document{
		Format:  operator.FormatCTX,
		Schema:  schema,
		Streams: streams,
	}
}

// rawCellsEstimate is the "raw_cells_estimate" of §4.6 step 4: cell lengths
// plus one separator between cells within a column, plus one separator
// between columns — the same per-cell accounting pattern.Result.Ratio
// compares against, just summed over every column instead of one.
func rawCellsEstimate(td tabular.TabularData) int {
	total := 0
	for i, col := range td.Columns {
		if i > 0 {
			total++
		}
		for j, v := range col.Values {
			if j > 0 {
				total++
			}
			total += len(v.Canonical())
		}
	}
	return total
}

// Decompress parses ALS/CTX text and expands it back into row-major
// TabularData. Cell values surface as strings; boundary converters
// reparse them under their own type rules (§4.7).
func Decompress(text string, cfg config.Config, counters *stats.Counters) (tabular.TabularData, error) {
	doc, err := als.ParseDocument(text, cfg.MaxRangeExpansion)
	if err != nil {
		return tabular.TabularData{}, err
	}

	cols, err := expandColumns(doc, cfg)
	if err != nil {
		return tabular.TabularData{}, err
	}

	result := tabular.TabularData{Columns: make([]tabular.Column, len(doc.Schema))}
	for i, name := range doc.Schema {
		values := make([]tabular.Value, len(cols[i]))
		for j, tok := range cols[i] {
			decoded, isNull, err := escape.DecodeCell(tok)
			if err != nil {
				return tabular.TabularData{}, err
			}
			if isNull {
				values[j] = tabular.Null()
			} else {
				values[j] = tabular.String(decoded)
			}
		}
		result.Columns[i] = tabular.Column{Name: name, Values: values}
	}

	if counters != nil {
		counters.InputBytes.Add(int64(len(text)))
	}

	return result, nil
}

// expandColumns runs §4.7 step 2, fanning out per-stream expansion across
// a worker pool under the same volume rule as compression.
func expandColumns(doc *operator.Document, cfg config.Config) ([][]string, error) {
	n := len(doc.Streams)
	rowCount, err := doc.RowCount()
	if err != nil {
		return nil, err
	}
	dict := doc.DefaultDictionary()
	cols := make([][]string, n)

	expand := func(i int) error {
		vals, err := doc.Streams[i].Expand(dict)
		if err != nil {
			return err
		}
		cols[i] = vals
		return nil
	}

	if n >= 2 && n*rowCount >= ParallelThreshold {
		var g errgroup.Group
		for i := 0; i < n; i++ {
			i := i
			g.Go(func() error { return expand(i) })
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i := 0; i < n; i++ {
			if err := expand(i); err != nil {
				return nil, err
			}
		}
	}

	want := -1
	for i, c := range cols {
		if want == -1 {
			want = len(c)
			continue
		}
		if len(c) != want {
			return nil, &alserrors.ColumnMismatch{Schema: want, Data: len(c)}
		}
	}

	return cols, nil
}
