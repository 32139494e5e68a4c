// Package streaming implements the chunked core contract of §4.9: the
// input is divided into fixed-row chunks, and each chunk compresses to one
// independent, standalone-parseable ALS document. There is no multi-
// document framing beyond that; callers concatenate and reassemble rows
// themselves. Per-chunk correlation ids (for logging only, never part of
// the wire format) are minted with google/uuid, the same library the rest
// of the pack reaches for whenever a request/unit-of-work needs an id.
package streaming

import (
	"github.com/google/uuid"

	"github.com/k0kubun/alsdef/compress"
	"github.com/k0kubun/alsdef/config"
	"github.com/k0kubun/alsdef/stats"
	"github.com/k0kubun/alsdef/tabular"
)

// Chunk is one fixed-row slice of a larger table, tagged with a
// log-only correlation id.
type Chunk struct {
	ID   uuid.UUID
	Data tabular.TabularData
}

// Split partitions td into chunks of at most rowsPerChunk rows each,
// preserving column order and names. rowsPerChunk must be > 0.
func Split(td tabular.TabularData, rowsPerChunk int) []Chunk {
	if rowsPerChunk <= 0 {
		rowsPerChunk = 1
	}
	total := td.RowCount()
	if total == 0 {
		return nil
	}

	var chunks []Chunk
	for start := 0; start < total; start += rowsPerChunk {
		end := start + rowsPerChunk
		if end > total {
			end = total
		}
		cols := make([]tabular.Column, len(td.Columns))
		for i, col := range td.Columns {
			cols[i] = tabular.Column{Name: col.Name, Values: col.Values[start:end]}
		}
		chunks = append(chunks, Chunk{ID: uuid.New(), Data: tabular.TabularData{Columns: cols}})
	}
	return chunks
}

// CompressChunks compresses each chunk into its own independent ALS
// document, in order. A chunk's document never references another
// chunk's dictionary or schema.
func CompressChunks(chunks []Chunk, cfg config.Config, counters *stats.Counters) ([]string, error) {
	docs := make([]string, len(chunks))
	for i, c := range chunks {
		text, err := compress.Compress(c.Data, cfg, counters)
		if err != nil {
			return nil, err
		}
		docs[i] = text
	}
	return docs, nil
}

// ExpandDocuments is the inverse: parse and expand each standalone document,
// returning one table per document in chunk order (Concat merges them into
// one table). It does not attempt to
// reconcile differing schemas across documents — callers that stream
// heterogeneous chunks are responsible for that.
func ExpandDocuments(docs []string, cfg config.Config, counters *stats.Counters) ([]tabular.TabularData, error) {
	out := make([]tabular.TabularData, len(docs))
	for i, d := range docs {
		td, err := compress.Decompress(d, cfg, counters)
		if err != nil {
			return nil, err
		}
		out[i] = td
	}
	return out, nil
}

// Concat merges a sequence of same-schema TabularData chunks back into one
// table, the inverse of Split.
func Concat(chunks []tabular.TabularData) tabular.TabularData {
	if len(chunks) == 0 {
		return tabular.TabularData{}
	}
	cols := make([]tabular.Column, len(chunks[0].Columns))
	for i := range cols {
		cols[i].Name = chunks[0].Columns[i].Name
	}
	for _, chunk := range chunks {
		for i, col := range chunk.Columns {
			cols[i].Values = append(cols[i].Values, col.Values...)
		}
	}
	return tabular.TabularData{Columns: cols}
}
