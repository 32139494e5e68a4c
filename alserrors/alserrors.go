// Package alserrors is the shared error taxonomy used across the codec:
// the tokenizer, parser, operator algebra, compressor and decompressor all
// raise (and the CLI all reports) these same handful of typed errors.
// Every error carries enough structure to produce a human-facing line, and
// position fields are always byte offsets into the ALS text.
package alserrors

import "fmt"

// AlsSyntaxError is a tokenizer/parser structural fault: an unexpected
// token, a missing integer where one was required, unbalanced parens, or an
// unknown escape.
type AlsSyntaxError struct {
	Position int
	Message  string
}

func (e *AlsSyntaxError) Error() string {
	return fmt.Sprintf("als syntax error at byte %d: %s", e.Position, e.Message)
}

// VersionMismatch is raised when a document's version header exceeds the
// maximum version this implementation understands.
type VersionMismatch struct {
	Expected int
	Found    int
}

func (e *VersionMismatch) Error() string {
	return fmt.Sprintf("als version mismatch: implementation supports up to v%d, document declares v%d", e.Expected, e.Found)
}

// ColumnMismatch is raised both when the number of parsed streams differs
// from the schema length, and when two column expansions disagree on row
// count during decompression.
type ColumnMismatch struct {
	Schema int
	Data   int
}

func (e *ColumnMismatch) Error() string {
	return fmt.Sprintf("column count mismatch: schema declares %d column(s), data has %d", e.Schema, e.Data)
}

// InvalidDictRef is raised when a DictRef resolves against a missing
// dictionary or an out-of-range index.
type InvalidDictRef struct {
	Index int
	Size  int
}

func (e *InvalidDictRef) Error() string {
	return fmt.Sprintf("invalid dictionary reference _%d: default dictionary has %d entr(y/ies)", e.Index, e.Size)
}

// RangeOverflow is raised when a range's element count would exceed the
// configured max_range_expansion, or when step is zero.
type RangeOverflow struct {
	Start int64
	End   int64
	Step  int64
}

func (e *RangeOverflow) Error() string {
	return fmt.Sprintf("range overflow: %d>%d:%d exceeds the configured max_range_expansion (or has a zero step)", e.Start, e.End, e.Step)
}

// CsvParseError is raised by the CSV boundary converter.
type CsvParseError struct {
	Line    int
	Column  int
	Message string
}

func (e *CsvParseError) Error() string {
	return fmt.Sprintf("csv parse error at %d:%d: %s", e.Line, e.Column, e.Message)
}

// JsonParseError wraps an error from the JSON boundary converter.
type JsonParseError struct {
	Cause error
}

func (e *JsonParseError) Error() string { return fmt.Sprintf("json parse error: %s", e.Cause) }
func (e *JsonParseError) Unwrap() error { return e.Cause }

// IoError wraps a transport-layer failure. It is never raised by the pure
// algorithms (escape, operator, pattern, als, dictionary) — only by code
// that touches a file, socket, or other external resource.
type IoError struct {
	Cause error
}

func (e *IoError) Error() string { return fmt.Sprintf("io error: %s", e.Cause) }
func (e *IoError) Unwrap() error { return e.Cause }
