package tradeledger

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSkipped marks a row that was deliberately left out, like a cash deposit.
var ErrSkipped = errors.New("row skipped")

// RowParseError reports a source row that could not be normalized.
// The row is dropped, the file is still processed.
type RowParseError struct {
	Line  int    // 1-based line in the source file, header included
	Field string // canonical field name
	Value string
	Err   error
}

func (e *RowParseError) Error() string {
	return fmt.Sprintf("line %d: invalid %s %q: %v", e.Line, e.Field, e.Value, e.Err)
}

func (e *RowParseError) Unwrap() error { return e.Err }

// FileReadError reports a source file that could not be read at all.
// The file contributes no rows, the run continues with the others.
type FileReadError struct {
	Path string
	Err  error
}

func (e *FileReadError) Error() string {
	return fmt.Sprintf("cannot read %q: %v", e.Path, e.Err)
}

func (e *FileReadError) Unwrap() error { return e.Err }

// SchemaMismatchError reports an existing ledger that lacks required columns.
// It is fatal: nothing is written.
type SchemaMismatchError struct {
	Path    string
	Missing []string
}

func (e *SchemaMismatchError) Error() string {
	return fmt.Sprintf("ledger %q is missing required columns: %s", e.Path, strings.Join(e.Missing, ", "))
}
