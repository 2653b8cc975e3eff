package convert

import (
	"errors"
	"fmt"
)

var (
	// ErrFileFormat is matched by every FileFormatError.
	ErrFileFormat = errors.New("unsupported workbook format")
	// ErrCancelled is returned by Run.Next once the run's context is done.
	ErrCancelled = errors.New("conversion cancelled")
)

// FileFormatError reports an input that is not a readable xls or xlsx workbook.
type FileFormatError struct {
	Path string
	Err  error
}

func (e *FileFormatError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %v", e.Path, ErrFileFormat)
	}
	return fmt.Sprintf("%s: %v: %v", e.Path, ErrFileFormat, e.Err)
}

func (e *FileFormatError) Unwrap() error { return e.Err }

func (e *FileFormatError) Is(target error) bool { return target == ErrFileFormat }

// DuplicateCriterionError reports two criteria columns sharing a name on one
// sheet. First and Second are zero-based column indexes.
type DuplicateCriterionError struct {
	Sheet  string
	Name   string
	First  int
	Second int
}

func (e *DuplicateCriterionError) Error() string {
	return fmt.Sprintf("sheet %q: criterion %q appears in columns %d and %d, criteria names must be unique",
		e.Sheet, e.Name, e.First+1, e.Second+1)
}

// UnsupportedCellTypeError reports a criterion cell whose value cannot be
// evaluated as a checkmark. Line is 1-based, Column zero-based.
type UnsupportedCellTypeError struct {
	Sheet  string
	Line   int
	Column int
	Value  string
}

func (e *UnsupportedCellTypeError) Error() string {
	return fmt.Sprintf("sheet %q, line %d, column %d: %q: unsupported criterion cell type",
		e.Sheet, e.Line, e.Column+1, e.Value)
}

// TextExtractionError reports a requirement cell that does not hold text.
type TextExtractionError struct {
	Sheet string
	Line  int
	Value string
}

func (e *TextExtractionError) Error() string {
	return fmt.Sprintf("error on line %d on sheet %q: %q is not text", e.Line, e.Sheet, e.Value)
}
