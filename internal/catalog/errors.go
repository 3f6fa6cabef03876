package catalog

import (
	"errors"
	"fmt"
)

// ErrDataCorrupted is the root of every catalog data error. All load failures
// caused by the content of the catalog (rather than I/O) satisfy
// errors.Is(err, ErrDataCorrupted).
var ErrDataCorrupted = errors.New("catalog: data corrupted")

var (
	// ErrEmptyField reports a record with an empty code, name or color.
	ErrEmptyField = fmt.Errorf("%w: empty field", ErrDataCorrupted)

	// ErrNotUnique reports a code, name or color shared by two records.
	ErrNotUnique = fmt.Errorf("%w: entries are not unique", ErrDataCorrupted)

	// ErrEmptyCatalog reports a catalog source with no records.
	ErrEmptyCatalog = fmt.Errorf("%w: no records", ErrDataCorrupted)
)

// HexColorError reports a color field that is not a strict "#RRGGBB" value.
type HexColorError struct {
	Value string
	Err   error
}

func (e *HexColorError) Error() string {
	return fmt.Sprintf("catalog: failed to parse hex color %q: %v", e.Value, e.Err)
}

func (e *HexColorError) Unwrap() error { return e.Err }

// Is makes every HexColorError match ErrDataCorrupted.
func (e *HexColorError) Is(target error) bool {
	return target == ErrDataCorrupted
}

// RecordError locates a failing record within its source.
type RecordError struct {
	Index int
	Code  string
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("catalog: record %d (code %q): %v", e.Index, e.Code, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }
