package dataprep

import (
	"fmt"

	"golang.org/x/xerrors"
)

var (
	ErrMissingColumn       = xerrors.New("missing column")
	ErrUnsupportedCategory = xerrors.New("unsupported category")
	ErrEmptyInput          = xerrors.New("empty input")
	ErrNotFitted           = xerrors.New("encoder is not fitted")
	ErrMissingValue        = xerrors.New("missing value in categorical column")
	ErrMixedCategoryTypes  = xerrors.New("categorical column mixes string and numeric values")
	ErrInvalidCategories   = xerrors.New("invalid category domain")
)

// MissingColumnError reports a requested column absent from the input table.
type MissingColumnError struct {
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("missing column %q", e.Column)
}

func (e *MissingColumnError) Is(target error) bool { return target == ErrMissingColumn }

// UnsupportedCategoryError reports a value outside a column's category domain.
type UnsupportedCategoryError struct {
	Column string
	Row    int
	Value  any
}

func (e *UnsupportedCategoryError) Error() string {
	return fmt.Sprintf("unsupported category %v (%T) in column %q at row %d", e.Value, e.Value, e.Column, e.Row)
}

func (e *UnsupportedCategoryError) Is(target error) bool { return target == ErrUnsupportedCategory }
