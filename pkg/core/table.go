package core

import (
	"golang.org/x/xerrors"
)

// Table is a row-aligned set of named columns.
type Table interface {
	// Columns returns the column names in insertion order.
	Columns() []string
	// Len returns the number of rows.
	Len() int
	// Column returns the values of the named column, false if absent.
	Column(name string) ([]any, bool)
}

// Series is a single named column.
type Series struct {
	Name   string
	Values []any
}

// Frame is the in-memory Table implementation.
type Frame struct {
	names []string
	cols  map[string][]any
	rows  int
}

// NewFrame builds a Frame from series, keeping their order.
// All series must have the same length and distinct names.
func NewFrame(series ...Series) (*Frame, error) {
	rows := 0
	if len(series) > 0 {
		rows = len(series[0].Values)
	}
	return NewFrameRows(rows, series...)
}

// NewFrameRows is NewFrame with an explicit row count, which a Frame keeps
// even when it has no columns.
func NewFrameRows(rows int, series ...Series) (*Frame, error) {
	if rows < 0 {
		return nil, xerrors.Errorf("negative row count %d", rows)
	}
	f := &Frame{
		names: make([]string, 0, len(series)),
		cols:  make(map[string][]any, len(series)),
		rows:  rows,
	}
	for _, s := range series {
		if _, dup := f.cols[s.Name]; dup {
			return nil, xerrors.Errorf("duplicate column %q", s.Name)
		}
		if len(s.Values) != rows {
			return nil, xerrors.Errorf("column %q has %d rows, expected %d", s.Name, len(s.Values), rows)
		}
		f.names = append(f.names, s.Name)
		f.cols[s.Name] = s.Values
	}
	return f, nil
}

// MustFrame is NewFrame that panics on error. Meant for tests and literals.
func MustFrame(series ...Series) *Frame {
	f, err := NewFrame(series...)
	if err != nil {
		panic(err)
	}
	return f
}

func (f *Frame) Columns() []string {
	out := make([]string, len(f.names))
	copy(out, f.names)
	return out
}

func (f *Frame) Len() int { return f.rows }

// Column returns the backing slice; callers must not modify it.
func (f *Frame) Column(name string) ([]any, bool) {
	v, ok := f.cols[name]
	return v, ok
}

// Row returns a copy of row i in column order.
func (f *Frame) Row(i int) []any {
	row := make([]any, len(f.names))
	for j, name := range f.names {
		row[j] = f.cols[name][i]
	}
	return row
}

// Slice returns rows [i, j) as a new Frame. Values are copied.
func Slice(t Table, i, j int) (*Frame, error) {
	if i < 0 || j > t.Len() || i > j {
		return nil, xerrors.Errorf("slice bounds [%d:%d] out of range for %d rows", i, j, t.Len())
	}
	names := t.Columns()
	series := make([]Series, 0, len(names))
	for _, name := range names {
		col, _ := t.Column(name)
		vals := make([]any, j-i)
		copy(vals, col[i:j])
		series = append(series, Series{Name: name, Values: vals})
	}
	return NewFrameRows(j-i, series...)
}

// Take returns the rows at idx, in idx order, as a new Frame.
func Take(t Table, idx []int) (*Frame, error) {
	for _, i := range idx {
		if i < 0 || i >= t.Len() {
			return nil, xerrors.Errorf("row %d out of range for %d rows", i, t.Len())
		}
	}
	names := t.Columns()
	series := make([]Series, 0, len(names))
	for _, name := range names {
		col, _ := t.Column(name)
		vals := make([]any, len(idx))
		for j, i := range idx {
			vals[j] = col[i]
		}
		series = append(series, Series{Name: name, Values: vals})
	}
	return NewFrameRows(len(idx), series...)
}
