package dataprep

import (
	"cmp"
	"math"
	"reflect"
	"slices"

	"github.com/spf13/cast"
	"golang.org/x/xerrors"
)

// ColumnCategories is the ordered category list of one column.
type ColumnCategories struct {
	Column string
	Values []any
}

// CategoryDomain says where the categories of each encoded column come from:
// derived from the fitted table (auto) or supplied up front (explicit).
type CategoryDomain struct {
	auto    bool
	columns []ColumnCategories
}

// AutoCategories derives each column's categories from the data seen by Fit.
func AutoCategories() CategoryDomain { return CategoryDomain{auto: true} }

// ExplicitCategories fixes the encoded columns and their categories.
// Columns are encoded in the given order, categories in the given order.
func ExplicitCategories(columns ...ColumnCategories) CategoryDomain {
	return CategoryDomain{columns: cloneCategories(columns)}
}

func (d CategoryDomain) IsAuto() bool { return d.auto }

// Columns returns the explicit column lists; nil for auto.
func (d CategoryDomain) Columns() []ColumnCategories { return cloneCategories(d.columns) }

type valueKind uint8

const (
	kindString valueKind = iota + 1
	kindNumber
)

func (k valueKind) String() string {
	switch k {
	case kindString:
		return "string"
	case kindNumber:
		return "number"
	default:
		return "unknown"
	}
}

type numberForm uint8

const (
	formInt numberForm = iota + 1
	formUint
	formFloat
)

// categoryKey is the canonical, comparable form of a cell value.
// Integers stay exact: signed values and unsigned values up to MaxInt64 use i,
// larger unsigned values use u. Integral floats in range fold into the integer
// forms so 1.0 and int(1) match; other floats use f. Strings compare exactly.
type categoryKey struct {
	kind valueKind
	form numberForm
	i    int64
	u    uint64
	f    float64
	str  string
}

func (a categoryKey) float() float64 {
	switch a.form {
	case formInt:
		return float64(a.i)
	case formUint:
		return float64(a.u)
	default:
		return a.f
	}
}

func (a categoryKey) compare(b categoryKey) int {
	if a.kind != kindNumber {
		return cmp.Compare(a.str, b.str)
	}
	switch {
	case a.form == formInt && b.form == formInt:
		return cmp.Compare(a.i, b.i)
	case a.form == formUint && b.form == formUint:
		return cmp.Compare(a.u, b.u)
	case a.form == formInt && b.form == formUint:
		return -1
	case a.form == formUint && b.form == formInt:
		return 1
	}
	// one side is a non-integral or out of range float, so the two never
	// hold the same value; the float comparison decides the order.
	if c := cmp.Compare(a.float(), b.float()); c != 0 {
		return c
	}
	return cmp.Compare(a.form, b.form)
}

func intKey(i int64) categoryKey { return categoryKey{kind: kindNumber, form: formInt, i: i} }

func uintKey(u uint64) categoryKey {
	if u <= math.MaxInt64 {
		return intKey(int64(u))
	}
	return categoryKey{kind: kindNumber, form: formUint, u: u}
}

func floatKey(f float64) categoryKey {
	if f == math.Trunc(f) {
		switch {
		case f >= -(1<<63) && f < 1<<63:
			return intKey(int64(f))
		case f >= 0 && f < 1<<64:
			return uintKey(uint64(f))
		}
	}
	return categoryKey{kind: kindNumber, form: formFloat, f: f}
}

// keyOf canonicalises v. ok is false for missing values (nil, NaN).
// Named types are keyed by their underlying kind, so Zone(3) matches 3.
func keyOf(v any) (key categoryKey, ok bool, err error) {
	if v == nil {
		return categoryKey{}, false, nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return categoryKey{kind: kindString, str: rv.String()}, true, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return intKey(rv.Int()), true, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return uintKey(rv.Uint()), true, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) {
			return categoryKey{}, false, nil
		}
		return floatKey(f), true, nil
	case reflect.Bool:
		if rv.Bool() {
			return intKey(1), true, nil
		}
		return intKey(0), true, nil
	default:
		s, err := cast.ToStringE(v)
		if err != nil {
			return categoryKey{}, false, xerrors.Errorf("unsupported value type %T: %w", v, err)
		}
		return categoryKey{kind: kindString, str: s}, true, nil
	}
}

// columnDomain is a frozen category list with its lookup index.
type columnDomain struct {
	name   string
	values []any
	index  map[categoryKey]int
}

// deriveDomain collects the distinct values of col, sorted lexicographically
// for strings and ascending for numbers.
func deriveDomain(name string, col []any) (columnDomain, error) {
	type entry struct {
		key categoryKey
		raw any
	}
	seen := make(map[categoryKey]struct{})
	var entries []entry
	var kind valueKind
	for i, v := range col {
		k, ok, err := keyOf(v)
		if err != nil {
			return columnDomain{}, xerrors.Errorf("column %q row %d: %w", name, i, err)
		}
		if !ok {
			return columnDomain{}, xerrors.Errorf("column %q row %d: %w", name, i, ErrMissingValue)
		}
		if kind == 0 {
			kind = k.kind
		} else if kind != k.kind {
			return columnDomain{}, xerrors.Errorf("column %q: %w", name, ErrMixedCategoryTypes)
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		entries = append(entries, entry{key: k, raw: v})
	}
	slices.SortFunc(entries, func(a, b entry) int { return a.key.compare(b.key) })

	d := columnDomain{
		name:   name,
		values: make([]any, len(entries)),
		index:  make(map[categoryKey]int, len(entries)),
	}
	for i, e := range entries {
		d.values[i] = e.raw
		d.index[e.key] = i
	}
	return d, nil
}

// compileDomain indexes an explicit category list, keeping its order.
func compileDomain(c ColumnCategories) (columnDomain, error) {
	if len(c.Values) == 0 {
		return columnDomain{}, xerrors.Errorf("column %q has no categories: %w", c.Column, ErrInvalidCategories)
	}
	d := columnDomain{
		name:   c.Column,
		values: slices.Clone(c.Values),
		index:  make(map[categoryKey]int, len(c.Values)),
	}
	var kind valueKind
	for i, v := range c.Values {
		k, ok, err := keyOf(v)
		if err != nil || !ok {
			return columnDomain{}, xerrors.Errorf("column %q category %d (%v): %w", c.Column, i, v, ErrInvalidCategories)
		}
		if kind == 0 {
			kind = k.kind
		} else if kind != k.kind {
			return columnDomain{}, xerrors.Errorf("column %q mixes %s and %s categories: %w", c.Column, kind, k.kind, ErrInvalidCategories)
		}
		if _, dup := d.index[k]; dup {
			return columnDomain{}, xerrors.Errorf("column %q repeats category %v: %w", c.Column, v, ErrInvalidCategories)
		}
		d.index[k] = i
	}
	return d, nil
}

// position returns the one-hot position of v, -1 if v is outside the domain.
func (d columnDomain) position(v any) int {
	k, ok, err := keyOf(v)
	if err != nil || !ok {
		return -1
	}
	if i, found := d.index[k]; found {
		return i
	}
	return -1
}

func cloneCategories(in []ColumnCategories) []ColumnCategories {
	if in == nil {
		return nil
	}
	out := make([]ColumnCategories, len(in))
	for i, c := range in {
		out[i] = ColumnCategories{Column: c.Column, Values: slices.Clone(c.Values)}
	}
	return out
}
