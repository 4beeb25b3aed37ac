package dataprep

import (
	"fmt"
	"slices"
	"sync"

	"github.com/spf13/cast"
	"go.uber.org/zap"
	"golang.org/x/xerrors"
	"gonum.org/v1/gonum/mat"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

// CategoricalEncoder one-hot encodes categorical columns into a dense matrix.
//
// With an auto domain every column of the fitted table is categorical and its
// categories are the sorted distinct values seen by Fit. The domain is frozen
// until the next Fit, so every Transform produces the same column layout.
// With an explicit domain the configured columns and categories are used as
// given and Fit only checks that the columns exist.
type CategoricalEncoder struct {
	mu        sync.RWMutex
	auto      bool
	unknown   UnknownPolicy
	lgr       *zap.Logger
	columns   []columnDomain
	domainErr error
}

func NewCategoricalEncoder(opts ...Option) *CategoricalEncoder {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	e := &CategoricalEncoder{
		auto:    o.categories.IsAuto(),
		unknown: o.unknown,
		lgr:     o.lgr,
	}
	if !e.auto {
		e.columns, e.domainErr = compileExplicit(o.categories.columns)
	}
	return e
}

func compileExplicit(cats []ColumnCategories) ([]columnDomain, error) {
	if len(cats) == 0 {
		return nil, xerrors.Errorf("no columns configured: %w", ErrInvalidCategories)
	}
	out := make([]columnDomain, 0, len(cats))
	for _, c := range cats {
		if slices.ContainsFunc(out, func(d columnDomain) bool { return d.name == c.Column }) {
			return nil, xerrors.Errorf("column %q configured twice: %w", c.Column, ErrInvalidCategories)
		}
		d, err := compileDomain(c)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, nil
}

// Fit derives and freezes the category domain in auto mode. In explicit mode
// it checks that every configured column is present in t.
func (e *CategoricalEncoder) Fit(t core.Table) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.domainErr != nil {
		return e.domainErr
	}
	if !e.auto {
		_, err := lookupColumns(t, e.columns)
		return err
	}

	names := t.Columns()
	if len(names) == 0 || t.Len() == 0 {
		return xerrors.Errorf("fit on %d columns x %d rows: %w", len(names), t.Len(), ErrEmptyInput)
	}
	columns := make([]columnDomain, 0, len(names))
	for _, name := range names {
		col, _ := t.Column(name)
		d, err := deriveDomain(name, col)
		if err != nil {
			return xerrors.Errorf("unable to derive categories: %w", err)
		}
		e.lgr.Debug("derived categories", zap.String("column", name), zap.Int("categories", len(d.values)))
		columns = append(columns, d)
	}
	e.columns = columns
	return nil
}

// Transform encodes t. Output has one row per input row and one column per
// (column, category) pair, ordered by column then category.
func (e *CategoricalEncoder) Transform(t core.Table) (*mat.Dense, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.domainErr != nil {
		return nil, e.domainErr
	}
	if e.columns == nil {
		return nil, ErrNotFitted
	}
	cols, err := lookupColumns(t, e.columns)
	if err != nil {
		return nil, err
	}

	width := 0
	for _, d := range e.columns {
		width += len(d.values)
	}
	rows := t.Len()
	out := mat.NewDense(rows, width, nil)

	offset := 0
	for c, d := range e.columns {
		for i, v := range cols[c] {
			pos := d.position(v)
			if pos < 0 {
				if e.unknown == HandleUnknownIgnore {
					continue
				}
				return nil, &UnsupportedCategoryError{Column: d.name, Row: i, Value: v}
			}
			out.Set(i, offset+pos, 1)
		}
		offset += len(d.values)
	}
	return out, nil
}

func (e *CategoricalEncoder) FitTransform(t core.Table) (*mat.Dense, error) {
	if err := e.Fit(t); err != nil {
		return nil, err
	}
	return e.Transform(t)
}

// Categories returns the categories in use, per encoded column.
func (e *CategoricalEncoder) Categories() ([]ColumnCategories, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if e.domainErr != nil {
		return nil, e.domainErr
	}
	if e.columns == nil {
		return nil, ErrNotFitted
	}
	out := make([]ColumnCategories, len(e.columns))
	for i, d := range e.columns {
		out[i] = ColumnCategories{Column: d.name, Values: slices.Clone(d.values)}
	}
	return out, nil
}

// FeatureNames names the output columns as "<column>_<category>".
func (e *CategoricalEncoder) FeatureNames() ([]string, error) {
	cats, err := e.Categories()
	if err != nil {
		return nil, err
	}
	var names []string
	for _, c := range cats {
		for _, v := range c.Values {
			names = append(names, c.Column+"_"+categoryLabel(v))
		}
	}
	return names, nil
}

func categoryLabel(v any) string {
	if s, err := cast.ToStringE(v); err == nil {
		return s
	}
	return fmt.Sprint(v)
}

// lookupColumns resolves the encoded columns in t, in domain order.
func lookupColumns(t core.Table, domains []columnDomain) ([][]any, error) {
	cols := make([][]any, len(domains))
	var missing *MissingColumnError
	found := 0
	for i, d := range domains {
		col, ok := t.Column(d.name)
		if !ok {
			if missing == nil {
				missing = &MissingColumnError{Column: d.name}
			}
			continue
		}
		cols[i] = col
		found++
	}
	if found == 0 || t.Len() == 0 {
		return nil, xerrors.Errorf("%d of %d categorical columns present, %d rows: %w", found, len(domains), t.Len(), ErrEmptyInput)
	}
	if missing != nil {
		return nil, missing
	}
	return cols, nil
}
