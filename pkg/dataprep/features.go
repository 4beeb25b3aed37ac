package dataprep

import (
	"slices"

	"go.uber.org/zap"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

// ColumnSelector selects a fixed, ordered set of named columns.
type ColumnSelector struct {
	features []string
	lgr      *zap.Logger
}

// NewColumnSelector stores the column names to select. Repeated names are
// kept once, at their first position. Names are not checked until Transform.
func NewColumnSelector(features []string, opts ...Option) *ColumnSelector {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	uniq := make([]string, 0, len(features))
	for _, f := range features {
		if !slices.Contains(uniq, f) {
			uniq = append(uniq, f)
		}
	}
	return &ColumnSelector{features: uniq, lgr: o.lgr}
}

func (s *ColumnSelector) Features() []string { return slices.Clone(s.features) }

// Fit is a no-op.
func (s *ColumnSelector) Fit(core.Table) error { return nil }

// Transform returns a new table holding exactly the selected columns, in
// selection order. The input table is not modified.
func (s *ColumnSelector) Transform(t core.Table) (core.Table, error) {
	series := make([]core.Series, 0, len(s.features))
	for _, name := range s.features {
		col, ok := t.Column(name)
		if !ok {
			return nil, &MissingColumnError{Column: name}
		}
		series = append(series, core.Series{Name: name, Values: slices.Clone(col)})
	}
	s.lgr.Debug("selected columns", zap.Strings("columns", s.features), zap.Int("rows", t.Len()))
	return core.NewFrameRows(t.Len(), series...)
}

func (s *ColumnSelector) FitTransform(t core.Table) (core.Table, error) {
	if err := s.Fit(t); err != nil {
		return nil, err
	}
	return s.Transform(t)
}
