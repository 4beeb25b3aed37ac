package pipeline

import (
	"golang.org/x/xerrors"

	"github.com/OlehKSS/motorbike-ambulance-calls/pkg/core"
)

// Transformer interface for fit/transform pattern.
type Transformer[T any] interface {
	Fit(X core.Table) error
	Transform(X core.Table) (T, error)
}

// Pipeline chains table transformers into a final transformer.
type Pipeline[T any] struct {
	steps []Transformer[core.Table]
	final Transformer[T]
}

func New[T any](final Transformer[T], steps ...Transformer[core.Table]) *Pipeline[T] {
	return &Pipeline[T]{steps: steps, final: final}
}

// Fit fits every step on the output of the previous one.
func (p *Pipeline[T]) Fit(X core.Table) error {
	for i, step := range p.steps {
		if err := step.Fit(X); err != nil {
			return xerrors.Errorf("step %d: fit: %w", i, err)
		}
		var err error
		if X, err = step.Transform(X); err != nil {
			return xerrors.Errorf("step %d: transform: %w", i, err)
		}
	}
	if err := p.final.Fit(X); err != nil {
		return xerrors.Errorf("step %d: fit: %w", len(p.steps), err)
	}
	return nil
}

func (p *Pipeline[T]) Transform(X core.Table) (T, error) {
	var zero T
	for i, step := range p.steps {
		var err error
		if X, err = step.Transform(X); err != nil {
			return zero, xerrors.Errorf("step %d: transform: %w", i, err)
		}
	}
	out, err := p.final.Transform(X)
	if err != nil {
		return zero, xerrors.Errorf("step %d: transform: %w", len(p.steps), err)
	}
	return out, nil
}

func (p *Pipeline[T]) FitTransform(X core.Table) (T, error) {
	if err := p.Fit(X); err != nil {
		var zero T
		return zero, err
	}
	return p.Transform(X)
}
