package dataprep

import "go.uber.org/zap"

// UnknownPolicy decides what Transform does with a value outside a column's
// category domain.
type UnknownPolicy int

const (
	// HandleUnknownError fails the whole Transform call.
	HandleUnknownError UnknownPolicy = iota
	// HandleUnknownIgnore leaves the column's one-hot block all zeros.
	HandleUnknownIgnore
)

func (p UnknownPolicy) String() string {
	switch p {
	case HandleUnknownError:
		return "error"
	case HandleUnknownIgnore:
		return "ignore"
	default:
		return "unknown"
	}
}

type options struct {
	categories CategoryDomain
	unknown    UnknownPolicy
	lgr        *zap.Logger
}

func defaultOptions() options {
	return options{
		categories: AutoCategories(),
		unknown:    HandleUnknownError,
		lgr:        zap.NewNop(),
	}
}

type Option func(*options)

// WithCategories sets the encoder's category domain. Ignored by ColumnSelector.
func WithCategories(d CategoryDomain) Option {
	return func(o *options) { o.categories = d }
}

// WithHandleUnknown sets the encoder's unknown value policy. Ignored by ColumnSelector.
func WithHandleUnknown(p UnknownPolicy) Option {
	return func(o *options) { o.unknown = p }
}

func WithLogger(lgr *zap.Logger) Option {
	return func(o *options) {
		if lgr != nil {
			o.lgr = lgr
		}
	}
}
