package validate

import (
	"time"

	"go.uber.org/zap"

	"storefront-wizard/internal/model"
)

const (
	DefaultValidateDelay = 500 * time.Millisecond
	DefaultTrimDelay     = 2500 * time.Millisecond
)

type options struct {
	log     *zap.Logger
	observe func(model.ValidationState)
}

type Option func(*options)

func WithLogger(log *zap.Logger) Option {
	return func(o *options) {
		if log != nil {
			o.log = log
		}
	}
}

// WithObserver registers a callback invoked on every validation state change.
func WithObserver(fn func(model.ValidationState)) Option {
	return func(o *options) {
		o.observe = fn
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func durationOr(d, def time.Duration) time.Duration {
	if d <= 0 {
		return def
	}
	return d
}
