package buddy

import (
	"github.com/fagongzi/buddy/region"
	"go.uber.org/zap"
)

// Option pool option
type Option func(*options)

type options struct {
	logger   *zap.Logger
	provider region.Provider
}

func (opts *options) adjust() {
	if opts.logger == nil {
		opts.logger = logger
	}
	if opts.provider == nil {
		opts.provider = region.Default()
	}
}

// WithLogger set logger
func WithLogger(value *zap.Logger) Option {
	return func(opts *options) {
		opts.logger = value
	}
}

// WithRegionProvider set the provider that reserves the pool's arena
func WithRegionProvider(value region.Provider) Option {
	return func(opts *options) {
		opts.provider = value
	}
}
