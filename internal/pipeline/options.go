package pipeline

import (
	"go.uber.org/zap"

	"github.com/ironsheep/goban-reader/internal/diagnostics"
)

// Option customises a Run or Read.
type Option func(*options)

type options struct {
	logger *zap.Logger
	sink   diagnostics.Sink
}

// WithLogger sets the logger stage summaries are written to at Debug.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSink sets the diagnostics sink.
func WithSink(s diagnostics.Sink) Option {
	return func(o *options) {
		if s != nil {
			o.sink = s
		}
	}
}

func newOptions(opts []Option) *options {
	o := &options{
		logger: zap.NewNop(),
		sink:   diagnostics.Nop{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// observed reports whether anything listens on the sink, so that images
// only it would see are not rendered for nothing.
func (o *options) observed() bool {
	_, nop := o.sink.(diagnostics.Nop)
	return !nop
}
