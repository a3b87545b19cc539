package reconciler

import (
	"maps"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
)

// options configures a reconciler.
type options struct {
	logger     *zerolog.Logger
	mapURLs    bool
	relevances map[string]string
}

func defaultOptions() *options {
	return &options{
		relevances: map[string]string{
			constants.RelevanceNameCore:          constants.RelevanceCore,
			constants.RelevanceNameSupplementary: constants.RelevanceSupplementary,
		},
	}
}

// Option is a function that configures a Reconciler.
type Option func(*options) error

func (o *options) apply(opts ...Option) (*options, error) {
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	return o, nil
}

// newOptions returns reconciler options with default values.
func newOptions(opts ...Option) (*options, error) {
	return defaultOptions().apply(opts...)
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) error {
		if logger == nil {
			return &errors.ValidationError{
				Field:   "logger",
				Message: "cannot be nil",
			}
		}
		o.logger = logger
		return nil
	}
}

// WithURLMapping maps each entity's legacy URL to its new id.
func WithURLMapping(enabled bool) Option {
	return func(o *options) error {
		o.mapURLs = enabled
		return nil
	}
}

// WithRelevances adds or overrides fixed relevance name to id mappings.
func WithRelevances(relevances map[string]string) Option {
	return func(o *options) error {
		maps.Copy(o.relevances, relevances)
		return nil
	}
}
