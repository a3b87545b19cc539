package importer

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/pkg/taxonomy/resourcetypes"
)

// BatchFlusher is implemented by stores that tag calls with a batch flag.
// Turning batch mode off before the final call asks the remote side to
// rebuild its derived indexes.
type BatchFlusher interface {
	SetBatchMode(on bool)
}

type options struct {
	deleteFirst bool
	mapURLs     bool
	flusher     BatchFlusher
	logger      *zerolog.Logger
	types       *resourcetypes.Table
}

// Option configures an Importer.
type Option func(*options)

// WithDeleteFirst deletes the subject's primary subtree before importing.
func WithDeleteFirst(enabled bool) Option {
	return func(o *options) {
		o.deleteFirst = enabled
	}
}

// WithURLMapping maps legacy URLs to the imported nodes.
func WithURLMapping(enabled bool) Option {
	return func(o *options) {
		o.mapURLs = enabled
	}
}

// WithBatchFlusher sets who receives the end-of-run flush. Stores that
// implement BatchFlusher are used by default.
func WithBatchFlusher(f BatchFlusher) Option {
	return func(o *options) {
		o.flusher = f
	}
}

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithResourceTypes replaces the built-in resource type table.
func WithResourceTypes(t *resourcetypes.Table) Option {
	return func(o *options) {
		o.types = t
	}
}
