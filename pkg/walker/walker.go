// Package walker lists and bulk-deletes the primary subtree of a subject.
package walker

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// Walker traverses a taxonomy.Store.
type Walker struct {
	store  taxonomy.Store
	logger *zerolog.Logger
}

// Option configures a Walker.
type Option func(*Walker)

// WithLogger sets the logger used when the context carries none.
func WithLogger(logger *zerolog.Logger) Option {
	return func(w *Walker) {
		w.logger = logger
	}
}

// New creates a Walker.
func New(store taxonomy.Store, opts ...Option) *Walker {
	w := &Walker{store: store}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

func (w *Walker) context(ctx context.Context) context.Context {
	if w.logger != nil && !logging.HasLogger(ctx) {
		return logging.WithLogger(ctx, w.logger)
	}
	return ctx
}

// ListPrimarySubtree returns the topics and resources below a subject in
// depth-first order. Only primary topic edges are followed; a secondary
// topic is listed but its contents are not. Resources are listed only when
// attached by a primary edge.
func (w *Walker) ListPrimarySubtree(ctx context.Context, subjectID string) ([]taxonomy.Child, error) {
	ctx = w.context(ctx)
	visited := map[string]bool{subjectID: true}
	var results []taxonomy.Child

	topics, err := w.store.ListChildren(ctx, taxonomy.KindSubject, subjectID, taxonomy.KindTopic)
	if err != nil {
		return nil, errors.WrapResource("list", "subject topics", subjectID, err)
	}
	for _, topic := range topics {
		if err := w.visitTopic(ctx, topic, visited, &results); err != nil {
			return nil, err
		}
	}

	logging.FromContext(ctx).Debug().
		Str("subject_id", subjectID).
		Int("count", len(results)).
		Msg("Listed primary subtree")
	return results, nil
}

func (w *Walker) visitTopic(ctx context.Context, topic taxonomy.Child, visited map[string]bool, results *[]taxonomy.Child) error {
	if visited[topic.ID] {
		return nil
	}
	visited[topic.ID] = true
	*results = append(*results, topic)

	if !topic.Primary {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	subtopics, err := w.store.ListChildren(ctx, taxonomy.KindTopic, topic.ID, taxonomy.KindTopic)
	if err != nil {
		return errors.WrapResource("list", "subtopics", topic.ID, err)
	}
	for _, sub := range subtopics {
		if err := w.visitTopic(ctx, sub, visited, results); err != nil {
			return err
		}
	}

	resources, err := w.store.ListChildren(ctx, taxonomy.KindTopic, topic.ID, taxonomy.KindResource)
	if err != nil {
		return errors.WrapResource("list", "topic resources", topic.ID, err)
	}
	for _, r := range resources {
		if !r.Primary || visited[r.ID] {
			continue
		}
		visited[r.ID] = true
		*results = append(*results, r)
	}
	return nil
}

// DeleteFailure is one node that could not be deleted.
type DeleteFailure struct {
	Child taxonomy.Child `json:"child" yaml:"child"`
	Error string         `json:"error" yaml:"error"`
}

// DeleteReport summarises DeleteAll.
type DeleteReport struct {
	Deleted int             `json:"deleted" yaml:"deleted"`
	Failed  []DeleteFailure `json:"failed,omitempty" yaml:"failed,omitempty"`
}

// DeleteAll deletes every child, deepest first. A failed delete is logged
// and recorded; the remaining deletes still run. Only cancellation stops
// the batch early.
func (w *Walker) DeleteAll(ctx context.Context, children []taxonomy.Child) DeleteReport {
	ctx = w.context(ctx)
	logger := logging.FromContext(ctx)
	var report DeleteReport

	for i := len(children) - 1; i >= 0; i-- {
		child := children[i]
		if ctx.Err() != nil {
			report.Failed = append(report.Failed, DeleteFailure{Child: child, Error: ctx.Err().Error()})
			continue
		}
		if err := w.store.DeleteEntity(ctx, child.Kind, child.ID); err != nil {
			logger.Warn().
				Err(err).
				Str("kind", child.Kind.String()).
				Str("entity_id", child.ID).
				Str("operation", "delete").
				Msg("Delete failed")
			report.Failed = append(report.Failed, DeleteFailure{Child: child, Error: err.Error()})
			continue
		}
		report.Deleted++
	}

	logger.Info().
		Int("deleted", report.Deleted).
		Int("failed", len(report.Failed)).
		Msg("Deleted subtree")
	return report
}
