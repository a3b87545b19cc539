// Package importer runs one TSV import: parse rows in order, reconcile each
// entity against the store, and flush the batch when done.
package importer

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
	"github.com/agentstation/taxonomy-import/pkg/reconciler"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/tracing"
	"github.com/agentstation/taxonomy-import/pkg/tsv"
	"github.com/agentstation/taxonomy-import/pkg/walker"
)

// SubjectRef names the root subject every top-level topic attaches to.
type SubjectRef struct {
	ID   string
	Name string
}

// Importer drives the parser and the reconciler.
type Importer struct {
	reconciler  *reconciler.Reconciler
	walker      *walker.Walker
	deleteFirst bool
	flusher     BatchFlusher
	logger      *zerolog.Logger
	parserOpts  []tsv.Option
}

// New creates an Importer for store.
func New(store taxonomy.Store, opts ...Option) (*Importer, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}

	recOpts := []reconciler.Option{reconciler.WithURLMapping(o.mapURLs)}
	if o.logger != nil {
		recOpts = append(recOpts, reconciler.WithLogger(o.logger))
	}
	rec, err := reconciler.New(store, recOpts...)
	if err != nil {
		return nil, err
	}

	flusher := o.flusher
	if flusher == nil {
		flusher, _ = store.(BatchFlusher)
	}

	im := &Importer{
		reconciler:  rec,
		walker:      walker.New(store, walker.WithLogger(o.logger)),
		deleteFirst: o.deleteFirst,
		flusher:     flusher,
		logger:      o.logger,
	}
	if o.types != nil {
		im.parserOpts = append(im.parserOpts, tsv.WithResourceTypes(o.types))
	}
	return im, nil
}

// Run imports the table read from r below subject. The returned summary is
// non-nil whenever the header was valid, including on a fatal row error, so
// callers can report how far the run got.
func (im *Importer) Run(ctx context.Context, r io.Reader, subject SubjectRef) (*Summary, error) {
	subject.ID = strings.TrimSpace(subject.ID)
	if subject.ID == "" {
		return nil, errors.NewValidationError("subject_id", subject.ID, "subject id is required")
	}
	if im.logger != nil && !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, im.logger)
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		SubjectID: subject.ID,
		StartedAt: utc.Now(),
	}
	ctx = logging.WithRunID(ctx, summary.RunID)
	ctx = logging.WithSubject(ctx, subject.ID)
	logger := logging.FromContext(ctx)

	ctx, span := tracing.StartSpan(ctx, "importer.Run", attribute.String("taxonomy.subject_id", subject.ID))
	var err error
	defer func() { tracing.End(span, err) }()

	parser, err := tsv.NewParser(r, im.parserOpts...)
	if err != nil {
		return nil, err
	}
	logger.Info().Int("header_row", parser.HeaderRow()).Msg("Starting import")

	if im.deleteFirst {
		if err = im.deleteSubtree(ctx, subject.ID, summary); err != nil {
			summary.finish(nil)
			return summary, err
		}
	}

	run := im.reconciler.NewRun(subject.ID)
	root := taxonomy.NewEntity(taxonomy.KindSubject).ID(subject.ID).Name(subject.Name).Build()
	if _, err = im.reconciler.Reconcile(ctx, run, root); err != nil {
		summary.finish(run)
		return summary, err
	}

	st := tsv.NewState(root)
	for {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", errors.ErrCanceled, ctxErr)
			summary.finish(run)
			return summary, err
		}

		var e *taxonomy.Entity
		e, err = parser.Next(st)
		if err == io.EOF {
			err = nil
			break
		}
		if err != nil {
			summary.finish(run)
			return summary, err
		}
		summary.RowsRead++
		if e == nil {
			summary.RowsSkipped++
			continue
		}

		if _, err = im.reconciler.Reconcile(ctx, run, e); err != nil {
			summary.finish(run)
			err = fmt.Errorf("row %d: %w", e.Row, err)
			return summary, err
		}
		summary.Entities++
	}

	if err = im.flush(ctx, root); err != nil {
		summary.finish(run)
		return summary, err
	}

	summary.finish(run)
	logger.Info().
		Int("rows", summary.RowsRead).
		Int("entities", summary.Entities).
		Int("created", summary.Created()).
		Int("updated", summary.Updated()).
		Int("warnings", summary.Reconcile.Warnings).
		Dur("duration", summary.Duration).
		Msg("Import complete")
	return summary, nil
}

func (im *Importer) deleteSubtree(ctx context.Context, subjectID string, summary *Summary) error {
	children, err := im.walker.ListPrimarySubtree(ctx, subjectID)
	if err != nil {
		return err
	}
	report := im.walker.DeleteAll(ctx, children)
	summary.Deleted = report.Deleted
	summary.DeleteFailures = len(report.Failed)
	return nil
}

// flush turns batch mode off and touches the root subject once more. The
// flush uses its own run so that it does not show up in the counts.
func (im *Importer) flush(ctx context.Context, root *taxonomy.Entity) error {
	if im.flusher == nil {
		return nil
	}
	im.flusher.SetBatchMode(false)
	logging.FromContext(ctx).Debug().Msg("Flushing batch")

	flush := taxonomy.NewEntity(taxonomy.KindSubject).ID(root.ID).Name(root.Name).Build()
	_, err := im.reconciler.Reconcile(ctx, im.reconciler.NewRun(root.ID), flush)
	return err
}

// Validate parses the table without touching any store and returns the
// entities in row order.
func Validate(r io.Reader, subject SubjectRef, opts ...tsv.Option) ([]*taxonomy.Entity, error) {
	parser, err := tsv.NewParser(r, opts...)
	if err != nil {
		return nil, err
	}
	root := taxonomy.NewEntity(taxonomy.KindSubject).ID(subject.ID).Name(subject.Name).Build()
	st := tsv.NewState(root)

	var out []*taxonomy.Entity
	for {
		e, err := parser.Next(st)
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return out, err
		}
		if e != nil {
			out = append(out, e)
		}
	}
}
