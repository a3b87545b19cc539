// Package reconciler makes the remote taxonomy graph match parsed entities.
// Each call probes for the node, updates or creates it, then brings its
// parent edge, resource types, filters and translations in line. Only the
// probe and the node write are fatal; everything after is logged and
// counted so that one bad association does not stop an import.
package reconciler

import (
	"context"
	"slices"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/tracing"
)

// Reconciler drives a taxonomy.Store. It keeps no per-run state; that lives
// in Run.
type Reconciler struct {
	store      taxonomy.Store
	logger     *zerolog.Logger
	mapURLs    bool
	relevances map[string]string
}

// New creates a Reconciler with options.
func New(store taxonomy.Store, opts ...Option) (*Reconciler, error) {
	if store == nil {
		return nil, &errors.ValidationError{
			Field:   "store",
			Message: "cannot be nil",
		}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}

	r := &Reconciler{
		store:      store,
		logger:     options.logger,
		mapURLs:    options.mapURLs,
		relevances: make(map[string]string, len(options.relevances)),
	}
	for name, id := range options.relevances {
		r.relevances[taxonomy.FoldName(name)] = id
	}
	return r, nil
}

// Reconcile brings one entity and its edges in line with the remote store.
// On create, the assigned id is written back to e.ID.
func (r *Reconciler) Reconcile(ctx context.Context, run *Run, e *taxonomy.Entity) (Outcome, error) {
	if e == nil {
		return OutcomeNone, nil
	}
	if r.logger != nil && !logging.HasLogger(ctx) {
		ctx = logging.WithLogger(ctx, r.logger)
	}
	if e.Row > 0 {
		ctx = logging.WithRow(ctx, e.Row)
	}

	id := e.ResolveID()
	if id == "" {
		logging.FromContext(ctx).Warn().
			Str("kind", e.Kind.String()).
			Str("name", e.Name).
			Msg("Skipping entity without id or legacy node id")
		run.stats.count(e.Kind, OutcomeSkipped)
		return OutcomeSkipped, nil
	}
	ctx = logging.WithEntity(ctx, e.Kind.String(), id)

	ctx, span := tracing.StartSpan(ctx, "reconciler.Reconcile",
		attribute.String("taxonomy.kind", e.Kind.String()),
		attribute.String("taxonomy.id", id),
	)
	outcome, err := r.reconcileNode(ctx, e, id)
	tracing.End(span, err)
	if err != nil {
		return outcome, err
	}
	run.stats.count(e.Kind, outcome)

	r.reconcileParent(ctx, run, e)
	if e.Kind != taxonomy.KindSubject {
		r.reconcileResourceTypes(ctx, run, e)
		r.reconcileFilters(ctx, run, e)
	}
	r.upsertTranslations(ctx, run, e)
	r.mapURL(ctx, run, e)

	return outcome, nil
}

// reconcileNode probes for the node and updates or creates it.
func (r *Reconciler) reconcileNode(ctx context.Context, e *taxonomy.Entity, id string) (Outcome, error) {
	logger := logging.FromContext(ctx)

	probe := r.store.ProbeEntity(ctx, e.Kind, id)
	switch probe.Status {
	case taxonomy.ProbeFound:
		name, contentURI := e.Name, e.ContentURI
		if name == "" {
			name = probe.Entity.Name
		}
		if contentURI == "" {
			contentURI = probe.Entity.ContentURI
		}
		if err := r.store.UpdateEntity(ctx, e.Kind, id, name, contentURI); err != nil {
			return OutcomeNone, errors.WrapResource("update", e.Kind.String(), id, err)
		}
		e.ID = id
		logger.Debug().Str("name", name).Msg("Updated entity")
		return OutcomeUpdated, nil

	case taxonomy.ProbeNotFound:
		if strings.TrimSpace(e.Name) == "" {
			return OutcomeNone, errors.WrapResource("create", e.Kind.String(), id,
				errors.NewValidationError("name", e.Name, "name is required to create a node"))
		}
		created, err := r.store.CreateEntity(ctx, e.Kind, id, e.Name, e.ContentURI)
		if err != nil {
			return OutcomeNone, errors.WrapResource("create", e.Kind.String(), id, err)
		}
		if created == "" {
			created = id
		}
		e.ID = created
		logger.Debug().Str("name", e.Name).Str("created_id", created).Msg("Created entity")
		return OutcomeCreated, nil

	default:
		err := probe.Err
		if err == nil {
			err = errors.New("probe failed")
		}
		return OutcomeNone, errors.WrapResource("probe", e.Kind.String(), id, err)
	}
}

// warn logs a non-fatal failure and counts it.
func (r *Reconciler) warn(ctx context.Context, run *Run, operation string, err error) {
	run.stats.Warnings++
	logging.FromContext(ctx).Warn().
		Err(err).
		Str("operation", operation).
		Msg("Reconcile step failed")
}

func (r *Reconciler) reconcileParent(ctx context.Context, run *Run, e *taxonomy.Entity) {
	parent := e.Parent
	if parent == nil {
		return
	}
	if !taxonomy.EdgeAllowed(parent.Kind, e.Kind) {
		r.warn(ctx, run, "associate", errors.NewValidationError("parent", parent.Kind.String(),
			"a "+e.Kind.String()+" cannot be placed directly below a "+parent.Kind.String()))
		return
	}
	parentID := parent.ResolveID()
	if parentID == "" {
		r.warn(ctx, run, "associate", errors.NewValidationError("parent", parent.Name, "parent has no id"))
		return
	}

	assocs, err := r.store.ListAssociations(ctx, parent.Kind, parentID, e.Kind)
	if err != nil {
		r.warn(ctx, run, "list associations", err)
		return
	}
	for _, a := range assocs {
		if a.ChildID != e.ID {
			continue
		}
		if a.Rank == e.Rank && a.Primary == e.IsPrimary {
			return
		}
		if err := r.store.UpdateAssociation(ctx, parent.Kind, e.Kind, a.ID, e.Rank, e.IsPrimary); err != nil {
			r.warn(ctx, run, "update association", err)
			return
		}
		run.stats.AssociationsUpdated++
		return
	}

	if _, err := r.store.CreateAssociation(ctx, parent.Kind, parentID, e.Kind, e.ID, e.Rank, e.IsPrimary); err != nil {
		r.warn(ctx, run, "create association", err)
		return
	}
	run.stats.AssociationsCreated++
}

func (r *Reconciler) reconcileResourceTypes(ctx context.Context, run *Run, e *taxonomy.Entity) {
	remote, err := r.store.ListResourceTypes(ctx, e.Kind, e.ID)
	if err != nil {
		r.warn(ctx, run, "list resource types", err)
		return
	}

	remoteNames := make(map[string]bool, len(remote))
	for _, rt := range remote {
		remoteNames[taxonomy.FoldName(rt.Name)] = true
	}
	localNames := make(map[string]bool, len(e.ResourceTypes))
	for _, rt := range e.ResourceTypes {
		localNames[taxonomy.FoldName(rt.Name)] = true
	}

	for _, rt := range e.ResourceTypes {
		if remoteNames[taxonomy.FoldName(rt.Name)] {
			continue
		}
		typeID, err := r.resourceTypeID(ctx, run, e, rt)
		if err != nil {
			r.warn(ctx, run, "resolve resource type", err)
			continue
		}
		if err := r.store.AttachResourceType(ctx, e.Kind, e.ID, typeID); err != nil {
			r.warn(ctx, run, "attach resource type", err)
			continue
		}
		run.stats.TypesAttached++
	}

	for _, rt := range remote {
		if localNames[taxonomy.FoldName(rt.Name)] {
			continue
		}
		if err := r.store.DetachResourceType(ctx, e.Kind, rt.ConnectionID); err != nil {
			r.warn(ctx, run, "detach resource type", err)
			continue
		}
		run.stats.TypesDetached++
	}
}

// resourceTypeID resolves rt through the run cache, creating it remotely
// under its parent when the catalog lacks it.
func (r *Reconciler) resourceTypeID(ctx context.Context, run *Run, e *taxonomy.Entity, rt taxonomy.ResourceType) (string, error) {
	return run.resourceTypes.Resolve(ctx, rt.Name, func(ctx context.Context) (string, error) {
		parentID, err := r.resourceTypeParentID(ctx, run, e, rt.ParentName)
		if err != nil {
			return "", err
		}
		return r.store.CreateResourceType(ctx, rt.ID, rt.Name, parentID)
	})
}

func (r *Reconciler) resourceTypeParentID(ctx context.Context, run *Run, e *taxonomy.Entity, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	i := slices.IndexFunc(e.ResourceTypes, func(rt taxonomy.ResourceType) bool {
		return taxonomy.FoldName(rt.Name) == taxonomy.FoldName(name)
	})
	if i >= 0 {
		return r.resourceTypeID(ctx, run, e, e.ResourceTypes[i])
	}
	id, _, err := run.resourceTypes.Lookup(ctx, name)
	return id, err
}

func (r *Reconciler) reconcileFilters(ctx context.Context, run *Run, e *taxonomy.Entity) {
	remote, err := r.store.ListFilters(ctx, e.Kind, e.ID)
	if err != nil {
		r.warn(ctx, run, "list filters", err)
		return
	}

	remoteNames := make(map[string]bool, len(remote))
	for _, f := range remote {
		remoteNames[taxonomy.FoldName(f.Name)] = true
	}
	localNames := make(map[string]bool, len(e.Filters))
	for _, f := range e.Filters {
		localNames[taxonomy.FoldName(f.Name)] = true
	}

	for _, f := range e.Filters {
		if remoteNames[taxonomy.FoldName(f.Name)] {
			continue
		}
		filterID, err := run.filters.Resolve(ctx, f.Name, func(ctx context.Context) (string, error) {
			return r.store.CreateFilter(ctx, f.Name, run.SubjectID)
		})
		if err != nil {
			r.warn(ctx, run, "resolve filter", err)
			continue
		}
		relevanceID, err := r.relevanceID(ctx, run, f.RelevanceName)
		if err != nil {
			r.warn(ctx, run, "resolve relevance", err)
			continue
		}
		if err := r.store.AttachFilter(ctx, e.Kind, e.ID, filterID, relevanceID); err != nil {
			r.warn(ctx, run, "attach filter", err)
			continue
		}
		run.stats.FiltersAttached++
	}

	for _, f := range remote {
		if localNames[taxonomy.FoldName(f.Name)] {
			continue
		}
		if err := r.store.DetachFilter(ctx, e.Kind, f.ConnectionID); err != nil {
			r.warn(ctx, run, "detach filter", err)
			continue
		}
		run.stats.FiltersDetached++
	}
}

// relevanceID maps a relevance name to its id. The fixed names never reach
// the store; a blank name means no relevance.
func (r *Reconciler) relevanceID(ctx context.Context, run *Run, name string) (string, error) {
	if name == "" {
		return "", nil
	}
	if id, ok := r.relevances[taxonomy.FoldName(name)]; ok {
		return id, nil
	}
	return run.relevances.Resolve(ctx, name, func(ctx context.Context) (string, error) {
		return r.store.CreateRelevance(ctx, "", name)
	})
}

func (r *Reconciler) upsertTranslations(ctx context.Context, run *Run, e *taxonomy.Entity) {
	languages := make([]string, 0, len(e.Translations))
	for lang := range e.Translations {
		languages = append(languages, lang)
	}
	slices.Sort(languages)

	for _, lang := range languages {
		if err := r.store.UpsertTranslation(ctx, e.Kind, e.ID, lang, e.Translations[lang].Name); err != nil {
			r.warn(ctx, run, "upsert translation", err)
			continue
		}
		run.stats.Translations++
	}
}

func (r *Reconciler) mapURL(ctx context.Context, run *Run, e *taxonomy.Entity) {
	if !r.mapURLs || e.LegacyURL == "" {
		return
	}
	if err := r.store.MapLegacyURL(ctx, e.LegacyURL, e.ID, run.SubjectID); err != nil {
		r.warn(ctx, run, "map url", err)
		return
	}
	run.stats.URLMappings++
}
