package reconciler

import (
	"context"
	"maps"

	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// Outcome is what Reconcile did with the node itself.
type Outcome int

// Reconcile outcomes.
const (
	OutcomeNone Outcome = iota
	OutcomeSkipped
	OutcomeCreated
	OutcomeUpdated
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeCreated:
		return "created"
	case OutcomeUpdated:
		return "updated"
	default:
		return "none"
	}
}

// Stats counts the remote effects of one run.
type Stats struct {
	Created  map[taxonomy.Kind]int `json:"created" yaml:"created"`
	Updated  map[taxonomy.Kind]int `json:"updated" yaml:"updated"`
	Skipped  int                   `json:"skipped" yaml:"skipped"`
	Warnings int                   `json:"warnings" yaml:"warnings"`

	AssociationsCreated int `json:"associations_created" yaml:"associations_created"`
	AssociationsUpdated int `json:"associations_updated" yaml:"associations_updated"`
	TypesAttached       int `json:"types_attached" yaml:"types_attached"`
	TypesDetached       int `json:"types_detached" yaml:"types_detached"`
	FiltersAttached     int `json:"filters_attached" yaml:"filters_attached"`
	FiltersDetached     int `json:"filters_detached" yaml:"filters_detached"`
	Translations        int `json:"translations" yaml:"translations"`
	URLMappings         int `json:"url_mappings" yaml:"url_mappings"`
}

func newStats() Stats {
	return Stats{
		Created: make(map[taxonomy.Kind]int),
		Updated: make(map[taxonomy.Kind]int),
	}
}

func (s *Stats) count(kind taxonomy.Kind, o Outcome) {
	switch o {
	case OutcomeCreated:
		s.Created[kind]++
	case OutcomeUpdated:
		s.Updated[kind]++
	case OutcomeSkipped:
		s.Skipped++
	}
}

// Run is the state shared by every Reconcile call of one import: the three
// name caches and the counters. A Run belongs to one subject; filters are
// cached per subject, so never reuse a Run for another one.
type Run struct {
	SubjectID string

	resourceTypes *NameCache
	filters       *NameCache
	relevances    *NameCache
	stats         Stats
}

// NewRun starts a run below subjectID. Caches are seeded from the store on
// first use.
func (r *Reconciler) NewRun(subjectID string) *Run {
	return &Run{
		SubjectID:     subjectID,
		resourceTypes: NewNameCache(r.store.ResourceTypeCatalog),
		filters: NewNameCache(func(ctx context.Context) ([]taxonomy.NamedRef, error) {
			return r.store.SubjectFilters(ctx, subjectID)
		}),
		relevances: NewNameCache(r.store.Relevances),
		stats:      newStats(),
	}
}

// Stats returns a copy of the run counters.
func (run *Run) Stats() Stats {
	s := run.stats
	s.Created = maps.Clone(run.stats.Created)
	s.Updated = maps.Clone(run.stats.Updated)
	return s
}
