package taxonomy

import (
	"context"
)

// RemoteEntity is a node as the remote store reports it.
type RemoteEntity struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ContentURI string `json:"content_uri,omitempty"`
}

// Association is a parent/child edge.
type Association struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	ChildID  string `json:"child_id"`
	Rank     int    `json:"rank"`
	Primary  bool   `json:"primary"`
}

// AttachedResourceType is a resource type linked to a node.
type AttachedResourceType struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	ParentID     string `json:"parent_id,omitempty"`
	ConnectionID string `json:"connection_id"`
}

// AttachedFilter is a filter linked to a node.
type AttachedFilter struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	RelevanceID  string `json:"relevance_id,omitempty"`
	ConnectionID string `json:"connection_id"`
}

// NamedRef is an id/name pair from a catalog listing.
type NamedRef struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// Child is a node found below a parent by the bulk walker.
type Child struct {
	ID       string `json:"id" yaml:"id"`
	Name     string `json:"name" yaml:"name"`
	Kind     Kind   `json:"kind" yaml:"kind"`
	Primary  bool   `json:"primary" yaml:"primary"`
	ParentID string `json:"parent_id,omitempty" yaml:"parent_id,omitempty"`
}

// ProbeStatus is the outcome of an existence probe.
type ProbeStatus int

// Probe outcomes.
const (
	ProbeFound ProbeStatus = iota
	ProbeNotFound
	ProbeError
)

// String returns the status name.
func (s ProbeStatus) String() string {
	switch s {
	case ProbeFound:
		return "found"
	case ProbeNotFound:
		return "not_found"
	default:
		return "error"
	}
}

// ProbeResult carries the remote node when found, or the transport error.
type ProbeResult struct {
	Status ProbeStatus
	Entity RemoteEntity
	Err    error
}

// Found builds a ProbeFound result.
func Found(e RemoteEntity) ProbeResult {
	return ProbeResult{Status: ProbeFound, Entity: e}
}

// NotFound builds a ProbeNotFound result.
func NotFound() ProbeResult {
	return ProbeResult{Status: ProbeNotFound}
}

// ProbeFailed builds a ProbeError result.
func ProbeFailed(err error) ProbeResult {
	return ProbeResult{Status: ProbeError, Err: err}
}

// Store is the remote taxonomy graph as seen by the reconciler and walker.
type Store interface {
	ProbeEntity(ctx context.Context, kind Kind, id string) ProbeResult
	CreateEntity(ctx context.Context, kind Kind, id, name, contentURI string) (string, error)
	UpdateEntity(ctx context.Context, kind Kind, id, name, contentURI string) error
	DeleteEntity(ctx context.Context, kind Kind, id string) error

	ListAssociations(ctx context.Context, parentKind Kind, parentID string, childKind Kind) ([]Association, error)
	CreateAssociation(ctx context.Context, parentKind Kind, parentID string, childKind Kind, childID string, rank int, primary bool) (string, error)
	UpdateAssociation(ctx context.Context, parentKind, childKind Kind, associationID string, rank int, primary bool) error
	ListChildren(ctx context.Context, parentKind Kind, parentID string, childKind Kind) ([]Child, error)

	ResourceTypeCatalog(ctx context.Context) ([]NamedRef, error)
	CreateResourceType(ctx context.Context, id, name, parentID string) (string, error)
	ListResourceTypes(ctx context.Context, kind Kind, entityID string) ([]AttachedResourceType, error)
	AttachResourceType(ctx context.Context, kind Kind, entityID, typeID string) error
	DetachResourceType(ctx context.Context, kind Kind, connectionID string) error

	SubjectFilters(ctx context.Context, subjectID string) ([]NamedRef, error)
	CreateFilter(ctx context.Context, name, subjectID string) (string, error)
	ListFilters(ctx context.Context, kind Kind, entityID string) ([]AttachedFilter, error)
	AttachFilter(ctx context.Context, kind Kind, entityID, filterID, relevanceID string) error
	DetachFilter(ctx context.Context, kind Kind, connectionID string) error

	Relevances(ctx context.Context) ([]NamedRef, error)
	CreateRelevance(ctx context.Context, id, name string) (string, error)

	UpsertTranslation(ctx context.Context, kind Kind, id, language, name string) error
	MapLegacyURL(ctx context.Context, oldURL, nodeID, subjectID string) error
}

// EdgeAllowed reports whether parent→child is an edge kind the graph supports.
func EdgeAllowed(parent, child Kind) bool {
	switch {
	case parent == KindSubject && child == KindTopic:
		return true
	case parent == KindTopic && child == KindTopic:
		return true
	case parent == KindTopic && child == KindResource:
		return true
	}
	return false
}
