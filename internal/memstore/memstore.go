// Package memstore is an in-memory taxonomy.Store. It backs --dry-run
// imports and the reconciler, walker and importer tests.
package memstore

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

const service = "memstore"

// Call is one recorded Store invocation.
type Call struct {
	Method string
	Args   []string
}

func (c Call) String() string {
	return fmt.Sprintf("%s%v", c.Method, c.Args)
}

type node struct {
	kind         taxonomy.Kind
	entity       taxonomy.RemoteEntity
	translations map[string]string
}

type edge struct {
	parentKind taxonomy.Kind
	childKind  taxonomy.Kind
	assoc      taxonomy.Association
}

type link struct {
	kind         taxonomy.Kind
	entityID     string
	targetID     string
	relevanceID  string
	connectionID string
}

type filterDef struct {
	ref       taxonomy.NamedRef
	subjectID string
}

// Store is a concurrent safe in-memory graph.
type Store struct {
	mu sync.RWMutex

	nodes         map[string]*node
	edges         []*edge
	resourceTypes []taxonomy.NamedRef
	typeLinks     []link
	filters       []filterDef
	filterLinks   []link
	relevances    []taxonomy.NamedRef
	urlMappings   map[string]link

	batch    bool
	calls    []Call
	failures map[string]error
}

// Option configures a Store.
type Option func(*Store)

// WithEntity seeds a node.
func WithEntity(kind taxonomy.Kind, e taxonomy.RemoteEntity) Option {
	return func(s *Store) {
		s.nodes[e.ID] = &node{kind: kind, entity: e, translations: map[string]string{}}
	}
}

// WithResourceTypeCatalog seeds the resource type catalog.
func WithResourceTypeCatalog(refs []taxonomy.NamedRef) Option {
	return func(s *Store) {
		s.resourceTypes = append(s.resourceTypes, refs...)
	}
}

// WithSubjectFilter seeds a filter owned by a subject.
func WithSubjectFilter(subjectID string, ref taxonomy.NamedRef) Option {
	return func(s *Store) {
		s.filters = append(s.filters, filterDef{ref: ref, subjectID: subjectID})
	}
}

// New creates an empty store. The two well-known relevances always exist.
func New(opts ...Option) *Store {
	s := &Store{
		nodes:       make(map[string]*node),
		urlMappings: make(map[string]link),
		failures:    make(map[string]error),
		batch:       true,
		relevances: []taxonomy.NamedRef{
			{ID: constants.RelevanceCore, Name: constants.RelevanceNameCore},
			{ID: constants.RelevanceSupplementary, Name: constants.RelevanceNameSupplementary},
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// FailOn makes every later call to method return err. A nil err clears it.
func (s *Store) FailOn(method string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.failures, method)
		return
	}
	s.failures[method] = err
}

// Calls returns every recorded call in order.
func (s *Store) Calls() []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.calls)
}

// CallsTo returns the recorded calls of one method.
func (s *Store) CallsTo(method string) []Call {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []Call
	for _, c := range s.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

// ResetCalls clears the call log.
func (s *Store) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// SetBatchMode records the batch flag the way the REST client sends it.
func (s *Store) SetBatchMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batch = on
	s.calls = append(s.calls, Call{Method: "SetBatchMode", Args: []string{fmt.Sprint(on)}})
}

// BatchMode reports the current batch flag.
func (s *Store) BatchMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.batch
}

// Entity returns a stored node.
func (s *Store) Entity(id string) (taxonomy.RemoteEntity, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return taxonomy.RemoteEntity{}, false
	}
	return n.entity, true
}

// Len returns the number of stored nodes.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.nodes)
}

// Translation returns the stored translation of a node.
func (s *Store) Translation(id, language string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.nodes[id]
	if !ok {
		return "", false
	}
	name, ok := n.translations[language]
	return name, ok
}

// URLMapping returns the node an old URL was mapped to.
func (s *Store) URLMapping(oldURL string) (nodeID, subjectID string, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	l, ok := s.urlMappings[oldURL]
	return l.entityID, l.targetID, ok
}

// record logs the call and returns any injected failure. Caller holds mu.
func (s *Store) record(method string, args ...string) error {
	s.calls = append(s.calls, Call{Method: method, Args: args})
	return s.failures[method]
}

func newID(prefix string) string {
	return "urn:" + prefix + ":" + uuid.NewString()
}

func notFound(resource, id string) error {
	return &errors.APIError{
		Service:    service,
		StatusCode: 404,
		Message:    resource + " " + id + " not found",
		Err:        errors.NewNotFoundError(resource, id),
	}
}

// ProbeEntity implements taxonomy.Store.
func (s *Store) ProbeEntity(_ context.Context, kind taxonomy.Kind, id string) taxonomy.ProbeResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ProbeEntity", kind.String(), id); err != nil {
		return taxonomy.ProbeFailed(err)
	}
	n, ok := s.nodes[id]
	if !ok || n.kind != kind {
		return taxonomy.NotFound()
	}
	return taxonomy.Found(n.entity)
}

// CreateEntity implements taxonomy.Store.
func (s *Store) CreateEntity(_ context.Context, kind taxonomy.Kind, id, name, contentURI string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateEntity", kind.String(), id, name, contentURI); err != nil {
		return "", err
	}
	if id == "" {
		id = newID(kind.Namespace())
	}
	if _, exists := s.nodes[id]; exists {
		return "", errors.NewAPIError(service, 409, kind.String()+" "+id+" already exists")
	}
	s.nodes[id] = &node{
		kind:         kind,
		entity:       taxonomy.RemoteEntity{ID: id, Name: name, ContentURI: contentURI},
		translations: map[string]string{},
	}
	return id, nil
}

// UpdateEntity implements taxonomy.Store. Fields are replaced as given.
func (s *Store) UpdateEntity(_ context.Context, kind taxonomy.Kind, id, name, contentURI string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateEntity", kind.String(), id, name, contentURI); err != nil {
		return err
	}
	n, ok := s.nodes[id]
	if !ok {
		return notFound(kind.String(), id)
	}
	n.entity.Name = name
	n.entity.ContentURI = contentURI
	return nil
}

// DeleteEntity implements taxonomy.Store. Edges and links of the node go
// with it.
func (s *Store) DeleteEntity(_ context.Context, kind taxonomy.Kind, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DeleteEntity", kind.String(), id); err != nil {
		return err
	}
	if _, ok := s.nodes[id]; !ok {
		return notFound(kind.String(), id)
	}
	delete(s.nodes, id)
	s.edges = slices.DeleteFunc(s.edges, func(e *edge) bool {
		return e.assoc.ParentID == id || e.assoc.ChildID == id
	})
	s.typeLinks = slices.DeleteFunc(s.typeLinks, func(l link) bool { return l.entityID == id })
	s.filterLinks = slices.DeleteFunc(s.filterLinks, func(l link) bool { return l.entityID == id })
	return nil
}

// ListAssociations implements taxonomy.Store.
func (s *Store) ListAssociations(_ context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) ([]taxonomy.Association, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListAssociations", parentKind.String(), parentID, childKind.String()); err != nil {
		return nil, err
	}
	var out []taxonomy.Association
	for _, e := range s.edgesOf(parentKind, parentID, childKind) {
		out = append(out, e.assoc)
	}
	return out, nil
}

// edgesOf returns the edges below a parent in rank order. Caller holds mu.
func (s *Store) edgesOf(parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) []*edge {
	var out []*edge
	for _, e := range s.edges {
		if e.parentKind == parentKind && e.childKind == childKind && e.assoc.ParentID == parentID {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].assoc.Rank < out[j].assoc.Rank })
	return out
}

// CreateAssociation implements taxonomy.Store.
func (s *Store) CreateAssociation(_ context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind, childID string, rank int, primary bool) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateAssociation", parentKind.String(), parentID, childKind.String(), childID, fmt.Sprint(rank), fmt.Sprint(primary)); err != nil {
		return "", err
	}
	if !taxonomy.EdgeAllowed(parentKind, childKind) {
		return "", errors.NewAPIError(service, 400, fmt.Sprintf("%s cannot contain %s", parentKind, childKind))
	}
	if _, ok := s.nodes[parentID]; !ok {
		return "", notFound(parentKind.String(), parentID)
	}
	if _, ok := s.nodes[childID]; !ok {
		return "", notFound(childKind.String(), childID)
	}
	id := newID(parentKind.Namespace() + "-" + childKind.Namespace())
	s.edges = append(s.edges, &edge{
		parentKind: parentKind,
		childKind:  childKind,
		assoc: taxonomy.Association{
			ID:       id,
			ParentID: parentID,
			ChildID:  childID,
			Rank:     rank,
			Primary:  primary,
		},
	})
	return id, nil
}

// UpdateAssociation implements taxonomy.Store.
func (s *Store) UpdateAssociation(_ context.Context, parentKind, childKind taxonomy.Kind, associationID string, rank int, primary bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpdateAssociation", parentKind.String(), childKind.String(), associationID, fmt.Sprint(rank), fmt.Sprint(primary)); err != nil {
		return err
	}
	for _, e := range s.edges {
		if e.assoc.ID == associationID {
			e.assoc.Rank = rank
			e.assoc.Primary = primary
			return nil
		}
	}
	return notFound("association", associationID)
}

// ListChildren implements taxonomy.Store.
func (s *Store) ListChildren(_ context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) ([]taxonomy.Child, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListChildren", parentKind.String(), parentID, childKind.String()); err != nil {
		return nil, err
	}
	var out []taxonomy.Child
	for _, e := range s.edgesOf(parentKind, parentID, childKind) {
		child := taxonomy.Child{
			ID:       e.assoc.ChildID,
			Kind:     childKind,
			Primary:  e.assoc.Primary,
			ParentID: parentID,
		}
		if n, ok := s.nodes[e.assoc.ChildID]; ok {
			child.Name = n.entity.Name
		}
		out = append(out, child)
	}
	return out, nil
}

// ResourceTypeCatalog implements taxonomy.Store.
func (s *Store) ResourceTypeCatalog(context.Context) ([]taxonomy.NamedRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ResourceTypeCatalog"); err != nil {
		return nil, err
	}
	return slices.Clone(s.resourceTypes), nil
}

// CreateResourceType implements taxonomy.Store.
func (s *Store) CreateResourceType(_ context.Context, id, name, parentID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateResourceType", id, name, parentID); err != nil {
		return "", err
	}
	if id == "" {
		id = newID("resourcetype")
	}
	s.resourceTypes = append(s.resourceTypes, taxonomy.NamedRef{ID: id, Name: name, ParentID: parentID})
	return id, nil
}

func (s *Store) resourceType(id string) (taxonomy.NamedRef, bool) {
	for _, rt := range s.resourceTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return taxonomy.NamedRef{}, false
}

// ListResourceTypes implements taxonomy.Store.
func (s *Store) ListResourceTypes(_ context.Context, kind taxonomy.Kind, entityID string) ([]taxonomy.AttachedResourceType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListResourceTypes", kind.String(), entityID); err != nil {
		return nil, err
	}
	var out []taxonomy.AttachedResourceType
	for _, l := range s.typeLinks {
		if l.kind != kind || l.entityID != entityID {
			continue
		}
		rt, _ := s.resourceType(l.targetID)
		out = append(out, taxonomy.AttachedResourceType{
			ID:           l.targetID,
			Name:         rt.Name,
			ParentID:     rt.ParentID,
			ConnectionID: l.connectionID,
		})
	}
	return out, nil
}

// AttachResourceType implements taxonomy.Store.
func (s *Store) AttachResourceType(_ context.Context, kind taxonomy.Kind, entityID, typeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AttachResourceType", kind.String(), entityID, typeID); err != nil {
		return err
	}
	if _, ok := s.resourceType(typeID); !ok {
		return notFound("resource type", typeID)
	}
	s.typeLinks = append(s.typeLinks, link{
		kind:         kind,
		entityID:     entityID,
		targetID:     typeID,
		connectionID: newID(kind.Namespace() + "-resourcetype"),
	})
	return nil
}

// DetachResourceType implements taxonomy.Store.
func (s *Store) DetachResourceType(_ context.Context, kind taxonomy.Kind, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DetachResourceType", kind.String(), connectionID); err != nil {
		return err
	}
	n := len(s.typeLinks)
	s.typeLinks = slices.DeleteFunc(s.typeLinks, func(l link) bool { return l.connectionID == connectionID })
	if len(s.typeLinks) == n {
		return notFound("resource type connection", connectionID)
	}
	return nil
}

// SubjectFilters implements taxonomy.Store.
func (s *Store) SubjectFilters(_ context.Context, subjectID string) ([]taxonomy.NamedRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("SubjectFilters", subjectID); err != nil {
		return nil, err
	}
	var out []taxonomy.NamedRef
	for _, f := range s.filters {
		if f.subjectID == subjectID {
			out = append(out, f.ref)
		}
	}
	return out, nil
}

// CreateFilter implements taxonomy.Store.
func (s *Store) CreateFilter(_ context.Context, name, subjectID string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateFilter", name, subjectID); err != nil {
		return "", err
	}
	id := newID("filter")
	s.filters = append(s.filters, filterDef{ref: taxonomy.NamedRef{ID: id, Name: name}, subjectID: subjectID})
	return id, nil
}

// ListFilters implements taxonomy.Store.
func (s *Store) ListFilters(_ context.Context, kind taxonomy.Kind, entityID string) ([]taxonomy.AttachedFilter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("ListFilters", kind.String(), entityID); err != nil {
		return nil, err
	}
	var out []taxonomy.AttachedFilter
	for _, l := range s.filterLinks {
		if l.kind != kind || l.entityID != entityID {
			continue
		}
		af := taxonomy.AttachedFilter{ID: l.targetID, RelevanceID: l.relevanceID, ConnectionID: l.connectionID}
		for _, f := range s.filters {
			if f.ref.ID == l.targetID {
				af.Name = f.ref.Name
			}
		}
		out = append(out, af)
	}
	return out, nil
}

// AttachFilter implements taxonomy.Store.
func (s *Store) AttachFilter(_ context.Context, kind taxonomy.Kind, entityID, filterID, relevanceID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("AttachFilter", kind.String(), entityID, filterID, relevanceID); err != nil {
		return err
	}
	s.filterLinks = append(s.filterLinks, link{
		kind:         kind,
		entityID:     entityID,
		targetID:     filterID,
		relevanceID:  relevanceID,
		connectionID: newID(kind.Namespace() + "-filter"),
	})
	return nil
}

// DetachFilter implements taxonomy.Store.
func (s *Store) DetachFilter(_ context.Context, kind taxonomy.Kind, connectionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("DetachFilter", kind.String(), connectionID); err != nil {
		return err
	}
	n := len(s.filterLinks)
	s.filterLinks = slices.DeleteFunc(s.filterLinks, func(l link) bool { return l.connectionID == connectionID })
	if len(s.filterLinks) == n {
		return notFound("filter connection", connectionID)
	}
	return nil
}

// Relevances implements taxonomy.Store.
func (s *Store) Relevances(context.Context) ([]taxonomy.NamedRef, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("Relevances"); err != nil {
		return nil, err
	}
	return slices.Clone(s.relevances), nil
}

// CreateRelevance implements taxonomy.Store.
func (s *Store) CreateRelevance(_ context.Context, id, name string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("CreateRelevance", id, name); err != nil {
		return "", err
	}
	if id == "" {
		id = newID("relevance")
	}
	s.relevances = append(s.relevances, taxonomy.NamedRef{ID: id, Name: name})
	return id, nil
}

// UpsertTranslation implements taxonomy.Store.
func (s *Store) UpsertTranslation(_ context.Context, kind taxonomy.Kind, id, language, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("UpsertTranslation", kind.String(), id, language, name); err != nil {
		return err
	}
	n, ok := s.nodes[id]
	if !ok {
		return notFound(kind.String(), id)
	}
	n.translations[language] = name
	return nil
}

// MapLegacyURL implements taxonomy.Store.
func (s *Store) MapLegacyURL(_ context.Context, oldURL, nodeID, subjectID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.record("MapLegacyURL", oldURL, nodeID, subjectID); err != nil {
		return err
	}
	s.urlMappings[oldURL] = link{entityID: nodeID, targetID: subjectID}
	return nil
}

var _ taxonomy.Store = (*Store)(nil)
