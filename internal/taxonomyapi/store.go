// Package taxonomyapi implements taxonomy.Store against the taxonomy REST
// service.
package taxonomyapi

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/agentstation/taxonomy-import/internal/transport"
	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

// legacyHost is where mapped legacy URLs are cut; the service stores them
// without scheme or subdomain.
const legacyHost = "ndla.no"

// Store talks to one taxonomy service.
type Store struct {
	client *transport.Client
}

// New creates a Store on top of client.
func New(client *transport.Client) *Store {
	return &Store{client: client}
}

// SetBatchMode forwards to the transport's batch header.
func (s *Store) SetBatchMode(on bool) {
	s.client.SetBatchMode(on)
}

func route(parts ...string) string {
	var b strings.Builder
	b.WriteString(constants.APIPrefix)
	for i, p := range parts {
		b.WriteByte('/')
		if i%2 == 1 {
			p = url.PathEscape(p)
		}
		b.WriteString(p)
	}
	return b.String()
}

func (s *Store) get(ctx context.Context, path string, target any) error {
	resp, err := s.client.Get(ctx, path)
	if err != nil {
		return err
	}
	return transport.DecodeResponse(resp, target)
}

// create POSTs body and returns the id from the Location header, or "" when
// the service sent none.
func (s *Store) create(ctx context.Context, path string, body any) (string, error) {
	resp, err := s.client.Send(ctx, http.MethodPost, path, body)
	if err != nil {
		return "", err
	}
	id, _ := transport.LocationID(resp)
	if err := transport.ExpectStatus(resp, http.StatusCreated, http.StatusOK); err != nil {
		return "", err
	}
	return id, nil
}

func (s *Store) send(ctx context.Context, method, path string, body any) error {
	resp, err := s.client.Send(ctx, method, path, body)
	if err != nil {
		return err
	}
	return transport.ExpectStatus(resp, http.StatusOK, http.StatusCreated, http.StatusNoContent)
}

func unsupported(op string, kind taxonomy.Kind) error {
	return errors.NewValidationError("kind", kind.String(), op+" is not supported for "+kind.String())
}

// ProbeEntity implements taxonomy.Store. 200 is Found, 404 NotFound, and
// anything else an error.
func (s *Store) ProbeEntity(ctx context.Context, kind taxonomy.Kind, id string) taxonomy.ProbeResult {
	var doc entityBody
	err := s.get(ctx, route(kind.Collection(), id), &doc)
	switch {
	case err == nil:
		if doc.ID == "" {
			doc.ID = id
		}
		return taxonomy.Found(taxonomy.RemoteEntity{ID: doc.ID, Name: doc.Name, ContentURI: doc.ContentURI})
	case isStatus(err, http.StatusNotFound):
		return taxonomy.NotFound()
	default:
		return taxonomy.ProbeFailed(err)
	}
}

func isStatus(err error, code int) bool {
	var apiErr *errors.APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// CreateEntity implements taxonomy.Store.
func (s *Store) CreateEntity(ctx context.Context, kind taxonomy.Kind, id, name, contentURI string) (string, error) {
	created, err := s.create(ctx, route(kind.Collection()), entityBody{ID: id, Name: name, ContentURI: contentURI})
	if err != nil {
		return "", err
	}
	if created == "" {
		created = id
	}
	return created, nil
}

// UpdateEntity implements taxonomy.Store.
func (s *Store) UpdateEntity(ctx context.Context, kind taxonomy.Kind, id, name, contentURI string) error {
	return s.send(ctx, http.MethodPut, route(kind.Collection(), id), entityBody{Name: name, ContentURI: contentURI})
}

// DeleteEntity implements taxonomy.Store.
func (s *Store) DeleteEntity(ctx context.Context, kind taxonomy.Kind, id string) error {
	return s.send(ctx, http.MethodDelete, route(kind.Collection(), id), nil)
}

// associationCollection names the edge collection for a parent/child pair.
func associationCollection(parent, child taxonomy.Kind) (string, bool) {
	switch {
	case parent == taxonomy.KindSubject && child == taxonomy.KindTopic:
		return "subject-topics", true
	case parent == taxonomy.KindTopic && child == taxonomy.KindTopic:
		return "topic-subtopics", true
	case parent == taxonomy.KindTopic && child == taxonomy.KindResource:
		return "topic-resources", true
	}
	return "", false
}

func childrenPath(parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) string {
	p := route(parentKind.Collection(), parentID) + "/" + childKind.Collection()
	if parentKind == taxonomy.KindSubject {
		p += "?recursive=false"
	}
	return p
}

func (s *Store) listChildDocs(ctx context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) ([]childDoc, error) {
	if !taxonomy.EdgeAllowed(parentKind, childKind) {
		return nil, unsupported("listing children", parentKind)
	}
	var docs []childDoc
	if err := s.get(ctx, childrenPath(parentKind, parentID, childKind), &docs); err != nil {
		return nil, err
	}
	return docs, nil
}

// ListAssociations implements taxonomy.Store.
func (s *Store) ListAssociations(ctx context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) ([]taxonomy.Association, error) {
	docs, err := s.listChildDocs(ctx, parentKind, parentID, childKind)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Association, 0, len(docs))
	for _, d := range docs {
		out = append(out, taxonomy.Association{
			ID:       d.ConnectionID,
			ParentID: parentID,
			ChildID:  d.ID,
			Rank:     d.Rank,
			Primary:  d.IsPrimary,
		})
	}
	return out, nil
}

// ListChildren implements taxonomy.Store.
func (s *Store) ListChildren(ctx context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind) ([]taxonomy.Child, error) {
	docs, err := s.listChildDocs(ctx, parentKind, parentID, childKind)
	if err != nil {
		return nil, err
	}
	out := make([]taxonomy.Child, 0, len(docs))
	for _, d := range docs {
		out = append(out, taxonomy.Child{
			ID:       d.ID,
			Name:     d.Name,
			Kind:     childKind,
			Primary:  d.IsPrimary,
			ParentID: parentID,
		})
	}
	return out, nil
}

// CreateAssociation implements taxonomy.Store.
func (s *Store) CreateAssociation(ctx context.Context, parentKind taxonomy.Kind, parentID string, childKind taxonomy.Kind, childID string, rank int, primary bool) (string, error) {
	coll, ok := associationCollection(parentKind, childKind)
	if !ok {
		return "", unsupported("association", parentKind)
	}
	var body any
	switch coll {
	case "subject-topics":
		body = subjectTopicBody{SubjectID: parentID, TopicID: childID, Primary: primary, Rank: rank}
	case "topic-subtopics":
		body = topicSubtopicBody{TopicID: parentID, SubtopicID: childID, Primary: primary, Rank: rank}
	default:
		body = topicResourceBody{TopicID: parentID, ResourceID: childID, Primary: primary, Rank: rank}
	}
	return s.create(ctx, route(coll), body)
}

// UpdateAssociation implements taxonomy.Store.
func (s *Store) UpdateAssociation(ctx context.Context, parentKind, childKind taxonomy.Kind, associationID string, rank int, primary bool) error {
	coll, ok := associationCollection(parentKind, childKind)
	if !ok {
		return unsupported("association", parentKind)
	}
	return s.send(ctx, http.MethodPut, route(coll, associationID),
		updateAssociationBody{ID: associationID, Primary: primary, Rank: rank})
}

// ResourceTypeCatalog implements taxonomy.Store. Subtypes are flattened
// after their parent.
func (s *Store) ResourceTypeCatalog(ctx context.Context) ([]taxonomy.NamedRef, error) {
	var docs []resourceTypeDoc
	if err := s.get(ctx, route("resource-types"), &docs); err != nil {
		return nil, err
	}
	var out []taxonomy.NamedRef
	var walk func(docs []resourceTypeDoc, parentID string)
	walk = func(docs []resourceTypeDoc, parentID string) {
		for _, d := range docs {
			out = append(out, taxonomy.NamedRef{ID: d.ID, Name: d.Name, ParentID: parentID})
			walk(d.Subtypes, d.ID)
		}
	}
	walk(docs, "")
	return out, nil
}

// CreateResourceType implements taxonomy.Store.
func (s *Store) CreateResourceType(ctx context.Context, id, name, parentID string) (string, error) {
	created, err := s.create(ctx, route("resource-types"), createResourceTypeBody{ID: id, Name: name, ParentID: parentID})
	if err != nil {
		return "", err
	}
	if created == "" {
		created = id
	}
	return created, nil
}

func resourceTypeLinks(kind taxonomy.Kind) (string, bool) {
	switch kind {
	case taxonomy.KindResource:
		return "resource-resourcetypes", true
	case taxonomy.KindTopic:
		return "topic-resourcetypes", true
	}
	return "", false
}

// ListResourceTypes implements taxonomy.Store.
func (s *Store) ListResourceTypes(ctx context.Context, kind taxonomy.Kind, entityID string) ([]taxonomy.AttachedResourceType, error) {
	var docs []attachedResourceTypeDoc
	if err := s.get(ctx, route(kind.Collection(), entityID)+"/resource-types", &docs); err != nil {
		return nil, err
	}
	out := make([]taxonomy.AttachedResourceType, 0, len(docs))
	for _, d := range docs {
		out = append(out, taxonomy.AttachedResourceType{
			ID:           d.ID,
			Name:         d.Name,
			ParentID:     d.ParentID,
			ConnectionID: d.ConnectionID,
		})
	}
	return out, nil
}

// AttachResourceType implements taxonomy.Store.
func (s *Store) AttachResourceType(ctx context.Context, kind taxonomy.Kind, entityID, typeID string) error {
	coll, ok := resourceTypeLinks(kind)
	if !ok {
		return unsupported("resource types", kind)
	}
	var body any = resourceResourceTypeBody{ResourceID: entityID, ResourceTypeID: typeID}
	if kind == taxonomy.KindTopic {
		body = topicResourceTypeBody{TopicID: entityID, ResourceTypeID: typeID}
	}
	_, err := s.create(ctx, route(coll), body)
	return err
}

// DetachResourceType implements taxonomy.Store.
func (s *Store) DetachResourceType(ctx context.Context, kind taxonomy.Kind, connectionID string) error {
	coll, ok := resourceTypeLinks(kind)
	if !ok {
		return unsupported("resource types", kind)
	}
	return s.send(ctx, http.MethodDelete, route(coll, connectionID), nil)
}

// SubjectFilters implements taxonomy.Store.
func (s *Store) SubjectFilters(ctx context.Context, subjectID string) ([]taxonomy.NamedRef, error) {
	var docs []namedDoc
	if err := s.get(ctx, route("subjects", subjectID)+"/filters", &docs); err != nil {
		return nil, err
	}
	return namedRefs(docs), nil
}

// CreateFilter implements taxonomy.Store.
func (s *Store) CreateFilter(ctx context.Context, name, subjectID string) (string, error) {
	id, err := s.create(ctx, route("filters"), createFilterBody{Name: name, SubjectID: subjectID})
	if err == nil && id == "" {
		err = &errors.APIError{Service: "taxonomy", Endpoint: "POST /filters", Message: "created filter " + name + " without a Location header"}
	}
	return id, err
}

func filterLinks(kind taxonomy.Kind) (string, bool) {
	switch kind {
	case taxonomy.KindResource:
		return "resource-filters", true
	case taxonomy.KindTopic:
		return "topic-filters", true
	}
	return "", false
}

// ListFilters implements taxonomy.Store.
func (s *Store) ListFilters(ctx context.Context, kind taxonomy.Kind, entityID string) ([]taxonomy.AttachedFilter, error) {
	var docs []attachedFilterDoc
	if err := s.get(ctx, route(kind.Collection(), entityID)+"/filters", &docs); err != nil {
		return nil, err
	}
	out := make([]taxonomy.AttachedFilter, 0, len(docs))
	for _, d := range docs {
		out = append(out, taxonomy.AttachedFilter{
			ID:           d.ID,
			Name:         d.Name,
			RelevanceID:  d.RelevanceID,
			ConnectionID: d.ConnectionID,
		})
	}
	return out, nil
}

// AttachFilter implements taxonomy.Store.
func (s *Store) AttachFilter(ctx context.Context, kind taxonomy.Kind, entityID, filterID, relevanceID string) error {
	coll, ok := filterLinks(kind)
	if !ok {
		return unsupported("filters", kind)
	}
	var body any = resourceFilterBody{ResourceID: entityID, FilterID: filterID, RelevanceID: relevanceID}
	if kind == taxonomy.KindTopic {
		body = topicFilterBody{TopicID: entityID, FilterID: filterID, RelevanceID: relevanceID}
	}
	_, err := s.create(ctx, route(coll), body)
	return err
}

// DetachFilter implements taxonomy.Store.
func (s *Store) DetachFilter(ctx context.Context, kind taxonomy.Kind, connectionID string) error {
	coll, ok := filterLinks(kind)
	if !ok {
		return unsupported("filters", kind)
	}
	return s.send(ctx, http.MethodDelete, route(coll, connectionID), nil)
}

// Relevances implements taxonomy.Store.
func (s *Store) Relevances(ctx context.Context) ([]taxonomy.NamedRef, error) {
	var docs []namedDoc
	if err := s.get(ctx, route("relevances"), &docs); err != nil {
		return nil, err
	}
	return namedRefs(docs), nil
}

// CreateRelevance implements taxonomy.Store.
func (s *Store) CreateRelevance(ctx context.Context, id, name string) (string, error) {
	created, err := s.create(ctx, route("relevances"), createRelevanceBody{ID: id, Name: name})
	if err != nil {
		return "", err
	}
	if created == "" {
		created = id
	}
	return created, nil
}

// UpsertTranslation implements taxonomy.Store.
func (s *Store) UpsertTranslation(ctx context.Context, kind taxonomy.Kind, id, language, name string) error {
	return s.send(ctx, http.MethodPut, route(kind.Collection(), id, "translations", language), translationBody{Name: name})
}

// MapLegacyURL implements taxonomy.Store.
func (s *Store) MapLegacyURL(ctx context.Context, oldURL, nodeID, subjectID string) error {
	return s.send(ctx, http.MethodPut, route("url", "mapping"),
		urlMappingBody{URL: trimLegacyURL(oldURL), NodeID: nodeID, SubjectID: subjectID})
}

// trimLegacyURL drops everything before the legacy host.
func trimLegacyURL(u string) string {
	if i := strings.Index(u, legacyHost); i >= 0 {
		return u[i:]
	}
	return u
}

func namedRefs(docs []namedDoc) []taxonomy.NamedRef {
	out := make([]taxonomy.NamedRef, 0, len(docs))
	for _, d := range docs {
		out = append(out, taxonomy.NamedRef{ID: d.ID, Name: d.Name})
	}
	return out
}

var _ taxonomy.Store = (*Store)(nil)
