package taxonomyapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/internal/taxonomyapi"
	"github.com/agentstation/taxonomy-import/internal/transport"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

type request struct {
	Method string
	Path   string
	Query  string
	Batch  string
	Body   map[string]any
}

// fakeService records every request and answers from routes keyed by
// "METHOD /path".
type fakeService struct {
	mu       sync.Mutex
	requests []request
	routes   map[string]http.HandlerFunc
}

func newService(t *testing.T) (*fakeService, *taxonomyapi.Store) {
	t.Helper()
	f := &fakeService{routes: map[string]http.HandlerFunc{}}
	srv := httptest.NewServer(http.HandlerFunc(f.serve))
	t.Cleanup(srv.Close)
	return f, taxonomyapi.New(transport.New(srv.URL))
}

func (f *fakeService) serve(w http.ResponseWriter, r *http.Request) {
	req := request{Method: r.Method, Path: r.URL.Path, Query: r.URL.RawQuery, Batch: r.Header.Get("batch")}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &req.Body)
	}
	f.mu.Lock()
	f.requests = append(f.requests, req)
	h, ok := f.routes[r.Method+" "+r.URL.Path]
	f.mu.Unlock()

	if !ok {
		switch r.Method {
		case http.MethodPost:
			w.Header().Set("Location", r.URL.Path+"/urn:created:1")
			w.WriteHeader(http.StatusCreated)
		case http.MethodGet:
			http.NotFound(w, r)
		default:
			w.WriteHeader(http.StatusNoContent)
		}
		return
	}
	h(w, r)
}

func (f *fakeService) handle(route string, h http.HandlerFunc) {
	f.routes[route] = h
}

func (f *fakeService) last() request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.requests[len(f.requests)-1]
}

func respond(v any) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func TestProbeEntity(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()
	f.handle("GET /v1/topics/urn:topic:1:100", respond(map[string]string{
		"id": "urn:topic:1:100", "name": "Tall", "contentUri": "urn:article:1",
	}))
	f.handle("GET /v1/topics/urn:topic:1:500", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	found := s.ProbeEntity(ctx, taxonomy.KindTopic, "urn:topic:1:100")
	require.Equal(t, taxonomy.ProbeFound, found.Status)
	assert.Equal(t, "Tall", found.Entity.Name)
	assert.Equal(t, "urn:article:1", found.Entity.ContentURI)

	missing := s.ProbeEntity(ctx, taxonomy.KindTopic, "urn:topic:1:404")
	assert.Equal(t, taxonomy.ProbeNotFound, missing.Status)

	failed := s.ProbeEntity(ctx, taxonomy.KindTopic, "urn:topic:1:500")
	require.Equal(t, taxonomy.ProbeError, failed.Status)
	assert.True(t, errors.IsUnavailable(failed.Err))
}

func TestCreateEntityUsesLocation(t *testing.T) {
	f, s := newService(t)

	id, err := s.CreateEntity(context.Background(), taxonomy.KindResource, "urn:resource:1:200", "Likninger", "")
	require.NoError(t, err)
	assert.Equal(t, "urn:created:1", id)

	req := f.last()
	assert.Equal(t, "POST", req.Method)
	assert.Equal(t, "/v1/resources", req.Path)
	assert.Equal(t, map[string]any{"id": "urn:resource:1:200", "name": "Likninger"}, req.Body)
}

func TestCreateRejected(t *testing.T) {
	f, s := newService(t)
	f.handle("POST /v1/topics", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "conflict", http.StatusConflict)
	})

	_, err := s.CreateEntity(context.Background(), taxonomy.KindTopic, "urn:topic:1", "T", "")
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestAssociationBodies(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()

	tests := []struct {
		parent, child taxonomy.Kind
		path          string
		body          map[string]any
	}{
		{taxonomy.KindSubject, taxonomy.KindTopic, "/v1/subject-topics",
			map[string]any{"subjectid": "p", "topicid": "c", "primary": true, "rank": float64(2)}},
		{taxonomy.KindTopic, taxonomy.KindTopic, "/v1/topic-subtopics",
			map[string]any{"topicid": "p", "subtopicid": "c", "primary": true, "rank": float64(2)}},
		{taxonomy.KindTopic, taxonomy.KindResource, "/v1/topic-resources",
			map[string]any{"topicid": "p", "resourceId": "c", "primary": true, "rank": float64(2)}},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			_, err := s.CreateAssociation(ctx, tt.parent, "p", tt.child, "c", 2, true)
			require.NoError(t, err)
			req := f.last()
			assert.Equal(t, tt.path, req.Path)
			assert.Equal(t, tt.body, req.Body)
		})
	}

	require.NoError(t, s.UpdateAssociation(ctx, taxonomy.KindTopic, taxonomy.KindResource, "urn:topic-resource:9", 3, false))
	req := f.last()
	assert.Equal(t, "PUT", req.Method)
	assert.Equal(t, "/v1/topic-resources/urn:topic-resource:9", req.Path)
	assert.Equal(t, float64(3), req.Body["rank"])

	_, err := s.CreateAssociation(ctx, taxonomy.KindSubject, "p", taxonomy.KindResource, "c", 1, true)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestListAssociationsAndChildren(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()
	f.handle("GET /v1/subjects/urn:subject:1/topics", respond([]map[string]any{
		{"id": "urn:topic:1", "name": "A", "connectionId": "urn:subject-topic:1", "rank": 1, "isPrimary": true},
		{"id": "urn:topic:2", "name": "B", "connectionId": "urn:subject-topic:2", "rank": 2, "isPrimary": false},
	}))

	assocs, err := s.ListAssociations(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic)
	require.NoError(t, err)
	require.Len(t, assocs, 2)
	assert.Equal(t, taxonomy.Association{
		ID: "urn:subject-topic:1", ParentID: "urn:subject:1", ChildID: "urn:topic:1", Rank: 1, Primary: true,
	}, assocs[0])
	assert.Equal(t, "recursive=false", f.last().Query)

	children, err := s.ListChildren(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, taxonomy.KindTopic, children[1].Kind)
	assert.False(t, children[1].Primary)
}

func TestResourceTypeCatalogFlattens(t *testing.T) {
	f, s := newService(t)
	f.handle("GET /v1/resource-types", respond([]map[string]any{
		{"id": "urn:resourcetype:subjectMaterial", "name": "Fagstoff", "subtypes": []map[string]any{
			{"id": "urn:resourcetype:academicArticle", "name": "Fagartikkel"},
		}},
		{"id": "urn:resourcetype:learningPath", "name": "Læringssti"},
	}))

	refs, err := s.ResourceTypeCatalog(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []taxonomy.NamedRef{
		{ID: "urn:resourcetype:subjectMaterial", Name: "Fagstoff"},
		{ID: "urn:resourcetype:academicArticle", Name: "Fagartikkel", ParentID: "urn:resourcetype:subjectMaterial"},
		{ID: "urn:resourcetype:learningPath", Name: "Læringssti"},
	}, refs)
}

func TestResourceTypeAndFilterLinks(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.AttachResourceType(ctx, taxonomy.KindTopic, "urn:topic:1", "urn:resourcetype:x"))
	assert.Equal(t, "/v1/topic-resourcetypes", f.last().Path)
	assert.Equal(t, map[string]any{"topicId": "urn:topic:1", "resourceTypeId": "urn:resourcetype:x"}, f.last().Body)

	require.NoError(t, s.DetachResourceType(ctx, taxonomy.KindResource, "urn:resource-resourcetype:4"))
	assert.Equal(t, "DELETE", f.last().Method)
	assert.Equal(t, "/v1/resource-resourcetypes/urn:resource-resourcetype:4", f.last().Path)

	require.NoError(t, s.AttachFilter(ctx, taxonomy.KindResource, "urn:resource:1", "urn:filter:1", "urn:relevance:core"))
	assert.Equal(t, "/v1/resource-filters", f.last().Path)
	assert.Equal(t, map[string]any{
		"resourceId": "urn:resource:1", "filterId": "urn:filter:1", "relevanceId": "urn:relevance:core",
	}, f.last().Body)

	require.NoError(t, s.DetachFilter(ctx, taxonomy.KindTopic, "urn:topic-filter:2"))
	assert.Equal(t, "/v1/topic-filters/urn:topic-filter:2", f.last().Path)

	assert.True(t, errors.IsInvalidInput(s.AttachFilter(ctx, taxonomy.KindSubject, "urn:subject:1", "f", "")))

	id, err := s.CreateFilter(ctx, "VG1", "urn:subject:1")
	require.NoError(t, err)
	assert.Equal(t, "urn:created:1", id)
	assert.Equal(t, map[string]any{"name": "VG1", "subjectId": "urn:subject:1"}, f.last().Body)
}

func TestListFilters(t *testing.T) {
	f, s := newService(t)
	f.handle("GET /v1/resources/urn:resource:1/filters", respond([]map[string]any{
		{"id": "urn:filter:1", "name": "VG1", "connectionId": "urn:resource-filter:7", "relevanceId": "urn:relevance:core"},
	}))

	filters, err := s.ListFilters(context.Background(), taxonomy.KindResource, "urn:resource:1")
	require.NoError(t, err)
	assert.Equal(t, []taxonomy.AttachedFilter{{
		ID: "urn:filter:1", Name: "VG1", RelevanceID: "urn:relevance:core", ConnectionID: "urn:resource-filter:7",
	}}, filters)
}

func TestTranslationAndURLMapping(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.UpsertTranslation(ctx, taxonomy.KindTopic, "urn:topic:1", "nn", "Likningar"))
	assert.Equal(t, "PUT", f.last().Method)
	assert.Equal(t, "/v1/topics/urn:topic:1/translations/nn", f.last().Path)
	assert.Equal(t, map[string]any{"name": "Likningar"}, f.last().Body)

	require.NoError(t, s.MapLegacyURL(ctx, "http://red.ndla.no/nb/node/165193?fag=161000", "urn:topic:1:165193", "urn:subject:1"))
	assert.Equal(t, "/v1/url/mapping", f.last().Path)
	assert.Equal(t, map[string]any{
		"url": "ndla.no/nb/node/165193?fag=161000", "nodeId": "urn:topic:1:165193", "subjectId": "urn:subject:1",
	}, f.last().Body)
}

func TestBatchModeHeader(t *testing.T) {
	f, s := newService(t)
	ctx := context.Background()

	require.NoError(t, s.UpdateEntity(ctx, taxonomy.KindSubject, "urn:subject:1", "Matte", ""))
	assert.Equal(t, "1", f.last().Batch)

	s.SetBatchMode(false)
	require.NoError(t, s.UpdateEntity(ctx, taxonomy.KindSubject, "urn:subject:1", "Matte", ""))
	assert.Equal(t, "0", f.last().Batch)
}
