package integration

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

// request is one call seen by the fake service.
type request struct {
	Method string
	Path   string
	Batch  string
	Auth   string
	Body   map[string]any
}

// fakeService is a taxonomy service that remembers created nodes and
// answers every listing with an empty array.
type fakeService struct {
	mu       sync.Mutex
	requests []request
	nodes    map[string]map[string]any
	next     int
	tokens   int
}

func newFakeService(t *testing.T) (*fakeService, *httptest.Server) {
	t.Helper()
	f := &fakeService{nodes: map[string]map[string]any{}}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeService) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r.URL.Path == "/oauth/token" {
		f.tokens++
		w.Header().Set("Content-Type", "application/json")
		_, _ = fmt.Fprintf(w, `{"access_token":"token-%d","token_type":"Bearer","expires_in":3600}`, f.tokens)
		return
	}

	req := request{
		Method: r.Method,
		Path:   r.URL.Path,
		Batch:  r.Header.Get("batch"),
		Auth:   r.Header.Get("Authorization"),
	}
	if b, _ := io.ReadAll(r.Body); len(b) > 0 {
		_ = json.Unmarshal(b, &req.Body)
	}
	f.requests = append(f.requests, req)

	segments := strings.Split(strings.TrimPrefix(r.URL.Path, "/v1/"), "/")
	switch r.Method {
	case http.MethodGet:
		if len(segments) == 2 && isNodeCollection(segments[0]) {
			node, ok := f.nodes[r.URL.Path]
			if !ok {
				http.Error(w, "not found", http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_ = json.NewEncoder(w).Encode(node)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte("[]"))

	case http.MethodPost:
		id, _ := req.Body["id"].(string)
		if id == "" {
			f.next++
			id = fmt.Sprintf("urn:%s:%d", segments[0], f.next)
		}
		location := "/v1/" + segments[0] + "/" + id
		if isNodeCollection(segments[0]) {
			f.nodes[location] = req.Body
		}
		w.Header().Set("Location", location)
		w.WriteHeader(http.StatusCreated)

	default:
		w.WriteHeader(http.StatusNoContent)
	}
}

func isNodeCollection(name string) bool {
	switch name {
	case "subjects", "topics", "resources":
		return true
	}
	return false
}

func (f *fakeService) Requests() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

func (f *fakeService) Tokens() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tokens
}
