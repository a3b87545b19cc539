package transport

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/pkg/errors"
)

func TestClientHeaders(t *testing.T) {
	var got []http.Header
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = append(got, r.Header.Clone())
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	c := New(srv.URL+"/", WithAuthenticator(&BearerAuth{Token: "abc"}))
	assert.Equal(t, srv.URL, c.BaseURL())
	assert.True(t, c.BatchMode())
	ctx := context.Background()

	resp, err := c.Send(ctx, http.MethodPut, "/v1/topics/urn:topic:1", map[string]string{"name": "x"})
	require.NoError(t, err)
	require.NoError(t, ExpectStatus(resp, http.StatusNoContent))

	c.SetBatchMode(false)
	resp, err = c.Get(ctx, "/v1/topics/urn:topic:1")
	require.NoError(t, err)
	require.NoError(t, ExpectStatus(resp, http.StatusNoContent))

	require.Len(t, got, 2)
	assert.Equal(t, "1", got[0].Get("batch"))
	assert.Equal(t, "application/json", got[0].Get("Content-Type"))
	assert.Equal(t, "Bearer abc", got[0].Get("Authorization"))
	assert.Equal(t, "0", got[1].Get("batch"))
	assert.Empty(t, got[1].Get("Content-Type"))
}

func TestDecodeResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			_ = json.NewEncoder(w).Encode(map[string]string{"id": "urn:subject:1"})
		case "/missing":
			http.Error(w, "no such subject", http.StatusNotFound)
		default:
			w.WriteHeader(http.StatusBadGateway)
		}
	}))
	defer srv.Close()
	c := New(srv.URL)
	ctx := context.Background()

	resp, err := c.Get(ctx, "/ok")
	require.NoError(t, err)
	var out struct{ ID string }
	require.NoError(t, DecodeResponse(resp, &out))
	assert.Equal(t, "urn:subject:1", out.ID)

	resp, err = c.Get(ctx, "/missing")
	require.NoError(t, err)
	err = DecodeResponse(resp, &out)
	assert.True(t, errors.IsNotFound(err))
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "no such subject", apiErr.Message)
	assert.Equal(t, "GET /missing", apiErr.Endpoint)

	resp, err = c.Get(ctx, "/down")
	require.NoError(t, err)
	assert.True(t, errors.IsUnavailable(DecodeResponse(resp, &out)))
}

func TestLocationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/v1/topics" {
			w.Header().Set("Location", "/v1/topics/urn:topic:1:100")
		}
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()
	c := New(srv.URL)

	resp, err := c.Send(context.Background(), http.MethodPost, "/v1/topics", map[string]string{})
	require.NoError(t, err)
	id, err := LocationID(resp)
	require.NoError(t, err)
	assert.Equal(t, "urn:topic:1:100", id)
	require.NoError(t, ExpectStatus(resp, http.StatusCreated))

	resp, err = c.Send(context.Background(), http.MethodPost, "/v1/other", nil)
	require.NoError(t, err)
	_, err = LocationID(resp)
	assert.Error(t, err)
	require.NoError(t, ExpectStatus(resp, http.StatusCreated))
}

func TestClientTransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := New(url).Get(context.Background(), "/v1/subjects")
	var apiErr *errors.APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "GET /v1/subjects", apiErr.Endpoint)
}
