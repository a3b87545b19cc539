package errors_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/agentstation/taxonomy-import/pkg/errors"
)

func TestNotFoundError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.NotFoundError{Resource: "topic", ID: "topic:1:42"}
		assert.Equal(t, "topic with ID topic:1:42 not found", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrNotFound))
	})

	t.Run("wrapped error", func(t *testing.T) {
		base := pkgerrors.NewNotFoundError("resource", "resource:1:7")
		wrapped := fmt.Errorf("probe: %w", base)
		assert.True(t, pkgerrors.IsNotFound(wrapped))
	})
}

func TestMissingColumnError(t *testing.T) {
	err := &pkgerrors.MissingColumnError{Column: "Ressurstype"}
	assert.Equal(t, `missing required column "Ressurstype"`, err.Error())
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestRowError(t *testing.T) {
	t.Run("message", func(t *testing.T) {
		err := pkgerrors.NewRowError(12, "entity must be named")
		assert.Equal(t, "row 12: entity must be named", err.Error())
		assert.True(t, pkgerrors.IsInvalidInput(err))
	})

	t.Run("wrapped cause", func(t *testing.T) {
		cause := errors.New("boom")
		err := pkgerrors.WrapRow(3, cause)
		assert.Equal(t, "row 3: boom", err.Error())
		assert.ErrorIs(t, err, cause)

		var rowErr *pkgerrors.RowError
		require.True(t, errors.As(err, &rowErr))
		assert.Equal(t, 3, rowErr.Row)
	})

	t.Run("nil passthrough", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapRow(3, nil))
	})
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name   string
		status int
		target error
		want   bool
	}{
		{"404 is not found", 404, pkgerrors.ErrNotFound, true},
		{"401 is unauthorized", 401, pkgerrors.ErrUnauthorized, true},
		{"403 is unauthorized", 403, pkgerrors.ErrUnauthorized, true},
		{"503 is unavailable", 503, pkgerrors.ErrUnavailable, true},
		{"400 is none of them", 400, pkgerrors.ErrNotFound, false},
		{"500 is not not found", 500, pkgerrors.ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pkgerrors.NewAPIError("taxonomy", tt.status, "body")
			assert.Equal(t, tt.want, errors.Is(err, tt.target))
		})
	}

	t.Run("message includes endpoint", func(t *testing.T) {
		err := &pkgerrors.APIError{
			Service:    "taxonomy",
			StatusCode: 409,
			Message:    "conflict",
			Endpoint:   "POST /v1/topics",
		}
		assert.Equal(t, "API error from taxonomy POST /v1/topics (status 409): conflict", err.Error())
	})
}

func TestResourceError(t *testing.T) {
	cause := errors.New("connection refused")
	err := pkgerrors.WrapResource("create", "topic", "topic:1:5", cause)
	assert.Equal(t, "failed to create topic topic:1:5: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)

	noID := pkgerrors.NewResourceError("list", "relevances", "", cause)
	assert.Equal(t, "failed to list relevances: connection refused", noID.Error())
}

func TestAuthenticationError(t *testing.T) {
	err := pkgerrors.NewAuthenticationError("client_credentials", "token server returned 401", nil)
	assert.Contains(t, err.Error(), "client_credentials")
	assert.True(t, pkgerrors.IsUnauthorized(err))
}

func TestConfigError(t *testing.T) {
	err := pkgerrors.NewConfigError("endpoint", "must be a URL", nil)
	assert.Equal(t, "configuration error in endpoint: must be a URL", err.Error())
	assert.True(t, pkgerrors.IsInvalidInput(err))
}

func TestWrapHelpers(t *testing.T) {
	t.Run("nil errors stay nil", func(t *testing.T) {
		assert.NoError(t, pkgerrors.WrapIO("read", "stdin", nil))
		assert.NoError(t, pkgerrors.WrapResource("delete", "topic", "x", nil))
		assert.NoError(t, pkgerrors.WrapParse("json", "response", nil))
	})

	t.Run("parse", func(t *testing.T) {
		err := pkgerrors.WrapParse("json", "response", errors.New("unexpected EOF"))
		assert.Equal(t, "json parse error in response: unexpected EOF", err.Error())
	})

	t.Run("io", func(t *testing.T) {
		err := pkgerrors.WrapIO("read", "input.tsv", errors.New("permission denied"))
		assert.Equal(t, "IO error during read of input.tsv: permission denied", err.Error())
	})
}
