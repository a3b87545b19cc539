package list

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/cmd/application"
	mockapp "github.com/agentstation/taxonomy-import/internal/cmd/application"
	"github.com/agentstation/taxonomy-import/internal/memstore"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

func seededStore(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	store := memstore.New(memstore.WithEntity(taxonomy.KindSubject, taxonomy.RemoteEntity{ID: "urn:subject:1", Name: "Film"}))

	_, err := store.CreateEntity(ctx, taxonomy.KindTopic, "topic:1:10", "Filmhistorie", "")
	require.NoError(t, err)
	_, err = store.CreateEntity(ctx, taxonomy.KindResource, "resource:1:20", "Stumfilm", "")
	require.NoError(t, err)
	_, err = store.CreateAssociation(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic, "topic:1:10", 1, true)
	require.NoError(t, err)
	_, err = store.CreateAssociation(ctx, taxonomy.KindTopic, "topic:1:10", taxonomy.KindResource, "resource:1:20", 1, true)
	require.NoError(t, err)
	return store
}

func TestListPrimarySubtree(t *testing.T) {
	store := seededStore(t)
	var requested application.Remote
	app := &mockapp.Mock{
		StoreFunc: func(remote application.Remote, dryRun bool) (taxonomy.Store, error) {
			requested = remote
			assert.False(t, dryRun)
			return store, nil
		},
		OutputFormatFunc: func() string { return "json" },
	}

	var stdout bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"-i", "urn:subject:1", "-e", "https://taxonomy.example.com"})
	require.NoError(t, cmd.Execute())

	assert.Equal(t, "https://taxonomy.example.com", requested.Endpoint)
	assert.Contains(t, stdout.String(), `"topic:1:10"`)
	assert.Contains(t, stdout.String(), `"resource:1:20"`)
}

func TestListTable(t *testing.T) {
	store := seededStore(t)
	app := &mockapp.Mock{
		StoreFunc: func(application.Remote, bool) (taxonomy.Store, error) { return store, nil },
	}

	var stdout bytes.Buffer
	cmd := NewCommand(app)
	cmd.SetOut(&stdout)
	cmd.SetArgs([]string{"--subject-id", "urn:subject:1"})
	require.NoError(t, cmd.Execute())

	assert.Contains(t, stdout.String(), "Filmhistorie")
	assert.Contains(t, stdout.String(), "Stumfilm")
}
