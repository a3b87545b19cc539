package walker_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/internal/memstore"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/logging"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
	"github.com/agentstation/taxonomy-import/pkg/walker"
)

const subjectID = "urn:subject:1"

// seed builds:
//
//	subject
//	├── A (primary)
//	│   ├── A1 (primary)
//	│   │   └── r2 (primary)
//	│   ├── S (secondary)
//	│   ├── r1 (primary)
//	│   └── r3 (secondary)
//	└── B (primary)
//
// S also has a resource of its own that must not be listed.
func seed(t *testing.T) *memstore.Store {
	t.Helper()
	ctx := context.Background()
	s := memstore.New(memstore.WithEntity(taxonomy.KindSubject, taxonomy.RemoteEntity{ID: subjectID, Name: "S"}))

	for _, id := range []string{"A", "A1", "S", "B"} {
		_, err := s.CreateEntity(ctx, taxonomy.KindTopic, id, id, "")
		require.NoError(t, err)
	}
	for _, id := range []string{"r1", "r2", "r3", "rs"} {
		_, err := s.CreateEntity(ctx, taxonomy.KindResource, id, id, "")
		require.NoError(t, err)
	}

	edges := []struct {
		parentKind taxonomy.Kind
		parent     string
		childKind  taxonomy.Kind
		child      string
		rank       int
		primary    bool
	}{
		{taxonomy.KindSubject, subjectID, taxonomy.KindTopic, "A", 1, true},
		{taxonomy.KindSubject, subjectID, taxonomy.KindTopic, "B", 2, true},
		{taxonomy.KindTopic, "A", taxonomy.KindTopic, "A1", 1, true},
		{taxonomy.KindTopic, "A", taxonomy.KindTopic, "S", 2, false},
		{taxonomy.KindTopic, "A1", taxonomy.KindResource, "r2", 1, true},
		{taxonomy.KindTopic, "A", taxonomy.KindResource, "r1", 1, true},
		{taxonomy.KindTopic, "A", taxonomy.KindResource, "r3", 2, false},
		{taxonomy.KindTopic, "S", taxonomy.KindResource, "rs", 1, true},
	}
	for _, e := range edges {
		_, err := s.CreateAssociation(ctx, e.parentKind, e.parent, e.childKind, e.child, e.rank, e.primary)
		require.NoError(t, err)
	}
	s.ResetCalls()
	return s
}

func ids(children []taxonomy.Child) []string {
	out := make([]string, len(children))
	for i, c := range children {
		out[i] = c.ID
	}
	return out
}

func TestListPrimarySubtree(t *testing.T) {
	s := seed(t)
	w := walker.New(s)

	children, err := w.ListPrimarySubtree(context.Background(), subjectID)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "A1", "r2", "S", "r1", "B"}, ids(children))

	// The secondary topic is never opened.
	for _, c := range s.CallsTo("ListChildren") {
		assert.NotEqual(t, "S", c.Args[1])
	}
}

func TestListPrimarySubtreeError(t *testing.T) {
	s := seed(t)
	s.FailOn("ListChildren", errors.NewAPIError("taxonomy", 503, "unavailable"))

	_, err := walker.New(s).ListPrimarySubtree(context.Background(), subjectID)
	require.Error(t, err)
	assert.True(t, errors.IsUnavailable(err))
}

func TestDeleteAllContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	s := seed(t)
	log := logging.NewTestLogger(t)
	w := walker.New(s, walker.WithLogger(log.Logger))

	children, err := w.ListPrimarySubtree(ctx, subjectID)
	require.NoError(t, err)

	// r1 is already gone; its delete fails but the rest proceed.
	require.NoError(t, s.DeleteEntity(ctx, taxonomy.KindResource, "r1"))
	s.ResetCalls()

	report := w.DeleteAll(ctx, children)
	assert.Equal(t, 5, report.Deleted)
	require.Len(t, report.Failed, 1)
	assert.Equal(t, "r1", report.Failed[0].Child.ID)
	assert.Len(t, s.CallsTo("DeleteEntity"), 6)

	// Deepest first.
	first := s.CallsTo("DeleteEntity")[0]
	assert.Equal(t, []string{"topic", "B"}, first.Args)

	_, ok := s.Entity("A")
	assert.False(t, ok)
	_, ok = s.Entity("r3")
	assert.True(t, ok)
	log.AssertContains(t, "Delete failed")
}

func TestDeleteAllStopsOnCancel(t *testing.T) {
	s := seed(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report := walker.New(s).DeleteAll(ctx, []taxonomy.Child{{ID: "A", Kind: taxonomy.KindTopic}})
	assert.Zero(t, report.Deleted)
	assert.Len(t, report.Failed, 1)
	assert.Empty(t, s.CallsTo("DeleteEntity"))
}
