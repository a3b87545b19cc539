package memstore_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/taxonomy-import/internal/memstore"
	"github.com/agentstation/taxonomy-import/pkg/constants"
	"github.com/agentstation/taxonomy-import/pkg/errors"
	"github.com/agentstation/taxonomy-import/pkg/taxonomy"
)

func TestProbeCreateUpdate(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()

	res := s.ProbeEntity(ctx, taxonomy.KindTopic, "topic:1:5")
	assert.Equal(t, taxonomy.ProbeNotFound, res.Status)

	id, err := s.CreateEntity(ctx, taxonomy.KindTopic, "topic:1:5", "Algebra", "")
	require.NoError(t, err)
	assert.Equal(t, "topic:1:5", id)

	res = s.ProbeEntity(ctx, taxonomy.KindTopic, id)
	require.Equal(t, taxonomy.ProbeFound, res.Status)
	assert.Equal(t, "Algebra", res.Entity.Name)

	// Same id under another kind is not a match.
	res = s.ProbeEntity(ctx, taxonomy.KindResource, id)
	assert.Equal(t, taxonomy.ProbeNotFound, res.Status)

	require.NoError(t, s.UpdateEntity(ctx, taxonomy.KindTopic, id, "Algebra 1", "urn:article:1"))
	e, ok := s.Entity(id)
	require.True(t, ok)
	assert.Equal(t, "urn:article:1", e.ContentURI)

	_, err = s.CreateEntity(ctx, taxonomy.KindTopic, id, "dup", "")
	assert.Error(t, err)
}

func TestCreateEntityAssignsID(t *testing.T) {
	s := memstore.New()
	id, err := s.CreateEntity(context.Background(), taxonomy.KindResource, "", "R", "")
	require.NoError(t, err)
	assert.Contains(t, id, "urn:resource:")
}

func TestAssociationsAndChildren(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(
		memstore.WithEntity(taxonomy.KindSubject, taxonomy.RemoteEntity{ID: "urn:subject:1", Name: "S"}),
		memstore.WithEntity(taxonomy.KindTopic, taxonomy.RemoteEntity{ID: "t1", Name: "T1"}),
		memstore.WithEntity(taxonomy.KindTopic, taxonomy.RemoteEntity{ID: "t2", Name: "T2"}),
	)

	_, err := s.CreateAssociation(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic, "t2", 2, true)
	require.NoError(t, err)
	assocID, err := s.CreateAssociation(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic, "t1", 1, false)
	require.NoError(t, err)

	children, err := s.ListChildren(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic)
	require.NoError(t, err)
	require.Len(t, children, 2)
	assert.Equal(t, "T1", children[0].Name)
	assert.False(t, children[0].Primary)

	require.NoError(t, s.UpdateAssociation(ctx, taxonomy.KindSubject, taxonomy.KindTopic, assocID, 3, true))
	assocs, err := s.ListAssociations(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic)
	require.NoError(t, err)
	assert.Equal(t, "t2", assocs[0].ChildID)
	assert.Equal(t, "t1", assocs[1].ChildID)
	assert.True(t, assocs[1].Primary)

	_, err = s.CreateAssociation(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindResource, "t1", 1, true)
	assert.Error(t, err)

	require.NoError(t, s.DeleteEntity(ctx, taxonomy.KindTopic, "t1"))
	children, err = s.ListChildren(ctx, taxonomy.KindSubject, "urn:subject:1", taxonomy.KindTopic)
	require.NoError(t, err)
	assert.Len(t, children, 1)

	err = s.DeleteEntity(ctx, taxonomy.KindTopic, "t1")
	assert.True(t, errors.IsNotFound(err))
}

func TestResourceTypeLinks(t *testing.T) {
	ctx := context.Background()
	s := memstore.New(memstore.WithResourceTypeCatalog([]taxonomy.NamedRef{
		{ID: "urn:resourcetype:x", Name: "X"},
	}))

	require.NoError(t, s.AttachResourceType(ctx, taxonomy.KindResource, "r1", "urn:resourcetype:x"))
	attached, err := s.ListResourceTypes(ctx, taxonomy.KindResource, "r1")
	require.NoError(t, err)
	require.Len(t, attached, 1)
	assert.Equal(t, "X", attached[0].Name)

	require.NoError(t, s.DetachResourceType(ctx, taxonomy.KindResource, attached[0].ConnectionID))
	attached, err = s.ListResourceTypes(ctx, taxonomy.KindResource, "r1")
	require.NoError(t, err)
	assert.Empty(t, attached)

	assert.Error(t, s.AttachResourceType(ctx, taxonomy.KindResource, "r1", "urn:resourcetype:missing"))
}

func TestWellKnownRelevances(t *testing.T) {
	refs, err := memstore.New().Relevances(context.Background())
	require.NoError(t, err)
	require.Len(t, refs, 2)
	assert.Equal(t, constants.RelevanceCore, refs[0].ID)
}

func TestFailOnAndCallLog(t *testing.T) {
	ctx := context.Background()
	s := memstore.New()
	boom := errors.New("boom")

	s.FailOn("ProbeEntity", boom)
	res := s.ProbeEntity(ctx, taxonomy.KindTopic, "x")
	assert.Equal(t, taxonomy.ProbeError, res.Status)
	assert.ErrorIs(t, res.Err, boom)

	s.FailOn("ProbeEntity", nil)
	res = s.ProbeEntity(ctx, taxonomy.KindTopic, "x")
	assert.Equal(t, taxonomy.ProbeNotFound, res.Status)

	assert.Len(t, s.CallsTo("ProbeEntity"), 2)
	s.ResetCalls()
	assert.Empty(t, s.Calls())

	s.SetBatchMode(false)
	assert.False(t, s.BatchMode())
}
