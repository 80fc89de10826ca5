package cache

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/draft-assistant/internal/draftstore"
	"github.com/jonathan/draft-assistant/internal/types"
)

var _ draftstore.SnapshotCache = (*Cache)(nil)

func openTestCache(t *testing.T) *Cache {
	t.Helper()
	c, err := Open(filepath.Join(t.TempDir(), "snapshots.db"))
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestCache_SaveAndLoadRoundTrip(t *testing.T) {
	c := openTestCache(t)
	userID := uuid.New()
	draft := types.NewDraft("Cached", "tmpl_modern", &types.JobLink{JobID: "42", Company: "Acme"})
	draft.Content.Skills = []string{"Go"}

	require.NoError(t, c.Save(userID, draftstore.Snapshot{
		Drafts:        []*types.Draft{draft},
		ActiveDraftID: draft.ID,
	}))

	snapshot, err := c.Load(userID)
	require.NoError(t, err)
	require.NotNil(t, snapshot)
	require.Len(t, snapshot.Drafts, 1)
	assert.Equal(t, draft.ID, snapshot.Drafts[0].ID)
	assert.Equal(t, []string{"Go"}, snapshot.Drafts[0].Content.Skills)
	assert.Equal(t, draft.ID, snapshot.ActiveDraftID)
}

func TestCache_LoadMissingUserReturnsNil(t *testing.T) {
	c := openTestCache(t)

	snapshot, err := c.Load(uuid.New())
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}

func TestCache_SaveOverwritesPreviousSnapshot(t *testing.T) {
	c := openTestCache(t)
	userID := uuid.New()

	first := types.NewDraft("first", "", nil)
	second := types.NewDraft("second", "", nil)

	require.NoError(t, c.Save(userID, draftstore.Snapshot{Drafts: []*types.Draft{first}, ActiveDraftID: first.ID}))
	require.NoError(t, c.Save(userID, draftstore.Snapshot{Drafts: []*types.Draft{second}, ActiveDraftID: second.ID}))

	snapshot, err := c.Load(userID)
	require.NoError(t, err)
	require.Len(t, snapshot.Drafts, 1)
	assert.Equal(t, "second", snapshot.Drafts[0].Name)
}

func TestCache_Clear(t *testing.T) {
	c := openTestCache(t)
	userID := uuid.New()
	draft := types.NewDraft("gone", "", nil)

	require.NoError(t, c.Save(userID, draftstore.Snapshot{Drafts: []*types.Draft{draft}, ActiveDraftID: draft.ID}))
	require.NoError(t, c.Clear(userID))

	snapshot, err := c.Load(userID)
	require.NoError(t, err)
	assert.Nil(t, snapshot)

	// Clearing an absent snapshot is safe.
	require.NoError(t, c.Clear(uuid.New()))
}

func TestCache_SnapshotsAreIsolatedPerUser(t *testing.T) {
	c := openTestCache(t)
	alice := uuid.New()
	bob := uuid.New()

	draft := types.NewDraft("alice draft", "", nil)
	require.NoError(t, c.Save(alice, draftstore.Snapshot{Drafts: []*types.Draft{draft}, ActiveDraftID: draft.ID}))

	snapshot, err := c.Load(bob)
	require.NoError(t, err)
	assert.Nil(t, snapshot)
}
