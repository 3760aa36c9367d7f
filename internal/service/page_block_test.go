package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/store"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStates struct {
	mu     sync.Mutex
	calls  []string
	result error
}

func (r *recordingStates) CompleteIssue(ctx context.Context, projectID, issueID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, projectID+"/"+issueID)
	return r.result
}

type blockFixture struct {
	blocks    *PageBlockService
	states    *recordingStates
	page      *model.Page
	projectID string
}

func newBlockFixture(t *testing.T) blockFixture {
	t.Helper()

	pages, s, _ := newPageService(t)
	states := &recordingStates{}

	return blockFixture{
		blocks:    NewPageBlockService(s, states),
		states:    states,
		page:      createPage(t, pages, uuid.New().String(), "<p>blocks</p>"),
		projectID: uuid.New().String(),
	}
}

func (f blockFixture) create(t *testing.T, name string) *model.PageBlock {
	t.Helper()

	block, err := f.blocks.CreateBlock(context.TODO(), CreateBlockRequest{
		WorkspaceID: f.page.WorkspaceID,
		ProjectID:   f.projectID,
		PageID:      f.page.ID,
		Name:        name,
	})
	require.NoError(t, err)

	return block
}

func (f blockFixture) order(t *testing.T) ([]string, []float64) {
	t.Helper()

	blocks, err := f.blocks.ListBlocks(context.TODO(), f.projectID, f.page.ID)
	require.NoError(t, err)

	var names []string
	var keys []float64
	for _, block := range blocks {
		names = append(names, block.Name)
		keys = append(keys, block.SortOrder)
	}

	return names, keys
}

func TestPageBlockService_CreateBlock(t *testing.T) {
	f := newBlockFixture(t)

	a := f.create(t, "a")
	b := f.create(t, "b")
	assert.Equal(t, model.DefaultSortOrder, a.SortOrder)
	assert.Equal(t, model.DefaultSortOrder+model.SortOrderGap, b.SortOrder)
	assert.Equal(t, model.DefaultDescriptionHTML, a.DescriptionHTML)
	assert.True(t, a.Sync)
	assert.Empty(t, f.states.calls)
}

func TestPageBlockService_MoveBlock(t *testing.T) {
	f := newBlockFixture(t)
	ctx := context.TODO()

	a := f.create(t, "a")
	b := f.create(t, "b")
	c := f.create(t, "c")

	moved, err := f.blocks.MoveBlock(ctx, c.ID, "")
	require.NoError(t, err)
	assert.Equal(t, a.SortOrder-model.SortOrderGap, moved.SortOrder)
	names, _ := f.order(t)
	assert.Equal(t, []string{"c", "a", "b"}, names)

	moved, err = f.blocks.MoveBlock(ctx, b.ID, c.ID)
	require.NoError(t, err)
	names, keys := f.order(t)
	assert.Equal(t, []string{"c", "b", "a"}, names)
	assert.Less(t, keys[0], moved.SortOrder)
	assert.Less(t, moved.SortOrder, keys[2])

	_, err = f.blocks.MoveBlock(ctx, c.ID, a.ID)
	require.NoError(t, err)
	names, _ = f.order(t)
	assert.Equal(t, []string{"b", "a", "c"}, names)

	other := newBlockFixture(t).create(t, "elsewhere")
	_, err = f.blocks.MoveBlock(ctx, a.ID, other.ID)
	assert.ErrorIs(t, err, ErrBlockNotInPage)
}

func TestPageBlockService_NoGapAndRenumber(t *testing.T) {
	f := newBlockFixture(t)
	ctx := context.TODO()

	a := f.create(t, "a")
	b := f.create(t, "b")
	c := f.create(t, "c")

	// squeeze b into a until no key is left between them
	var err error
	for i := 0; i < 200 && err == nil; i++ {
		_, err = f.blocks.MoveBlock(ctx, c.ID, a.ID)
		if err == nil {
			_, err = f.blocks.MoveBlock(ctx, b.ID, a.ID)
		}
	}
	assert.ErrorIs(t, err, ErrNoGap)

	before, _ := f.order(t)
	renumbered, err := f.blocks.RenumberBlocks(ctx, f.projectID, f.page.ID)
	require.NoError(t, err)
	require.Len(t, renumbered, 3)

	after, keys := f.order(t)
	assert.Equal(t, before, after)
	assert.Equal(t, []float64{65535, 75535, 85535}, keys)
}

func TestPageBlockService_CompletionSideEffect(t *testing.T) {
	f := newBlockFixture(t)
	ctx := context.TODO()
	issueID := uuid.New().String()
	now := time.Now()

	block, err := f.blocks.CreateBlock(ctx, CreateBlockRequest{
		WorkspaceID: f.page.WorkspaceID,
		ProjectID:   f.projectID,
		PageID:      f.page.ID,
		Name:        "done",
		IssueID:     &issueID,
		CompletedAt: &now,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{f.projectID + "/" + issueID}, f.states.calls)

	f.states.result = assert.AnError
	_, err = f.blocks.UpdateBlock(ctx, UpdateBlockRequest{ID: block.ID, Name: ptr("still done")})
	require.NoError(t, err)
	assert.Len(t, f.states.calls, 2)

	reopened, err := f.blocks.UpdateBlock(ctx, UpdateBlockRequest{ID: block.ID, Complete: ptr(false)})
	require.NoError(t, err)
	assert.Nil(t, reopened.CompletedAt)
	assert.Len(t, f.states.calls, 2)

	plain := f.create(t, "plain")
	_, err = f.blocks.UpdateBlock(ctx, UpdateBlockRequest{ID: plain.ID, Complete: ptr(true)})
	require.NoError(t, err)
	assert.Len(t, f.states.calls, 2)

	require.NoError(t, f.blocks.DeleteBlock(ctx, plain.ID))
	names, _ := f.order(t)
	assert.Equal(t, []string{"still done"}, names)
}

func TestPageBlockService_WithoutTaskStates(t *testing.T) {
	db := tester.TestDB(t)
	s := store.NewGormStore(db)
	pages := NewPageService(s, nil, nil)
	page := createPage(t, pages, uuid.New().String(), "<p>x</p>")
	now := time.Now()
	issueID := uuid.New().String()

	// no states table: the lookup fails and the save still succeeds
	for _, states := range []TaskStates{nil, NewGormTaskStates(db)} {
		_, err := NewPageBlockService(s, states).CreateBlock(context.TODO(), CreateBlockRequest{
			WorkspaceID: page.WorkspaceID,
			ProjectID:   uuid.New().String(),
			PageID:      page.ID,
			IssueID:     &issueID,
			CompletedAt: &now,
		})
		assert.NoError(t, err)
	}
}

func TestGormTaskStates_CompleteIssue(t *testing.T) {
	db := tester.TestDB(t)
	require.NoError(t, db.Exec(`CREATE TABLE states (id TEXT PRIMARY KEY, project_id TEXT, "group" TEXT, deleted_at DATETIME)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE issues (id TEXT PRIMARY KEY, project_id TEXT, state_id TEXT)`).Error)

	projectID := uuid.New().String()
	require.NoError(t, db.Exec(`INSERT INTO states (id, project_id, "group", deleted_at) VALUES
		('s1', ?, 'completed', CURRENT_TIMESTAMP),
		('s2', ?, 'completed', NULL),
		('s3', ?, 'started', NULL)`, projectID, projectID, projectID).Error)
	require.NoError(t, db.Exec(`INSERT INTO issues (id, project_id, state_id) VALUES ('i1', ?, 's3'), ('i2', ?, 's3')`, projectID, projectID).Error)

	states := NewGormTaskStates(db)
	require.NoError(t, states.CompleteIssue(context.TODO(), projectID, "i1"))

	stateOf := func(issueID string) string {
		var stateID string
		require.NoError(t, db.Raw(`SELECT state_id FROM issues WHERE id = ?`, issueID).Scan(&stateID).Error)
		return stateID
	}
	assert.Equal(t, "s2", stateOf("i1"))
	assert.Equal(t, "s3", stateOf("i2"))

	require.NoError(t, states.CompleteIssue(context.TODO(), uuid.New().String(), "i2"))
	assert.Equal(t, "s3", stateOf("i2"))
}
