package model_test

import (
	"testing"
	"time"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageBlock_SortOrder(t *testing.T) {
	db := tester.TestDB(t)
	page := newPage(t, db, "<p>blocks</p>")
	projectID := uuid.New().String()

	var orders []float64
	for i := 0; i < 4; i++ {
		block := model.NewPageBlock(page.WorkspaceID, projectID, page.ID, "block")
		require.NoError(t, db.Create(block).Error)
		orders = append(orders, block.SortOrder)
	}

	assert.Equal(t, []float64{65535, 75535, 85535, 95535}, orders)

	// a block in another project starts its own sequence
	other := model.NewPageBlock(page.WorkspaceID, uuid.New().String(), page.ID, "other")
	require.NoError(t, db.Create(other).Error)
	assert.Equal(t, model.DefaultSortOrder, other.SortOrder)
}

func TestPageBlock_SortOrderOnlyOnCreate(t *testing.T) {
	db := tester.TestDB(t)
	page := newPage(t, db, "<p>blocks</p>")
	projectID := uuid.New().String()

	first := model.NewPageBlock(page.WorkspaceID, projectID, page.ID, "first")
	require.NoError(t, db.Create(first).Error)
	second := model.NewPageBlock(page.WorkspaceID, projectID, page.ID, "second")
	require.NoError(t, db.Create(second).Error)

	first.SortOrder = 70000
	first.DescriptionHTML = "<p>moved</p>"
	require.NoError(t, db.Save(first).Error)

	var got model.PageBlock
	require.NoError(t, db.First(&got, "id = ?", first.ID).Error)
	assert.Equal(t, float64(70000), got.SortOrder)
	assert.Equal(t, "moved", *got.DescriptionStripped)
}

func TestPageBlock_Defaults(t *testing.T) {
	db := tester.TestDB(t)
	page := newPage(t, db, "<p>blocks</p>")

	block := model.NewPageBlock(page.WorkspaceID, uuid.New().String(), page.ID, "block")
	block.DescriptionHTML = ""
	require.NoError(t, db.Create(block).Error)

	var got model.PageBlock
	require.NoError(t, db.First(&got, "id = ?", block.ID).Error)
	assert.True(t, got.Sync)
	assert.Nil(t, got.DescriptionStripped)
	assert.JSONEq(t, `{}`, string(got.Description))
	assert.False(t, got.Completed())

	now := time.Now()
	issueID := uuid.New().String()
	got.CompletedAt = &now
	got.IssueID = &issueID
	assert.True(t, got.Completed())
}
