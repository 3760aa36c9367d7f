package model_test

import (
	"testing"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPageLog_UniqueTransaction(t *testing.T) {
	db := tester.TestDB(t)
	page := newPage(t, db, "<p>log</p>")
	transaction := uuid.New().String()

	first := &model.PageLog{
		WorkspaceID: page.WorkspaceID,
		PageID:      page.ID,
		Transaction: transaction,
		EntityName:  model.EntityPageMention,
	}
	require.NoError(t, db.Create(first).Error)

	duplicate := &model.PageLog{
		WorkspaceID: page.WorkspaceID,
		PageID:      page.ID,
		Transaction: transaction,
		EntityName:  model.EntityUserMention,
	}
	assert.ErrorIs(t, db.Create(duplicate).Error, gorm.ErrDuplicatedKey)

	other := &model.PageLog{
		WorkspaceID: page.WorkspaceID,
		PageID:      page.ID,
		Transaction: uuid.New().String(),
		EntityName:  model.EntityUserMention,
	}
	assert.NoError(t, db.Create(other).Error)
}

func TestPageLog_GeneratesTransaction(t *testing.T) {
	db := tester.TestDB(t)
	page := newPage(t, db, "<p>log</p>")

	entry := &model.PageLog{
		WorkspaceID: page.WorkspaceID,
		PageID:      page.ID,
		EntityName:  model.EntityImage,
	}
	require.NoError(t, db.Create(entry).Error)
	_, err := uuid.Parse(entry.Transaction)
	assert.NoError(t, err)
}

func TestEntityName_Valid(t *testing.T) {
	assert.True(t, model.EntityBackLink.Valid())
	assert.True(t, model.EntityToDo.Valid())
	assert.False(t, model.EntityName("comment").Valid())
}
