package store

import (
	"context"
	"sync"
	"testing"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/tester"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func createPage(t *testing.T, s *GormStore, workspaceID string, parentID *string) *model.Page {
	t.Helper()

	page := model.NewPage(workspaceID, uuid.New().String(), "page")
	page.ParentID = parentID
	page.DescriptionHTML = "<p>content</p>"
	require.NoError(t, s.CreatePage(context.TODO(), page))

	return page
}

func TestGormStore_DeletePageCascades(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()

	root := createPage(t, s, workspaceID, nil)
	child := createPage(t, s, workspaceID, &root.ID)
	grandChild := createPage(t, s, workspaceID, &child.ID)
	sibling := createPage(t, s, workspaceID, nil)

	require.NoError(t, s.CreatePageVersion(ctx, model.NewPageVersion(grandChild, grandChild.OwnedByID, grandChild.CreatedAt)))
	require.NoError(t, s.CreateProjectPage(ctx, &model.ProjectPage{WorkspaceID: workspaceID, ProjectID: uuid.New().String(), PageID: child.ID}))
	require.NoError(t, s.CreatePageLogs(ctx, &model.PageLog{WorkspaceID: workspaceID, PageID: root.ID, EntityName: model.EntityLink}))

	ids, err := s.DeletePage(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID, grandChild.ID}, ids)

	_, err = s.GetPage(ctx, grandChild.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	versions, err := s.ListPageVersions(ctx, grandChild.ID)
	require.NoError(t, err)
	assert.Empty(t, versions)

	logs, err := s.ListPageLogs(ctx, root.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)

	pages, err := s.ListPages(ctx, workspaceID)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, sibling.ID, pages[0].ID)

	_, err = s.DeletePage(ctx, root.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestGormStore_ErasePage(t *testing.T) {
	db := tester.TestDB(t)
	s := NewGormStore(db)
	ctx := context.TODO()
	workspaceID := uuid.New().String()

	root := createPage(t, s, workspaceID, nil)
	child := createPage(t, s, workspaceID, &root.ID)
	require.NoError(t, s.CreatePageBlock(ctx, model.NewPageBlock(workspaceID, uuid.New().String(), child.ID, "block")))

	// erasing also works on a page that was soft deleted first
	_, err := s.DeletePage(ctx, root.ID)
	require.NoError(t, err)

	ids, err := s.ErasePage(ctx, root.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{root.ID, child.ID}, ids)

	var count int64
	require.NoError(t, db.Unscoped().Model(&model.Page{}).Count(&count).Error)
	assert.Zero(t, count)
	require.NoError(t, db.Unscoped().Model(&model.PageBlock{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestGormStore_DeleteWorkspacePages(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	otherWorkspaceID := uuid.New().String()

	root := createPage(t, s, workspaceID, nil)
	createPage(t, s, workspaceID, &root.ID)
	createPage(t, s, otherWorkspaceID, nil)

	ids, err := s.DeleteWorkspacePages(ctx, workspaceID)
	require.NoError(t, err)
	assert.Len(t, ids, 2)

	pages, err := s.ListPages(ctx, otherWorkspaceID)
	require.NoError(t, err)
	assert.Len(t, pages, 1)
}

func TestGormStore_ProjectPageRecreate(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	projectID := uuid.New().String()
	page := createPage(t, s, workspaceID, nil)

	link := func() *model.ProjectPage {
		return &model.ProjectPage{WorkspaceID: workspaceID, ProjectID: projectID, PageID: page.ID}
	}

	require.NoError(t, s.CreateProjectPage(ctx, link()))
	assert.ErrorIs(t, s.CreateProjectPage(ctx, link()), gorm.ErrDuplicatedKey)

	require.NoError(t, s.DeleteProjectPage(ctx, projectID, page.ID))
	pages, err := s.ListProjectPages(ctx, projectID)
	require.NoError(t, err)
	assert.Empty(t, pages)

	require.NoError(t, s.CreateProjectPage(ctx, link()))
	pages, err = s.ListProjectPages(ctx, projectID)
	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, page.ID, pages[0].ID)

	assert.ErrorIs(t, s.DeleteProjectPage(ctx, uuid.New().String(), page.ID), gorm.ErrRecordNotFound)
}

func TestGormStore_Favorites(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	userID := uuid.New().String()
	page := createPage(t, s, workspaceID, nil)

	favorite := func() *model.PageFavorite {
		return &model.PageFavorite{
			ProjectBaseModel: model.ProjectBaseModel{WorkspaceID: workspaceID, ProjectID: uuid.New().String()},
			UserID:           userID,
			PageID:           page.ID,
		}
	}

	require.NoError(t, s.CreatePageFavorite(ctx, favorite()))
	require.NoError(t, s.DeletePageFavorite(ctx, userID, page.ID))
	require.NoError(t, s.CreatePageFavorite(ctx, favorite()))

	favorites, err := s.ListPageFavorites(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, favorites, 1)
}

func TestGormStore_CreatePageBlockConcurrently(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	projectID := uuid.New().String()
	page := createPage(t, s, workspaceID, nil)

	const n = 8
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.CreatePageBlock(ctx, model.NewPageBlock(workspaceID, projectID, page.ID, "block"))
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	blocks, err := s.ListPageBlocks(ctx, projectID, page.ID)
	require.NoError(t, err)
	require.Len(t, blocks, n)
	for i, block := range blocks {
		assert.Equal(t, model.DefaultSortOrder+float64(i)*model.SortOrderGap, block.SortOrder)
	}
}

func TestGormStore_Transaction(t *testing.T) {
	s := NewGormStore(tester.TestDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	page := createPage(t, s, workspaceID, nil)
	transaction := uuid.New().String()

	err := s.Transaction(ctx, func(tx Store) error {
		if err := tx.CreatePageLogs(ctx, &model.PageLog{WorkspaceID: workspaceID, PageID: page.ID, Transaction: transaction, EntityName: model.EntityFile}); err != nil {
			return err
		}
		// same (page, transaction): the whole batch rolls back
		return tx.CreatePageLogs(ctx, &model.PageLog{WorkspaceID: workspaceID, PageID: page.ID, Transaction: transaction, EntityName: model.EntityVideo})
	})
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	logs, err := s.ListPageLogs(ctx, page.ID)
	require.NoError(t, err)
	assert.Empty(t, logs)
}

func TestGormStore_PostgresPartialIndex(t *testing.T) {
	s := NewGormStore(tester.PostgresDB(t))
	ctx := context.TODO()
	workspaceID := uuid.New().String()
	teamID := uuid.New().String()
	page := createPage(t, s, workspaceID, nil)

	link := func() *model.TeamPage {
		return &model.TeamPage{WorkspaceID: workspaceID, TeamID: teamID, PageID: page.ID}
	}

	require.NoError(t, s.CreateTeamPage(ctx, link()))
	assert.ErrorIs(t, s.CreateTeamPage(ctx, link()), gorm.ErrDuplicatedKey)
	require.NoError(t, s.DeleteTeamPage(ctx, teamID, page.ID))
	assert.NoError(t, s.CreateTeamPage(ctx, link()))
}
