package store

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/model"
)

type Store interface {
	PageStore
	PageVersionStore
	PageLogStore
	PageAssociationStore
	PageBlockStore
	Transaction(ctx context.Context, f func(tx Store) error) error
	Migrate() error
}

type PageStore interface {
	// CreatePage creates a new page.
	CreatePage(ctx context.Context, page *model.Page) error
	// GetPage retrieves a live page by ID.
	GetPage(ctx context.Context, id string) (*model.Page, error)
	// ListPages retrieves the live pages of a workspace, newest first.
	ListPages(ctx context.Context, workspaceID string) ([]*model.Page, error)
	// ListPagesFromIDs retrieves the live pages with the given IDs.
	ListPagesFromIDs(ctx context.Context, ids []string) ([]*model.Page, error)
	// ListChildPages retrieves the direct children of a page.
	ListChildPages(ctx context.Context, parentID string) ([]*model.Page, error)
	// ListPagesUpdatedSince retrieves pages updated or deleted at or after since.
	ListPagesUpdatedSince(ctx context.Context, since time.Time) ([]*model.Page, error)
	// UpdatePage writes every column of the page.
	UpdatePage(ctx context.Context, page *model.Page) error
	// DeletePage soft deletes a page, its descendants and every row that hangs off them.
	// It returns the IDs of the deleted pages.
	DeletePage(ctx context.Context, id string) ([]string, error)
	// ErasePage removes a page and its descendants for good.
	ErasePage(ctx context.Context, id string) ([]string, error)
	// DeleteWorkspacePages soft deletes every page of a workspace.
	DeleteWorkspacePages(ctx context.Context, workspaceID string) ([]string, error)
}

type PageVersionStore interface {
	// CreatePageVersion appends a version.
	CreatePageVersion(ctx context.Context, version *model.PageVersion) error
	// GetPageVersion retrieves a version of a page.
	GetPageVersion(ctx context.Context, pageID, versionID string) (*model.PageVersion, error)
	// ListPageVersions retrieves the versions of a page, latest save first.
	ListPageVersions(ctx context.Context, pageID string) ([]*model.PageVersion, error)
	// ListPageVersionsSavedBetween retrieves versions saved in [from, to), grouped by page, latest save first.
	ListPageVersionsSavedBetween(ctx context.Context, from, to time.Time) ([]*model.PageVersion, error)
	// DeletePageVersions removes the given versions.
	DeletePageVersions(ctx context.Context, ids []string) error
}

type PageLogStore interface {
	// CreatePageLogs appends log entries.
	CreatePageLogs(ctx context.Context, logs ...*model.PageLog) error
	// ListPageLogs retrieves the log of a page, newest first.
	ListPageLogs(ctx context.Context, pageID string) ([]*model.PageLog, error)
	// ListPageLogsByEntity retrieves the entries that point at an entity.
	ListPageLogsByEntity(ctx context.Context, name model.EntityName, entityID string) ([]*model.PageLog, error)
}

type PageAssociationStore interface {
	CreatePageLabel(ctx context.Context, label *model.PageLabel) error
	DeletePageLabel(ctx context.Context, labelID, pageID string) error
	ListPageLabels(ctx context.Context, pageID string) ([]*model.PageLabel, error)

	CreateProjectPage(ctx context.Context, link *model.ProjectPage) error
	DeleteProjectPage(ctx context.Context, projectID, pageID string) error
	// ListProjectPages retrieves the live pages linked into a project.
	ListProjectPages(ctx context.Context, projectID string) ([]*model.Page, error)

	CreateTeamPage(ctx context.Context, link *model.TeamPage) error
	DeleteTeamPage(ctx context.Context, teamID, pageID string) error
	// ListTeamPages retrieves the live pages linked to a team.
	ListTeamPages(ctx context.Context, teamID string) ([]*model.Page, error)

	CreatePageFavorite(ctx context.Context, favorite *model.PageFavorite) error
	DeletePageFavorite(ctx context.Context, userID, pageID string) error
	ListPageFavorites(ctx context.Context, userID string) ([]*model.PageFavorite, error)
}

type PageBlockStore interface {
	// CreatePageBlock creates a block after the last block of its project and page.
	CreatePageBlock(ctx context.Context, block *model.PageBlock) error
	GetPageBlock(ctx context.Context, id string) (*model.PageBlock, error)
	UpdatePageBlock(ctx context.Context, block *model.PageBlock) error
	// ListPageBlocks retrieves the blocks of a page in a project in sort order.
	ListPageBlocks(ctx context.Context, projectID, pageID string) ([]*model.PageBlock, error)
	DeletePageBlock(ctx context.Context, id string) error
}
