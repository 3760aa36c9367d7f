package service

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/cache"
	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/search"
	"github.com/emrgen/page/internal/store"
	"github.com/sirupsen/logrus"
	"gorm.io/datatypes"
)

// NewPageService creates a new PageService. A nil cache or indexer disables that concern.
func NewPageService(store store.Store, pageCache cache.PageCache, indexer search.Indexer) *PageService {
	if pageCache == nil {
		pageCache = cache.NopPageCache{}
	}
	if indexer == nil {
		indexer = search.Nop{}
	}

	return &PageService{
		store:   store,
		cache:   pageCache,
		indexer: indexer,
	}
}

// PageService is a service for managing pages.
type PageService struct {
	store   store.Store
	cache   cache.PageCache
	indexer search.Indexer
}

type CreatePageRequest struct {
	ID                string
	WorkspaceID       string
	OwnerID           string
	Name              string
	Description       datatypes.JSON
	DescriptionBinary []byte
	// DescriptionHTML defaults to an empty paragraph.
	DescriptionHTML *string
	Access          model.Access
	Color           string
	ParentID        *string
	ViewProps       datatypes.JSON
	LogoProps       datatypes.JSON
	IsGlobal        bool
}

// CreatePage creates a new page.
func (p *PageService) CreatePage(ctx context.Context, request CreatePageRequest) (*model.Page, error) {
	if !request.Access.Valid() {
		return nil, ErrInvalidAccess
	}

	page := model.NewPage(request.WorkspaceID, request.OwnerID, request.Name)
	page.ID = request.ID
	if request.OwnerID != "" {
		page.CreatedByID = &request.OwnerID
	}
	page.Description = request.Description
	page.DescriptionBinary = request.DescriptionBinary
	if request.DescriptionHTML != nil {
		page.DescriptionHTML = *request.DescriptionHTML
	}
	page.Access = request.Access
	page.Color = request.Color
	page.ParentID = request.ParentID
	page.ViewProps = request.ViewProps
	page.LogoProps = request.LogoProps
	page.IsGlobal = request.IsGlobal

	if err := p.store.CreatePage(ctx, page); err != nil {
		return nil, err
	}
	p.index(page)

	return page, nil
}

// GetPage reads through the cache.
func (p *PageService) GetPage(ctx context.Context, id string) (*model.Page, error) {
	page, err := p.cache.GetPage(ctx, id)
	if err != nil {
		logrus.Warnf("error reading page %s from cache: %v", id, err)
	}
	if page != nil {
		return page, nil
	}

	page, err = p.store.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := p.cache.SetPage(ctx, page); err != nil {
		logrus.Warnf("error caching page %s: %v", id, err)
	}

	return page, nil
}

// ListPages lists the pages of a workspace that are archived or, with archived false, not archived.
func (p *PageService) ListPages(ctx context.Context, workspaceID string, archived bool) ([]*model.Page, error) {
	pages, err := p.store.ListPages(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	filtered := make([]*model.Page, 0, len(pages))
	for _, page := range pages {
		if page.Archived() == archived {
			filtered = append(filtered, page)
		}
	}

	return filtered, nil
}

func (p *PageService) ListChildPages(ctx context.Context, parentID string) ([]*model.Page, error) {
	return p.store.ListChildPages(ctx, parentID)
}

// UpdatePageRequest carries the fields to change; nil fields are left alone.
type UpdatePageRequest struct {
	ID                string
	UpdatedByID       *string
	Name              *string
	Description       datatypes.JSON
	DescriptionBinary []byte
	DescriptionHTML   *string
	Access            *model.Access
	Color             *string
	ParentID          *string
	ViewProps         datatypes.JSON
	LogoProps         datatypes.JSON

	// ClearParent moves the page to the workspace root; it wins over ParentID.
	ClearParent bool
}

// UpdatePage applies the request to an unlocked page.
func (p *PageService) UpdatePage(ctx context.Context, request UpdatePageRequest) (*model.Page, error) {
	if request.Access != nil && !request.Access.Valid() {
		return nil, ErrInvalidAccess
	}

	page, err := p.store.GetPage(ctx, request.ID)
	if err != nil {
		return nil, err
	}
	if page.IsLocked {
		return nil, ErrPageLocked
	}

	if request.Name != nil {
		page.Name = *request.Name
	}
	if request.Description != nil {
		page.Description = request.Description
	}
	if request.DescriptionBinary != nil {
		page.DescriptionBinary = request.DescriptionBinary
	}
	if request.DescriptionHTML != nil {
		page.DescriptionHTML = *request.DescriptionHTML
	}
	if request.Access != nil {
		page.Access = *request.Access
	}
	if request.Color != nil {
		page.Color = *request.Color
	}
	if request.ClearParent {
		page.ParentID = nil
	} else if request.ParentID != nil {
		page.ParentID = request.ParentID
	}
	if request.ViewProps != nil {
		page.ViewProps = request.ViewProps
	}
	if request.LogoProps != nil {
		page.LogoProps = request.LogoProps
	}
	page.UpdatedByID = request.UpdatedByID

	if err := p.save(ctx, page); err != nil {
		return nil, err
	}

	return page, nil
}

// ArchivePage stamps the page as archived; archived pages drop out of ListPages.
func (p *PageService) ArchivePage(ctx context.Context, id string) (*model.Page, error) {
	return p.modify(ctx, id, func(page *model.Page) {
		now := time.Now()
		page.ArchivedAt = &now
	})
}

func (p *PageService) RestorePage(ctx context.Context, id string) (*model.Page, error) {
	return p.modify(ctx, id, func(page *model.Page) {
		page.ArchivedAt = nil
	})
}

func (p *PageService) LockPage(ctx context.Context, id string) (*model.Page, error) {
	return p.modify(ctx, id, func(page *model.Page) {
		page.IsLocked = true
	})
}

func (p *PageService) UnlockPage(ctx context.Context, id string) (*model.Page, error) {
	return p.modify(ctx, id, func(page *model.Page) {
		page.IsLocked = false
	})
}

// DeletePage soft deletes the page with its subpages and returns their IDs.
func (p *PageService) DeletePage(ctx context.Context, id string) ([]string, error) {
	ids, err := p.store.DeletePage(ctx, id)
	if err != nil {
		return nil, err
	}
	p.forget(ctx, ids)

	return ids, nil
}

// DeleteWorkspacePages soft deletes every page of a workspace and returns their IDs.
func (p *PageService) DeleteWorkspacePages(ctx context.Context, workspaceID string) ([]string, error) {
	ids, err := p.store.DeleteWorkspacePages(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	p.forget(ctx, ids)

	return ids, nil
}

// ErasePage removes the page with its subpages for good, deleted or not.
func (p *PageService) ErasePage(ctx context.Context, id string) ([]string, error) {
	ids, err := p.store.ErasePage(ctx, id)
	if err != nil {
		return nil, err
	}
	p.forget(ctx, ids)

	return ids, nil
}

func (p *PageService) modify(ctx context.Context, id string, change func(page *model.Page)) (*model.Page, error) {
	page, err := p.store.GetPage(ctx, id)
	if err != nil {
		return nil, err
	}

	change(page)
	if err := p.save(ctx, page); err != nil {
		return nil, err
	}

	return page, nil
}

func (p *PageService) save(ctx context.Context, page *model.Page) error {
	if err := p.store.UpdatePage(ctx, page); err != nil {
		return err
	}
	p.refresh(ctx, page)

	return nil
}

// refresh evicts the cached copy and reindexes a page after a write.
func (p *PageService) refresh(ctx context.Context, page *model.Page) {
	if err := p.cache.DeletePages(ctx, page.ID); err != nil {
		logrus.Warnf("error evicting page %s from cache: %v", page.ID, err)
	}
	p.index(page)
}

func (p *PageService) index(page *model.Page) {
	if err := p.indexer.IndexPages(search.RecordFromPage(page)); err != nil {
		logrus.WithField("page_id", page.ID).Warnf("error indexing page: %v", err)
	}
}

func (p *PageService) forget(ctx context.Context, ids []string) {
	if err := p.cache.DeletePages(ctx, ids...); err != nil {
		logrus.Warnf("error evicting pages from cache: %v", err)
	}
	if err := p.indexer.DeletePages(ids...); err != nil {
		logrus.Warnf("error removing pages from search index: %v", err)
	}
}

// SearchPages runs a full-text query against the page index.
func (p *PageService) SearchPages(query search.Query) ([]search.Result, error) {
	return p.indexer.Search(query)
}
