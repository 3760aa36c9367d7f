package service

import (
	"context"
	"time"

	"github.com/emrgen/page/internal/model"
	"github.com/emrgen/page/internal/store"
)

// PageVersionService snapshots page content and brings old snapshots back.
type PageVersionService struct {
	store store.Store
	pages *PageService
}

func NewPageVersionService(store store.Store, pages *PageService) *PageVersionService {
	return &PageVersionService{store: store, pages: pages}
}

// SaveVersion snapshots the current content of a page.
func (v *PageVersionService) SaveVersion(ctx context.Context, pageID, ownerID string) (*model.PageVersion, error) {
	page, err := v.store.GetPage(ctx, pageID)
	if err != nil {
		return nil, err
	}

	version := model.NewPageVersion(page, ownerID, time.Now())
	if err := v.store.CreatePageVersion(ctx, version); err != nil {
		return nil, err
	}

	return version, nil
}

// ListVersions lists the versions of a page, latest save first.
func (v *PageVersionService) ListVersions(ctx context.Context, pageID string) ([]*model.PageVersion, error) {
	return v.store.ListPageVersions(ctx, pageID)
}

func (v *PageVersionService) GetVersion(ctx context.Context, pageID, versionID string) (*model.PageVersion, error) {
	return v.store.GetPageVersion(ctx, pageID, versionID)
}

// RestoreVersion writes a version's content back into its page. The content being
// replaced is saved as a new version first, in the same transaction.
func (v *PageVersionService) RestoreVersion(ctx context.Context, pageID, versionID, ownerID string) (*model.Page, error) {
	var page *model.Page
	err := v.store.Transaction(ctx, func(tx store.Store) error {
		var err error
		page, err = tx.GetPage(ctx, pageID)
		if err != nil {
			return err
		}
		if page.IsLocked {
			return ErrPageLocked
		}

		version, err := tx.GetPageVersion(ctx, pageID, versionID)
		if err != nil {
			return err
		}

		if err := tx.CreatePageVersion(ctx, model.NewPageVersion(page, ownerID, time.Now())); err != nil {
			return err
		}

		page.DescriptionBinary = version.DescriptionBinary
		page.DescriptionHTML = version.DescriptionHTML
		page.Description = version.DescriptionJSON
		page.UpdatedByID = &ownerID

		return tx.UpdatePage(ctx, page)
	})
	if err != nil {
		return nil, err
	}

	v.pages.refresh(ctx, page)

	return page, nil
}
