package cache

import (
	"context"

	"github.com/emrgen/page/internal/model"
)

// PageCache keeps recently read pages close to the service.
type PageCache interface {
	// GetPage returns the cached page, or nil when it is not cached.
	GetPage(ctx context.Context, id string) (*model.Page, error)
	// SetPage caches a page.
	SetPage(ctx context.Context, page *model.Page) error
	// DeletePages evicts pages.
	DeletePages(ctx context.Context, ids ...string) error
}

var _ PageCache = NopPageCache{}

// NopPageCache never holds anything; used when no redis is configured.
type NopPageCache struct{}

func (NopPageCache) GetPage(ctx context.Context, id string) (*model.Page, error) {
	return nil, nil
}

func (NopPageCache) SetPage(ctx context.Context, page *model.Page) error {
	return nil
}

func (NopPageCache) DeletePages(ctx context.Context, ids ...string) error {
	return nil
}
